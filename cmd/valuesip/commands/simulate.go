package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/logger"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "단일 전략 SIP 시뮬레이션",
	Long: `하나의 전략으로 주간 적립 시뮬레이션을 실행합니다.

매주 기본 투자금 × 전략 배수만큼 매수하고, 최종 수익률과
연환산 수익률(XIRR)을 계산합니다.

Flags:
  --strategy   전략 이름 (필수, 프리셋 또는 사용자 정의)
  --base       주당 기본 투자금 (기본: SIP_BASE_AMOUNT)
  --ledger     주간 상세 내역 출력

Example:
  go run ./cmd/valuesip simulate --strategy Opportunistic
  go run ./cmd/valuesip simulate --strategy "Dual Value" --base 20000
  go run ./cmd/valuesip simulate --strategy Hardcore --ledger`,
	RunE: runSimulate,
}

var (
	simulateStrategy string
	simulateBase     float64
	simulateLedger   bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simulateStrategy, "strategy", "", "전략 이름 (필수)")
	simulateCmd.Flags().Float64Var(&simulateBase, "base", 0, "주당 기본 투자금")
	simulateCmd.Flags().BoolVar(&simulateLedger, "ledger", false, "주간 상세 내역 출력")

	simulateCmd.MarkFlagRequired("strategy")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	strat, err := findStrategy(cfg, simulateStrategy)
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	base := simulateBase
	if base == 0 {
		base = cfg.SIP.BaseAmount
	}

	result, err := simulate.New(log).SIP(series, strat, base)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printSIPResult(result, series, base)

	if simulateLedger {
		printLedger(result)
	}

	return nil
}

func printSIPResult(r *simulate.SIPResult, series simulate.Series, base float64) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", r.StrategyName)
	PrintSeparator()
	PrintKeyValue("Period", fmt.Sprintf("%s ~ %s (%d weeks)",
		series[0].Date.Format("2006-01-02"),
		series[len(series)-1].Date.Format("2006-01-02"),
		len(r.Weekly)), 16)
	PrintKeyValue("Base Amount", formatMoney(base), 16)
	PrintSeparator()

	PrintKeyValue("Total Invested", formatMoney(r.TotalInvested), 16)
	PrintKeyValue("Current Value", formatMoney(r.CurrentValue), 16)
	PrintKeyValue("Return", fmt.Sprintf("%s (%s)",
		formatMoney(r.AbsoluteReturn), formatPct(r.AbsoluteReturnPct)), 16)
	PrintKeyValue("XIRR", formatPct(r.XIRR), 16)
	PrintKeyValue("Units Held", fmt.Sprintf("%.4f", r.UnitsHeld), 16)
	PrintKeyValue("Avg Buy Price", fmt.Sprintf("%.2f", r.AvgBuyPrice), 16)
	PrintSeparator()

	// 배수 사용 분포
	PrintKeyValue("Weeks <1x", fmt.Sprintf("%d", r.WeeksBelow1x), 16)
	PrintKeyValue("Weeks 1x", fmt.Sprintf("%d", r.WeeksAt1x), 16)
	PrintKeyValue("Weeks 2x", fmt.Sprintf("%d", r.WeeksAt2x), 16)
	PrintKeyValue("Weeks 3x", fmt.Sprintf("%d", r.WeeksAt3x), 16)
	PrintKeyValue("Weeks 4x+", fmt.Sprintf("%d", r.WeeksAt4xPlus), 16)
	PrintDoubleSeparator()

	if r.AbsoluteReturnPct >= 0 {
		PrintSuccess(fmt.Sprintf("%s: %s total return", r.StrategyName, formatPct(r.AbsoluteReturnPct)))
	} else {
		PrintWarning(fmt.Sprintf("%s: %s total return", r.StrategyName, formatPct(r.AbsoluteReturnPct)))
	}
	fmt.Println()
}

func printLedger(r *simulate.SIPResult) {
	fmt.Println("📋 Weekly Ledger")
	widths := []int{12, 10, 8, 6, 12, 14, 14}
	PrintTableHeader([]string{"Date", "Price", "PE", "Mult", "Invested", "Cum.Invested", "Value"}, widths)

	for _, w := range r.Weekly {
		PrintTableRow([]string{
			w.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", w.Price),
			fmt.Sprintf("%.1f", float64(w.PE)),
			fmt.Sprintf("%.1fx", w.Multiplier),
			formatMoney(w.Investment),
			formatMoney(w.CumulativeInvested),
			formatMoney(w.PortfolioValue),
		}, widths)
	}
	fmt.Println()
}
