package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/database"
	"github.com/wonny/valuesip/pkg/logger"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "전체 전략 비교 시뮬레이션",
	Long: `모든 전략(프리셋 + 사용자 정의)을 같은 시계열로 병렬 실행하고
수익률 순으로 비교 테이블을 출력합니다.

Flags:
  --base     주당 기본 투자금 (기본: SIP_BASE_AMOUNT)
  --top      상위 N개만 출력 (기본: 전체)
  --save     결과 요약을 DB에 저장 (DATABASE_URL 필요)
  --symbol   저장 시 사용할 심볼 (기본: SIP_SYMBOLS 첫 항목)

Example:
  go run ./cmd/valuesip compare
  go run ./cmd/valuesip compare --csv data/weekly.csv --top 10
  go run ./cmd/valuesip compare --save --symbol QQQ`,
	RunE: runCompare,
}

var (
	compareBase   float64
	compareTop    int
	compareSave   bool
	compareSymbol string
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Float64Var(&compareBase, "base", 0, "주당 기본 투자금")
	compareCmd.Flags().IntVar(&compareTop, "top", 0, "상위 N개만 출력")
	compareCmd.Flags().BoolVar(&compareSave, "save", false, "결과 요약을 DB에 저장")
	compareCmd.Flags().StringVar(&compareSymbol, "symbol", "", "저장 시 사용할 심볼")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	strategies, err := loadStrategies(cfg)
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	base := compareBase
	if base == 0 {
		base = cfg.SIP.BaseAmount
	}

	fmt.Println()
	fmt.Printf("🚀 Comparing %d strategies over %d weeks\n", len(strategies), len(series))

	results, err := simulate.New(log).Compare(cmd.Context(), series, strategies, base)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	printComparison(results)

	if compareSave {
		if err := saveComparison(cmd.Context(), cfg, results); err != nil {
			return err
		}
	}
	return nil
}

func saveComparison(ctx context.Context, cfg *config.Config, results map[string]*simulate.SIPResult) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("--save requires DATABASE_URL")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	symbol := compareSymbol
	if symbol == "" && len(cfg.SIP.Symbols) > 0 {
		symbol = cfg.SIP.Symbols[0]
	}

	resultRepo := repos.NewResultRepository(db.Pool)
	if err := resultRepo.SaveSIPResults(ctx, symbol, time.Now(), results); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Saved %d result summaries for %s", len(results), symbol))
	return nil
}

func printComparison(results map[string]*simulate.SIPResult) {
	sorted := make([]*simulate.SIPResult, 0, len(results))
	for _, r := range results {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AbsoluteReturnPct > sorted[j].AbsoluteReturnPct
	})

	if compareTop > 0 && compareTop < len(sorted) {
		sorted = sorted[:compareTop]
	}

	fmt.Println()
	widths := []int{4, 24, 14, 14, 10, 10, 10}
	PrintTableHeader([]string{"Rank", "Strategy", "Invested", "Value", "Return", "XIRR", "AvgPrice"}, widths)

	for i, r := range sorted {
		PrintTableRow([]string{
			fmt.Sprintf("%d", i+1),
			r.StrategyName,
			formatMoney(r.TotalInvested),
			formatMoney(r.CurrentValue),
			formatPct(r.AbsoluteReturnPct),
			formatPct(r.XIRR),
			fmt.Sprintf("%.2f", r.AvgBuyPrice),
		}, widths)
	}

	fmt.Println()
	if len(sorted) > 0 {
		best := sorted[0]
		PrintSuccess(fmt.Sprintf("Best: %s (%s total, %s XIRR)",
			best.StrategyName, formatPct(best.AbsoluteReturnPct), formatPct(best.XIRR)))
	}
	fmt.Println()
}
