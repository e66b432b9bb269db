package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/database"
	"github.com/wonny/valuesip/pkg/logger"
)

// bulletCmd represents the bullet command
var bulletCmd = &cobra.Command{
	Use:   "bullet",
	Short: "거치식(불릿) 전략 시뮬레이션",
	Long: `매주 현금을 적립만 하다가 밸류에이션이 임계값 아래로 내려오면
누적 현금의 일부를 집행하는 거치식 전략을 시뮬레이션합니다.

수익률은 실제 집행된 자본 기준으로 계산하고, 미집행 현금은
별도로 보고합니다.

Flags:
  --strategy       불릿 전략 이름 (생략 시 전체 비교)
  --accumulation   주간 적립금 (기본: SIP_WEEKLY_ACCUMULATION)
  --save           결과 요약을 DB에 저장 (--strategy 지정 시)
  --symbol         저장 시 사용할 심볼 (기본: SIP_SYMBOLS 첫 항목)

Example:
  go run ./cmd/valuesip bullet
  go run ./cmd/valuesip bullet --strategy "Moderate Bullet"
  go run ./cmd/valuesip bullet --strategy "Dual Conservative" --accumulation 500`,
	RunE: runBullet,
}

var (
	bulletStrategy     string
	bulletAccumulation float64
	bulletSave         bool
	bulletSymbol       string
)

func init() {
	rootCmd.AddCommand(bulletCmd)

	bulletCmd.Flags().StringVar(&bulletStrategy, "strategy", "", "불릿 전략 이름")
	bulletCmd.Flags().Float64Var(&bulletAccumulation, "accumulation", 0, "주간 적립금")
	bulletCmd.Flags().BoolVar(&bulletSave, "save", false, "결과 요약을 DB에 저장")
	bulletCmd.Flags().StringVar(&bulletSymbol, "symbol", "", "저장 시 사용할 심볼")
}

func runBullet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	accum := bulletAccumulation
	if accum == 0 {
		accum = cfg.SIP.WeeklyAccumulation
	}

	configs, err := bulletConfigs(cfg)
	if err != nil {
		return err
	}

	sim := simulate.New(log)

	if bulletStrategy != "" {
		for _, c := range configs {
			if c.Name == bulletStrategy {
				result, err := sim.Bullet(series, c, accum)
				if err != nil {
					return fmt.Errorf("simulation failed: %w", err)
				}
				printBulletResult(result)

				if bulletSave {
					return saveBulletResult(cmd.Context(), cfg, result)
				}
				return nil
			}
		}
		return fmt.Errorf("unknown bullet strategy %q", bulletStrategy)
	}

	// 전략 미지정 시 전체 비교
	results := make([]*simulate.BulletResult, 0, len(configs))
	for _, c := range configs {
		result, err := sim.Bullet(series, c, accum)
		if err != nil {
			return fmt.Errorf("simulation failed for %s: %w", c.Name, err)
		}
		results = append(results, result)
	}
	printBulletComparison(results)

	return nil
}

func saveBulletResult(ctx context.Context, cfg *config.Config, result *simulate.BulletResult) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("--save requires DATABASE_URL")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	symbol := bulletSymbol
	if symbol == "" && len(cfg.SIP.Symbols) > 0 {
		symbol = cfg.SIP.Symbols[0]
	}

	resultRepo := repos.NewResultRepository(db.Pool)
	if err := resultRepo.SaveBulletResult(ctx, symbol, time.Now(), result); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Saved bullet summary for %s", symbol))
	return nil
}

// bulletConfigs returns the built-in bullet catalog plus any
// user-defined configs
func bulletConfigs(cfg *config.Config) ([]*strategy.BulletConfig, error) {
	var configs []*strategy.BulletConfig
	configs = append(configs, strategy.BulletPresets()...)
	configs = append(configs, strategy.PBBulletPresets()...)
	configs = append(configs, strategy.CombinedBulletPresets()...)

	if cfg.SIP.CustomStrategyFile != "" {
		f, err := strategy.LoadFile(cfg.SIP.CustomStrategyFile)
		if err != nil {
			return nil, fmt.Errorf("load custom strategies: %w", err)
		}
		configs = append(configs, f.Bullets...)
	}

	return configs, nil
}

func printBulletResult(r *simulate.BulletResult) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", r.StrategyName)
	PrintSeparator()
	PrintKeyValue("Accumulated", formatMoney(r.TotalAccumulated), 16)
	PrintKeyValue("Deployed", formatMoney(r.TotalDeployed), 16)
	PrintKeyValue("Cash Remaining", formatMoney(r.CashRemaining), 16)
	PrintKeyValue("Current Value", formatMoney(r.CurrentValue), 16)
	PrintKeyValue("Return", fmt.Sprintf("%s (%s)",
		formatMoney(r.AbsoluteReturn), formatPct(r.AbsoluteReturnPct)), 16)
	PrintKeyValue("XIRR", formatPct(r.XIRR), 16)
	PrintKeyValue("Deployments", fmt.Sprintf("%d", r.NumDeployments), 16)
	PrintDoubleSeparator()

	if r.NumDeployments == 0 {
		PrintWarning("No deployments: signal never crossed the thresholds")
		fmt.Println()
		return
	}

	fmt.Println("💥 Deployments")
	widths := []int{12, 10, 8, 16, 12, 14}
	PrintTableHeader([]string{"Date", "Price", "PE", "Level", "Amount", "Cash Left"}, widths)
	for _, d := range r.Deployments {
		PrintTableRow([]string{
			d.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", d.Price),
			fmt.Sprintf("%.1f", float64(d.PE)),
			d.Level,
			formatMoney(d.Amount),
			formatMoney(d.CashRemaining),
		}, widths)
	}
	fmt.Println()
}

func printBulletComparison(results []*simulate.BulletResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].AbsoluteReturnPct > results[j].AbsoluteReturnPct
	})

	fmt.Println()
	widths := []int{4, 24, 14, 14, 10, 10, 6}
	PrintTableHeader([]string{"Rank", "Strategy", "Deployed", "Cash Left", "Return", "XIRR", "Shots"}, widths)

	for i, r := range results {
		PrintTableRow([]string{
			fmt.Sprintf("%d", i+1),
			r.StrategyName,
			formatMoney(r.TotalDeployed),
			formatMoney(r.CashRemaining),
			formatPct(r.AbsoluteReturnPct),
			formatPct(r.XIRR),
			fmt.Sprintf("%d", r.NumDeployments),
		}, widths)
	}
	fmt.Println()
}
