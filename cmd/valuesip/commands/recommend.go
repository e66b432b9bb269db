package commands

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/pkg/config"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "현재 밸류에이션 기준 투자 배수 추천",
	Long: `현재 PE/PB 값을 모든 전략에 적용해 이번 주 투자 배수와
투자금을 추천합니다.

--pe를 생략하면 시계열 CSV의 마지막 행을 현재 값으로 사용합니다.

Flags:
  --pe     현재 PE (생략 시 CSV 마지막 행)
  --pb     현재 PB (선택)
  --base   주당 기본 투자금 (기본: SIP_BASE_AMOUNT)

Example:
  go run ./cmd/valuesip recommend --pe 21.5 --pb 2.8
  go run ./cmd/valuesip recommend --csv data/weekly.csv`,
	RunE: runRecommend,
}

var (
	recommendPE   float64
	recommendPB   float64
	recommendBase float64
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Float64Var(&recommendPE, "pe", 0, "현재 PE")
	recommendCmd.Flags().Float64Var(&recommendPB, "pb", 0, "현재 PB")
	recommendCmd.Flags().Float64Var(&recommendBase, "base", 0, "주당 기본 투자금")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pe, pb := recommendPE, recommendPB
	if pb == 0 {
		pb = math.NaN()
	}

	asOf := "flags"
	if pe == 0 {
		series, err := loadSeries(cfg)
		if err != nil {
			return fmt.Errorf("--pe not set and series unavailable: %w", err)
		}
		last := series[len(series)-1]
		pe, pb = last.PE, last.PB
		asOf = last.Date.Format("2006-01-02")
	}

	base := recommendBase
	if base == 0 {
		base = cfg.SIP.BaseAmount
	}

	strategies, err := loadStrategies(cfg)
	if err != nil {
		return err
	}

	recs := strategy.Recommend(pe, pb, base, strategies)

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Println("  Weekly Investment Recommendation")
	PrintSeparator()
	PrintKeyValue("As Of", asOf, 12)
	PrintKeyValue("PE", formatSignal(pe), 12)
	PrintKeyValue("PB", formatSignal(pb), 12)
	PrintKeyValue("Zone", strategy.PEZone(pe), 12)
	PrintKeyValue("Base Amount", formatMoney(base), 12)
	PrintDoubleSeparator()
	fmt.Println()

	// 배수 내림차순, 동률은 이름순
	names := make([]string, 0, len(recs))
	for name := range recs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if recs[names[i]].Multiplier != recs[names[j]].Multiplier {
			return recs[names[i]].Multiplier > recs[names[j]].Multiplier
		}
		return names[i] < names[j]
	})

	widths := []int{24, 6, 14}
	PrintTableHeader([]string{"Strategy", "Mult", "Investment"}, widths)
	for _, name := range names {
		rec := recs[name]
		PrintTableRow([]string{
			name,
			fmt.Sprintf("%.1fx", rec.Multiplier),
			formatMoney(rec.Investment),
		}, widths)
	}
	fmt.Println()

	return nil
}

func formatSignal(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
