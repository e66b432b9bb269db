package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/data"
	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/pkg/config"
)

var (
	// Global flags
	seriesCSV string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "valuesip",
	Short: "ValueSIP - 밸류에이션 기반 정기 적립 전략 엔진",
	Long: `ValueSIP Unified CLI

PE/PB 밸류에이션 티어 기반 주간 적립(SIP) 전략을 과거 시계열로
시뮬레이션하고, 현재 밸류에이션에 맞는 투자 배수를 추천합니다.

Usage:
  go run ./cmd/valuesip [command]

Examples:
  go run ./cmd/valuesip compare --csv data/weekly.csv
  go run ./cmd/valuesip simulate --strategy Opportunistic
  go run ./cmd/valuesip bullet --strategy "Moderate Bullet"
  go run ./cmd/valuesip recommend --pe 21.5 --pb 2.8
  go run ./cmd/valuesip api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&seriesCSV, "csv", "", "주간 시계열 CSV 경로 (기본: SIP_SERIES_CSV)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadSeries reads the weekly series from the --csv flag or the
// configured default path
func loadSeries(cfg *config.Config) (simulate.Series, error) {
	path := seriesCSV
	if path == "" {
		path = cfg.SIP.SeriesCSV
	}

	series, err := data.LoadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}
	return series, nil
}

// loadStrategies returns the built-in catalog plus any user-defined
// strategies from SIP_CUSTOM_STRATEGIES
func loadStrategies(cfg *config.Config) ([]*strategy.Strategy, error) {
	strategies := strategy.AllPresets()

	if cfg.SIP.CustomStrategyFile != "" {
		f, err := strategy.LoadFile(cfg.SIP.CustomStrategyFile)
		if err != nil {
			return nil, fmt.Errorf("load custom strategies: %w", err)
		}
		strategies = append(strategies, f.Strategies...)
	}

	return strategies, nil
}

// findStrategy resolves a strategy name against presets and the custom
// strategy file
func findStrategy(cfg *config.Config, name string) (*strategy.Strategy, error) {
	strategies, err := loadStrategies(cfg)
	if err != nil {
		return nil, err
	}

	for _, s := range strategies {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown strategy %q (run 'valuesip strategies' for the catalog)", name)
}
