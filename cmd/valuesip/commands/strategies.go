package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/pkg/config"
)

// strategiesCmd represents the strategies command
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "전략 카탈로그 출력",
	Long: `내장 프리셋과 사용자 정의 전략 목록을 출력합니다.

Example:
  go run ./cmd/valuesip strategies`,
	RunE: listStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func listStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	strategies, err := loadStrategies(cfg)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("📚 SIP Strategies (%d)\n", len(strategies))
	PrintSeparator()
	for _, s := range strategies {
		fmt.Printf("  %-24s %s\n", s.Name, s.Description)
		if verbose {
			fmt.Printf("     %s\n", s)
		}
	}

	configs, err := bulletConfigs(cfg)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("🎯 Bullet Strategies (%d)\n", len(configs))
	PrintSeparator()
	for _, c := range configs {
		fmt.Printf("  %-24s %s\n", c.Name, c.Description)
	}
	fmt.Println()

	return nil
}
