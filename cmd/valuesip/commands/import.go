package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/database"
	"github.com/wonny/valuesip/pkg/logger"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "CSV 시계열을 DB로 적재",
	Long: `주간 밸류에이션 CSV를 검증한 뒤 DB에 업서트합니다.
API 서버와 스케줄러가 이 테이블을 읽습니다.

Flags:
  --symbol   적재할 심볼 (필수)

Example:
  go run ./cmd/valuesip import --symbol QQQ --csv data/weekly.csv`,
	RunE: runImport,
}

var importSymbol string

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importSymbol, "symbol", "", "적재할 심볼 (필수)")
	importCmd.MarkFlagRequired("symbol")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	if cfg.Database.URL == "" {
		return fmt.Errorf("import requires DATABASE_URL")
	}

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	seriesRepo := repos.NewSeriesRepository(db.Pool)
	if err := seriesRepo.Save(cmd.Context(), importSymbol, series); err != nil {
		return fmt.Errorf("save series: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"symbol": importSymbol,
		"rows":   len(series),
	}).Info("Series imported")

	PrintSuccess(fmt.Sprintf("Imported %d weekly rows for %s (%s ~ %s)",
		len(series), importSymbol,
		series[0].Date.Format("2006-01-02"),
		series[len(series)-1].Date.Format("2006-01-02")))
	return nil
}
