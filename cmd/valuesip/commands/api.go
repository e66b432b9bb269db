package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/api"
	"github.com/wonny/valuesip/internal/api/handlers"
	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/database"
	"github.com/wonny/valuesip/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

DATABASE_URL이 설정되어 있으면 저장된 심볼 시계열을 조회할 수 있고,
없으면 인라인 시계열 요청만 처리합니다.

Endpoints:
  GET  /health             - Health check
  GET  /api/strategies     - 전략 카탈로그
  GET  /api/recommend      - 현재 밸류에이션 추천
  GET  /api/recommendations - 저장된 최신 추천 스냅샷
  POST /api/simulate       - SIP 시뮬레이션
  POST /api/bullet         - 불릿 시뮬레이션
  POST /api/compare        - 전략 비교

Example:
  go run ./cmd/valuesip api
  go run ./cmd/valuesip api --port 8098`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ValueSIP API Server ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// DB는 선택 사항: 없으면 저장 시계열 엔드포인트만 비활성
	var (
		seriesRepo *repos.SeriesRepository
		resultRepo *repos.ResultRepository
	)
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		seriesRepo = repos.NewSeriesRepository(db.Pool)
		resultRepo = repos.NewResultRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, stored series endpoints disabled")
	}

	sim := simulate.New(log)
	simHandler := handlers.NewSimulateHandler(sim, seriesRepo, cfg, log)
	stratHandler := handlers.NewStrategyHandler(seriesRepo, resultRepo, cfg, log)

	router := api.NewRouter(simHandler, stratHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/strategies")
	fmt.Println("  GET  /api/recommend")
	fmt.Println("  GET  /api/recommendations")
	fmt.Println("  POST /api/simulate")
	fmt.Println("  POST /api/bullet")
	fmt.Println("  POST /api/compare")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
