package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/scheduler"
	"github.com/wonny/valuesip/internal/scheduler/jobs"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/database"
	"github.com/wonny/valuesip/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- weekly_recommendation: 매주 월요일 09:00 (추천 스냅샷 저장)

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  status  - 작업 실행 상태 조회

Example:
  go run ./cmd/valuesip scheduler start
  go run ./cmd/valuesip scheduler run weekly_recommendation`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "작업 실행 상태 조회",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

// initScheduler wires the scheduler with all jobs (DB 필수)
func initScheduler() (*scheduler.Scheduler, *logger.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	seriesRepo := repos.NewSeriesRepository(db.Pool)
	resultRepo := repos.NewResultRepository(db.Pool)

	sched := scheduler.New(log)
	recJob := jobs.NewRecommendationJob(seriesRepo, resultRepo, cfg, log)
	if err := sched.AddJob(recJob); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("add recommendation job: %w", err)
	}

	return sched, log, db.Close, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ValueSIP Scheduler ===")

	sched, log, cleanup, err := initScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler running")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  • %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Stopping scheduler...")
	sched.Stop()

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, _, cleanup, err := initScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("\n📋 Registered Jobs")
	PrintSeparator()
	for name, stats := range sched.GetJobStats() {
		fmt.Printf("  %s (%s)\n", name, stats.Schedule)
	}
	fmt.Println()

	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, _, cleanup, err := initScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("🚀 Running job %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	// RunJob은 비동기라 완료를 기다렸다가 결과를 출력한다
	for i := 0; i < 60; i++ {
		time.Sleep(1 * time.Second)
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return err
		}
		if last := history.Latest(); last != nil {
			if last.Success {
				PrintSuccess(fmt.Sprintf("Job %s completed in %.2fs", jobName, last.Duration.Seconds()))
			} else {
				PrintError(fmt.Sprintf("Job %s failed: %s", jobName, last.Error))
			}
			return nil
		}
	}

	PrintWarning("Job still running, check status later")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, _, cleanup, err := initScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("\n📊 Job Status")
	widths := []int{26, 16, 6, 8, 8, 20}
	PrintTableHeader([]string{"Job", "Schedule", "Runs", "OK", "Fail", "Last Run"}, widths)

	for _, stats := range sched.GetJobStats() {
		lastRun := "never"
		if stats.LastRun != nil {
			lastRun = stats.LastRun.Format("2006-01-02 15:04:05")
		}
		PrintTableRow([]string{
			stats.JobName,
			stats.Schedule,
			fmt.Sprintf("%d", stats.TotalRuns),
			fmt.Sprintf("%d", stats.SuccessCount),
			fmt.Sprintf("%d", stats.FailureCount),
			lastRun,
		}, widths)
	}
	fmt.Println()

	return nil
}
