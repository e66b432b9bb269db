package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/logger"
)

// RecommendationJob snapshots the current per-strategy recommendation
// for every configured symbol. 주초에 한 번 실행해 그 주의 투자 배수를
// 기록으로 남긴다.
type RecommendationJob struct {
	seriesRepo *repos.SeriesRepository
	resultRepo *repos.ResultRepository
	config     *config.Config
	logger     *logger.Logger
}

// NewRecommendationJob creates a new recommendation snapshot job
func NewRecommendationJob(
	seriesRepo *repos.SeriesRepository,
	resultRepo *repos.ResultRepository,
	cfg *config.Config,
	log *logger.Logger,
) *RecommendationJob {
	return &RecommendationJob{
		seriesRepo: seriesRepo,
		resultRepo: resultRepo,
		config:     cfg,
		logger:     log,
	}
}

// Name returns the job name
func (j *RecommendationJob) Name() string {
	return "weekly_recommendation"
}

// Schedule returns the cron schedule expression
func (j *RecommendationJob) Schedule() string {
	return j.config.Scheduler.RecommendSchedule
}

// Run evaluates all built-in strategies at each symbol's latest
// valuation and persists the snapshot
func (j *RecommendationJob) Run(ctx context.Context) error {
	strategies := strategy.AllPresets()
	asOf := time.Now()

	for _, symbol := range j.config.SIP.Symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		latest, err := j.seriesRepo.Latest(ctx, symbol)
		if err != nil {
			return fmt.Errorf("latest valuation for %s: %w", symbol, err)
		}

		recs := strategy.Recommend(latest.PE, latest.PB, j.config.SIP.BaseAmount, strategies)

		if err := j.resultRepo.SaveRecommendations(ctx, symbol, asOf, latest.PE, latest.PB, recs); err != nil {
			return fmt.Errorf("save recommendations for %s: %w", symbol, err)
		}

		j.logger.WithFields(map[string]interface{}{
			"symbol":     symbol,
			"week_date":  latest.Date.Format("2006-01-02"),
			"strategies": len(recs),
			"zone":       strategy.PEZone(latest.PE),
		}).Info("Recommendation snapshot saved")
	}

	return nil
}
