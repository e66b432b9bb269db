package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/internal/strategy"
)

// ResultRepository persists simulation outcomes and recommendation
// snapshots. 주간 레저(Weekly)는 저장하지 않는다. 요약만 기록하고
// 상세는 재실행으로 복원 가능.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new result repository
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveSIPResults saves one comparison run's summaries
func (r *ResultRepository) SaveSIPResults(ctx context.Context, symbol string, runAt time.Time, results map[string]*simulate.SIPResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sip.simulation_results (
			symbol, run_at, strategy_name,
			total_invested, current_value, units_held,
			absolute_return, absolute_return_pct, xirr, avg_buy_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol, run_at, strategy_name) DO UPDATE SET
			total_invested = EXCLUDED.total_invested,
			current_value = EXCLUDED.current_value,
			units_held = EXCLUDED.units_held,
			absolute_return = EXCLUDED.absolute_return,
			absolute_return_pct = EXCLUDED.absolute_return_pct,
			xirr = EXCLUDED.xirr,
			avg_buy_price = EXCLUDED.avg_buy_price
	`

	for name, res := range results {
		_, err := tx.Exec(ctx, query,
			symbol, runAt, name,
			res.TotalInvested, res.CurrentValue, res.UnitsHeld,
			res.AbsoluteReturn, res.AbsoluteReturnPct, res.XIRR, res.AvgBuyPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to save result for %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SaveBulletResult saves a deferred-capital simulation summary
func (r *ResultRepository) SaveBulletResult(ctx context.Context, symbol string, runAt time.Time, res *simulate.BulletResult) error {
	query := `
		INSERT INTO sip.bullet_results (
			symbol, run_at, strategy_name,
			total_accumulated, total_deployed, cash_remaining,
			current_value, units_held,
			absolute_return, absolute_return_pct, xirr, num_deployments
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (symbol, run_at, strategy_name) DO UPDATE SET
			total_accumulated = EXCLUDED.total_accumulated,
			total_deployed = EXCLUDED.total_deployed,
			cash_remaining = EXCLUDED.cash_remaining,
			current_value = EXCLUDED.current_value,
			units_held = EXCLUDED.units_held,
			absolute_return = EXCLUDED.absolute_return,
			absolute_return_pct = EXCLUDED.absolute_return_pct,
			xirr = EXCLUDED.xirr,
			num_deployments = EXCLUDED.num_deployments
	`

	_, err := r.pool.Exec(ctx, query,
		symbol, runAt, res.StrategyName,
		res.TotalAccumulated, res.TotalDeployed, res.CashRemaining,
		res.CurrentValue, res.UnitsHeld,
		res.AbsoluteReturn, res.AbsoluteReturnPct, res.XIRR, res.NumDeployments,
	)
	if err != nil {
		return fmt.Errorf("failed to save bullet result: %w", err)
	}

	return nil
}

// SaveRecommendations saves a per-strategy recommendation snapshot
// (스케줄러가 매주 호출)
func (r *ResultRepository) SaveRecommendations(ctx context.Context, symbol string, asOf time.Time, pe, pb float64, recs map[string]strategy.Recommendation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sip.recommendations (
			symbol, as_of, strategy_name,
			pe, pb, multiplier, investment, zone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, as_of, strategy_name) DO UPDATE SET
			pe = EXCLUDED.pe,
			pb = EXCLUDED.pb,
			multiplier = EXCLUDED.multiplier,
			investment = EXCLUDED.investment,
			zone = EXCLUDED.zone
	`

	for name, rec := range recs {
		_, err := tx.Exec(ctx, query,
			symbol, asOf, name,
			floatOrNull(pe), floatOrNull(pb),
			rec.Multiplier, rec.Investment, rec.Zone,
		)
		if err != nil {
			return fmt.Errorf("failed to save recommendation for %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LatestRecommendations retrieves the newest snapshot for a symbol
func (r *ResultRepository) LatestRecommendations(ctx context.Context, symbol string) (map[string]strategy.Recommendation, time.Time, error) {
	query := `
		SELECT strategy_name, multiplier, investment, zone, as_of
		FROM sip.recommendations
		WHERE symbol = $1
		  AND as_of = (SELECT MAX(as_of) FROM sip.recommendations WHERE symbol = $1)
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	recs := make(map[string]strategy.Recommendation)
	var asOf time.Time
	for rows.Next() {
		var (
			name string
			rec  strategy.Recommendation
		)
		if err := rows.Scan(&name, &rec.Multiplier, &rec.Investment, &rec.Zone, &asOf); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan row: %w", err)
		}
		recs[name] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return recs, asOf, nil
}
