package repos

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/valuesip/internal/simulate"
)

// SeriesRepository loads and stores weekly valuation series
// ⭐ SSOT: 주간 시계열 저장/조회는 여기서만
type SeriesRepository struct {
	pool *pgxpool.Pool
}

// NewSeriesRepository creates a new series repository
func NewSeriesRepository(pool *pgxpool.Pool) *SeriesRepository {
	return &SeriesRepository{pool: pool}
}

// GetRange retrieves the weekly series for a symbol between two dates
// (inclusive), date-ascending. pe/pb NULL은 NaN(결측)으로 매핑된다.
func (r *SeriesRepository) GetRange(ctx context.Context, symbol string, from, to time.Time) (simulate.Series, error) {
	query := `
		SELECT week_date, price, pe, pb
		FROM market.weekly_valuations
		WHERE symbol = $1 AND week_date BETWEEN $2 AND $3
		ORDER BY week_date
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly valuations: %w", err)
	}
	defer rows.Close()

	var series simulate.Series
	for rows.Next() {
		var (
			date   time.Time
			price  float64
			pe, pb *float64
		)
		if err := rows.Scan(&date, &price, &pe, &pb); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		series = append(series, simulate.Point{
			Date:  date,
			Price: price,
			PE:    nullableFloat(pe),
			PB:    nullableFloat(pb),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return series, nil
}

// Latest retrieves the most recent valuation row for a symbol
func (r *SeriesRepository) Latest(ctx context.Context, symbol string) (simulate.Point, error) {
	query := `
		SELECT week_date, price, pe, pb
		FROM market.weekly_valuations
		WHERE symbol = $1
		ORDER BY week_date DESC
		LIMIT 1
	`

	var (
		p      simulate.Point
		pe, pb *float64
	)
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&p.Date, &p.Price, &pe, &pb)
	if err != nil {
		return simulate.Point{}, fmt.Errorf("failed to get latest valuation for %s: %w", symbol, err)
	}

	p.PE = nullableFloat(pe)
	p.PB = nullableFloat(pb)
	return p, nil
}

// Save upserts a full series for a symbol in one transaction
func (r *SeriesRepository) Save(ctx context.Context, symbol string, series simulate.Series) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO market.weekly_valuations (symbol, week_date, price, pe, pb)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, week_date) DO UPDATE SET
			price = EXCLUDED.price,
			pe = EXCLUDED.pe,
			pb = EXCLUDED.pb,
			updated_at = NOW()
	`

	for _, p := range series {
		_, err := tx.Exec(ctx, query, symbol, p.Date, p.Price,
			floatOrNull(p.PE), floatOrNull(p.PB))
		if err != nil {
			return fmt.Errorf("failed to save valuation for %s at %s: %w",
				symbol, p.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nullableFloat maps SQL NULL to NaN (시뮬레이터의 결측 표기)
func nullableFloat(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// floatOrNull maps NaN back to SQL NULL on write
func floatOrNull(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
