package simulate

import (
	"math"
	"time"

	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/internal/xirr"
)

// Deployment is one threshold-triggered tranche
type Deployment struct {
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	PE            Metric    `json:"pe"`
	PB            Metric    `json:"pb"`
	Level         string    `json:"level"` // cheap | very_cheap | extremely_cheap
	Amount        float64   `json:"amount"`
	Pct           float64   `json:"pct"`
	UnitsBought   float64   `json:"units_bought"`
	CashRemaining float64   `json:"cash_remaining"`
}

// BulletWeeklyRecord is one row of the bullet per-period ledger
type BulletWeeklyRecord struct {
	Date               time.Time `json:"date"`
	Price              float64   `json:"price"`
	PE                 Metric    `json:"pe"`
	PB                 Metric    `json:"pb"`
	Accumulated        float64   `json:"accumulated"`
	Deployed           float64   `json:"deployed"`
	UnitsBought        float64   `json:"units_bought"`
	CashBalance        float64   `json:"cash_balance"`
	CumulativeDeployed float64   `json:"cumulative_deployed"`
	CumulativeUnits    float64   `json:"cumulative_units"`
	PortfolioValue     float64   `json:"portfolio_value"`
}

// BulletResult holds the outcome of a deferred-capital simulation.
// 수익률은 실제 집행된 자본 기준이며, 미집행 현금은 CashRemaining으로
// 따로 보고된다 (수익률 분모에서 명시적으로 제외).
type BulletResult struct {
	StrategyName      string  `json:"strategy_name"`
	TotalAccumulated  float64 `json:"total_accumulated"`
	TotalDeployed     float64 `json:"total_deployed"`
	CashRemaining     float64 `json:"cash_remaining"`
	CurrentValue      float64 `json:"current_value"`
	UnitsHeld         float64 `json:"units_held"`
	AbsoluteReturn    float64 `json:"absolute_return"`
	AbsoluteReturnPct float64 `json:"absolute_return_pct"`
	XIRR              float64 `json:"xirr"` // percent
	NumDeployments    int     `json:"num_deployments"`

	Deployments []Deployment         `json:"deployments,omitempty"`
	Weekly      []BulletWeeklyRecord `json:"weekly,omitempty"`
}

// Bullet simulates a deferred-capital deployment strategy: cash is
// accumulated every period and deployed in tranches when the signal
// crosses the configured thresholds.
//
// Thresholds are evaluated most-extreme first and a period makes at
// most one deployment decision. Rows with non-finite or non-positive
// price/signal accumulate nothing and never deploy. A run with zero
// deployments returns a zero-return result, not an error.
func (s *Simulator) Bullet(series Series, cfg *strategy.BulletConfig, weeklyAccumulation float64) (*BulletResult, error) {
	if weeklyAccumulation <= 0 || math.IsNaN(weeklyAccumulation) || math.IsInf(weeklyAccumulation, 0) {
		return nil, InputError{"weekly_accumulation", "must be > 0"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, InputError{"config", err.Error()}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	result := &BulletResult{
		StrategyName: cfg.Name,
		Weekly:       make([]BulletWeeklyRecord, 0, len(series)),
	}

	var (
		cash       float64
		totalUnits float64
		cashflows  []xirr.Cashflow
		lastPrice  float64
		lastDate   time.Time
	)

	for _, p := range series {
		if !usableRow(cfg, p) {
			continue
		}

		// 매주 현금 적립
		cash += weeklyAccumulation
		result.TotalAccumulated += weeklyAccumulation

		var (
			deployAmount float64
			deployUnits  float64
		)

		if pct, level, ok := deploymentLevel(cfg, p); ok {
			deployAmount = cash * (pct / 100)
			if deployAmount > 0 {
				deployUnits = deployAmount / p.Price
				totalUnits += deployUnits
				result.TotalDeployed += deployAmount
				cash -= deployAmount

				cashflows = append(cashflows, xirr.Cashflow{Date: p.Date, Amount: -deployAmount})
				result.Deployments = append(result.Deployments, Deployment{
					Date:          p.Date,
					Price:         p.Price,
					PE:            Metric(p.PE),
					PB:            Metric(p.PB),
					Level:         level,
					Amount:        deployAmount,
					Pct:           pct,
					UnitsBought:   deployUnits,
					CashRemaining: cash,
				})
			}
		}

		result.Weekly = append(result.Weekly, BulletWeeklyRecord{
			Date:               p.Date,
			Price:              p.Price,
			PE:                 Metric(p.PE),
			PB:                 Metric(p.PB),
			Accumulated:        weeklyAccumulation,
			Deployed:           deployAmount,
			UnitsBought:        deployUnits,
			CashBalance:        cash,
			CumulativeDeployed: result.TotalDeployed,
			CumulativeUnits:    totalUnits,
			PortfolioValue:     totalUnits * p.Price,
		})

		lastPrice = p.Price
		lastDate = p.Date
	}

	result.CashRemaining = cash
	result.UnitsHeld = totalUnits
	result.NumDeployments = len(result.Deployments)

	// 집행이 한 번도 없으면 0 수익 결과 (실패 아님)
	if totalUnits == 0 || len(result.Weekly) == 0 {
		return result, nil
	}

	result.CurrentValue = totalUnits * lastPrice
	result.AbsoluteReturn = result.CurrentValue - result.TotalDeployed
	if result.TotalDeployed > 0 {
		result.AbsoluteReturnPct = result.AbsoluteReturn / result.TotalDeployed * 100
	}

	cashflows = append(cashflows, xirr.Cashflow{Date: lastDate, Amount: result.CurrentValue})
	result.XIRR = xirr.Solve(cashflows) * 100

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"strategy":    cfg.Name,
			"deployments": result.NumDeployments,
			"deployed":    result.TotalDeployed,
			"cash_left":   result.CashRemaining,
		}).Debug("Bullet simulation completed")
	}

	return result, nil
}

// usableRow reports whether a period has the finite, positive inputs
// the bullet simulator needs. 결합 설정에서 PB 결측은 행 자체는
// 유효하되 집행이 일어나지 않는 경우라 여기서 거르지 않는다.
func usableRow(cfg *strategy.BulletConfig, p Point) bool {
	if !usablePrice(p.Price) {
		return false
	}

	sig := p.PE
	if cfg.Kind == strategy.KindSingle && cfg.Source == strategy.SignalPB {
		sig = p.PB
	}
	return finite(sig) && sig > 0
}

// deploymentLevel evaluates the three thresholds from most-extreme to
// least-extreme; the first one crossed wins (주당 집행 결정은 한 번만).
func deploymentLevel(cfg *strategy.BulletConfig, p Point) (pct float64, level string, ok bool) {
	switch cfg.Kind {
	case strategy.KindCombined:
		if !finite(p.PB) {
			// 두 번째 신호가 없으면 그 주는 적립만 한다
			return 0, "", false
		}
		switch {
		case crossed(cfg.Logic, p.PE, cfg.ExtremelyCheap, p.PB, cfg.ExtremelyCheapB):
			return cfg.ExtremelyCheapPct, "extremely_cheap", true
		case crossed(cfg.Logic, p.PE, cfg.VeryCheap, p.PB, cfg.VeryCheapB):
			return cfg.VeryCheapPct, "very_cheap", true
		case crossed(cfg.Logic, p.PE, cfg.Cheap, p.PB, cfg.CheapB):
			return cfg.CheapPct, "cheap", true
		}
	default:
		sig := p.PE
		if cfg.Source == strategy.SignalPB {
			sig = p.PB
		}
		switch {
		case sig <= cfg.ExtremelyCheap:
			return cfg.ExtremelyCheapPct, "extremely_cheap", true
		case sig <= cfg.VeryCheap:
			return cfg.VeryCheapPct, "very_cheap", true
		case sig <= cfg.Cheap:
			return cfg.CheapPct, "cheap", true
		}
	}
	return 0, "", false
}

func crossed(logic strategy.Logic, pe, peMax, pb, pbMax float64) bool {
	if logic == strategy.LogicOR {
		return pe <= peMax || pb <= pbMax
	}
	return pe <= peMax && pb <= pbMax
}
