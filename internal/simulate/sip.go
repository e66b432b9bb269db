package simulate

import (
	"math"
	"time"

	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/internal/xirr"
	"github.com/wonny/valuesip/pkg/logger"
)

// Simulator replays valuation series under tiered strategies
// ⭐ SSOT: SIP/불릿 시뮬레이션 실행은 여기서만
type Simulator struct {
	logger *logger.Logger
}

// New creates a new simulator. 실행별 상태가 없으므로 호출마다
// 새로 만들어도 무방하다.
func New(log *logger.Logger) *Simulator {
	return &Simulator{logger: log}
}

// WeeklyRecord is one row of the per-period ledger
type WeeklyRecord struct {
	Date               time.Time `json:"date"`
	Price              float64   `json:"price"`
	PE                 Metric    `json:"pe"`
	PB                 Metric    `json:"pb"`
	Multiplier         float64   `json:"multiplier"`
	Investment         float64   `json:"investment"`
	UnitsBought        float64   `json:"units_bought"`
	CumulativeUnits    float64   `json:"cumulative_units"`
	CumulativeInvested float64   `json:"cumulative_invested"`
	PortfolioValue     float64   `json:"portfolio_value"`
}

// SIPResult holds the outcome of a periodic-contribution simulation.
// 반환 후 불변이며 실행마다 새로 생성된다.
type SIPResult struct {
	StrategyName      string  `json:"strategy_name"`
	TotalInvested     float64 `json:"total_invested"`
	CurrentValue      float64 `json:"current_value"`
	UnitsHeld         float64 `json:"units_held"`
	AbsoluteReturn    float64 `json:"absolute_return"`
	AbsoluteReturnPct float64 `json:"absolute_return_pct"`
	XIRR              float64 `json:"xirr"` // percent

	// Multiplier usage buckets. floor(multiplier)를 1~4+로 집계하고
	// 1 미만(노출 축소 구간)은 별도 버킷으로 센다.
	WeeksBelow1x  int `json:"weeks_below_1x"`
	WeeksAt1x     int `json:"weeks_at_1x"`
	WeeksAt2x     int `json:"weeks_at_2x"`
	WeeksAt3x     int `json:"weeks_at_3x"`
	WeeksAt4xPlus int `json:"weeks_at_4x_plus"`

	AvgBuyPrice float64        `json:"avg_buy_price"`
	Weekly      []WeeklyRecord `json:"weekly,omitempty"`
}

// SIP simulates a periodic (weekly) contribution strategy over the series.
//
// Every usable period contributes baseAmount × multiplier, where the
// multiplier comes from the strategy's tier model. Periods with a
// non-finite price are skipped; periods where the strategy's signal is
// missing contribute at the base 1.0 multiplier.
func (s *Simulator) SIP(series Series, strat *strategy.Strategy, baseAmount float64) (*SIPResult, error) {
	if baseAmount <= 0 || math.IsNaN(baseAmount) || math.IsInf(baseAmount, 0) {
		return nil, InputError{"base_amount", "must be > 0"}
	}
	if err := strat.Validate(); err != nil {
		return nil, InputError{"strategy", err.Error()}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	result := &SIPResult{
		StrategyName: strat.Name,
		Weekly:       make([]WeeklyRecord, 0, len(series)),
	}

	var (
		totalInvested float64
		totalUnits    float64
		cashflows     = make([]xirr.Cashflow, 0, len(series)+1)
		lastPrice     float64
		lastDate      time.Time
		skipped       int
	)

	for _, p := range series {
		if !finite(p.Price) {
			// 비정상 행 하나가 전체 시계열을 무효화하면 안 됨
			skipped++
			continue
		}

		mult := multiplierFor(strat, p)
		investment := baseAmount * mult
		units := investment / p.Price

		totalUnits += units
		totalInvested += investment
		cashflows = append(cashflows, xirr.Cashflow{Date: p.Date, Amount: -investment})

		countMultiplier(result, mult)

		result.Weekly = append(result.Weekly, WeeklyRecord{
			Date:               p.Date,
			Price:              p.Price,
			PE:                 Metric(p.PE),
			PB:                 Metric(p.PB),
			Multiplier:         mult,
			Investment:         investment,
			UnitsBought:        units,
			CumulativeUnits:    totalUnits,
			CumulativeInvested: totalInvested,
			PortfolioValue:     totalUnits * p.Price,
		})

		lastPrice = p.Price
		lastDate = p.Date
	}

	if len(result.Weekly) == 0 {
		return nil, InputError{"series", "no usable periods (all prices non-finite)"}
	}

	result.TotalInvested = totalInvested
	result.UnitsHeld = totalUnits
	result.CurrentValue = totalUnits * lastPrice
	result.AbsoluteReturn = result.CurrentValue - totalInvested
	if totalInvested > 0 {
		result.AbsoluteReturnPct = result.AbsoluteReturn / totalInvested * 100
	}
	if totalUnits > 0 {
		result.AvgBuyPrice = totalInvested / totalUnits
	}

	// 최종 평가액을 유입으로 추가하고 연환산 수익률 계산
	cashflows = append(cashflows, xirr.Cashflow{Date: lastDate, Amount: result.CurrentValue})
	result.XIRR = xirr.Solve(cashflows) * 100

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"strategy":       strat.Name,
			"periods":        len(result.Weekly),
			"skipped":        skipped,
			"total_invested": totalInvested,
			"return_pct":     result.AbsoluteReturnPct,
		}).Debug("SIP simulation completed")
	}

	return result, nil
}

// multiplierFor evaluates the tier model for one period, branching on
// the strategy variant tag. 결합 전략에서 PB가 없는 주는 실패가 아니라
// 그 주만 기본 배수로 후퇴한다.
func multiplierFor(strat *strategy.Strategy, p Point) float64 {
	switch strat.Kind {
	case strategy.KindCombined:
		if !finite(p.PB) || !finite(p.PE) {
			return strategy.DefaultMultiplier
		}
		return strat.MultiplierDual(p.PE, p.PB)
	default:
		sig := p.PE
		if strat.Source == strategy.SignalPB {
			sig = p.PB
		}
		if !finite(sig) {
			return strategy.DefaultMultiplier
		}
		return strat.Multiplier(sig)
	}
}

// countMultiplier increments the usage bucket for min(floor(mult), 4)
func countMultiplier(r *SIPResult, mult float64) {
	switch floor := math.Floor(mult); {
	case floor < 1:
		r.WeeksBelow1x++
	case floor >= 4:
		r.WeeksAt4xPlus++
	case floor == 3:
		r.WeeksAt3x++
	case floor == 2:
		r.WeeksAt2x++
	default:
		r.WeeksAt1x++
	}
}
