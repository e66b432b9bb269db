package simulate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wonny/valuesip/internal/strategy"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// weeklySeries builds an aligned weekly series from parallel value slices.
// pb가 nil이면 전 구간 결측(NaN) 처리
func weeklySeries(t *testing.T, prices, pe, pb []float64) Series {
	t.Helper()
	if len(prices) != len(pe) || (pb != nil && len(pb) != len(prices)) {
		t.Fatal("mismatched series inputs")
	}

	s := make(Series, len(prices))
	for i := range prices {
		p := Point{
			Date:  testStart.AddDate(0, 0, 7*i),
			Price: prices[i],
			PE:    pe[i],
			PB:    math.NaN(),
		}
		if pb != nil {
			p.PB = pb[i]
		}
		s[i] = p
	}
	return s
}

func TestSIPFlatPriceScenario(t *testing.T) {
	// 가격이 100으로 고정이면 배수가 뭐든 수익률은 0이어야 한다
	series := weeklySeries(t,
		[]float64{100, 100, 100, 100},
		[]float64{25, 25, 25, 14},
		nil,
	)
	strat := strategy.NewSingle("Deep Only", strategy.SignalPE, []strategy.Tier{
		{Threshold: 16, Multiplier: 4},
	})

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	if res.TotalInvested != 700 {
		t.Errorf("TotalInvested = %g, want 700 (3×100 + 1×400)", res.TotalInvested)
	}
	if res.UnitsHeld != 7 {
		t.Errorf("UnitsHeld = %g, want 7", res.UnitsHeld)
	}
	if res.CurrentValue != 700 {
		t.Errorf("CurrentValue = %g, want 700", res.CurrentValue)
	}
	if res.AbsoluteReturn != 0 {
		t.Errorf("AbsoluteReturn = %g, want 0", res.AbsoluteReturn)
	}
	if res.AbsoluteReturnPct != 0 {
		t.Errorf("AbsoluteReturnPct = %g, want 0", res.AbsoluteReturnPct)
	}
	if math.Abs(res.XIRR) > 1e-6 {
		t.Errorf("XIRR = %g%%, want ~0", res.XIRR)
	}

	if res.WeeksAt1x != 3 || res.WeeksAt4xPlus != 1 {
		t.Errorf("buckets = 1x:%d 4x+:%d, want 3 and 1", res.WeeksAt1x, res.WeeksAt4xPlus)
	}
	if res.AvgBuyPrice != 100 {
		t.Errorf("AvgBuyPrice = %g, want 100", res.AvgBuyPrice)
	}
}

func TestSIPCheapBuysLowerAvgPrice(t *testing.T) {
	// 저평가 구간에서 더 사는 전략은 평균 매수가가 내려가야 한다
	prices := []float64{100, 80, 60, 100}
	pe := []float64{22, 18, 15, 22}

	tiered := strategy.NewSingle("Opportunistic", strategy.SignalPE, []strategy.Tier{
		{Threshold: 20, Multiplier: 2},
		{Threshold: 16, Multiplier: 4},
	})
	flat := strategy.NewSingle("Flat", strategy.SignalPE, nil)

	sim := New(nil)
	tr, err := sim.SIP(weeklySeries(t, prices, pe, nil), tiered, 100)
	if err != nil {
		t.Fatalf("SIP tiered: %v", err)
	}
	fr, err := sim.SIP(weeklySeries(t, prices, pe, nil), flat, 100)
	if err != nil {
		t.Fatalf("SIP flat: %v", err)
	}

	if tr.AvgBuyPrice >= fr.AvgBuyPrice {
		t.Errorf("tiered avg price %g should beat flat avg price %g",
			tr.AvgBuyPrice, fr.AvgBuyPrice)
	}
	if tr.AbsoluteReturnPct <= fr.AbsoluteReturnPct {
		t.Errorf("tiered return %g%% should beat flat return %g%% on this series",
			tr.AbsoluteReturnPct, fr.AbsoluteReturnPct)
	}
}

func TestSIPCombinedMissingPB(t *testing.T) {
	// PB 전 구간 결측 → 결합 전략은 매주 기본 배수로 적립
	series := weeklySeries(t,
		[]float64{100, 100, 100},
		[]float64{14, 14, 14},
		nil,
	)
	strat := strategy.NewCombined("Dual Value", []strategy.CombinedTier{
		{PEThreshold: 20, PBThreshold: 3.0, Multiplier: 4, Logic: strategy.LogicAND},
	})

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	if res.TotalInvested != 300 {
		t.Errorf("TotalInvested = %g, want 300 (all at 1.0)", res.TotalInvested)
	}
	if res.WeeksAt1x != 3 {
		t.Errorf("WeeksAt1x = %d, want 3", res.WeeksAt1x)
	}
}

func TestSIPCombinedWithPB(t *testing.T) {
	series := weeklySeries(t,
		[]float64{100, 100},
		[]float64{18, 18},
		[]float64{2.5, 3.5},
	)
	strat := strategy.NewCombined("Dual Value", []strategy.CombinedTier{
		{PEThreshold: 20, PBThreshold: 3.0, Multiplier: 2, Logic: strategy.LogicAND},
	})

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	// 1주차: PE 18 ≤ 20 AND PB 2.5 ≤ 3.0 → 2x, 2주차: PB 걸림 → 1x
	if res.TotalInvested != 300 {
		t.Errorf("TotalInvested = %g, want 300 (200 + 100)", res.TotalInvested)
	}
	if res.WeeksAt2x != 1 || res.WeeksAt1x != 1 {
		t.Errorf("buckets = 2x:%d 1x:%d, want 1 and 1", res.WeeksAt2x, res.WeeksAt1x)
	}
}

func TestSIPSkipsNonFinitePrice(t *testing.T) {
	series := weeklySeries(t,
		[]float64{100, math.NaN(), 100},
		[]float64{25, 25, 25},
		nil,
	)
	strat := strategy.NewSingle("Flat", strategy.SignalPE, nil)

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	if len(res.Weekly) != 2 {
		t.Errorf("ledger rows = %d, want 2 (NaN price row skipped)", len(res.Weekly))
	}
	if res.TotalInvested != 200 {
		t.Errorf("TotalInvested = %g, want 200", res.TotalInvested)
	}
}

func TestSIPMissingSignalFallsBack(t *testing.T) {
	// 가격은 정상인데 신호가 결측인 주는 건너뛰지 않고 1.0으로 적립
	series := weeklySeries(t,
		[]float64{100, 100},
		[]float64{14, math.NaN()},
		nil,
	)
	strat := strategy.NewSingle("Deep Only", strategy.SignalPE, []strategy.Tier{
		{Threshold: 16, Multiplier: 4},
	})

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	if res.TotalInvested != 500 {
		t.Errorf("TotalInvested = %g, want 500 (400 + 100)", res.TotalInvested)
	}
	if res.WeeksAt4xPlus != 1 || res.WeeksAt1x != 1 {
		t.Errorf("buckets = 4x+:%d 1x:%d, want 1 and 1", res.WeeksAt4xPlus, res.WeeksAt1x)
	}
}

func TestSIPLedgerMonotonic(t *testing.T) {
	series := weeklySeries(t,
		[]float64{100, 90, 110, 95},
		[]float64{22, 19, 24, 20},
		nil,
	)
	strat := strategy.NewSingle("Opportunistic", strategy.SignalPE, []strategy.Tier{
		{Threshold: 20, Multiplier: 2},
	})

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	for i := 1; i < len(res.Weekly); i++ {
		prev, cur := res.Weekly[i-1], res.Weekly[i]
		if cur.CumulativeInvested <= prev.CumulativeInvested {
			t.Errorf("row %d: cumulative invested not increasing", i)
		}
		if cur.CumulativeUnits <= prev.CumulativeUnits {
			t.Errorf("row %d: cumulative units not increasing", i)
		}
	}

	last := res.Weekly[len(res.Weekly)-1]
	if last.CumulativeInvested != res.TotalInvested {
		t.Errorf("last ledger row invested %g != result total %g",
			last.CumulativeInvested, res.TotalInvested)
	}
	if last.PortfolioValue != res.CurrentValue {
		t.Errorf("last ledger row value %g != result value %g",
			last.PortfolioValue, res.CurrentValue)
	}
}

func TestSIPMultiplierBuckets(t *testing.T) {
	series := weeklySeries(t,
		[]float64{100, 100, 100, 100, 100},
		[]float64{30, 24, 21, 18, 15},
		nil,
	)
	strat := strategy.NewSingle("Buckets", strategy.SignalPE, []strategy.Tier{
		{Threshold: 25, Multiplier: 0.5},
		{Threshold: 22, Multiplier: 1.5},
		{Threshold: 19, Multiplier: 2.8},
		{Threshold: 16, Multiplier: 5},
	})

	res, err := New(nil).SIP(series, strat, 100)
	if err != nil {
		t.Fatalf("SIP: %v", err)
	}

	// floor 기준 집계: 1.0→1x, 0.5→<1x, 1.5→1x, 2.8→2x, 5→4x+
	if res.WeeksBelow1x != 1 {
		t.Errorf("WeeksBelow1x = %d, want 1", res.WeeksBelow1x)
	}
	if res.WeeksAt1x != 2 {
		t.Errorf("WeeksAt1x = %d, want 2", res.WeeksAt1x)
	}
	if res.WeeksAt2x != 1 {
		t.Errorf("WeeksAt2x = %d, want 1", res.WeeksAt2x)
	}
	if res.WeeksAt4xPlus != 1 {
		t.Errorf("WeeksAt4xPlus = %d, want 1", res.WeeksAt4xPlus)
	}
}

func TestSIPInputErrors(t *testing.T) {
	sim := New(nil)
	good := weeklySeries(t, []float64{100}, []float64{20}, nil)
	flat := strategy.NewSingle("Flat", strategy.SignalPE, nil)

	tests := []struct {
		name   string
		series Series
		strat  *strategy.Strategy
		base   float64
	}{
		{"zero base amount", good, flat, 0},
		{"negative base amount", good, flat, -100},
		{"NaN base amount", good, flat, math.NaN()},
		{"empty series", Series{}, flat, 100},
		{"invalid strategy", good, &strategy.Strategy{Name: "bad", Kind: "TRIPLE"}, 100},
		{
			"NaN tier multiplier",
			good,
			strategy.NewSingle("NaN Tier", strategy.SignalPE,
				[]strategy.Tier{{Threshold: 18, Multiplier: math.NaN()}}),
			100,
		},
		{
			"all prices unusable",
			weeklySeries(t, []float64{math.NaN(), math.Inf(1)}, []float64{20, 20}, nil),
			flat, 100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sim.SIP(tc.series, tc.strat, tc.base)
			var inputErr InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("expected InputError, got %v", err)
			}
		})
	}
}

func TestSeriesValidate(t *testing.T) {
	base := weeklySeries(t, []float64{100, 100}, []float64{20, 20}, nil)

	dup := make(Series, len(base))
	copy(dup, base)
	dup[1].Date = dup[0].Date
	if err := dup.Validate(); err == nil {
		t.Error("duplicate dates should fail validation")
	}

	negPrice := make(Series, len(base))
	copy(negPrice, base)
	negPrice[1].Price = -5
	if err := negPrice.Validate(); err == nil {
		t.Error("negative price should fail validation")
	}

	if err := base.Validate(); err != nil {
		t.Errorf("valid series rejected: %v", err)
	}
}
