package simulate

import (
	"context"
	"testing"

	"github.com/wonny/valuesip/internal/strategy"
)

func TestCompareMatchesSerial(t *testing.T) {
	series := weeklySeries(t,
		[]float64{100, 90, 80, 95, 110},
		[]float64{22, 19, 16, 20, 24},
		nil,
	)
	strategies := strategy.PEPresets()
	sim := New(nil)

	parallel, err := sim.Compare(context.Background(), series, strategies, 10000)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if len(parallel) != len(strategies) {
		t.Fatalf("got %d results, want %d", len(parallel), len(strategies))
	}

	// 병렬 실행은 순차 실행과 수치적으로 완전히 일치해야 한다
	for _, st := range strategies {
		serial, err := sim.SIP(series, st, 10000)
		if err != nil {
			t.Fatalf("SIP %s: %v", st.Name, err)
		}

		got, ok := parallel[st.Name]
		if !ok {
			t.Fatalf("missing result for %s", st.Name)
		}
		if got.TotalInvested != serial.TotalInvested ||
			got.UnitsHeld != serial.UnitsHeld ||
			got.XIRR != serial.XIRR {
			t.Errorf("%s: parallel result diverges from serial run", st.Name)
		}
	}
}

func TestCompareEmptyStrategies(t *testing.T) {
	series := weeklySeries(t, []float64{100}, []float64{20}, nil)

	_, err := New(nil).Compare(context.Background(), series, nil, 10000)
	if err == nil {
		t.Error("empty strategy list should error")
	}
}

func TestComparePropagatesError(t *testing.T) {
	series := weeklySeries(t, []float64{100}, []float64{20}, nil)
	strategies := []*strategy.Strategy{
		strategy.NewSingle("Good", strategy.SignalPE, nil),
		{Name: "Bad", Kind: "TRIPLE"},
	}

	_, err := New(nil).Compare(context.Background(), series, strategies, 10000)
	if err == nil {
		t.Error("invalid strategy should fail the whole comparison")
	}
}

func TestCompareCancelledContext(t *testing.T) {
	series := weeklySeries(t, []float64{100}, []float64{20}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Compare(ctx, series, strategy.PEPresets(), 10000)
	if err == nil {
		t.Error("cancelled context should surface an error")
	}
}
