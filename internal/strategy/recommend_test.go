package strategy

import (
	"math"
	"testing"
)

func TestRecommend(t *testing.T) {
	strategies := []*Strategy{
		NewSingle("Opportunistic", SignalPE, []Tier{
			{Threshold: 20, Multiplier: 2},
			{Threshold: 18, Multiplier: 3},
			{Threshold: 16, Multiplier: 4},
		}),
		NewCombined("Dual Value", []CombinedTier{
			{PEThreshold: 20, PBThreshold: 3.0, Multiplier: 2, Logic: LogicAND},
		}),
	}

	recs := Recommend(17.5, 2.8, 10000, strategies)

	opp, ok := recs["Opportunistic"]
	if !ok {
		t.Fatal("missing Opportunistic recommendation")
	}
	if opp.Multiplier != 3.0 {
		t.Errorf("PE 17.5 should hit 3x tier, got %g", opp.Multiplier)
	}
	if opp.Investment != 30000 {
		t.Errorf("investment = %g, want 30000", opp.Investment)
	}

	dual, ok := recs["Dual Value"]
	if !ok {
		t.Fatal("missing Dual Value recommendation")
	}
	if dual.Multiplier != 2.0 {
		t.Errorf("PE 17.5 + PB 2.8 should hit 2x AND tier, got %g", dual.Multiplier)
	}
}

func TestRecommendMissingPB(t *testing.T) {
	strategies := []*Strategy{
		NewCombined("Dual Value", []CombinedTier{
			{PEThreshold: 20, PBThreshold: 3.0, Multiplier: 4, Logic: LogicOR},
		}),
	}

	// PB 데이터가 없으면 복합 전략은 기본 배수로 후퇴
	recs := Recommend(15.0, math.NaN(), 10000, strategies)
	if recs["Dual Value"].Multiplier != 1.0 {
		t.Errorf("missing PB should force 1.0, got %g", recs["Dual Value"].Multiplier)
	}
}

func TestRecommendPBStrategy(t *testing.T) {
	strategies := []*Strategy{
		NewSingle("PB Value", SignalPB, []Tier{
			{Threshold: 2.5, Multiplier: 3},
		}),
	}

	recs := Recommend(25.0, 2.3, 10000, strategies)
	if recs["PB Value"].Multiplier != 3.0 {
		t.Errorf("PB strategy should read the PB signal, got %g", recs["PB Value"].Multiplier)
	}
}

func TestPEZone(t *testing.T) {
	tests := []struct {
		pe   float64
		want string
	}{
		{14.0, "Deep Value (PE ≤ 16)"},
		{16.0, "Deep Value (PE ≤ 16)"},
		{17.0, "Value (PE 16-18)"},
		{18.0, "Value (PE 16-18)"},
		{19.0, "Fair Value (PE 18-20)"},
		{20.0, "Fair Value (PE 18-20)"},
		{22.0, "Slightly Expensive (PE 20-24)"},
		{24.0, "Slightly Expensive (PE 20-24)"},
		{26.0, "Expensive (PE > 24)"},
	}

	for _, tc := range tests {
		if got := PEZone(tc.pe); got != tc.want {
			t.Errorf("PEZone(%g) = %q, want %q", tc.pe, got, tc.want)
		}
	}
}
