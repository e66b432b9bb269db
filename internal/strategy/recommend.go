package strategy

import "math"

// Recommendation is the answer to "이번 주에 얼마를 투자해야 하나"
// for a single strategy at the current valuation.
type Recommendation struct {
	Multiplier float64 `json:"multiplier"`
	Investment float64 `json:"investment"`
	Zone       string  `json:"zone"`
}

// Recommend evaluates the tier model for every strategy at the current
// PE/PB readings. Pure query, no simulation. Combined strategies with a
// missing PB reading fall back to the base multiplier.
func Recommend(pe, pb, baseAmount float64, strategies []*Strategy) map[string]Recommendation {
	zone := PEZone(pe)

	out := make(map[string]Recommendation, len(strategies))
	for _, s := range strategies {
		var mult float64
		switch s.Kind {
		case KindCombined:
			if math.IsNaN(pb) {
				mult = DefaultMultiplier
			} else {
				mult = s.MultiplierDual(pe, pb)
			}
		default:
			sig := pe
			if s.Source == SignalPB {
				sig = pb
			}
			mult = s.Multiplier(sig)
		}

		out[s.Name] = Recommendation{
			Multiplier: mult,
			Investment: baseAmount * mult,
			Zone:       zone,
		}
	}

	return out
}

// PEZone returns a descriptive valuation zone for a PE value
func PEZone(pe float64) string {
	switch {
	case pe <= 16:
		return "Deep Value (PE ≤ 16)"
	case pe <= 18:
		return "Value (PE 16-18)"
	case pe <= 20:
		return "Fair Value (PE 18-20)"
	case pe <= 24:
		return "Slightly Expensive (PE 20-24)"
	default:
		return "Expensive (PE > 24)"
	}
}
