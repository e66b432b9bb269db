package strategy

import "fmt"

// BulletConfig configures a deferred-capital ("bullet") deployment strategy.
// 현금을 적립만 하다가 신호가 임계값 아래로 내려오면 일부를 집행한다.
// 임계값은 cheap > very cheap > extremely cheap 순으로 낮아져야 한다.
type BulletConfig struct {
	Name   string `yaml:"name" json:"name"`
	Kind   Kind   `yaml:"kind" json:"kind"`
	Source Signal `yaml:"source" json:"source"` // KindSingle에서 읽을 신호 컬럼

	// Signal thresholds (deploy when signal <= threshold)
	Cheap          float64 `yaml:"cheap" json:"cheap"`
	VeryCheap      float64 `yaml:"very_cheap" json:"very_cheap"`
	ExtremelyCheap float64 `yaml:"extremely_cheap" json:"extremely_cheap"`

	// Second-signal thresholds for the dual variant (KindCombined)
	CheapB          float64 `yaml:"cheap_b,omitempty" json:"cheap_b,omitempty"`
	VeryCheapB      float64 `yaml:"very_cheap_b,omitempty" json:"very_cheap_b,omitempty"`
	ExtremelyCheapB float64 `yaml:"extremely_cheap_b,omitempty" json:"extremely_cheap_b,omitempty"`
	Logic           Logic   `yaml:"logic,omitempty" json:"logic,omitempty"`

	// Deployment percentages (% of accumulated cash, 0-100)
	CheapPct          float64 `yaml:"cheap_pct" json:"cheap_pct"`
	VeryCheapPct      float64 `yaml:"very_cheap_pct" json:"very_cheap_pct"`
	ExtremelyCheapPct float64 `yaml:"extremely_cheap_pct" json:"extremely_cheap_pct"`

	Description string `yaml:"description" json:"description"`
	Color       string `yaml:"color" json:"color"`
}

// Validate checks config invariants
func (c *BulletConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("bullet config name is required")
	}

	switch c.Kind {
	case KindSingle:
		if c.Source != SignalPE && c.Source != SignalPB {
			return fmt.Errorf("bullet %s: source must be PE or PB, got %q", c.Name, c.Source)
		}
	case KindCombined:
		if c.Logic != LogicAND && c.Logic != LogicOR {
			return fmt.Errorf("bullet %s: logic must be AND or OR, got %q", c.Name, c.Logic)
		}
		if !(c.ExtremelyCheapB < c.VeryCheapB && c.VeryCheapB < c.CheapB) {
			return fmt.Errorf("bullet %s: second-signal thresholds must descend (cheap > very cheap > extremely cheap)", c.Name)
		}
	default:
		return fmt.Errorf("bullet %s: unknown kind %q", c.Name, c.Kind)
	}

	if !(c.ExtremelyCheap < c.VeryCheap && c.VeryCheap < c.Cheap) {
		return fmt.Errorf("bullet %s: thresholds must descend (cheap > very cheap > extremely cheap)", c.Name)
	}

	for _, pct := range []float64{c.CheapPct, c.VeryCheapPct, c.ExtremelyCheapPct} {
		if !finiteNonNegative(pct) || pct > 100 {
			return fmt.Errorf("bullet %s: deploy percentage must be in [0, 100], got %g", c.Name, pct)
		}
	}

	return nil
}

// BulletPresets returns the base PE-gated bullet configurations
func BulletPresets() []*BulletConfig {
	return []*BulletConfig{
		{
			Name: "Conservative Bullet", Kind: KindSingle, Source: SignalPE,
			Cheap: 18.0, VeryCheap: 16.0, ExtremelyCheap: 14.0,
			CheapPct: 20.0, VeryCheapPct: 40.0, ExtremelyCheapPct: 75.0,
			Description: "Deploy 20%/40%/75% when PE hits 18/16/14",
			Color:       "#22c55e",
		},
		{
			Name: "Moderate Bullet", Kind: KindSingle, Source: SignalPE,
			Cheap: 20.0, VeryCheap: 18.0, ExtremelyCheap: 16.0,
			CheapPct: 25.0, VeryCheapPct: 50.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy 25%/50%/100% when PE hits 20/18/16",
			Color:       "#f59e0b",
		},
		{
			Name: "Aggressive Bullet", Kind: KindSingle, Source: SignalPE,
			Cheap: 22.0, VeryCheap: 20.0, ExtremelyCheap: 18.0,
			CheapPct: 33.0, VeryCheapPct: 66.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy 33%/66%/100% when PE hits 22/20/18",
			Color:       "#ef4444",
		},
		{
			Name: "Value Hunter", Kind: KindSingle, Source: SignalPE,
			Cheap: 22.0, VeryCheap: 20.0, ExtremelyCheap: 18.0,
			CheapPct: 30.0, VeryCheapPct: 60.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy earlier: 30%/60%/100% at PE ≤22/20/18",
			Color:       "#14B8A6",
		},
		{
			Name: "Deep Value", Kind: KindSingle, Source: SignalPE,
			Cheap: 20.0, VeryCheap: 17.0, ExtremelyCheap: 15.0,
			CheapPct: 40.0, VeryCheapPct: 80.0, ExtremelyCheapPct: 100.0,
			Description: "Wait for deep value: 40%/80%/100% at PE ≤20/17/15",
			Color:       "#6366F1",
		},
	}
}

// PBBulletPresets returns PB-gated bullet configurations
func PBBulletPresets() []*BulletConfig {
	return []*BulletConfig{
		{
			Name: "PB Conservative Bullet", Kind: KindSingle, Source: SignalPB,
			Cheap: 3.0, VeryCheap: 2.5, ExtremelyCheap: 2.0,
			CheapPct: 20.0, VeryCheapPct: 40.0, ExtremelyCheapPct: 75.0,
			Description: "Deploy 20%/40%/75% when PB hits 3.0/2.5/2.0",
			Color:       "#22c55e",
		},
		{
			Name: "PB Moderate Bullet", Kind: KindSingle, Source: SignalPB,
			Cheap: 3.2, VeryCheap: 2.8, ExtremelyCheap: 2.4,
			CheapPct: 25.0, VeryCheapPct: 50.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy 25%/50%/100% when PB hits 3.2/2.8/2.4",
			Color:       "#f59e0b",
		},
		{
			Name: "PB Aggressive Bullet", Kind: KindSingle, Source: SignalPB,
			Cheap: 3.5, VeryCheap: 3.0, ExtremelyCheap: 2.5,
			CheapPct: 33.0, VeryCheapPct: 66.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy 33%/66%/100% when PB hits 3.5/3.0/2.5",
			Color:       "#ef4444",
		},
		{
			Name: "PB Deep Value Bullet", Kind: KindSingle, Source: SignalPB,
			Cheap: 2.8, VeryCheap: 2.3, ExtremelyCheap: 1.8,
			CheapPct: 50.0, VeryCheapPct: 80.0, ExtremelyCheapPct: 100.0,
			Description: "Wait for deep PB value: 50%/80%/100% at PB ≤2.8/2.3/1.8",
			Color:       "#6366F1",
		},
	}
}

// CombinedBulletPresets returns dual-signal bullet configurations
func CombinedBulletPresets() []*BulletConfig {
	return []*BulletConfig{
		{
			Name: "Dual Conservative", Kind: KindCombined, Logic: LogicAND,
			Cheap: 20.0, VeryCheap: 18.0, ExtremelyCheap: 16.0,
			CheapB: 3.0, VeryCheapB: 2.5, ExtremelyCheapB: 2.0,
			CheapPct: 20.0, VeryCheapPct: 45.0, ExtremelyCheapPct: 80.0,
			Description: "Deploy when BOTH PE AND PB are cheap: 20%/45%/80%",
			Color:       "#22c55e",
		},
		{
			Name: "Dual Moderate", Kind: KindCombined, Logic: LogicAND,
			Cheap: 22.0, VeryCheap: 20.0, ExtremelyCheap: 18.0,
			CheapB: 3.2, VeryCheapB: 2.8, ExtremelyCheapB: 2.4,
			CheapPct: 30.0, VeryCheapPct: 60.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy when BOTH PE AND PB hit levels: 30%/60%/100%",
			Color:       "#f59e0b",
		},
		{
			Name: "Dual Aggressive", Kind: KindCombined, Logic: LogicOR,
			Cheap: 24.0, VeryCheap: 22.0, ExtremelyCheap: 20.0,
			CheapB: 3.5, VeryCheapB: 3.2, ExtremelyCheapB: 2.8,
			CheapPct: 40.0, VeryCheapPct: 75.0, ExtremelyCheapPct: 100.0,
			Description: "Deploy when EITHER PE OR PB is cheap: 40%/75%/100%",
			Color:       "#ef4444",
		},
		{
			Name: "Dual Value Hunter", Kind: KindCombined, Logic: LogicAND,
			Cheap: 18.0, VeryCheap: 16.0, ExtremelyCheap: 14.0,
			CheapB: 2.8, VeryCheapB: 2.4, ExtremelyCheapB: 2.0,
			CheapPct: 35.0, VeryCheapPct: 70.0, ExtremelyCheapPct: 100.0,
			Description: "Wait for extreme values in BOTH: 35%/70%/100%",
			Color:       "#6366F1",
		},
	}
}

// FindBulletPreset looks up a built-in bullet config by name
func FindBulletPreset(name string) (*BulletConfig, bool) {
	var all []*BulletConfig
	all = append(all, BulletPresets()...)
	all = append(all, PBBulletPresets()...)
	all = append(all, CombinedBulletPresets()...)

	for _, c := range all {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
