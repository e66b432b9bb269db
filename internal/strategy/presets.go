package strategy

// Preset strategy catalogs. 전역 딕셔너리 대신 호출 시점에 새로 생성되는
// 불변 설정 데이터. 호출자가 슬라이스를 변경해도 다음 호출에 영향 없음.

// PEPresets returns the base PE-gated SIP strategies
func PEPresets() []*Strategy {
	return []*Strategy{
		{
			Name:        "Balanced",
			Kind:        KindSingle,
			Source:      SignalPE,
			Tiers:       nil, // 티어 없음 = 항상 1x
			Description: "Regular SIP - Fixed amount every week regardless of market conditions",
			Color:       "#6B7280",
		},
		{
			Name:   "Opportunistic",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 20, Multiplier: 2},
				{Threshold: 18, Multiplier: 3},
				{Threshold: 16, Multiplier: 4},
			},
			Description: "Moderate increase during dips: 2x at PE≤20, 3x at PE≤18, 4x at PE≤16",
			Color:       "#10B981",
		},
		{
			Name:   "Aggressive",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 20, Multiplier: 3},
				{Threshold: 18, Multiplier: 6},
				{Threshold: 16, Multiplier: 12},
			},
			Description: "Strong increase during dips: 3x at PE≤20, 6x at PE≤18, 12x at PE≤16",
			Color:       "#F59E0B",
		},
		{
			Name:   "Hardcore",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 20, Multiplier: 3},
				{Threshold: 18, Multiplier: 8},
				{Threshold: 16, Multiplier: 16},
			},
			Description: "Maximum aggression: 3x at PE≤20, 8x at PE≤18, 16x at PE≤16",
			Color:       "#EF4444",
		},
	}
}

// AIPEPresets returns strategies tuned on historical PE patterns
func AIPEPresets() []*Strategy {
	return []*Strategy{
		{
			Name:   "Gradual Builder",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 24, Multiplier: 1.5},
				{Threshold: 22, Multiplier: 2},
				{Threshold: 20, Multiplier: 2.5},
				{Threshold: 18, Multiplier: 3},
				{Threshold: 16, Multiplier: 4},
			},
			Description: "Smooth scaling: 1.5x→2x→2.5x→3x→4x as PE drops from 24→16",
			Color:       "#06B6D4",
		},
		{
			Name:   "Value Accumulator",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 28, Multiplier: 0.5}, // 고평가 구간에서는 축소
				{Threshold: 24, Multiplier: 0.75},
				{Threshold: 22, Multiplier: 1},
				{Threshold: 20, Multiplier: 2},
				{Threshold: 18, Multiplier: 3},
				{Threshold: 16, Multiplier: 5},
			},
			Description: "Reduce exposure when expensive (0.5x at PE>24), increase when cheap (5x at PE≤16)",
			Color:       "#8B5CF6",
		},
		{
			Name:   "Crash Catcher",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 22, Multiplier: 1},
				{Threshold: 18, Multiplier: 4},
				{Threshold: 15, Multiplier: 10},
				{Threshold: 13, Multiplier: 20},
			},
			Description: "Normal SIP, but massive deployment during crashes: 10x at PE≤15, 20x at PE≤13",
			Color:       "#DC2626",
		},
		{
			Name:   "Steady Climber",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 25, Multiplier: 0.8},
				{Threshold: 22, Multiplier: 1.2},
				{Threshold: 20, Multiplier: 1.5},
				{Threshold: 18, Multiplier: 2},
				{Threshold: 16, Multiplier: 2.5},
			},
			Description: "Conservative scaling: Slightly reduce in expensive, moderate increase in cheap",
			Color:       "#059669",
		},
		{
			Name:   "Momentum Value",
			Kind:   KindSingle,
			Source: SignalPE,
			Tiers: []Tier{
				{Threshold: 26, Multiplier: 0.5},
				{Threshold: 23, Multiplier: 0.75},
				{Threshold: 21, Multiplier: 1.5},
				{Threshold: 19, Multiplier: 3},
				{Threshold: 17, Multiplier: 5},
				{Threshold: 15, Multiplier: 8},
			},
			Description: "Aggressive value timing: 0.5x when PE>26, scales to 8x at PE≤15",
			Color:       "#7C3AED",
		},
	}
}

// PBPresets returns PB-gated SIP strategies
// 역사적 Nifty 50 PB: 중앙값 ~3.3, P25 ~2.9, P10 ~2.5
func PBPresets() []*Strategy {
	return []*Strategy{
		{
			Name:        "PB Balanced",
			Kind:        KindSingle,
			Source:      SignalPB,
			Description: "Regular SIP - Fixed amount regardless of PB",
			Color:       "#6B7280",
		},
		{
			Name:   "PB Opportunistic",
			Kind:   KindSingle,
			Source: SignalPB,
			Tiers: []Tier{
				{Threshold: 3.0, Multiplier: 2},
				{Threshold: 2.5, Multiplier: 3},
				{Threshold: 2.0, Multiplier: 4},
			},
			Description: "Moderate PB-based: 2x at PB≤3.0, 3x at PB≤2.5, 4x at PB≤2.0",
			Color:       "#10B981",
		},
		{
			Name:   "PB Aggressive",
			Kind:   KindSingle,
			Source: SignalPB,
			Tiers: []Tier{
				{Threshold: 3.2, Multiplier: 3},
				{Threshold: 2.8, Multiplier: 6},
				{Threshold: 2.4, Multiplier: 12},
			},
			Description: "Strong PB-based: 3x at PB≤3.2, 6x at PB≤2.8, 12x at PB≤2.4",
			Color:       "#F59E0B",
		},
		{
			Name:   "PB Hardcore",
			Kind:   KindSingle,
			Source: SignalPB,
			Tiers: []Tier{
				{Threshold: 3.5, Multiplier: 3},
				{Threshold: 3.0, Multiplier: 8},
				{Threshold: 2.5, Multiplier: 16},
			},
			Description: "Maximum aggression: 3x at PB≤3.5, 8x at PB≤3.0, 16x at PB≤2.5",
			Color:       "#EF4444",
		},
		{
			Name:   "PB Value Accumulator",
			Kind:   KindSingle,
			Source: SignalPB,
			Tiers: []Tier{
				{Threshold: 3.3, Multiplier: 1.5},
				{Threshold: 3.0, Multiplier: 2.5},
				{Threshold: 2.7, Multiplier: 4},
				{Threshold: 2.4, Multiplier: 6},
			},
			Description: "Gradual PB increase: 1.5x→2.5x→4x→6x as PB drops",
			Color:       "#06B6D4",
		},
		{
			Name:   "PB Deep Dive",
			Kind:   KindSingle,
			Source: SignalPB,
			Tiers: []Tier{
				{Threshold: 2.8, Multiplier: 2},
				{Threshold: 2.4, Multiplier: 5},
				{Threshold: 2.0, Multiplier: 10},
			},
			Description: "Wait for deep PB value: 2x/5x/10x at PB≤2.8/2.4/2.0",
			Color:       "#8B5CF6",
		},
		{
			Name:   "PB Contrarian",
			Kind:   KindSingle,
			Source: SignalPB,
			Tiers: []Tier{
				{Threshold: 2.5, Multiplier: 4},
				{Threshold: 2.0, Multiplier: 12},
			},
			Description: "Only invest at extreme PB lows: 4x at PB≤2.5, 12x at PB≤2.0",
			Color:       "#DC2626",
		},
	}
}

// CombinedPresets returns dual-signal PE+PB strategies
func CombinedPresets() []*Strategy {
	return []*Strategy{
		{
			Name: "Dual Value",
			Kind: KindCombined,
			Combined: []CombinedTier{
				{PEThreshold: 20, PBThreshold: 3.0, Multiplier: 2, Logic: LogicAND},
				{PEThreshold: 18, PBThreshold: 2.7, Multiplier: 4, Logic: LogicAND},
				{PEThreshold: 16, PBThreshold: 2.4, Multiplier: 6, Logic: LogicAND},
			},
			Description: "Both PE AND PB must be cheap: 2x/4x/6x when both are low",
			Color:       "#14B8A6",
		},
		{
			Name: "Stricter Value",
			Kind: KindCombined,
			Combined: []CombinedTier{
				{PEThreshold: 18, PBThreshold: 2.8, Multiplier: 3, Logic: LogicAND},
				{PEThreshold: 16, PBThreshold: 2.5, Multiplier: 8, Logic: LogicAND},
				{PEThreshold: 14, PBThreshold: 2.2, Multiplier: 15, Logic: LogicAND},
			},
			Description: "Very strict: Only deploy when both PE AND PB hit low levels",
			Color:       "#6366F1",
		},
		{
			Name: "Either Value",
			Kind: KindCombined,
			Combined: []CombinedTier{
				{PEThreshold: 20, PBThreshold: 3.0, Multiplier: 2, Logic: LogicOR},
				{PEThreshold: 18, PBThreshold: 2.5, Multiplier: 3, Logic: LogicOR},
				{PEThreshold: 16, PBThreshold: 2.0, Multiplier: 5, Logic: LogicOR},
			},
			Description: "Flexible: Deploy when either PE OR PB becomes cheap",
			Color:       "#F59E0B",
		},
		{
			Name: "Weighted Value",
			Kind: KindCombined,
			Combined: []CombinedTier{
				{PEThreshold: 21, PBThreshold: 3.1, Multiplier: 1.5, Logic: LogicAND},
				{PEThreshold: 19, PBThreshold: 2.9, Multiplier: 2.5, Logic: LogicAND},
				{PEThreshold: 17, PBThreshold: 2.6, Multiplier: 4, Logic: LogicAND},
				{PEThreshold: 15, PBThreshold: 2.3, Multiplier: 7, Logic: LogicAND},
			},
			Description: "Balanced approach: Gradual increase as both PE and PB drop",
			Color:       "#8B5CF6",
		},
	}
}

// AllPresets returns every built-in strategy catalog flattened
func AllPresets() []*Strategy {
	var all []*Strategy
	all = append(all, PEPresets()...)
	all = append(all, AIPEPresets()...)
	all = append(all, PBPresets()...)
	all = append(all, CombinedPresets()...)
	return all
}

// FindPreset looks up a built-in strategy by name (case-sensitive)
func FindPreset(name string) (*Strategy, bool) {
	for _, s := range AllPresets() {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
