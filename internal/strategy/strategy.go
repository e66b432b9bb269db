package strategy

import (
	"fmt"
	"math"
	"strings"
)

// Kind tags the strategy variant. 시뮬레이터는 이 태그로 분기한다
// (런타임 속성 탐색 없음)
type Kind string

const (
	KindSingle   Kind = "SINGLE"
	KindCombined Kind = "COMBINED"
)

// DefaultMultiplier is applied when no tier matches (or no tiers exist).
// 0이 아닌 1.0: 기본 적립은 항상 유지된다
const DefaultMultiplier = 1.0

// Strategy represents a complete tiered investment strategy
// ⭐ SSOT: 티어 → 배수 평가는 이 타입에서만
type Strategy struct {
	Name        string `yaml:"name" json:"name"`
	Kind        Kind   `yaml:"kind" json:"kind"`
	Source      Signal `yaml:"source" json:"source"` // KindSingle에서 읽을 신호 컬럼
	Description string `yaml:"description" json:"description"`
	Color       string `yaml:"color" json:"color"`

	Tiers    []Tier         `yaml:"tiers,omitempty" json:"tiers,omitempty"`
	Combined []CombinedTier `yaml:"combined_tiers,omitempty" json:"combined_tiers,omitempty"`
}

// NewSingle creates a single-signal strategy
func NewSingle(name string, source Signal, tiers []Tier) *Strategy {
	return &Strategy{
		Name:   name,
		Kind:   KindSingle,
		Source: source,
		Tiers:  tiers,
	}
}

// NewCombined creates a dual-signal strategy
func NewCombined(name string, tiers []CombinedTier) *Strategy {
	return &Strategy{
		Name:     name,
		Kind:     KindCombined,
		Combined: tiers,
	}
}

// Custom creates a single-signal strategy from (threshold, multiplier) pairs
func Custom(name string, source Signal, pairs [][2]float64) *Strategy {
	tiers := make([]Tier, 0, len(pairs))
	descs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		tiers = append(tiers, Tier{Threshold: p[0], Multiplier: p[1]})
		descs = append(descs, fmt.Sprintf("%gx at %s≤%g", p[1], source, p[0]))
	}

	s := NewSingle(name, source, tiers)
	s.Description = "Custom strategy: " + strings.Join(descs, ", ")
	s.Color = "#8B5CF6"
	return s
}

// Validate checks strategy invariants
// 임계값 중복은 평가 순서를 비결정적으로 만들므로 거부
func (s *Strategy) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("strategy name is required")
	}

	switch s.Kind {
	case KindSingle:
		if s.Source != SignalPE && s.Source != SignalPB {
			return fmt.Errorf("strategy %s: source must be PE or PB, got %q", s.Name, s.Source)
		}
		seen := make(map[float64]bool, len(s.Tiers))
		for _, t := range s.Tiers {
			if math.IsNaN(t.Threshold) || math.IsInf(t.Threshold, 0) {
				return fmt.Errorf("strategy %s: tier threshold must be finite", s.Name)
			}
			if !finiteNonNegative(t.Multiplier) {
				return fmt.Errorf("strategy %s: tier multiplier must be finite and >= 0, got %g", s.Name, t.Multiplier)
			}
			if seen[t.Threshold] {
				return fmt.Errorf("strategy %s: duplicate tier threshold %g", s.Name, t.Threshold)
			}
			seen[t.Threshold] = true
		}
	case KindCombined:
		for _, t := range s.Combined {
			if t.Logic != LogicAND && t.Logic != LogicOR {
				return fmt.Errorf("strategy %s: combined tier logic must be AND or OR, got %q", s.Name, t.Logic)
			}
			if math.IsNaN(t.PEThreshold) || math.IsInf(t.PEThreshold, 0) ||
				math.IsNaN(t.PBThreshold) || math.IsInf(t.PBThreshold, 0) {
				return fmt.Errorf("strategy %s: combined tier thresholds must be finite", s.Name)
			}
			if !finiteNonNegative(t.Multiplier) {
				return fmt.Errorf("strategy %s: tier multiplier must be finite and >= 0, got %g", s.Name, t.Multiplier)
			}
		}
	default:
		return fmt.Errorf("strategy %s: unknown kind %q", s.Name, s.Kind)
	}

	return nil
}

// finiteNonNegative rejects NaN/Inf as well as negatives. NaN 배수는
// 비교에서 조용히 빠져나가 누적 합계를 오염시키므로 검증에서 막는다.
func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Multiplier returns the investment multiplier for a single signal value.
//
// Tiers are checked ascending by threshold; the first tier whose threshold
// covers the signal (signal <= threshold, inclusive) wins. A signal above
// every threshold gets the base 1.0. NaN never matches a tier, so missing
// signals also fall back to 1.0.
func (s *Strategy) Multiplier(signal float64) float64 {
	if len(s.Tiers) == 0 {
		return DefaultMultiplier
	}

	for _, tier := range sortedTiers(s.Tiers) {
		if signal <= tier.Threshold {
			return tier.Multiplier
		}
	}

	return DefaultMultiplier
}

// MultiplierDual returns the multiplier for a dual-signal strategy.
// Combined tiers are checked ascending by threshold sum (most restrictive
// first). Periods with a missing second signal are handled by the simulator
// before evaluation and never reach this method.
func (s *Strategy) MultiplierDual(pe, pb float64) float64 {
	if len(s.Combined) == 0 {
		return DefaultMultiplier
	}

	for _, tier := range sortedCombinedTiers(s.Combined) {
		switch tier.Logic {
		case LogicAND:
			if pe <= tier.PEThreshold && pb <= tier.PBThreshold {
				return tier.Multiplier
			}
		case LogicOR:
			if pe <= tier.PEThreshold || pb <= tier.PBThreshold {
				return tier.Multiplier
			}
		}
	}

	return DefaultMultiplier
}

func (s *Strategy) String() string {
	if s.Kind == KindCombined {
		parts := make([]string, 0, len(s.Combined))
		for _, t := range s.Combined {
			parts = append(parts, t.String())
		}
		return fmt.Sprintf("%s: [%s]", s.Name, strings.Join(parts, ", "))
	}

	parts := make([]string, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		parts = append(parts, fmt.Sprintf("%s %s", s.Source, t))
	}
	return fmt.Sprintf("%s: [%s]", s.Name, strings.Join(parts, ", "))
}
