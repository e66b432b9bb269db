package strategy

import (
	"fmt"
	"sort"
)

// Signal identifies which valuation column a single-signal strategy reads
type Signal string

const (
	SignalPE Signal = "PE"
	SignalPB Signal = "PB"
)

// Logic determines how a combined tier joins its two thresholds
type Logic string

const (
	LogicAND Logic = "AND" // 두 지표 모두 임계값 이하
	LogicOR  Logic = "OR"  // 둘 중 하나만 이하여도 충족
)

// Tier represents a valuation threshold and its corresponding multiplier
// 신호값이 Threshold 이하일 때 Multiplier 적용
type Tier struct {
	Threshold  float64 `yaml:"threshold" json:"threshold"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

func (t Tier) String() string {
	return fmt.Sprintf("≤%g: %gx", t.Threshold, t.Multiplier)
}

// CombinedTier represents a dual-signal PE+PB threshold
type CombinedTier struct {
	PEThreshold float64 `yaml:"pe_threshold" json:"pe_threshold"`
	PBThreshold float64 `yaml:"pb_threshold" json:"pb_threshold"`
	Multiplier  float64 `yaml:"multiplier" json:"multiplier"`
	Logic       Logic   `yaml:"logic" json:"logic"`
}

func (t CombinedTier) String() string {
	return fmt.Sprintf("PE≤%g %s PB≤%g: %gx", t.PEThreshold, t.Logic, t.PBThreshold, t.Multiplier)
}

// sortedTiers returns a copy sorted ascending by threshold.
// 원본을 변경하지 않음 (평가 함수는 순수해야 함)
func sortedTiers(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Threshold < out[j].Threshold
	})
	return out
}

// sortedCombinedTiers returns a copy sorted ascending by threshold sum.
// 합이 작을수록 더 극단적인 저평가 구간이므로 먼저 검사
func sortedCombinedTiers(tiers []CombinedTier) []CombinedTier {
	out := make([]CombinedTier, len(tiers))
	copy(out, tiers)
	sort.Slice(out, func(i, j int) bool {
		return out[i].PEThreshold+out[i].PBThreshold < out[j].PEThreshold+out[j].PBThreshold
	})
	return out
}
