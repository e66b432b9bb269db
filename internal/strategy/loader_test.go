package strategy

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, `
strategies:
  - name: My PE Ladder
    tiers:
      - threshold: 20
        multiplier: 2
      - threshold: 18
        multiplier: 3
  - name: My Dual
    kind: COMBINED
    combined_tiers:
      - pe_threshold: 20
        pb_threshold: 3.0
        multiplier: 2
        logic: AND
bullets:
  - name: My Bullet
    cheap: 20
    very_cheap: 18
    extremely_cheap: 16
    cheap_pct: 25
    very_cheap_pct: 50
    extremely_cheap_pct: 100
`)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if len(f.Strategies) != 2 {
		t.Fatalf("expected 2 strategies, got %d", len(f.Strategies))
	}

	// 생략된 kind/source는 기본값으로 채워진다
	if f.Strategies[0].Kind != KindSingle || f.Strategies[0].Source != SignalPE {
		t.Errorf("defaults not applied: kind=%s source=%s",
			f.Strategies[0].Kind, f.Strategies[0].Source)
	}
	// 19는 18 티어를 넘기고 20 티어에 걸린다
	if got := f.Strategies[0].Multiplier(19); got != 2.0 {
		t.Errorf("loaded strategy Multiplier(19) = %g, want 2", got)
	}
	if got := f.Strategies[0].Multiplier(17); got != 3.0 {
		t.Errorf("loaded strategy Multiplier(17) = %g, want 3", got)
	}

	if f.Strategies[1].Kind != KindCombined {
		t.Errorf("kind = %s, want COMBINED", f.Strategies[1].Kind)
	}

	if len(f.Bullets) != 1 {
		t.Fatalf("expected 1 bullet config, got %d", len(f.Bullets))
	}
	if f.Bullets[0].Source != SignalPE {
		t.Errorf("bullet source default not applied, got %s", f.Bullets[0].Source)
	}
}

func TestLoadFileUnknownField(t *testing.T) {
	path := writeTemp(t, `
strategies:
  - name: Typo Strategy
    tires:
      - threshold: 20
        multiplier: 2
`)

	if _, err := LoadFile(path); err == nil {
		t.Error("unknown field should fail to parse")
	}
}

func TestLoadFileInvalidStrategy(t *testing.T) {
	path := writeTemp(t, `
strategies:
  - name: Dup Thresholds
    tiers:
      - threshold: 18
        multiplier: 2
      - threshold: 18
        multiplier: 3
`)

	if _, err := LoadFile(path); err == nil {
		t.Error("invalid strategy should fail validation on load")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should error")
	}
}
