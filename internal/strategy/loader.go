package strategy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape for user-defined strategies
type File struct {
	Strategies []*Strategy     `yaml:"strategies"`
	Bullets    []*BulletConfig `yaml:"bullets"`
}

// LoadFile reads user-defined strategies from a YAML file
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, s := range f.Strategies {
		if s.Kind == "" {
			s.Kind = KindSingle // 단일 신호가 기본
		}
		if s.Kind == KindSingle && s.Source == "" {
			s.Source = SignalPE
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, c := range f.Bullets {
		if c.Kind == "" {
			c.Kind = KindSingle
		}
		if c.Kind == KindSingle && c.Source == "" {
			c.Source = SignalPE
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return &f, nil
}
