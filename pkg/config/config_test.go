package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// 환경변수 정리 후 기본값 확인
	for _, key := range []string{"PORT", "ENV", "SIP_BASE_AMOUNT", "SIP_WEEKLY_ACCUMULATION", "LOG_LEVEL"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8098" {
		t.Errorf("expected port=8098, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected env=development, got %s", cfg.Env)
	}
	if cfg.SIP.BaseAmount != 10000 {
		t.Errorf("expected base amount=10000, got %f", cfg.SIP.BaseAmount)
	}
	if cfg.SIP.WeeklyAccumulation != 10000 {
		t.Errorf("expected weekly accumulation=10000, got %f", cfg.SIP.WeeklyAccumulation)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SIP_BASE_AMOUNT", "2500.5")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("expected env=production, got %s", cfg.Env)
	}
	if cfg.SIP.BaseAmount != 2500.5 {
		t.Errorf("expected base amount=2500.5, got %f", cfg.SIP.BaseAmount)
	}
	if cfg.Scheduler.Enabled {
		t.Error("expected scheduler disabled")
	}
	if cfg.Database.MaxConns != 42 {
		t.Errorf("expected max conns=42, got %d", cfg.Database.MaxConns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		base    float64
		weekly  float64
		wantErr bool
	}{
		{"valid development", "development", 1000, 1000, false},
		{"valid production", "production", 1, 1, false},
		{"invalid env", "local", 1000, 1000, true},
		{"zero base amount", "development", 0, 1000, true},
		{"negative weekly", "development", 1000, -1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Env: tc.env,
				SIP: SIPConfig{BaseAmount: tc.base, WeeklyAccumulation: tc.weekly},
			}
			err := cfg.validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", "QQQ, SPY ,,VTI")
	got := getEnvAsList("TEST_LIST", "QQQ")
	if len(got) != 3 || got[0] != "QQQ" || got[1] != "SPY" || got[2] != "VTI" {
		t.Errorf("expected [QQQ SPY VTI], got %v", got)
	}

	os.Unsetenv("TEST_LIST")
	got = getEnvAsList("TEST_LIST", "QQQ")
	if len(got) != 1 || got[0] != "QQQ" {
		t.Errorf("expected default [QQQ], got %v", got)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "not-a-number")
	if v := getEnvAsFloat("TEST_FLOAT", 7.5); v != 7.5 {
		t.Errorf("expected fallback 7.5, got %f", v)
	}

	t.Setenv("TEST_FLOAT", "3.14")
	if v := getEnvAsFloat("TEST_FLOAT", 7.5); v != 3.14 {
		t.Errorf("expected 3.14, got %f", v)
	}
}
