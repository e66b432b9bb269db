package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/valuesip/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "console",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "unknown level falls back to info",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "verbose",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			if log == nil {
				t.Fatal("New returned nil")
			}
			if got := zerolog.GlobalLevel(); got != tt.wantLevel {
				t.Errorf("expected global level %s, got %s", tt.wantLevel, got)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		if got := parseLogLevel(tc.input); got != tc.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestWithFields(t *testing.T) {
	cfg := &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}
	log := New(cfg)

	// 파생 로거가 원본과 독립적인 인스턴스인지 확인
	derived := log.WithField("strategy", "opportunistic")
	if derived == log {
		t.Error("WithField should return a new logger")
	}

	derived2 := log.WithFields(map[string]interface{}{
		"base_amount": 10000,
		"periods":     520,
	})
	if derived2 == log {
		t.Error("WithFields should return a new logger")
	}
}
