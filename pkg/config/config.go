package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Simulation defaults
	SIP SIPConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SIPConfig holds default simulation parameters
type SIPConfig struct {
	BaseAmount         float64  // 주당 기본 투자금
	WeeklyAccumulation float64  // 불릿 전략 주간 적립금
	SeriesCSV          string   // 정렬된 주간 시계열 CSV 경로
	CustomStrategyFile string   // 사용자 정의 전략 YAML (선택)
	Symbols            []string // 추천 스냅샷 대상 심볼
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled           bool
	RecommendSchedule string // cron expression (with seconds)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8098"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Simulation defaults
		SIP: SIPConfig{
			BaseAmount:         getEnvAsFloat("SIP_BASE_AMOUNT", 10000),
			WeeklyAccumulation: getEnvAsFloat("SIP_WEEKLY_ACCUMULATION", 10000),
			SeriesCSV:          getEnv("SIP_SERIES_CSV", "data/weekly_valuations.csv"),
			CustomStrategyFile: getEnv("SIP_CUSTOM_STRATEGIES", ""),
			Symbols:            getEnvAsList("SIP_SYMBOLS", "QQQ"),
		},

		// Scheduler
		Scheduler: SchedulerConfig{
			Enabled:           getEnvAsBool("SCHEDULER_ENABLED", true),
			RecommendSchedule: getEnv("SCHEDULER_RECOMMEND_CRON", "0 0 9 * * 1"), // 매주 월요일 09:00
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.SIP.BaseAmount <= 0 {
		return fmt.Errorf("SIP_BASE_AMOUNT must be > 0")
	}
	if c.SIP.WeeklyAccumulation <= 0 {
		return fmt.Errorf("SIP_WEEKLY_ACCUMULATION must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
