// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backends for sessions and identity.
const (
	BackendLocal    = "local"
	BackendSupabase = "supabase"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is the sqlite file. Empty means the default under the data
	// directory.
	DBPath   string
	Backend  string
	Supabase SupabaseConfig

	HistoryWindow        int
	QuizDifficulty       string
	SequenceWinThreshold int

	ListenAddr  string
	CORSOrigins []string

	// LogLevel is empty when unset so each command can pick its own
	// default.
	LogLevel string
}

// SupabaseConfig locates the hosted backend.
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. It reports whether any file was read.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:  getEnv("LENNAI_DB", ""),
		Backend: strings.ToLower(getEnv("LENNAI_BACKEND", BackendLocal)),
		Supabase: SupabaseConfig{
			URL:     getEnv("LENNAI_SUPABASE_URL", ""),
			AnonKey: getEnv("LENNAI_SUPABASE_ANON_KEY", ""),
		},
		HistoryWindow:        getEnvInt("LENNAI_HISTORY_WINDOW", 5),
		QuizDifficulty:       getEnv("LENNAI_QUIZ_DIFFICULTY", "Exam-level"),
		SequenceWinThreshold: getEnvInt("LENNAI_SEQUENCE_WIN_THRESHOLD", 100),
		ListenAddr:           getEnv("LENNAI_LISTEN_ADDR", ":8080"),
		CORSOrigins:          getEnvList("LENNAI_CORS_ORIGINS"),
		LogLevel:             getEnv("LENNAI_LOG_LEVEL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges and backend requirements.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return errors.New("LENNAI_SUPABASE_URL and LENNAI_SUPABASE_ANON_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("LENNAI_BACKEND must be %q or %q, got %q", BackendLocal, BackendSupabase, c.Backend)
	}
	if c.HistoryWindow <= 0 {
		return errors.New("LENNAI_HISTORY_WINDOW must be > 0")
	}
	if c.SequenceWinThreshold < 1 || c.SequenceWinThreshold > 100 {
		return errors.New("LENNAI_SEQUENCE_WIN_THRESHOLD must be between 1 and 100")
	}
	if strings.TrimSpace(c.QuizDifficulty) == "" {
		return errors.New("LENNAI_QUIZ_DIFFICULTY cannot be empty")
	}
	if c.ListenAddr == "" {
		return errors.New("LENNAI_LISTEN_ADDR cannot be empty")
	}
	if c.LogLevel != "" {
		if _, err := ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Level returns the configured log level, or fallback when unset.
func (c *Config) Level(fallback slog.Level) slog.Level {
	if c.LogLevel == "" {
		return fallback
	}
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return fallback
	}
	return lvl
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LENNAI_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
