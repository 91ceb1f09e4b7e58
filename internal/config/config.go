package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// SemanticScorePolicy controls when the analysis pipeline computes the
// semantic similarity score against the profile embedding.
type SemanticScorePolicy string

const (
	// SemanticProfileGated computes the score only when a profile
	// embedding already exists.
	SemanticProfileGated SemanticScorePolicy = "profile-gated"
	// SemanticAlways embeds the description and scores it whenever an
	// embedding provider is available.
	SemanticAlways SemanticScorePolicy = "always"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	AI       AIConfig
	Analyzer AnalyzerConfig
	Storage  StorageConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

// AIConfig holds provider credentials. An empty key disables the
// corresponding provider instead of erroring.
type AIConfig struct {
	GeminiAPIKey   string
	GeminiModels   []string
	OpenAIAPIKey   string
	OpenAIModel    string
	HeliconeAPIKey string

	RequestTimeout time.Duration

	SemanticScorePolicy SemanticScorePolicy
}

type AnalyzerConfig struct {
	FetchTimeout    time.Duration
	HeadlessEnabled bool
}

type StorageConfig struct {
	Dir string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        durationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32Env("DB_POOL_MAX_CONNS", 0),
		PoolMinConns:          int32Env("DB_POOL_MIN_CONNS", 0),
		PoolMaxConnLifetime:   durationEnv("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   durationEnv("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: durationEnv("DB_POOL_HEALTH_CHECK_PERIOD", 0),

		MigrationsDir: opt("DB_MIGRATIONS_DIR"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: durationEnv("JWT_ACCESS_EXPIRES_IN", 24*time.Hour),
	}

	cfg.AI = AIConfig{
		GeminiAPIKey:        opt("GEMINI_API_KEY"),
		GeminiModels:        listEnv("GEMINI_MODELS", []string{"gemini-2.0-flash", "gemini-1.5-flash"}),
		OpenAIAPIKey:        opt("OPENAI_API_KEY"),
		OpenAIModel:         stringEnv("OPENAI_MODEL", "gpt-4o-mini"),
		HeliconeAPIKey:      opt("HELICONE_API_KEY"),
		RequestTimeout:      durationEnv("AI_REQUEST_TIMEOUT", 30*time.Second),
		SemanticScorePolicy: semanticPolicyEnv("SEMANTIC_SCORE_POLICY"),
	}

	cfg.Analyzer = AnalyzerConfig{
		FetchTimeout:    durationEnv("ANALYZER_FETCH_TIMEOUT", 10*time.Second),
		HeadlessEnabled: boolEnv("ANALYZER_HEADLESS", false),
	}

	cfg.Storage = StorageConfig{
		Dir: stringEnv("STORAGE_DIR", "storage"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func listEnv(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func int32Env(key string, fallback int32) int32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}

func boolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func semanticPolicyEnv(key string) SemanticScorePolicy {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case string(SemanticAlways):
		return SemanticAlways
	default:
		return SemanticProfileGated
	}
}
