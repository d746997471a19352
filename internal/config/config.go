// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string `validate:"required"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	LLMProvider  string `validate:"oneof=openai gemini"`
	OpenAIAPIKey string `validate:"required_if=LLMProvider openai"`
	OpenAIModel  string
	GeminiAPIKey string `validate:"required_if=LLMProvider gemini"`
	GeminiModel  string
	// Base URL overrides point the clients at proxies or test servers.
	OpenAIBaseURL   string `validate:"omitempty,url"`
	GeminiBaseURL   string `validate:"omitempty,url"`
	SpotifyBaseURL  string `validate:"omitempty,url"`
	SpotifyTokenURL string `validate:"omitempty,url"`
	// ParseMode is auto, markdown or plain.
	ParseMode string `validate:"oneof=auto markdown plain"`

	SpotifyClientID     string  `validate:"required"`
	SpotifyClientSecret string  `validate:"required"`
	SpotifyMarket       string  `validate:"omitempty,len=2"`
	SpotifyRPS          float64 `validate:"gt=0"`

	MaxSongs           int           `validate:"gte=1,lte=50"`
	MaxResults         int           `validate:"gte=1,lte=50"`
	MaxRetries         int           `validate:"gte=1,lte=10"`
	RetryBaseDelay     time.Duration `validate:"gt=0"`
	ResolveConcurrency int           `validate:"gte=1,lte=32"`
	MinMatchScore      float64       `validate:"gte=0,lte=1"`

	CacheTTL     time.Duration `validate:"gt=0"`
	CacheMaxSize int           `validate:"gte=1"`
	RedisAddr    string

	RateLimit  int           `validate:"gte=1"`
	RateWindow time.Duration `validate:"gt=0"`

	RequestTimeout time.Duration
	CORSOrigins    []string
	MaxBodyBytes   int64 `validate:"gt=0"`
	EnableHSTS     bool
}

// LoadEnvFiles loads .env then .env.local. Variables already present in the
// process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var p parser
	cfg := Config{
		Addr:      getEnv("APP_ADDR", ":8080"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		ParseMode:    strings.ToLower(getEnv("SUGGESTION_FORMAT", "auto")),

		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		SpotifyBaseURL:  os.Getenv("SPOTIFY_API_URL"),
		SpotifyTokenURL: os.Getenv("SPOTIFY_TOKEN_URL"),

		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyMarket:       strings.ToUpper(os.Getenv("SPOTIFY_MARKET")),
		SpotifyRPS:          p.float("SPOTIFY_RPS", 10),

		MaxSongs:           p.int("MAX_SONGS", 5),
		MaxResults:         p.int("MAX_RESULTS", 5),
		MaxRetries:         p.int("MAX_RETRIES", 3),
		RetryBaseDelay:     p.duration("RETRY_BASE_DELAY", time.Second),
		ResolveConcurrency: p.int("RESOLVE_CONCURRENCY", 4),
		MinMatchScore:      p.float("MIN_MATCH_SCORE", 0),

		CacheTTL:     p.duration("CACHE_TTL", 300*time.Second),
		CacheMaxSize: p.int("CACHE_MAX_SIZE", 100),
		RedisAddr:    os.Getenv("REDIS_ADDR"),

		RateLimit:  p.int("RATE_LIMIT", 5),
		RateWindow: p.duration("RATE_WINDOW", 60*time.Second),

		RequestTimeout: p.duration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		MaxBodyBytes:   int64(p.int("MAX_BODY_BYTES", 1<<20)),
		EnableHSTS:     p.bool("ENABLE_HSTS", false),
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parser collects conversion errors so that every bad variable is reported.
type parser struct {
	errs []error
}

func (p *parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a number", key, v))
		return def
	}
	return f
}

func (p *parser) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a boolean", key, v))
		return def
	}
	return b
}

// duration accepts Go durations ("90s", "1m30s") and bare integers as seconds.
func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}
