package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	// Per-IP limit on /api/chat. Zero disables throttling.
	ChatRatePerMinute int

	// Knowledge base
	KnowledgeFile string

	// Intent pipeline tuning. The fuzzy cutoff and the price-marker word list
	// are product decisions, not correctness ones, so both are configurable.
	// The similarity ratio never drops below 0.5 for equal-length inputs;
	// keep FUZZY_CUTOFF above that.
	FuzzyCutoff  float64
	PriceMarkers []string

	// LLM fallback
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMTimeout    time.Duration
	LLMMaxTokens  int
	Temperature   float32

	// Cached website text for the fallback prompt
	SiteURL          string
	SiteCacheFile    string
	SiteCacheTTL     time.Duration
	SiteTextMaxChars int

	// Redis (site-text cache)
	RedisAddr     string
	RedisPassword string

	// Booking storage
	DatabaseURL string

	// Confirmation email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		CORSAllowedOrigins: getEnvAsList("APP_ALLOWED_ORIGINS", []string{"*"}),

		ChatRatePerMinute: getEnvAsInt("CHAT_RATE_PER_MINUTE", 30),

		KnowledgeFile: getEnv("KNOWLEDGE_FILE", "config/praxis.json"),

		FuzzyCutoff:  getEnvAsFloat("FUZZY_CUTOFF", 0.65),
		PriceMarkers: getEnvAsList("PRICE_MARKERS", nil),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("FINETUNED_MODEL", "gpt-4o-mini"),
		LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 15*time.Second),
		LLMMaxTokens:  getEnvAsInt("LLM_MAX_TOKENS", 512),
		Temperature:   float32(getEnvAsFloat("LLM_TEMPERATURE", 0.3)),

		SiteURL:          getEnv("SITE_URL", "https://www.liquid-aesthetik.de"),
		SiteCacheFile:    getEnv("SITE_CACHE_FILE", "website_data.txt"),
		SiteCacheTTL:     getEnvAsDuration("SITE_CACHE_TTL", 24*time.Hour),
		SiteTextMaxChars: getEnvAsInt("SITE_TEXT_MAX_CHARS", 15000),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Liquid Aesthetik"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, trimming blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
