package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	SiteName string

	// Lead capture
	LeadSource            string
	DefaultCountryCode    string
	ValidationCodeEnabled bool
	MaxBodyBytes          int64

	// Automation webhook (n8n)
	N8NWebhookURL string

	// Meta Conversions API
	MetaPixelID         string
	MetaAccessToken     string
	MetaGraphAPIBase    string
	MetaTestEventCode   string
	MetaContentName     string
	MetaContentCategory string

	// Redis stream destination
	RedisAddr        string
	RedisPassword    string
	RedisTLS         bool
	LeadStreamKey    string
	LeadStreamMaxLen int64

	// SQS destination
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	LeadQueueURL        string

	// Kafka destination
	KafkaBrokers []string
	KafkaTopic   string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		SiteName: strings.TrimSpace(getEnv("SITE_NAME", "")),

		LeadSource:            getEnv("LEAD_SOURCE", "landing_page"),
		DefaultCountryCode:    getEnv("DEFAULT_COUNTRY_CODE", "+55"),
		ValidationCodeEnabled: getEnvAsBool("VALIDATION_CODE_ENABLED", false),
		MaxBodyBytes:          int64(getEnvAsInt("LEAD_MAX_BODY_BYTES", 64<<10)),

		N8NWebhookURL: strings.TrimSpace(getEnv("N8N_WEBHOOK_URL", "")),

		MetaPixelID:         strings.TrimSpace(getEnv("META_PIXEL_ID", "")),
		MetaAccessToken:     strings.TrimSpace(getEnv("META_ACCESS_TOKEN", "")),
		MetaGraphAPIBase:    getEnv("META_GRAPH_API_BASE", "https://graph.facebook.com/v21.0"),
		MetaTestEventCode:   getEnv("META_TEST_EVENT_CODE", ""),
		MetaContentName:     getEnv("META_CONTENT_NAME", "Formulario Landing Page"),
		MetaContentCategory: getEnv("META_CONTENT_CATEGORY", "lead"),

		RedisAddr:        strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
		LeadStreamKey:    getEnv("LEAD_STREAM_KEY", "leads"),
		LeadStreamMaxLen: int64(getEnvAsInt("LEAD_STREAM_MAXLEN", 10000)),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		LeadQueueURL:        strings.TrimSpace(getEnv("LEAD_QUEUE_URL", "")),

		KafkaBrokers: getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:   strings.TrimSpace(getEnv("KAFKA_TOPIC", "")),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// MetaEnabled reports whether both Conversions API credentials are present.
func (c *Config) MetaEnabled() bool {
	return strings.TrimSpace(c.MetaPixelID) != "" && strings.TrimSpace(c.MetaAccessToken) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
