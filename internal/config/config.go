// Package config centralises configuration parsing for the extracurricular service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the extracurricular service.
type Config struct {
	HTTPAddress           string
	StaticDir             string
	AllowedOrigin         string
	KafkaBrokers          []string
	SchemaRegistryURL     string
	SchemaRegistryTimeout time.Duration
	RosterTopic           string
	FeedFlushInterval     time.Duration
	FeedBatchSize         int
	FeedBufferSize        int
}

// Load reads environment variables into Config, applying sensible defaults
// for local dev. The roster feed stays disabled until KAFKA_BROKERS is set.
func Load() Config {
	cfg := Config{
		HTTPAddress:           getEnv("HTTP_ADDRESS", ":8080"),
		StaticDir:             getEnv("STATIC_DIR", "web/static"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", ""),
		SchemaRegistryURL:     getEnv("SCHEMA_REGISTRY_URL", "http://schema-registry:8081"),
		SchemaRegistryTimeout: getDurationEnv("SCHEMA_REGISTRY_TIMEOUT", 10*time.Second),
		RosterTopic:           getEnv("ROSTER_TOPIC", "roster_events"),
		FeedFlushInterval:     getDurationEnv("FEED_FLUSH_INTERVAL", 2*time.Second),
		FeedBatchSize:         getIntEnv("FEED_BATCH_SIZE", 25),
		FeedBufferSize:        getIntEnv("FEED_BUFFER_SIZE", 256),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
