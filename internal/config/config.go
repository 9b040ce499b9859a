// Package config loads configuration from the environment and an optional
// YAML file, and sets up logging.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM or embedding backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values for the advisor service.
type Config struct {
	// HTTP server
	Port string `yaml:"port"`

	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Inference
	LLMProvider     Provider      `yaml:"llm_provider"`
	LLMModel        string        `yaml:"llm_model"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	OllamaHost      string        `yaml:"ollama_host"`
	BedrockRegion   string        `yaml:"bedrock_region"`
	LLMTimeout      time.Duration `yaml:"llm_timeout"`

	// Embedding
	EmbedProvider  Provider `yaml:"embed_provider"`
	EmbedModel     string   `yaml:"embed_model"`
	EmbedDimension int      `yaml:"embed_dimension"`

	// Turn-memory store
	MemoryStoreURL string `yaml:"memory_store_url"`

	// Domain tool services
	DomainServiceURL string `yaml:"domain_service_url"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	return Config{
		Port: getEnv("ADVISOR_PORT", "8585"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "complyward"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "advisor"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(getEnv("ADVISOR_LLM_PROVIDER", "anthropic")),
		LLMModel:        getEnv("ADVISOR_LLM_MODEL", "claude-3-5-sonnet-latest"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		BedrockRegion:   getEnv("AWS_REGION", "us-east-1"),
		LLMTimeout:      getDuration("ADVISOR_LLM_TIMEOUT", 120*time.Second),

		EmbedProvider:  Provider(getEnv("ADVISOR_EMBED_PROVIDER", "ollama")),
		EmbedModel:     getEnv("ADVISOR_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: getInt("ADVISOR_EMBED_DIMENSION", 384),

		MemoryStoreURL:   getEnv("ADVISOR_MEMORY_STORE_URL", "http://localhost:8600"),
		DomainServiceURL: getEnv("ADVISOR_DOMAIN_SERVICE_URL", "http://localhost:8700"),

		LogFile:  getEnv("ADVISOR_LOG_FILE", "/tmp/advisor.log"),
		LogLevel: parseLogLevel(getEnv("ADVISOR_LOG_LEVEL", "INFO")),
	}
}

// LoadFile loads configuration from the environment, then overlays values
// from a YAML file.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
