// Package config provides configuration management for the LacyLights MCP server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port           string
	Env            string
	RequestTimeout time.Duration

	// Database configuration (pattern store, settings, generation records)
	DatabaseURL string

	// LacyLights backend
	GraphQLEndpoint string

	// Language model configuration
	LLMProvider    string // openai | gemini | anthropic, empty = infer from model
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64

	// Provider credentials
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	AnthropicAPIKey string

	// Pattern store / recommendations
	EmbeddingProvider  string // hash | openai
	EmbeddingModel     string
	EmbeddingCacheSize int
	RecommendationTopK int

	// Prompt limits
	PromptMaxFixtures        int
	PromptMaxContextFixtures int
	PromptMaxScriptChars     int

	// Observability
	SentryDSN         string
	LangfuseEnabled   bool
	RecordGenerations bool

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port:           getEnv("PORT", "4100"),
		Env:            getEnv("ENV", "development"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 120*time.Second),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./mcp.db"),

		// Backend
		GraphQLEndpoint: getEnv("LACYLIGHTS_GRAPHQL_ENDPOINT", "http://localhost:4000/graphql"),

		// LLM
		LLMProvider:    getEnv("LLM_PROVIDER", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2000),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),

		// Credentials
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		// Patterns
		EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "hash"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingCacheSize: getEnvInt("EMBEDDING_CACHE_SIZE", 256),
		RecommendationTopK: getEnvInt("RECOMMENDATION_TOP_K", 3),

		// Prompt
		PromptMaxFixtures:        getEnvInt("PROMPT_MAX_FIXTURES", 40),
		PromptMaxContextFixtures: getEnvInt("PROMPT_MAX_CONTEXT_FIXTURES", 20),
		PromptMaxScriptChars:     getEnvInt("PROMPT_MAX_SCRIPT_CHARS", 4000),

		// Observability
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfuseEnabled:   getEnvBool("LANGFUSE_ENABLED", false),
		RecordGenerations: getEnvBool("RECORD_GENERATIONS", true),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("90s") or plain seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
