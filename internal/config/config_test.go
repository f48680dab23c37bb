package config

import (
	"os"
	"testing"
	"time"
)

// unsetEnv removes a variable for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, v := range []string{
		"PORT", "ENV", "DATABASE_URL", "REQUEST_TIMEOUT",
		"LACYLIGHTS_GRAPHQL_ENDPOINT", "LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS", "LLM_TEMPERATURE",
		"EMBEDDING_PROVIDER", "EMBEDDING_CACHE_SIZE", "RECOMMENDATION_TOP_K",
		"PROMPT_MAX_FIXTURES", "PROMPT_MAX_CONTEXT_FIXTURES", "PROMPT_MAX_SCRIPT_CHARS",
		"LANGFUSE_ENABLED", "RECORD_GENERATIONS", "CORS_ORIGIN",
	} {
		unsetEnv(t, v)
	}

	cfg := Load()

	if cfg.Port != "4100" {
		t.Errorf("Expected Port to be '4100', got '%s'", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Expected Env to be 'development', got '%s'", cfg.Env)
	}
	if cfg.DatabaseURL != "file:./mcp.db" {
		t.Errorf("Expected DatabaseURL to be 'file:./mcp.db', got '%s'", cfg.DatabaseURL)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("Expected RequestTimeout to be 120s, got %v", cfg.RequestTimeout)
	}
	if cfg.GraphQLEndpoint != "http://localhost:4000/graphql" {
		t.Errorf("Unexpected GraphQLEndpoint '%s'", cfg.GraphQLEndpoint)
	}
	if cfg.LLMModel != "gpt-4o" {
		t.Errorf("Expected LLMModel to be 'gpt-4o', got '%s'", cfg.LLMModel)
	}
	if cfg.LLMMaxTokens != 2000 {
		t.Errorf("Expected LLMMaxTokens to be 2000, got %d", cfg.LLMMaxTokens)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Errorf("Expected LLMTemperature to be 0.7, got %v", cfg.LLMTemperature)
	}
	if cfg.EmbeddingProvider != "hash" {
		t.Errorf("Expected EmbeddingProvider to be 'hash', got '%s'", cfg.EmbeddingProvider)
	}
	if cfg.RecommendationTopK != 3 {
		t.Errorf("Expected RecommendationTopK to be 3, got %d", cfg.RecommendationTopK)
	}
	if cfg.PromptMaxFixtures != 40 || cfg.PromptMaxContextFixtures != 20 || cfg.PromptMaxScriptChars != 4000 {
		t.Errorf("Unexpected prompt limits: %d/%d/%d",
			cfg.PromptMaxFixtures, cfg.PromptMaxContextFixtures, cfg.PromptMaxScriptChars)
	}
	if cfg.LangfuseEnabled {
		t.Error("Expected LangfuseEnabled to default to false")
	}
	if !cfg.RecordGenerations {
		t.Error("Expected RecordGenerations to default to true")
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected IsDevelopment to be true by default")
	}
}

func TestLoad_CustomEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://mcp@localhost/mcp")
	t.Setenv("REQUEST_TIMEOUT", "45s")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_MODEL", "gemini-2.0-flash")
	t.Setenv("LLM_MAX_TOKENS", "4096")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("EMBEDDING_PROVIDER", "openai")
	t.Setenv("RECOMMENDATION_TOP_K", "5")
	t.Setenv("PROMPT_MAX_CONTEXT_FIXTURES", "8")
	t.Setenv("LANGFUSE_ENABLED", "true")
	t.Setenv("CORS_ORIGIN", "http://example.com")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction to be true")
	}
	if cfg.DatabaseURL != "postgres://mcp@localhost/mcp" {
		t.Errorf("Unexpected DatabaseURL '%s'", cfg.DatabaseURL)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("Expected RequestTimeout to be 45s, got %v", cfg.RequestTimeout)
	}
	if cfg.LLMProvider != "gemini" || cfg.LLMModel != "gemini-2.0-flash" {
		t.Errorf("Unexpected LLM settings: %s/%s", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.LLMMaxTokens != 4096 {
		t.Errorf("Expected LLMMaxTokens to be 4096, got %d", cfg.LLMMaxTokens)
	}
	if cfg.LLMTemperature != 0.2 {
		t.Errorf("Expected LLMTemperature to be 0.2, got %v", cfg.LLMTemperature)
	}
	if cfg.EmbeddingProvider != "openai" {
		t.Errorf("Expected EmbeddingProvider to be 'openai', got '%s'", cfg.EmbeddingProvider)
	}
	if cfg.RecommendationTopK != 5 {
		t.Errorf("Expected RecommendationTopK to be 5, got %d", cfg.RecommendationTopK)
	}
	if cfg.PromptMaxContextFixtures != 8 {
		t.Errorf("Expected PromptMaxContextFixtures to be 8, got %d", cfg.PromptMaxContextFixtures)
	}
	if !cfg.LangfuseEnabled {
		t.Error("Expected LangfuseEnabled to be true")
	}
	if cfg.CORSOrigin != "http://example.com" {
		t.Errorf("Expected CORSOrigin to be 'http://example.com', got '%s'", cfg.CORSOrigin)
	}
}

func TestGetEnvInt_InvalidValue(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	if result := getEnvInt("TEST_INT", 42); result != 42 {
		t.Errorf("Expected default value 42 for invalid int, got %d", result)
	}
}

func TestGetEnvBool_InvalidValue(t *testing.T) {
	t.Setenv("TEST_BOOL", "maybe")
	if result := getEnvBool("TEST_BOOL", true); result != true {
		t.Errorf("Expected default value true for invalid bool, got %v", result)
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"duration string", "90s", 90 * time.Second},
		{"plain seconds", "30", 30 * time.Second},
		{"minutes", "2m", 2 * time.Minute},
		{"invalid", "soon", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvDuration("TEST_DURATION", 5*time.Second); got != tt.expected {
				t.Errorf("getEnvDuration(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestGetEnvFloat_InvalidValue(t *testing.T) {
	t.Setenv("TEST_FLOAT", "warm")
	if result := getEnvFloat("TEST_FLOAT", 0.5); result != 0.5 {
		t.Errorf("Expected default 0.5 for invalid float, got %v", result)
	}
}
