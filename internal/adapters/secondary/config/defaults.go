package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// Environment variable names. The credential is deliberately absent: it is
// read per command and never becomes part of the configuration.
const (
	envHost            = "DECKFORGE_HOST"
	envPort            = "DECKFORGE_PORT"
	envReadTimeout     = "DECKFORGE_READ_TIMEOUT"
	envWriteTimeout    = "DECKFORGE_WRITE_TIMEOUT"
	envShutdownTimeout = "DECKFORGE_SHUTDOWN_TIMEOUT"
	envMaxUploadMB     = "DECKFORGE_MAX_UPLOAD_MB"
	envEnvironment     = "DECKFORGE_ENV"
	envCORSOrigins     = "DECKFORGE_CORS_ORIGINS"

	envProvider      = "DECKFORGE_LLM_PROVIDER"
	envOpenAIModel   = "DECKFORGE_OPENAI_MODEL"
	envOpenAIBaseURL = "DECKFORGE_OPENAI_BASE_URL"
	envGeminiModel   = "DECKFORGE_GEMINI_MODEL"
	envLLMTimeout    = "DECKFORGE_LLM_TIMEOUT"
	envTemperature   = "DECKFORGE_TEMPERATURE"
	envMaxTokens     = "DECKFORGE_MAX_TOKENS"

	envStorageRoot   = "DECKFORGE_STORAGE_ROOT"
	envStorageTTL    = "DECKFORGE_STORAGE_TTL_MINUTES"
	envSweepInterval = "DECKFORGE_SWEEP_INTERVAL_SECONDS"
	envKeepOutputs   = "DECKFORGE_KEEP_OUTPUTS"

	envGuidance  = "DECKFORGE_DEFAULT_GUIDANCE"
	envDeckTitle = "DECKFORGE_DEFAULT_DECK_TITLE"

	envLogLevel   = "DECKFORGE_LOG_LEVEL"
	envLogVerbose = "DECKFORGE_LOG_VERBOSE"
	envLogJSON    = "DECKFORGE_LOG_JSON"
)

// DefaultConfig returns the built-in configuration without environment overrides
func DefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            "localhost",
			Port:            8000,
			ReadTimeout:     30,
			WriteTimeout:    120,
			ShutdownTimeout: 5,
			MaxUploadMB:     32,
			Environment:     "development",
			CORSOrigins:     []string{"*"},
		},
		LLM: entities.LLMConfig{
			DefaultProvider: entities.ProviderOpenAI,
			OpenAIModel:     "gpt-3.5-turbo",
			GeminiModel:     "gemini-2.0-flash",
			Timeout:         60,
			Temperature:     0.7,
			MaxTokens:       1000,
		},
		Storage: entities.StorageConfig{
			Root:                 "temp_files",
			TTLMinutes:           60,
			SweepIntervalSeconds: 300,
		},
		Generation: entities.GenerationConfig{
			DefaultGuidance:  "create a professional, well-structured presentation",
			DefaultDeckTitle: "Generated Presentation",
		},
		Logging: entities.LoggingConfig{
			Level: "info",
		},
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloatOrDefault returns environment variable as float32 or default
func getEnvFloatOrDefault(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// applyEnvironmentOverrides applies the model, storage and generation variables
func applyEnvironmentOverrides(config *entities.Config) {
	config.LLM.DefaultProvider = strings.ToLower(getEnvOrDefault(envProvider, config.LLM.DefaultProvider))
	config.LLM.OpenAIModel = getEnvOrDefault(envOpenAIModel, config.LLM.OpenAIModel)
	config.LLM.OpenAIBaseURL = getEnvOrDefault(envOpenAIBaseURL, config.LLM.OpenAIBaseURL)
	config.LLM.GeminiModel = getEnvOrDefault(envGeminiModel, config.LLM.GeminiModel)
	config.LLM.Timeout = getEnvIntOrDefault(envLLMTimeout, config.LLM.Timeout)
	config.LLM.Temperature = getEnvFloatOrDefault(envTemperature, config.LLM.Temperature)
	config.LLM.MaxTokens = getEnvIntOrDefault(envMaxTokens, config.LLM.MaxTokens)

	config.Storage.Root = getEnvOrDefault(envStorageRoot, config.Storage.Root)
	config.Storage.TTLMinutes = getEnvIntOrDefault(envStorageTTL, config.Storage.TTLMinutes)
	config.Storage.SweepIntervalSeconds = getEnvIntOrDefault(envSweepInterval, config.Storage.SweepIntervalSeconds)
	config.Storage.KeepOutputs = getEnvBoolOrDefault(envKeepOutputs, config.Storage.KeepOutputs)

	config.Generation.DefaultGuidance = getEnvOrDefault(envGuidance, config.Generation.DefaultGuidance)
	config.Generation.DefaultDeckTitle = getEnvOrDefault(envDeckTitle, config.Generation.DefaultDeckTitle)
}
