package config

import (
	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Defaults returns the built-in configuration
func (m *ConfigMerger) Defaults() *entities.Config {
	return DefaultConfig()
}

// Merge overlays configs in order, later layers winning; an empty call yields the defaults
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return DefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = &entities.Config{}
	}

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyOverrides applies command-line settings; verbose also lowers the level to debug
func (m *ConfigMerger) ApplyOverrides(config *entities.Config, overrides entities.ConfigOverrides) *entities.Config {
	result := deepCopy(config)

	if overrides.Port > 0 {
		result.Server.Port = overrides.Port
	}
	if overrides.Host != "" {
		result.Server.Host = overrides.Host
	}
	if overrides.StorageRoot != "" {
		result.Storage.Root = overrides.StorageRoot
	}
	if overrides.Verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}
	if overrides.JSONLogs {
		result.Logging.JSONFormat = true
	}

	return result
}

// ApplyEnv applies DECKFORGE_* variables; unparsable values are ignored
func (m *ConfigMerger) ApplyEnv(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	result.Server.Host = getEnvOrDefault(envHost, result.Server.Host)
	if port := getEnvIntOrDefault(envPort, 0); port > 0 {
		result.Server.Port = port
	}
	result.Server.ReadTimeout = getEnvIntOrDefault(envReadTimeout, result.Server.ReadTimeout)
	result.Server.WriteTimeout = getEnvIntOrDefault(envWriteTimeout, result.Server.WriteTimeout)
	result.Server.ShutdownTimeout = getEnvIntOrDefault(envShutdownTimeout, result.Server.ShutdownTimeout)
	result.Server.MaxUploadMB = getEnvIntOrDefault(envMaxUploadMB, result.Server.MaxUploadMB)
	result.Server.Environment = getEnvOrDefault(envEnvironment, result.Server.Environment)
	result.Server.CORSOrigins = getEnvSliceOrDefault(envCORSOrigins, result.Server.CORSOrigins)

	result.Logging.Level = getEnvOrDefault(envLogLevel, result.Logging.Level)
	result.Logging.Verbose = getEnvBoolOrDefault(envLogVerbose, result.Logging.Verbose)
	result.Logging.JSONFormat = getEnvBoolOrDefault(envLogJSON, result.Logging.JSONFormat)

	applyEnvironmentOverrides(result)

	return result
}

// mergeInto merges source configuration into target configuration.
// TOML cannot distinguish false from unset, so booleans only ever switch on.
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.MaxUploadMB != 0 {
		target.Server.MaxUploadMB = source.Server.MaxUploadMB
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = copyStrings(source.Server.CORSOrigins)
	}

	// LLM config
	if source.LLM.DefaultProvider != "" {
		target.LLM.DefaultProvider = source.LLM.DefaultProvider
	}
	if source.LLM.OpenAIModel != "" {
		target.LLM.OpenAIModel = source.LLM.OpenAIModel
	}
	if source.LLM.OpenAIBaseURL != "" {
		target.LLM.OpenAIBaseURL = source.LLM.OpenAIBaseURL
	}
	if source.LLM.GeminiModel != "" {
		target.LLM.GeminiModel = source.LLM.GeminiModel
	}
	if source.LLM.Timeout != 0 {
		target.LLM.Timeout = source.LLM.Timeout
	}
	if source.LLM.Temperature != 0 {
		target.LLM.Temperature = source.LLM.Temperature
	}
	if source.LLM.MaxTokens != 0 {
		target.LLM.MaxTokens = source.LLM.MaxTokens
	}

	// Storage config
	if source.Storage.Root != "" {
		target.Storage.Root = source.Storage.Root
	}
	if source.Storage.TTLMinutes != 0 {
		target.Storage.TTLMinutes = source.Storage.TTLMinutes
	}
	if source.Storage.SweepIntervalSeconds != 0 {
		target.Storage.SweepIntervalSeconds = source.Storage.SweepIntervalSeconds
	}
	target.Storage.KeepOutputs = target.Storage.KeepOutputs || source.Storage.KeepOutputs

	// Generation config
	if source.Generation.DefaultGuidance != "" {
		target.Generation.DefaultGuidance = source.Generation.DefaultGuidance
	}
	if source.Generation.DefaultDeckTitle != "" {
		target.Generation.DefaultDeckTitle = source.Generation.DefaultDeckTitle
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	target.Logging.Verbose = target.Logging.Verbose || source.Logging.Verbose
	target.Logging.JSONFormat = target.Logging.JSONFormat || source.Logging.JSONFormat
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	dst.Server.CORSOrigins = copyStrings(src.Server.CORSOrigins)
	return &dst
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
