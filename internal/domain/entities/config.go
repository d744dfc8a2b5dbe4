package entities

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	LLM        LLMConfig        `toml:"llm"`
	Storage    StorageConfig    `toml:"storage"`
	Generation GenerationConfig `toml:"generation"`
	Logging    LoggingConfig    `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	MaxUploadMB     int      `toml:"max_upload_mb"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	if s.MaxUploadMB < 0 {
		return errors.New("max upload size must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration.
// Generation blocks on the model call, so the default is generous.
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetMaxUploadBytes returns the multipart request limit in bytes
func (s ServerConfig) GetMaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 32 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8000",
			"http://127.0.0.1:8000",
		}
	}
	return s.CORSOrigins
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// Provider names understood by the model factory
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLMConfig contains completion-service configuration
type LLMConfig struct {
	DefaultProvider string  `toml:"default_provider"`
	OpenAIModel     string  `toml:"openai_model"`
	OpenAIBaseURL   string  `toml:"openai_base_url"`
	GeminiModel     string  `toml:"gemini_model"`
	Timeout         int     `toml:"timeout"`
	Temperature     float32 `toml:"temperature"`
	MaxTokens       int     `toml:"max_tokens"`
}

// Validate validates LLM configuration
func (l LLMConfig) Validate() error {
	switch l.DefaultProvider {
	case "", ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown default provider: %s (must be openai or gemini)", l.DefaultProvider)
	}

	if l.Timeout < 0 {
		return errors.New("llm timeout must be non-negative")
	}

	if l.Temperature < 0 || l.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}

	if l.MaxTokens < 0 {
		return errors.New("max tokens must be non-negative")
	}

	if l.OpenAIBaseURL != "" && !strings.HasPrefix(l.OpenAIBaseURL, "http://") && !strings.HasPrefix(l.OpenAIBaseURL, "https://") {
		return fmt.Errorf("openai base URL must start with http:// or https://: %s", l.OpenAIBaseURL)
	}

	return nil
}

// GetDefaultProvider returns the provider used when a request names none or an unknown one
func (l LLMConfig) GetDefaultProvider() string {
	if l.DefaultProvider == "" {
		return ProviderOpenAI
	}
	return l.DefaultProvider
}

// GetOpenAIModel returns the OpenAI model name with default
func (l LLMConfig) GetOpenAIModel() string {
	if l.OpenAIModel == "" {
		return "gpt-3.5-turbo"
	}
	return l.OpenAIModel
}

// GetGeminiModel returns the Gemini model name with default
func (l LLMConfig) GetGeminiModel() string {
	if l.GeminiModel == "" {
		return "gemini-2.0-flash"
	}
	return l.GeminiModel
}

// GetTimeout returns the per-call model timeout
func (l LLMConfig) GetTimeout() time.Duration {
	if l.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(l.Timeout) * time.Second
}

// GetTemperature returns the sampling temperature with default
func (l LLMConfig) GetTemperature() float32 {
	if l.Temperature <= 0 {
		return 0.7
	}
	return l.Temperature
}

// GetMaxTokens returns the output token bound with default
func (l LLMConfig) GetMaxTokens() int {
	if l.MaxTokens <= 0 {
		return 1000
	}
	return l.MaxTokens
}

// StorageConfig contains request workspace configuration
type StorageConfig struct {
	Root                 string `toml:"root"`
	TTLMinutes           int    `toml:"ttl_minutes"`
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"`
	KeepOutputs          bool   `toml:"keep_outputs"`
}

// Validate validates storage configuration
func (s StorageConfig) Validate() error {
	if s.TTLMinutes < 0 {
		return errors.New("workspace ttl must be non-negative")
	}
	if s.SweepIntervalSeconds < 0 {
		return errors.New("sweep interval must be non-negative")
	}
	return nil
}

// GetRoot returns the workspace root directory
func (s StorageConfig) GetRoot() string {
	if s.Root == "" {
		return "temp_files"
	}
	return s.Root
}

// GetTTL returns how long an abandoned workspace may live
func (s StorageConfig) GetTTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// GetSweepInterval returns the sweeper period
func (s StorageConfig) GetSweepInterval() time.Duration {
	if s.SweepIntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

// GenerationConfig contains outline and deck defaults
type GenerationConfig struct {
	DefaultGuidance  string `toml:"default_guidance"`
	DefaultDeckTitle string `toml:"default_deck_title"`
}

// GetDefaultGuidance returns the guidance used when a request gives none
func (g GenerationConfig) GetDefaultGuidance() string {
	if strings.TrimSpace(g.DefaultGuidance) == "" {
		return "create a professional, well-structured presentation"
	}
	return g.DefaultGuidance
}

// GetDefaultDeckTitle returns the title of a synthesized cover slide
func (g GenerationConfig) GetDefaultDeckTitle() string {
	if strings.TrimSpace(g.DefaultDeckTitle) == "" {
		return "Generated Presentation"
	}
	return g.DefaultDeckTitle
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // Enable verbose logging
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}
	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}

// ConfigOverrides are per-invocation settings applied after every other layer.
// Zero values leave the resolved configuration unchanged.
type ConfigOverrides struct {
	Host        string
	Port        int
	StorageRoot string
	Verbose     bool
	JSONLogs    bool
}
