package types

import "time"

// StoreConfig holds settings for the movie record store.
type StoreConfig struct {
	// Path is the sqlite database file (default "datasets/movie_dataset.db").
	Path string `json:"path" yaml:"path"`

	// MustExist makes Open fail when Path does not exist instead of
	// creating an empty database. Serving commands set it.
	MustExist bool `json:"must_exist" yaml:"must_exist"`
}

// OracleProvider identifies the ranking oracle backend.
type OracleProvider string

const (
	ProviderOpenAI    OracleProvider = "openai"
	ProviderAnthropic OracleProvider = "anthropic"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4.1-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on 429/5xx responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// OracleConfig holds settings for the ranking oracle.
type OracleConfig struct {
	AIConfig `yaml:",inline"`

	// Provider selects the backend: openai or anthropic.
	Provider OracleProvider `json:"provider" yaml:"provider"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Timeout bounds a single oracle HTTP call (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// BaseURL overrides the provider endpoint; empty uses the public API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// RenderConfig controls how recommendation content strings are rendered.
type RenderConfig struct {
	// PosterBaseURL is prefixed to each poster path.
	PosterBaseURL string `json:"poster_base_url" yaml:"poster_base_url"`
}

// ServerConfig holds settings for the HTTP transport.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// CORSOrigins lists allowed origins (default ["*"]).
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	// RateLimit is the number of requests allowed per IP per minute; 0 disables limiting.
	RateLimit int `json:"rate_limit" yaml:"rate_limit"`

	// RequestTimeout bounds one recommendation request end to end.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// AppConfig groups all configuration for the service.
type AppConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Oracle OracleConfig `json:"oracle" yaml:"oracle"`
	Render RenderConfig `json:"render" yaml:"render"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
