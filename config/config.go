package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the FAQ bot.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	Encoder       EncoderConfig       `yaml:"encoder"`
	Responder     ResponderConfig     `yaml:"responder"`
	Session       SessionConfig       `yaml:"session"`
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// KnowledgeBaseConfig holds source discovery and artifact location.
type KnowledgeBaseConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Path     string   `yaml:"path"` // Artifact path; empty means .faqbot/knowledge.db under the project dir
}

// EncoderConfig holds sentence encoder configuration.
type EncoderConfig struct {
	Provider   string        `yaml:"provider"`    // "hashing", "ollama", "openai"
	Model      string        `yaml:"model"`       // Empty means the provider's default, e.g. "all-minilm" for ollama
	APIKeyEnv  string        `yaml:"api_key_env"` // Environment variable for API key
	BaseURL    string        `yaml:"base_url"`
	Dimension  int           `yaml:"dimension"` // 0 infers it from the model (384 for hashing)
	BatchSize  int           `yaml:"batch_size"`
	CacheSize  int           `yaml:"cache_size"` // Query vector cache entries (0 = disabled)
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	Breaker    BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for remote encoders.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxRequests uint32        `yaml:"max_requests"` // Probes allowed while half-open
	Interval    time.Duration `yaml:"interval"`
	Timeout     time.Duration `yaml:"timeout"` // Open -> half-open delay
	MinRequests uint32        `yaml:"min_requests"`
	FailureRate float64       `yaml:"failure_rate"`
}

// ResponderConfig holds the hybrid responder configuration.
type ResponderConfig struct {
	Threshold       float64 `yaml:"threshold"`
	TopN            int     `yaml:"top_n"`
	SuggestionFloor float64 `yaml:"suggestion_floor"` // Candidates below this score are not offered (0 = disabled)
	Topic           string  `yaml:"topic"`
	Greeting        string  `yaml:"greeting"`
	Goodbye         string  `yaml:"goodbye"`
	Classifier      bool    `yaml:"classifier"`
}

// SessionConfig holds conversation state store configuration.
type SessionConfig struct {
	MaxSessions int           `yaml:"max_sessions"`
	TTL         time.Duration `yaml:"ttl"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	RateLimit    float64       `yaml:"rate_limit"` // Requests per second (0 = unlimited)
	RateBurst    int           `yaml:"rate_burst"`
	CORSOrigin   string        `yaml:"cors_origin"`
	ServiceName  string        `yaml:"service_name"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		KnowledgeBase: KnowledgeBaseConfig{
			Includes: []string{"**/*.yaml", "**/*.yml", "**/*.json"},
			Excludes: []string{"**/.faqbot/**", "**/.git/**", "**/node_modules/**", "faqbot.yaml"},
		},
		Encoder: EncoderConfig{
			Provider:   "hashing",
			APIKeyEnv:  "OPENAI_API_KEY",
			BatchSize:  64,
			CacheSize:  1024,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxRequests: 1,
				Interval:    30 * time.Second,
				Timeout:     15 * time.Second,
				MinRequests: 5,
				FailureRate: 0.5,
			},
		},
		Responder: ResponderConfig{
			Threshold:  0.5,
			TopN:       3,
			Topic:      "OHS",
			Greeting:   "Hi! Ask me about OHS.",
			Goodbye:    "Goodbye!",
			Classifier: true,
		},
		Session: SessionConfig{
			MaxSessions: 10000,
			TTL:         30 * time.Minute,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit:    50,
			RateBurst:    100,
			CORSOrigin:   "*",
			ServiceName:  "faqbot",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for faqbot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "faqbot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".faqbot", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// KnowledgeDBPath returns the path to the knowledge-base artifact.
func KnowledgeDBPath(dir string) string {
	return filepath.Join(dir, ".faqbot", "knowledge.db")
}

// ResolveKnowledgeDBPath returns the configured artifact path, or the default
// one under dir. Relative configured paths are taken relative to dir.
func (c *Config) ResolveKnowledgeDBPath(dir string) string {
	if c.KnowledgeBase.Path == "" {
		return KnowledgeDBPath(dir)
	}
	if filepath.IsAbs(c.KnowledgeBase.Path) {
		return c.KnowledgeBase.Path
	}
	return filepath.Join(dir, c.KnowledgeBase.Path)
}

// EnsureDataDir ensures the directory holding path exists.
func EnsureDataDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
