package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all harness configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Models   ModelsConfig   `mapstructure:"models"`
	Lime     LimeConfig     `mapstructure:"lime"`
	Explain  ExplainConfig  `mapstructure:"explain"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the scoring callback server
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// PublicURL is the base URL advertised to the explanation sidecar.
	// When empty it is derived from Host and Port.
	PublicURL string `mapstructure:"public_url"`
	Mode      string `mapstructure:"mode"`
}

// CallbackBaseURL returns the base URL the explanation sidecar should use
// to reach the callback server
func (s *ServerConfig) CallbackBaseURL() string {
	if s.PublicURL != "" {
		return strings.TrimSuffix(s.PublicURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", s.Host, s.Port)
}

// ModelsConfig configures the model-serving sidecars
type ModelsConfig struct {
	FasttextURL string        `mapstructure:"fasttext_url"`
	FlairURL    string        `mapstructure:"flair_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LimeConfig configures the explanation sidecar
type LimeConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExplainConfig configures the explanation requests
type ExplainConfig struct {
	TopLabels   int    `mapstructure:"top_labels"`
	NumFeatures int    `mapstructure:"num_features"`
	OutputDir   string `mapstructure:"output_dir"`
}

// DatabaseConfig holds the optional run-history database settings.
// An empty host disables run recording.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Enabled reports whether run recording is configured
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// RedisConfig holds the optional prediction cache settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults and EXPLAINER_* environment variables
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("EXPLAINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Callback server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8077)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.mode", "release")

	// Model-serving sidecars
	v.SetDefault("models.fasttext_url", "http://localhost:8500")
	v.SetDefault("models.flair_url", "http://localhost:8501")
	v.SetDefault("models.timeout", time.Minute)

	// Explanation sidecar; sampling dominates, so the timeout is generous
	v.SetDefault("lime.url", "http://localhost:8600")
	v.SetDefault("lime.timeout", 5*time.Minute)

	// Explanation parameters
	v.SetDefault("explain.top_labels", 1)
	v.SetDefault("explain.num_features", 10)
	v.SetDefault("explain.output_dir", ".")

	// Run history is off unless a host is configured
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "explainer")
	v.SetDefault("database.password", "explainer")
	v.SetDefault("database.dbname", "explainer")
	v.SetDefault("database.sslmode", "disable")

	// Prediction cache
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)

	// Logging
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
