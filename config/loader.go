// Package config loads restruct configuration with the usual layering:
// defaults, then a YAML file, then environment variable overrides.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("restruct.yaml").
//	    WithEnvPrefix("RESTRUCT").
//	    Load()
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete restruct configuration.
type Config struct {
	// Engine configures the reconstruction engine.
	Engine EngineConfig `yaml:"engine"`
	// Log configures logging.
	Log LogConfig `yaml:"log"`
	// Metrics configures Prometheus exposure.
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig is the engine's recognized option surface.
type EngineConfig struct {
	// SchemaPath points at the schema descriptor file (YAML or JSON).
	SchemaPath string `yaml:"schema_path"`
	// ThrottleChars is the minimum primary-content growth between
	// length-driven emissions.
	ThrottleChars int `yaml:"throttle_chars"`
	// TargetChannel selects the channel to reconstruct from a multiplexed
	// stream. Empty means single-channel.
	TargetChannel string `yaml:"target_channel"`
	// PrimaryContentFields overrides the built-in candidate list for the
	// primary content field.
	PrimaryContentFields []string `yaml:"primary_content_fields"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	// Port is the /metrics listen port.
	Port int `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ThrottleChars: 50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "restruct",
			Port:      9090,
		},
	}
}

// Loader loads configuration with increasing precedence:
// defaults → YAML file → environment variables.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a Loader with the default env prefix RESTRUCT.
func NewLoader() *Loader {
	return &Loader{envPrefix: "RESTRUCT"}
}

// WithConfigPath sets the YAML config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load produces the effective configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", l.configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", l.configPath, err)
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg from <PREFIX>_SECTION_FIELD variables.
func (l *Loader) applyEnv(cfg *Config) {
	if v, ok := l.env("ENGINE_SCHEMA_PATH"); ok {
		cfg.Engine.SchemaPath = v
	}
	if v, ok := l.env("ENGINE_THROTTLE_CHARS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.ThrottleChars = n
		}
	}
	if v, ok := l.env("ENGINE_TARGET_CHANNEL"); ok {
		cfg.Engine.TargetChannel = v
	}
	if v, ok := l.env("ENGINE_PRIMARY_CONTENT_FIELDS"); ok {
		cfg.Engine.PrimaryContentFields = splitList(v)
	}
	if v, ok := l.env("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := l.env("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := l.env("METRICS_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v, ok := l.env("METRICS_NAMESPACE"); ok {
		cfg.Metrics.Namespace = v
	}
	if v, ok := l.env("METRICS_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = n
		}
	}
}

func (l *Loader) env(key string) (string, bool) {
	return os.LookupEnv(l.envPrefix + "_" + key)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks value ranges. Zero values that have defaults were already
// filled by Default.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("config: invalid metrics port %d", c.Metrics.Port)
	}
	return nil
}
