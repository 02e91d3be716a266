package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "https://api.together.xyz/v1"
	DefaultModel   = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	apiKeyEnv      = "TOGETHER_API_KEY"
)

type Config struct {
	DefaultMode   string           `yaml:"default_mode" mapstructure:"default_mode"`
	Offline       bool             `yaml:"offline" mapstructure:"offline"`
	HistoryWindow int              `yaml:"history_window" mapstructure:"history_window"`
	ModesGlob     string           `yaml:"modes_glob" mapstructure:"modes_glob"`
	Provider      ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	Classifier    ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Memory        MemoryConfig     `yaml:"memory" mapstructure:"memory"`
	Replies       RepliesConfig    `yaml:"replies" mapstructure:"replies"`
	Log           LogConfig        `yaml:"log" mapstructure:"log"`
}

type ProviderConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RetryDelay  time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	TopP        float64       `yaml:"top_p" mapstructure:"top_p"`
	Stop        []string      `yaml:"stop" mapstructure:"stop"`
}

type ClassifierConfig struct {
	GreetingThreshold int      `yaml:"greeting_threshold" mapstructure:"greeting_threshold"`
	Greetings         []string `yaml:"greetings" mapstructure:"greetings"`
	Interrogatives    []string `yaml:"interrogatives" mapstructure:"interrogatives"`
	Emotions          []string `yaml:"emotions" mapstructure:"emotions"`
}

type MemoryConfig struct {
	NameTriggers     []string `yaml:"name_triggers" mapstructure:"name_triggers"`
	InterestTriggers []string `yaml:"interest_triggers" mapstructure:"interest_triggers"`
	// MaxInterests caps remembered interests. 0 selects the default of 20,
	// a negative value disables the cap.
	MaxInterests     int  `yaml:"max_interests" mapstructure:"max_interests"`
	FoldInterestCase bool `yaml:"fold_interest_case" mapstructure:"fold_interest_case"`
}

type RepliesConfig struct {
	NameInjectionRate float64 `yaml:"name_injection_rate" mapstructure:"name_injection_rate"`
	Placeholder       string  `yaml:"placeholder" mapstructure:"placeholder"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		DefaultMode:   "friend",
		HistoryWindow: 8,
		Provider: ProviderConfig{
			Name:        "together",
			BaseURL:     DefaultBaseURL,
			Model:       DefaultModel,
			Timeout:     15 * time.Second,
			RetryDelay:  time.Second,
			MaxTokens:   200,
			Temperature: 0.7,
			TopP:        0.9,
			Stop:        []string{"Human:", "User:"},
		},
		Classifier: ClassifierConfig{GreetingThreshold: 10},
		Memory:     MemoryConfig{MaxInterests: 20},
		Replies: RepliesConfig{
			NameInjectionRate: 0.3,
			Placeholder:       "I'm listening! Tell me more.",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir is where the config file and user mode packs live.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "companion")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "companion")
}

// Load reads config.yaml from path, or from the search paths when path is
// empty. A missing file in the search paths is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Search paths
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "companion"))
		}
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "companion"))
	}

	// Environment variables
	v.SetEnvPrefix("COMPANION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	// Manual expansion for keys in config file
	cfg.Provider.APIKey = expandEnv(cfg.Provider.APIKey)
	cfg.Provider.BaseURL = expandEnv(cfg.Provider.BaseURL)
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv(apiKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnv registers every key so AutomaticEnv sees variables for keys that
// no config file mentions.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"default_mode", "offline", "history_window", "modes_glob",
		"provider.name", "provider.base_url", "provider.api_key", "provider.model",
		"provider.timeout", "provider.retry_delay", "provider.max_tokens",
		"provider.temperature", "provider.top_p",
		"classifier.greeting_threshold",
		"memory.max_interests", "memory.fold_interest_case",
		"replies.name_injection_rate", "replies.placeholder",
		"log.level", "log.file",
	} {
		_ = v.BindEnv(key)
	}
}

// HasCredentials reports whether the service path can be attempted.
func (c *Config) HasCredentials() bool {
	return c.Provider.APIKey != ""
}

// Validate checks the configuration for errors and restores defaults for
// zero values.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.DefaultMode == "" {
		c.DefaultMode = d.DefaultMode
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("config: history_window must not be negative, got %d", c.HistoryWindow)
	}
	if c.Provider.Name == "" {
		c.Provider.Name = d.Provider.Name
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("config: provider.base_url is required")
	}
	if !strings.HasPrefix(c.Provider.BaseURL, "http://") && !strings.HasPrefix(c.Provider.BaseURL, "https://") {
		return fmt.Errorf("config: provider.base_url %q must be an http(s) URL", c.Provider.BaseURL)
	}
	if c.Provider.Model == "" {
		c.Provider.Model = d.Provider.Model
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = d.Provider.Timeout
	}
	if c.Provider.RetryDelay < 0 {
		return fmt.Errorf("config: provider.retry_delay must not be negative")
	}
	if c.Provider.MaxTokens < 1 {
		c.Provider.MaxTokens = d.Provider.MaxTokens
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("config: provider.temperature %.2f out of range [0, 2]", c.Provider.Temperature)
	}
	if c.Provider.TopP < 0 || c.Provider.TopP > 1 {
		return fmt.Errorf("config: provider.top_p %.2f out of range [0, 1]", c.Provider.TopP)
	}
	if c.Classifier.GreetingThreshold < 0 {
		return fmt.Errorf("config: classifier.greeting_threshold must not be negative")
	}
	if c.Replies.NameInjectionRate < 0 || c.Replies.NameInjectionRate > 1 {
		return fmt.Errorf("config: replies.name_injection_rate %.2f out of range [0, 1]", c.Replies.NameInjectionRate)
	}
	if c.Replies.Placeholder == "" {
		c.Replies.Placeholder = d.Replies.Placeholder
	}
	switch strings.ToLower(c.Log.Level) {
	case "":
		c.Log.Level = d.Log.Level
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q must be debug, info, warn, or error", c.Log.Level)
	}
	return nil
}
