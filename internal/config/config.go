package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/capoala/mvvm/pkg/navigation"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// FileName is the base name of the configuration file, without extension.
const FileName = "mvvm"

// EnvPrefix prefixes every environment override, e.g. MVVM_SERVER_PORT.
const EnvPrefix = "MVVM"

// Config represents the mvvm configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Save       SaveConfig       `mapstructure:"save"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// NavigationConfig configures the playground navigator
type NavigationConfig struct {
	SupportsBack     bool `mapstructure:"supports_back"`
	SupportsForward  bool `mapstructure:"supports_forward"`
	AutoClearForward bool `mapstructure:"auto_clear_forward"`
	MaxDepth         int  `mapstructure:"max_depth"`
}

// Options converts the section into navigator options.
func (n NavigationConfig) Options() navigation.Options {
	return navigation.Options{
		SupportsBack:     n.SupportsBack,
		SupportsForward:  n.SupportsForward,
		AutoClearForward: n.AutoClearForward,
		MaxDepth:         n.MaxDepth,
	}
}

// ServerConfig represents the binding bridge server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig configures the property-change publisher. An empty URL disables it.
type RedisConfig struct {
	URL           string `mapstructure:"url"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// SaveConfig tunes the simulated save workflow
type SaveConfig struct {
	Steps     int           `mapstructure:"steps"`
	StepDelay time.Duration `mapstructure:"step_delay"`
}

// Load loads the configuration from mvvm.yml or mvvm.yaml in the working directory
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads the configuration from dir
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("navigation.supports_back", true)
	v.SetDefault("navigation.supports_forward", true)
	v.SetDefault("navigation.auto_clear_forward", true)
	v.SetDefault("navigation.max_depth", 0)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.channel_prefix", "mvvm")
	v.SetDefault("save.steps", 5)
	v.SetDefault("save.step_delay", "200ms")
}

// FindConfigFile walks up from the working directory looking for mvvm.yml
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range []string{".yml", ".yaml"} {
			path := filepath.Join(dir, FileName+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yml found", FileName)
		}
		dir = parent
	}
}

func validateConfig(cfg *Config) error {
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level is invalid: %w", err)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got: %d", cfg.Server.Port)
	}
	if cfg.Navigation.MaxDepth < 0 {
		return fmt.Errorf("navigation.max_depth must not be negative, got: %d", cfg.Navigation.MaxDepth)
	}
	if cfg.Save.Steps <= 0 {
		return fmt.Errorf("save.steps must be positive, got: %d", cfg.Save.Steps)
	}
	if cfg.Save.StepDelay < 0 {
		return fmt.Errorf("save.step_delay must not be negative, got: %s", cfg.Save.StepDelay)
	}
	if cfg.Redis.URL != "" && cfg.Redis.ChannelPrefix == "" {
		return fmt.Errorf("redis.channel_prefix is required when redis.url is set")
	}
	return nil
}
