// Package config loads service settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.  It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LLMConfig describes the chat completion provider.
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig selects the history store.  Driver is "sqlite" or
// "postgres"; for sqlite DSN is a file path relative to the working directory.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration.  configFile may be empty.  Environment variables
// override the file, which overrides the defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GROQ_API_KEY and DATABASE_URL are the names existing deployments use.
	if err := v.BindEnv("llm.api_key", "GROQ_API_KEY", "LLM_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "symptom_checker.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadDotEnv exports KEY=VALUE pairs from a dotenv file into the process
// environment.  Variables that are already set win.  A missing file is not
// an error.
func LoadDotEnv(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}
