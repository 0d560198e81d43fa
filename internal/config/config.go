package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds everything the demo host needs to mount the widget.
type Config struct {
	App      AppConfig
	User     UserConfig
	Airtable AirtableConfig
	Log      LogConfig
}

// AppConfig identifies the embedding application.
type AppConfig struct {
	Name string
	Page string
}

// UserConfig identifies the reporter.
type UserConfig struct {
	Name  string
	Email string
}

// AirtableConfig locates the submission target. The API key may be given
// directly or via the environment variable named in APIKeyEnv.
type AirtableConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	BaseID    string `mapstructure:"base_id"`
	Table     string
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from file and env. Env var overrides use prefix
// GIVEFEEDBACK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "givefeedback")
	v.SetDefault("app.page", "terminal")
	v.SetDefault("user.name", "")
	v.SetDefault("user.email", "")
	v.SetDefault("airtable.api_key", "")
	v.SetDefault("airtable.api_key_env", "AIRTABLE_API_KEY")
	v.SetDefault("airtable.base_id", "")
	v.SetDefault("airtable.table", "Feedback")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "givefeedback.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("GIVEFEEDBACK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "givefeedback"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GIVEFEEDBACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}

// ResolveAPIKey returns the configured key, falling back to the named
// environment variable.
func (c AirtableConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.APIKeyEnv != "" {
		return os.Getenv(c.APIKeyEnv)
	}
	return ""
}
