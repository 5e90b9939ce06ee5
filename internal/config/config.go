// Package config loads fessctl configuration from file, environment, and
// flags via viper.
//
// Precedence is viper's usual: explicit flags over FESSCTL_* environment
// variables over the config file over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultAPIBase = "https://api.teknohive.me"
	DefaultWSBase  = "wss://api.teknohive.me"
)

// Config is the resolved client configuration.
type Config struct {
	// APIBase is the HTTP origin of the board API.
	APIBase string

	// WSBase is the WebSocket origin for push channels.
	WSBase string

	// CredentialFile overrides where the session cookie is stored.
	// Empty means the per-user default location.
	CredentialFile string

	// LogFile, when set, tees diagnostics into a rotating file.
	LogFile string
}

// MessagesFeedURL is the push channel for the message board.
func (c *Config) MessagesFeedURL() string {
	return strings.TrimSuffix(c.WSBase, "/") + "/messages"
}

// SongfessFeedURL is the push channel for the songfess board.
func (c *Config) SongfessFeedURL() string {
	return strings.TrimSuffix(c.WSBase, "/") + "/songfess"
}

// SetDefaults registers defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_base", DefaultAPIBase)
	v.SetDefault("ws_base", DefaultWSBase)
	v.SetDefault("credential_file", "")
	v.SetDefault("log_file", "")
}

// Init wires v to the config file and environment. cfgFile, when non-empty,
// names an explicit config file; otherwise ~/.config/fessctl/config.yaml is
// used when present. A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix("FESSCTL")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := os.UserConfigDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(dir, "fessctl"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load resolves the configuration from v.
func Load(v *viper.Viper) *Config {
	return &Config{
		APIBase:        v.GetString("api_base"),
		WSBase:         v.GetString("ws_base"),
		CredentialFile: v.GetString("credential_file"),
		LogFile:        v.GetString("log_file"),
	}
}

// Watch re-resolves the configuration whenever the config file changes and
// hands the result to onChange.
func Watch(v *viper.Viper, logger *log.Logger, onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Printf("config file changed: %s", e.Name)
		onChange(Load(v))
	})
	v.WatchConfig()
}
