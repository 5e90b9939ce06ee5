package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := Load(v)
	if cfg.APIBase != DefaultAPIBase {
		t.Errorf("unexpected api base: %q", cfg.APIBase)
	}
	if cfg.WSBase != DefaultWSBase {
		t.Errorf("unexpected ws base: %q", cfg.WSBase)
	}
}

func TestFeedURLs(t *testing.T) {
	cfg := &Config{WSBase: "wss://example.test/"}
	if got := cfg.MessagesFeedURL(); got != "wss://example.test/messages" {
		t.Errorf("unexpected messages feed URL: %q", got)
	}
	if got := cfg.SongfessFeedURL(); got != "wss://example.test/songfess" {
		t.Errorf("unexpected songfess feed URL: %q", got)
	}
}

func TestInitReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_base: https://staging.example.test\nlog_file: /tmp/fessctl.log\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cfg := Load(v)
	if cfg.APIBase != "https://staging.example.test" {
		t.Errorf("config file value not applied: %q", cfg.APIBase)
	}
	if cfg.LogFile != "/tmp/fessctl.log" {
		t.Errorf("config file value not applied: %q", cfg.LogFile)
	}
	// Unset keys keep their defaults.
	if cfg.WSBase != DefaultWSBase {
		t.Errorf("default lost: %q", cfg.WSBase)
	}
}

func TestInitMissingFileIsFine(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("missing config file must not be an error: %v", err)
	}
}
