package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdbgen.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Library.Path != "./music" {
		t.Errorf("default library path = %q", cfg.Library.Path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}

	// Second load reads the file just written.
	cfg2, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig (reload): %v", err)
	}
	if cfg2.Output.Path != cfg.Output.Path {
		t.Errorf("reloaded config differs: %q vs %q", cfg2.Output.Path, cfg.Output.Path)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdbgen.toml")

	content := `
[library]
path = "/mnt/music"
supported_formats = [".mp3"]

[output]
path = "/mnt/usb"

[profile]
name = "My DJ Name"

[cache]
enabled = false

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Library.Path != "/mnt/music" {
		t.Errorf("library path = %q", cfg.Library.Path)
	}
	if cfg.Profile.Name != "My DJ Name" {
		t.Errorf("profile name = %q", cfg.Profile.Name)
	}
	if cfg.Cache.Enabled {
		t.Errorf("cache should be disabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging config = %+v", cfg.Logging)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty library path", func(c *Config) { c.Library.Path = "" }},
		{"no formats", func(c *Config) { c.Library.SupportedFormats = nil }},
		{"empty output path", func(c *Config) { c.Output.Path = "" }},
		{"cache enabled without path", func(c *Config) { c.Cache.Path = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestIsFormatSupported(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IsFormatSupported(".mp3") {
		t.Errorf(".mp3 should be supported by default")
	}
	if cfg.IsFormatSupported(".ogg") {
		t.Errorf(".ogg should not be supported by default")
	}
}
