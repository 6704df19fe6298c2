package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/takoeight0821/quack/lexer"
	"gopkg.in/yaml.v3"
)

const (
	configFile  = "quack/config.yaml"
	envMaxDepth = "QUACK_MAX_DEPTH"
)

// Config holds the settings shared by every command.
type Config struct {
	MaxDepth   int      `yaml:"max_depth"`
	Format     string   `yaml:"format"`
	Verbose    bool     `yaml:"verbose"`
	Predefined []string `yaml:"predefined"`
}

func defaultConfig() Config {
	return Config{MaxDepth: lexer.DefaultMaxDepth, Format: formatText}
}

// loadConfig reads the config file if there is one, then applies the
// environment and the flags set on cmd.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg := defaultConfig()

	if path, err := xdg.SearchConfigFile(configFile); err == nil {
		if err := readConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := envOrDefault(envMaxDepth, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: want a positive integer, got %q", envMaxDepth, v)
		}
		cfg.MaxDepth = n
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		n, _ := flags.GetInt("max-depth")
		if n <= 0 {
			return cfg, fmt.Errorf("--max-depth: want a positive integer, got %d", n)
		}
		cfg.MaxDepth = n
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	if cfg.Format != formatText && cfg.Format != formatYAML {
		return cfg, fmt.Errorf("unknown format %q: want %s or %s", cfg.Format, formatText, formatYAML)
	}
	return cfg, nil
}

func readConfigFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
