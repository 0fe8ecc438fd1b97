// Package config provides configuration types and defaults for gemview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/gemview/internal/log"
)

// Config holds all configuration options for gemview.
type Config struct {
	StartURL string          `mapstructure:"start_url"`
	UI       UIConfig        `mapstructure:"ui"`
	Theme    ThemeConfig     `mapstructure:"theme"`
	Cache    CacheConfig     `mapstructure:"cache"`
	Network  NetworkConfig   `mapstructure:"network"`
	Tracing  TracingConfig   `mapstructure:"tracing"`
	Flags    map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar   bool `mapstructure:"show_status_bar"`
	SmoothScrolling bool `mapstructure:"smooth_scrolling"`
	MaxContentWidth int  `mapstructure:"max_content_width"` // 0 means use full terminal width
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "gruvbox", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     text:
	//       heading1: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "text.heading1": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// CacheConfig controls the in-memory page cache used to serve history
// navigation without refetching.
type CacheConfig struct {
	// PageTTL is how long a cached response stays valid.
	PageTTL time.Duration `mapstructure:"page_ttl"`
}

// NetworkConfig holds connection settings.
type NetworkConfig struct {
	// Timeout bounds the full request, from dial to the end of the body.
	Timeout time.Duration `mapstructure:"timeout"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/gemview/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultStateDBPath returns the default path for the state database.
// Returns ~/.config/gemview/state.db or empty string if home dir unavailable.
func DefaultStateDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gemview", "state.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/gemview/traces/traces.jsonl or empty string if home dir
// unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gemview", "traces", "traces.jsonl")
}

// DefaultHistoryPath returns the default path for the persisted history file.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gemview", "history.yaml")
}

// ValidateTheme checks theme configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTheme(theme ThemeConfig) error {
	if theme.Preset != "" {
		switch theme.Preset {
		case "default", "gruvbox", "nord", "high-contrast":
		default:
			return fmt.Errorf("theme.preset must be \"default\", \"gruvbox\", \"nord\", or \"high-contrast\", got %q", theme.Preset)
		}
	}
	if theme.Mode != "" && theme.Mode != "light" && theme.Mode != "dark" {
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", theme.Mode)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration for errors.
func Validate(cfg Config) error {
	if cfg.UI.MaxContentWidth < 0 {
		return fmt.Errorf("ui.max_content_width must not be negative, got %d", cfg.UI.MaxContentWidth)
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		StartURL: "gemini://geminiprotocol.net/",
		UI: UIConfig{
			ShowStatusBar:   true,
			SmoothScrolling: true,
			MaxContentWidth: 100,
		},
		Theme: ThemeConfig{
			Preset: "",
		},
		Cache: CacheConfig{
			PageTTL: 30 * time.Minute,
		},
		Network: NetworkConfig{
			Timeout: 30 * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Gemview Configuration

# Page opened when no URL is given on the command line
start_url: gemini://geminiprotocol.net/

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  smooth_scrolling: true  # Animate scrolling instead of jumping
  max_content_width: 100  # Cap the text column width (0 = full terminal width)

# Theme configuration
# Use a preset theme or customize individual colors
theme:
  # preset: nord
  #
  # Available presets:
  #   default        - Default gemview theme
  #   gruvbox        - Retro groove palette
  #   nord           - Arctic, north-bluish palette
  #   high-contrast  - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   text.heading1: "#FFFFFF"
  #   text.link: "#54A0FF"

# Page cache settings
cache:
  page_ttl: 30m  # How long back/forward navigation reuses a fetched page

# Network settings
network:
  timeout: 30s  # Full request timeout

# Distributed tracing (for debugging fetch and layout pipelines)
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp
#   file_path: ~/.config/gemview/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
