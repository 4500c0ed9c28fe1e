package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/fakeyudi/domainlog/internal/observe"
)

// Config holds all configurable domainlog settings.
type Config struct {
	Dirs          observe.Dirs `json:"dirs"`
	DefaultFormat string       `json:"default_format"` // "markdown" | "json"
	OutputDir     string       `json:"output_dir"`
	JournalPath   string       `json:"journal_path"` // empty means the XDG default
	UsageSource   string       `json:"usage_source"` // "tracked" | "catalog"
	HideUnloaded  []string     `json:"hide_unloaded"`
	LogLevel      string       `json:"log_level"`
	MessagesDir   string       `json:"messages_dir"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		DefaultFormat: "markdown",
		OutputDir:     ".",
		UsageSource:   string(observe.UsageTracked),
		HideUnloaded:  []string{"default"},
		LogLevel:      "warn",
	}
}

// LoadGlobal reads ~/.config/domainlog/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "domainlog", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .domainlogconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".domainlogconfig", false)
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, project} {
		if layer != nil {
			result = overlay(result, *layer)
		}
	}
	return result
}

func overlay(base, top Config) Config {
	base.Dirs = overlayDirs(base.Dirs, top.Dirs)
	setString(&base.DefaultFormat, top.DefaultFormat)
	setString(&base.OutputDir, top.OutputDir)
	setString(&base.JournalPath, top.JournalPath)
	setString(&base.UsageSource, top.UsageSource)
	setString(&base.LogLevel, top.LogLevel)
	setString(&base.MessagesDir, top.MessagesDir)
	// An explicit empty list clears the hidden set; a missing key keeps it.
	if top.HideUnloaded != nil {
		base.HideUnloaded = top.HideUnloaded
	}
	return base
}

func overlayDirs(base, top observe.Dirs) observe.Dirs {
	setString(&base.MuPluginDir, top.MuPluginDir)
	setString(&base.PluginDir, top.PluginDir)
	setString(&base.LanguageDir, top.LanguageDir)
	setString(&base.StylesheetDir, top.StylesheetDir)
	setString(&base.TemplateDir, top.TemplateDir)
	return base
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// environment lists the DOMAINLOG_* variables that override file config.
type environment struct {
	MuPluginDir   string   `env:"DOMAINLOG_MU_PLUGIN_DIR"`
	PluginDir     string   `env:"DOMAINLOG_PLUGIN_DIR"`
	LanguageDir   string   `env:"DOMAINLOG_LANG_DIR"`
	StylesheetDir string   `env:"DOMAINLOG_STYLESHEET_DIR"`
	TemplateDir   string   `env:"DOMAINLOG_TEMPLATE_DIR"`
	JournalPath   string   `env:"DOMAINLOG_JOURNAL"`
	DefaultFormat string   `env:"DOMAINLOG_FORMAT"`
	OutputDir     string   `env:"DOMAINLOG_OUTPUT_DIR"`
	UsageSource   string   `env:"DOMAINLOG_USAGE_SOURCE"`
	LogLevel      string   `env:"DOMAINLOG_LOG_LEVEL"`
	MessagesDir   string   `env:"DOMAINLOG_MESSAGES"`
	HideUnloaded  []string `env:"DOMAINLOG_HIDE_UNLOADED" envSeparator:","`
}

// ApplyEnv layers DOMAINLOG_* environment variables over cfg.
func ApplyEnv(cfg Config) (Config, error) {
	e, err := env.ParseAs[environment]()
	if err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	return overlay(cfg, Config{
		Dirs: observe.Dirs{
			MuPluginDir:   e.MuPluginDir,
			PluginDir:     e.PluginDir,
			LanguageDir:   e.LanguageDir,
			StylesheetDir: e.StylesheetDir,
			TemplateDir:   e.TemplateDir,
		},
		DefaultFormat: e.DefaultFormat,
		OutputDir:     e.OutputDir,
		JournalPath:   e.JournalPath,
		UsageSource:   e.UsageSource,
		HideUnloaded:  e.HideUnloaded,
		LogLevel:      e.LogLevel,
		MessagesDir:   e.MessagesDir,
	}), nil
}

// Load merges global config, project config and the environment, then
// validates the result.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, err
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, err
	}
	cfg, err := ApplyEnv(Merge(global, project))
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the commands cannot act on.
func (c Config) Validate() error {
	switch c.DefaultFormat {
	case "markdown", "json":
	default:
		return fmt.Errorf("invalid default_format %q: want markdown or json", c.DefaultFormat)
	}
	switch observe.UsageSource(c.UsageSource) {
	case observe.UsageTracked, observe.UsageCatalogSnapshot:
	default:
		return fmt.Errorf("invalid usage_source %q: want %s or %s",
			c.UsageSource, observe.UsageTracked, observe.UsageCatalogSnapshot)
	}
	return nil
}

// Hidden reports whether domain is left out of the unloaded list.
func (c Config) Hidden(domain string) bool {
	for _, h := range c.HideUnloaded {
		if h == domain {
			return true
		}
	}
	return false
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
