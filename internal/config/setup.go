package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fakeyudi/domainlog/internal/observe"
)

// GlobalPath returns ~/.config/domainlog/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "domainlog", "config.json"), nil
}

// SaveGlobal writes cfg as the global config, creating the directory if needed.
func SaveGlobal(cfg *Config) (string, error) {
	p, err := GlobalPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	return p, os.WriteFile(p, append(data, '\n'), 0o644)
}

// RunSetup asks for each setting on out and reads the answers from in. An
// empty answer keeps the value from existing, or the default.
func RunSetup(existing *Config, in io.Reader, out io.Writer) (*Config, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	cfg := Defaults()
	if existing != nil {
		cfg = Merge(existing, nil)
	}
	if cfg.Dirs.LanguageDir == "" {
		cfg.Dirs = guessDirs(cfg.Dirs)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │   domainlog setup               │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out)

	prompts := []struct {
		label string
		dst   *string
	}{
		{"  Language directory", &cfg.Dirs.LanguageDir},
		{"  Plugin directory", &cfg.Dirs.PluginDir},
		{"  Must-use plugin directory", &cfg.Dirs.MuPluginDir},
		{"  Active theme (stylesheet) directory", &cfg.Dirs.StylesheetDir},
		{"  Parent theme (template) directory", &cfg.Dirs.TemplateDir},
		{"  Default output directory", &cfg.OutputDir},
	}
	for _, p := range prompts {
		v, err := ask(p.label, *p.dst)
		if err != nil {
			return nil, err
		}
		*p.dst = v
	}

	format, err := ask("  Default output format (markdown/json)", cfg.DefaultFormat)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		cfg.DefaultFormat = "json"
	} else {
		cfg.DefaultFormat = "markdown"
	}

	usage, err := ask("  Usage source (tracked/catalog)", cfg.UsageSource)
	if err != nil {
		return nil, err
	}
	if usage == string(observe.UsageCatalogSnapshot) {
		cfg.UsageSource = usage
	} else {
		cfg.UsageSource = string(observe.UsageTracked)
	}

	fmt.Fprintln(out)
	return &cfg, nil
}

// guessDirs fills unset dirs from a wp-content directory found under the
// working directory.
func guessDirs(d observe.Dirs) observe.Dirs {
	cwd, err := os.Getwd()
	if err != nil {
		return d
	}
	content := filepath.Join(cwd, "wp-content")
	if fi, err := os.Stat(content); err != nil || !fi.IsDir() {
		return d
	}
	return overlayDirs(observe.Dirs{
		MuPluginDir: filepath.Join(content, "mu-plugins"),
		PluginDir:   filepath.Join(content, "plugins"),
		LanguageDir: filepath.Join(content, "languages"),
	}, d)
}
