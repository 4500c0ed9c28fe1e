// Package hook installs the host-side must-use plugin that appends text
// domain events to the domainlog journal.
package hook

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// FileName is the plugin file written into the must-use plugin directory.
const FileName = "domainlog-hook.php"

var pluginTmpl = template.Must(template.New(FileName).Funcs(template.FuncMap{
	"php": phpQuote,
}).Parse(pluginSource))

// Path returns where the plugin lives inside muPluginDir.
func Path(muPluginDir string) string {
	return filepath.Join(muPluginDir, FileName)
}

// Render returns the plugin source writing to journalPath.
func Render(journalPath string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pluginTmpl.Execute(&buf, struct{ Journal string }{journalPath}); err != nil {
		return nil, fmt.Errorf("rendering hook: %w", err)
	}
	return buf.Bytes(), nil
}

// Install writes the plugin into muPluginDir, replacing an earlier copy, and
// returns its path. The directory must already exist: the host only loads
// must-use plugins from a directory it knows about.
func Install(muPluginDir, journalPath string) (string, error) {
	if muPluginDir == "" {
		return "", errors.New("no must-use plugin directory configured")
	}
	if fi, err := os.Stat(muPluginDir); err != nil || !fi.IsDir() {
		return "", fmt.Errorf("must-use plugin directory %s does not exist", muPluginDir)
	}
	if !filepath.IsAbs(journalPath) {
		abs, err := filepath.Abs(journalPath)
		if err != nil {
			return "", err
		}
		journalPath = abs
	}

	content, err := Render(journalPath)
	if err != nil {
		return "", err
	}
	path := Path(muPluginDir)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing hook file: %w", err)
	}
	return path, nil
}

// Uninstall removes the plugin. A missing plugin is not an error.
func Uninstall(muPluginDir string) error {
	err := os.Remove(Path(muPluginDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// IsInstalled reports whether the plugin file exists on disk.
func IsInstalled(muPluginDir string) bool {
	if muPluginDir == "" {
		return false
	}
	_, err := os.Stat(Path(muPluginDir))
	return err == nil
}

// phpQuote escapes s for a single-quoted PHP string.
func phpQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
