// Package observe records every attempt a host makes to load a text domain
// during one session and answers queries over what was seen.
package observe

import "strings"

// OwnerType classifies which part of the host owns a resource file.
type OwnerType string

const (
	Core          OwnerType = "core"
	Theme         OwnerType = "theme"
	MustUsePlugin OwnerType = "muplugin"
	Plugin        OwnerType = "plugin"
	Unknown       OwnerType = "unknown"
)

// OwnerTypes returns every owner type in report order.
func OwnerTypes() []OwnerType {
	return []OwnerType{Core, Theme, MustUsePlugin, Plugin, Unknown}
}

// Title returns the section heading used for t in reports.
func (t OwnerType) Title() string {
	switch t {
	case Core:
		return "Core"
	case Theme:
		return "Themes"
	case MustUsePlugin:
		return "Must-Use Plugins"
	case Plugin:
		return "Plugins"
	default:
		return "Unknown"
	}
}

// Dirs holds the host's reference directories. They are supplied once at
// session start and never owned by the log.
type Dirs struct {
	MuPluginDir   string `json:"mu_plugin_dir"`
	PluginDir     string `json:"plugin_dir"`
	LanguageDir   string `json:"language_dir"`
	StylesheetDir string `json:"stylesheet_dir"`
	TemplateDir   string `json:"template_dir"`
}

// Classify matches path against the reference directories. The order of the
// checks matters: must-use plugins live under paths that may also contain the
// plugin dir, and theme/plugin language packs live under the language dir.
func (d Dirs) Classify(path string) OwnerType {
	switch {
	case contains(path, d.MuPluginDir):
		return MustUsePlugin
	case contains(path, d.PluginDir) || contains(path, sub(d.LanguageDir, "plugins")):
		return Plugin
	case contains(path, d.StylesheetDir) || contains(path, d.TemplateDir) || contains(path, sub(d.LanguageDir, "themes")):
		return Theme
	case contains(path, d.LanguageDir):
		return Core
	default:
		return Unknown
	}
}

// ClassifyFile classifies the resolved path and, when that yields Unknown and
// the host rewrote the path, falls back to the originally requested one.
func (d Dirs) ClassifyFile(resolved, requested string) OwnerType {
	t := d.Classify(resolved)
	if t == Unknown && resolved != requested {
		t = d.Classify(requested)
	}
	return t
}

// contains reports whether path contains dir. An unset dir never matches.
func contains(path, dir string) bool {
	return dir != "" && strings.Contains(path, dir)
}

func sub(dir, name string) string {
	if dir == "" {
		return ""
	}
	return dir + "/" + name + "/"
}
