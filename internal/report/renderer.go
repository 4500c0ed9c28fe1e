package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	versionSentinel = "<!-- domainlog-report-version: 1 -->"
	dataPrefix      = "<!-- domainlog-data: "
	dataSuffix      = " -->"
)

// NoLoadCalls is printed in place of the sections when the host made no
// load attempts at all.
const NoLoadCalls = "No text domain load calls made."

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// ForFormat returns the renderer and file extension for format. An empty
// format means markdown.
func ForFormat(format string) (Renderer, string, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return &MarkdownRenderer{}, ".md", nil
	case "json":
		return &JSONRenderer{}, ".json", nil
	default:
		return nil, "", fmt.Errorf("unknown format %q: want markdown or json", format)
	}
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MarkdownRenderer renders a Report as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(r *Report) ([]byte, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, base64.StdEncoding.EncodeToString(jsonBytes), dataSuffix)

	locale := r.Session.Locale
	if locale == "" {
		locale = "(unknown locale)"
	}
	fmt.Fprintf(&sb, "# Localization: %s\n\n", locale)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Current locale: %s\n", locale)
	fmt.Fprintf(&sb, "- Current language: %s (%s)\n", r.Session.LanguageNative, r.Session.LanguageEnglish)
	if r.Session.ID != "" {
		fmt.Fprintf(&sb, "- Session: %s\n", r.Session.ID)
	}
	if !r.Session.StartTime.IsZero() {
		fmt.Fprintf(&sb, "- Started: %s\n", r.Session.StartTime.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&sb, "- Text domains seen: %d\n", r.Session.DomainsSeen)
	fmt.Fprintf(&sb, "- Load attempts: %d\n", r.Session.Attempts)
	fmt.Fprintf(&sb, "- WPLANG: %s\n", wplangValue(r.Session.WPLang, "_(not defined)_"))
	if r.Session.SkippedLines > 0 {
		fmt.Fprintf(&sb, "- Skipped journal lines: %d\n", r.Session.SkippedLines)
	}
	sb.WriteString("\n")

	if len(r.Installed) > 0 {
		sb.WriteString("## Installed languages\n\n")
		sb.WriteString("| Locale | Language (native name) | Language (English name) | Core translation last updated |\n")
		sb.WriteString("|--------|------------------------|-------------------------|-------------------------------|\n")
		for _, lang := range r.Installed {
			locale := escapeCell(lang.Locale)
			if lang.Current {
				locale = "**" + locale + "**"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				locale, textCell(lang.Native), textCell(lang.English), textCell(lang.LastUpdated))
		}
		sb.WriteString("\n")
	}

	if len(r.NotLoaded) > 0 {
		sb.WriteString("## Text domains without a load call\n\n")
		sb.WriteString("These text domains were used in translation calls, but were never loaded.\n\n")
		for _, d := range r.NotLoaded {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
		sb.WriteString("\n")
	}

	if len(r.Unloaded) > 0 {
		sb.WriteString("## Text domains unloaded during this session\n\n")
		for _, d := range r.Unloaded {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
		sb.WriteString("\n")
	}

	if r.Session.Attempts == 0 {
		sb.WriteString("---\n\n_" + NoLoadCalls + "_\n")
		return []byte(sb.String()), nil
	}

	sb.WriteString("## Load text domain calls made\n\n")
	for _, sec := range r.Sections {
		fmt.Fprintf(&sb, "### For %s\n\n", sec.Title)
		sb.WriteString("| Text domain | Translated strings | Last updated | Source files tried |\n")
		sb.WriteString("|-------------|--------------------|--------------|--------------------|\n")
		for _, row := range sec.Rows {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				domainCell(row), countCell(row.TranslatedStrings), lastUpdatedCell(row), filesCell(row.Files))
		}
		sb.WriteString("\n")
		for _, row := range sec.Rows {
			if row.Duplicates {
				fmt.Fprintf(&sb, "> **%s**: the host tried to load the same file more than once. "+
					"This happens when the requested translation is missing and the load call for "+
					"this domain was made several times.\n\n", escapeCell(row.Domain))
			}
		}
	}
	return []byte(sb.String()), nil
}

func domainCell(row Row) string {
	d := escapeCell(row.Domain)
	if row.Loaded {
		return "**" + d + "**"
	}
	return d
}

func countCell(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

func lastUpdatedCell(row Row) string {
	if !row.Loaded || row.LastUpdated == "" {
		return "-"
	}
	return escapeCell(row.LastUpdated)
}

func textCell(s string) string {
	if s == "" {
		return "-"
	}
	return escapeCell(s)
}

// wplangValue quotes a defined WPLANG, which may be empty, and returns
// undefined otherwise.
func wplangValue(v *string, undefined string) string {
	if v == nil {
		return undefined
	}
	return fmt.Sprintf("%q", *v)
}

func filesCell(files []File) string {
	if len(files) == 0 {
		return "-"
	}
	parts := make([]string, len(files))
	for i, f := range files {
		if f.Loaded {
			parts[i] = fmt.Sprintf("`%s` (%s)", escapeCell(f.Path), f.Permissions)
		} else {
			parts[i] = fmt.Sprintf("~~`%s`~~", escapeCell(f.Path))
		}
	}
	return strings.Join(parts, "<br>")
}

// escapeCell keeps a value from breaking out of a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
