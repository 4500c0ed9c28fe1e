package report

import (
	"fmt"
	"strings"
)

// PlainRenderer renders a Report as indented plain text for terminals that
// cannot host the viewer.
type PlainRenderer struct{}

func (PlainRenderer) Render(r *Report) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("## Summary\n")
	fmt.Fprintf(&sb, "  Locale:    %s\n", r.Session.Locale)
	fmt.Fprintf(&sb, "  Language:  %s (%s)\n", r.Session.LanguageNative, r.Session.LanguageEnglish)
	if !r.Session.StartTime.IsZero() {
		fmt.Fprintf(&sb, "  Started:   %s\n", r.Session.StartTime.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&sb, "  Domains:   %d\n", r.Session.DomainsSeen)
	fmt.Fprintf(&sb, "  Attempts:  %d\n", r.Session.Attempts)
	fmt.Fprintf(&sb, "  WPLANG:    %s\n", wplangValue(r.Session.WPLang, "(not defined)"))
	sb.WriteString("\n")

	if len(r.Installed) > 0 {
		sb.WriteString("## Installed Languages\n")
		for _, lang := range r.Installed {
			marker := " "
			if lang.Current {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s  %s", marker, lang.Locale, lang.Native)
			if lang.English != "" {
				line += " (" + lang.English + ")"
			}
			if lang.LastUpdated != "" {
				line += ", updated " + lang.LastUpdated
			}
			sb.WriteString(" " + line + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Not Loaded\n")
	writeList(&sb, r.NotLoaded)
	sb.WriteString("\n")

	sb.WriteString("## Unloaded\n")
	writeList(&sb, r.Unloaded)
	sb.WriteString("\n")

	if r.Session.Attempts == 0 {
		sb.WriteString("  " + NoLoadCalls + "\n")
		return []byte(sb.String()), nil
	}

	for _, sec := range r.Sections {
		fmt.Fprintf(&sb, "## %s\n", sec.Title)
		for _, row := range sec.Rows {
			state := "not loaded"
			if row.Loaded {
				state = "loaded, " + countCell(row.TranslatedStrings) + " strings"
				if row.LastUpdated != "" {
					state += ", " + row.LastUpdated
				}
			}
			if row.Duplicates {
				state += ", DUPLICATES"
			}
			fmt.Fprintf(&sb, "  %s  (%s)\n", row.Domain, state)
			for _, f := range row.Files {
				if f.Loaded {
					fmt.Fprintf(&sb, "    + %s  %s\n", f.Path, f.Permissions)
				} else {
					fmt.Fprintf(&sb, "    - %s\n", f.Path)
				}
			}
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func writeList(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(sb, "  %s\n", it)
	}
}
