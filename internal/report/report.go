// Package report turns a session's observation log into a renderable
// localization report.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/fakeyudi/domainlog/internal/catalog"
	"github.com/fakeyudi/domainlog/internal/observe"
)

// Report is the complete, renderable representation of one session.
type Report struct {
	Session   SessionMeta `json:"session"`
	Installed []Language  `json:"installed"`
	NotLoaded []string    `json:"not_loaded"`
	Unloaded  []string    `json:"unloaded"`
	Sections  []Section   `json:"sections"`
}

// SessionMeta holds the header facts of the report.
type SessionMeta struct {
	ID              string    `json:"id,omitempty"`
	StartTime       time.Time `json:"start_time"`
	GeneratedAt     time.Time `json:"generated_at"`
	Locale          string    `json:"locale"`
	LanguageNative  string    `json:"language_native"`
	LanguageEnglish string    `json:"language_english"`
	DomainsSeen     int       `json:"domains_seen"`
	Attempts        int       `json:"attempts"`
	UsageSource     string    `json:"usage_source"`
	SkippedLines    int       `json:"skipped_lines,omitempty"`

	// WPLang is the host's legacy WPLANG constant, nil when undefined.
	WPLang *string `json:"wplang,omitempty"`
}

// Language is one locale installed for the host's core.
type Language struct {
	Locale      string `json:"locale"`
	Native      string `json:"native_name"`
	English     string `json:"english_name,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

// Section groups the domains of one owner type.
type Section struct {
	OwnerType observe.OwnerType `json:"owner_type"`
	Title     string            `json:"title"`
	Rows      []Row             `json:"rows"`
}

// Row describes one text domain.
type Row struct {
	Domain            string `json:"domain"`
	TranslatedStrings int    `json:"translated_strings"`
	Loaded            bool   `json:"loaded"`
	Duplicates        bool   `json:"duplicates"`
	LastUpdated       string `json:"last_updated,omitempty"`
	Files             []File `json:"files"`
}

// File is one file the host tried for a domain.
type File struct {
	Path        string `json:"path"`
	Loaded      bool   `json:"loaded"`
	Permissions string `json:"permissions,omitempty"`
}

// Source is the query surface of an observation log.
type Source interface {
	DomainsByOwnerType(t observe.OwnerType) []*observe.DomainRecord
	DomainNames() []string
	RequestedDomains() []string
	UnloadedDomainNames() []string
	AttemptCount() int
	Catalog() observe.Catalog
	UsageSource() observe.UsageSource
}

// Meta carries the session facts the log does not know about.
type Meta struct {
	SessionID    string
	StartTime    time.Time
	Locale       string
	SkippedLines int

	// Installed maps each installed core locale to its PO-Revision-Date.
	Installed map[string]string
	WPLang    *string

	// Hidden reports domains left out of the unloaded list. Nil hides none.
	Hidden func(domain string) bool
	Now    func() time.Time
}

// Build assembles a report from src.
func Build(src Source, meta Meta) *Report {
	now := time.Now
	if meta.Now != nil {
		now = meta.Now
	}
	native, english := LanguageNames(meta.Locale)
	cat := src.Catalog()

	r := &Report{
		Session: SessionMeta{
			ID:              meta.SessionID,
			StartTime:       meta.StartTime,
			GeneratedAt:     now(),
			Locale:          meta.Locale,
			LanguageNative:  native,
			LanguageEnglish: english,
			DomainsSeen:     len(union(src.DomainNames(), cat.Domains())),
			Attempts:        src.AttemptCount(),
			UsageSource:     string(src.UsageSource()),
			SkippedLines:    meta.SkippedLines,
			WPLang:          meta.WPLang,
		},
		Installed: installedLanguages(meta.Locale, meta.Installed),
		NotLoaded: difference(src.RequestedDomains(), src.DomainNames()),
		Unloaded:  []string{},
		Sections:  []Section{},
	}

	for _, d := range src.UnloadedDomainNames() {
		if meta.Hidden != nil && meta.Hidden(d) {
			continue
		}
		r.Unloaded = append(r.Unloaded, d)
	}

	for _, t := range observe.OwnerTypes() {
		domains := src.DomainsByOwnerType(t)
		if len(domains) == 0 {
			continue
		}
		sec := Section{OwnerType: t, Title: t.Title()}
		for _, d := range domains {
			sec.Rows = append(sec.Rows, newRow(d, cat))
		}
		r.Sections = append(r.Sections, sec)
	}
	return r
}

func newRow(d *observe.DomainRecord, cat observe.Catalog) Row {
	row := Row{
		Domain:            d.Name(),
		TranslatedStrings: d.TranslatedStringCount(),
		Loaded:            d.HasTranslationLoaded(),
		Duplicates:        d.HasDuplicateFiles(),
		Files:             []File{},
	}
	if row.Loaded {
		row.LastUpdated = LastUpdated(cat, d.Name())
	}
	for _, f := range d.Files() {
		file := File{Path: f.String(), Loaded: f.IsLoaded()}
		if f.IsLoaded() {
			file.Permissions = f.Permissions()
		}
		row.Files = append(row.Files, file)
	}
	return row
}

// LastUpdated formats the revision date and generator of domain's catalog
// headers as "<date> via <generator>".
func LastUpdated(cat observe.Catalog, domain string) string {
	date, _ := cat.Header(domain, catalog.HeaderRevisionDate)
	if len(date) > 10 {
		date = date[:10]
	}
	return date + " via " + Generator(cat, domain)
}

// Generator names the tool that produced domain's translation file.
func Generator(cat observe.Catalog, domain string) string {
	g, ok := cat.Header(domain, catalog.HeaderGenerator)
	switch {
	case !ok || g == "":
		return "unknown"
	case strings.Contains(g, "GlotPress"):
		return "GlotPress"
	case strings.Contains(g, "Poedit"):
		return "Poedit"
	default:
		return g
	}
}

// Domain finds the row for name in any section.
func (r *Report) Domain(name string) (Row, bool) {
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			if row.Domain == name {
				return row, true
			}
		}
	}
	return Row{}, false
}

// Duplicates lists the domains that tried the same file twice, sorted.
func (r *Report) Duplicates() []string {
	var out []string
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			if row.Duplicates {
				out = append(out, row.Domain)
			}
		}
	}
	sort.Strings(out)
	return out
}

func union(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// difference returns the members of a missing from b, in a's order.
func difference(a, b []string) []string {
	skip := make(map[string]struct{}, len(b))
	for _, s := range b {
		skip[s] = struct{}{}
	}
	out := []string{}
	for _, s := range a {
		if _, ok := skip[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// defaultLocale ships with the host and has no translation files.
const defaultLocale = "en_US"

// installedLanguages lists the built-in locale first, then every installed
// locale by name.
func installedLanguages(current string, installed map[string]string) []Language {
	out := []Language{{
		Locale:  defaultLocale,
		Native:  "English (United States)",
		Current: current == defaultLocale,
	}}
	locales := make([]string, 0, len(installed))
	for l := range installed {
		if l != defaultLocale {
			locales = append(locales, l)
		}
	}
	sort.Strings(locales)
	for _, l := range locales {
		native, english := LanguageNames(l)
		date := installed[l]
		if len(date) > 10 {
			date = date[:10]
		}
		out = append(out, Language{
			Locale:      l,
			Native:      native,
			English:     english,
			LastUpdated: date,
			Current:     l == current,
		})
	}
	return out
}
