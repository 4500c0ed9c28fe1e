package report_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/domainlog/internal/observe"
	"github.com/fakeyudi/domainlog/internal/report"
)

// generateTime produces an arbitrary time.Time value truncated to second
// precision (matches JSON round-trip fidelity via RFC3339).
func generateTime(t *rapid.T, label string) time.Time {
	sec := rapid.Int64Range(1_000_000_000, 1_700_000_000).Draw(t, label+"_unix_sec")
	return time.Unix(sec, 0).UTC()
}

func generateRow(t *rapid.T) report.Row {
	row := report.Row{
		Domain:            rapid.StringMatching(`[a-z][a-z0-9-]{0,20}`).Draw(t, "domain"),
		TranslatedStrings: rapid.IntRange(0, 5000).Draw(t, "strings"),
		Loaded:            rapid.Bool().Draw(t, "loaded"),
		Duplicates:        rapid.Bool().Draw(t, "duplicates"),
	}
	if row.Loaded {
		row.LastUpdated = rapid.StringN(0, 30, -1).Draw(t, "last_updated")
	}
	n := rapid.IntRange(0, 4).Draw(t, "num_files")
	row.Files = make([]report.File, n)
	for i := range row.Files {
		row.Files[i] = report.File{
			Path:   "/" + rapid.StringN(1, 50, -1).Draw(t, "file_path"),
			Loaded: rapid.Bool().Draw(t, "file_loaded"),
		}
		if row.Files[i].Loaded {
			row.Files[i].Permissions = rapid.StringMatching(`[0-7]{4}`).Draw(t, "perms")
		}
	}
	return row
}

// generateReport produces an arbitrary report with sections in owner order.
func generateReport(t *rapid.T) *report.Report {
	r := &report.Report{
		Session: report.SessionMeta{
			ID:              rapid.StringN(0, 36, -1).Draw(t, "session_id"),
			StartTime:       generateTime(t, "start"),
			GeneratedAt:     generateTime(t, "generated"),
			Locale:          rapid.SampledFrom([]string{"fr_FR", "de_DE", "nl_NL", ""}).Draw(t, "locale"),
			LanguageNative:  rapid.StringN(0, 20, -1).Draw(t, "native"),
			LanguageEnglish: rapid.StringN(0, 20, -1).Draw(t, "english"),
			DomainsSeen:     rapid.IntRange(0, 100).Draw(t, "seen"),
			Attempts:        rapid.IntRange(0, 100).Draw(t, "attempts"),
			UsageSource:     rapid.SampledFrom([]string{"tracked", "catalog"}).Draw(t, "usage"),
			SkippedLines:    rapid.IntRange(0, 3).Draw(t, "skipped"),
		},
		NotLoaded: rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,12}`), 0, 5).Draw(t, "not_loaded"),
		Unloaded:  rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,12}`), 0, 5).Draw(t, "unloaded"),
		Sections:  []report.Section{},
	}
	if rapid.Bool().Draw(t, "wplang_defined") {
		v := rapid.SampledFrom([]string{"", "fr_FR", "de_DE"}).Draw(t, "wplang")
		r.Session.WPLang = &v
	}
	for i, n := 0, rapid.IntRange(0, 3).Draw(t, "num_installed"); i < n; i++ {
		r.Installed = append(r.Installed, report.Language{
			Locale:      rapid.StringMatching(`[a-z]{2}_[A-Z]{2}`).Draw(t, "installed_locale"),
			Native:      rapid.StringN(1, 20, -1).Draw(t, "installed_native"),
			English:     rapid.StringN(0, 20, -1).Draw(t, "installed_english"),
			LastUpdated: rapid.StringMatching(`(20[0-9]{2}-[01][0-9]-[0-3][0-9])?`).Draw(t, "installed_updated"),
			Current:     rapid.Bool().Draw(t, "installed_current"),
		})
	}
	for _, ot := range observe.OwnerTypes() {
		if !rapid.Bool().Draw(t, "has_"+string(ot)) {
			continue
		}
		sec := report.Section{OwnerType: ot, Title: ot.Title()}
		n := rapid.IntRange(1, 4).Draw(t, "num_rows")
		for i := 0; i < n; i++ {
			sec.Rows = append(sec.Rows, generateRow(t))
		}
		r.Sections = append(r.Sections, sec)
	}
	return r
}

func sameReport(t *rapid.T, got, want *report.Report) {
	t.Helper()
	g, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	w, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(g) != string(w) {
		t.Fatalf("round trip mismatch:\n got  %s\n want %s", g, w)
	}
}

// Feature: domainlog, Property: rendered reports parse back unchanged
func TestReportRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := generateReport(t)

		md, err := report.MarkdownRenderer{}.Render(r)
		if err != nil {
			t.Fatalf("MarkdownRenderer.Render: %v", err)
		}
		parsed, err := report.MarkdownParser{}.Parse(md)
		if err != nil {
			t.Fatalf("MarkdownParser.Parse: %v", err)
		}
		sameReport(t, parsed, r)

		js, err := report.JSONRenderer{}.Render(r)
		if err != nil {
			t.Fatalf("JSONRenderer.Render: %v", err)
		}
		parsed, err = report.JSONParser{}.Parse(js)
		if err != nil {
			t.Fatalf("JSONParser.Parse: %v", err)
		}
		sameReport(t, parsed, r)
	})
}

// Feature: domainlog, Property: every non-empty section is rendered
func TestMarkdownCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := generateReport(t)
		r.Session.Attempts = rapid.IntRange(1, 100).Draw(t, "attempts_nonzero")

		out, err := report.MarkdownRenderer{}.Render(r)
		if err != nil {
			t.Fatal(err)
		}
		md := string(out)

		if !strings.Contains(md, "## Summary") {
			t.Error("missing summary")
		}
		for _, sec := range r.Sections {
			if !strings.Contains(md, "### For "+sec.Title) {
				t.Errorf("missing section %q", sec.Title)
			}
			for _, row := range sec.Rows {
				if !strings.Contains(md, row.Domain) {
					t.Errorf("missing domain %q", row.Domain)
				}
			}
		}
		if strings.Contains(md, report.NoLoadCalls) {
			t.Error("no-load notice shown despite attempts")
		}
		if (len(r.NotLoaded) > 0) != strings.Contains(md, "## Text domains without a load call") {
			t.Error("not-loaded heading should appear exactly when the list is non-empty")
		}
	})
}

func TestMarkdownNoLoadCalls(t *testing.T) {
	r := &report.Report{Session: report.SessionMeta{Locale: "fr_FR"}}
	out, err := report.MarkdownRenderer{}.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), report.NoLoadCalls) {
		t.Errorf("expected %q in:\n%s", report.NoLoadCalls, out)
	}
	if strings.Contains(string(out), "### For") {
		t.Error("no sections expected")
	}
}

func TestMarkdownRowCells(t *testing.T) {
	r := &report.Report{
		Session: report.SessionMeta{Locale: "fr_FR", Attempts: 3},
		Sections: []report.Section{{
			OwnerType: observe.Plugin,
			Title:     observe.Plugin.Title(),
			Rows: []report.Row{
				{
					Domain: "shop", TranslatedStrings: 12, Loaded: true, Duplicates: true,
					LastUpdated: "2015-11-20 via Poedit",
					Files: []report.File{
						{Path: "/p/shop|x.mo"},
						{Path: "/l/shop.mo", Loaded: true, Permissions: "0644"},
					},
				},
				{Domain: "blog", Files: []report.File{}},
			},
		}},
	}
	out, err := report.MarkdownRenderer{}.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)

	for _, want := range []string{
		"| **shop** | 12 | 2015-11-20 via Poedit |",
		"~~`/p/shop\\|x.mo`~~<br>`/l/shop.mo` (0644)",
		"| blog | - | - | - |",
		"> **shop**: the host tried to load the same file more than once.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestMarkdownInstalledLanguages(t *testing.T) {
	wplang := "fr_FR"
	r := &report.Report{
		Session: report.SessionMeta{Locale: "fr_FR", WPLang: &wplang},
		Installed: []report.Language{
			{Locale: "en_US", Native: "English (United States)"},
			{Locale: "fr_FR", Native: "français", English: "French", LastUpdated: "2016-01-04", Current: true},
		},
	}
	out, err := report.MarkdownRenderer{}.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)
	for _, want := range []string{
		"- WPLANG: \"fr_FR\"",
		"## Installed languages",
		"| en_US | English (United States) | - | - |",
		"| **fr_FR** | français | French | 2016-01-04 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}

	r.Session.WPLang = nil
	r.Installed = nil
	out, err = report.MarkdownRenderer{}.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "- WPLANG: _(not defined)_") {
		t.Errorf("undefined WPLANG not reported in:\n%s", out)
	}
	if strings.Contains(string(out), "## Installed languages") {
		t.Error("installed section rendered without languages")
	}
}

func TestPlainRenderer(t *testing.T) {
	r := &report.Report{
		Session:   report.SessionMeta{Locale: "fr_FR", Attempts: 1},
		NotLoaded: []string{"widgets"},
		Sections: []report.Section{{
			OwnerType: observe.Core, Title: "Core",
			Rows: []report.Row{{Domain: "default", Loaded: true, TranslatedStrings: 4, Duplicates: true,
				Files: []report.File{{Path: "/l/fr_FR.mo", Loaded: true, Permissions: "0644"}}}},
		}},
	}
	out, err := report.PlainRenderer{}.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	for _, want := range []string{"WPLANG:    (not defined)", "## Not Loaded\n  widgets", "## Unloaded\n  (none)", "## Core", "default  (loaded, 4 strings, DUPLICATES)", "+ /l/fr_FR.mo  0644"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestPlainInstalledLanguages(t *testing.T) {
	empty := ""
	r := &report.Report{
		Session: report.SessionMeta{Locale: "de_DE", WPLang: &empty},
		Installed: []report.Language{
			{Locale: "en_US", Native: "English (United States)"},
			{Locale: "de_DE", Native: "Deutsch", English: "German", LastUpdated: "2016-02-01", Current: true},
		},
	}
	out, err := report.PlainRenderer{}.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	for _, want := range []string{
		`WPLANG:    ""`,
		"## Installed Languages\n   en_US  English (United States)\n",
		" * de_DE  Deutsch (German), updated 2016-02-01\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", ".md"},
		{"markdown", ".md"},
		{"JSON", ".json"},
	}
	for _, tt := range tests {
		r, ext, err := report.ForFormat(tt.format)
		if err != nil || r == nil || ext != tt.ext {
			t.Errorf("ForFormat(%q) = %v, %q, %v", tt.format, r, ext, err)
		}
	}
	if _, _, err := report.ForFormat("html"); err == nil {
		t.Error("expected error for html")
	}
}
