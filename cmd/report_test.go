package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/domainlog/internal/journal"
	"github.com/fakeyudi/domainlog/internal/report"
)

func TestReportLeavesSessionRunning(t *testing.T) {
	journalPath := isolate(t)
	recordSite(t)

	out := mustRun(t, "report", "--format", "json")
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	if r.Session.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", r.Session.Attempts)
	}

	store, err := journal.NewStore(journalPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Load(); err != nil {
		t.Errorf("journal should survive report: %v", err)
	}
}

func TestReportPlainAndMarkdown(t *testing.T) {
	isolate(t)
	recordSite(t)

	plain := mustRun(t, "report", "--format", "plain")
	for _, want := range []string{"## Summary", "## Not Loaded", "widgets", "## Unloaded"} {
		if !strings.Contains(plain, want) {
			t.Errorf("plain report missing %q:\n%s", want, plain)
		}
	}

	reportFormat = ""
	md := mustRun(t, "report", "--format", "markdown")
	for _, want := range []string{"# Localization: fr_FR", "### For Core", "**default**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown report missing %q:\n%s", want, md)
		}
	}
}

func TestReportFromExplicitJournal(t *testing.T) {
	isolate(t)
	other := t.TempDir() + "/other.jsonl"
	store, err := journal.NewStore(other)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Begin("es_ES"); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(journal.Event{Kind: journal.KindLoad, Domain: "forms", Path: "/nowhere/forms-es_ES.mo"}); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "report", "--journal", other, "--format", "plain")
	if !strings.Contains(out, "forms") {
		t.Errorf("report should read the given journal:\n%s", out)
	}
}

func TestReportUnknownFormat(t *testing.T) {
	isolate(t)
	mustRun(t, "start")

	if _, err := executeCommand(rootCmd, "report", "--format", "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

// Message files only add counts; they never make a domain look requested.
func TestReportMessagesDoNotAddDomains(t *testing.T) {
	isolate(t)
	msgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(msgDir, "forum.fr.toml"), []byte("reply = \"Répondre\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(msgDir, "shop.fr.toml"), []byte("cart = \"Panier\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOMAINLOG_USAGE_SOURCE", "catalog")
	t.Setenv("DOMAINLOG_MESSAGES", msgDir)

	mustRun(t, "start", "--locale", "fr_FR")
	mustRun(t, "record", "catalog", "shop")
	mustRun(t, "record", "load", "shop", "/p/shop/shop-fr_FR.mo")

	out := mustRun(t, "report", "--format", "json")
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	if len(r.NotLoaded) != 0 {
		t.Errorf("NotLoaded = %v, want none", r.NotLoaded)
	}
	if r.Session.DomainsSeen != 1 {
		t.Errorf("DomainsSeen = %d, want 1", r.Session.DomainsSeen)
	}
	if row, ok := r.Domain("shop"); !ok || row.TranslatedStrings != 0 {
		t.Errorf("shop row = %+v, want the snapshot's count", row)
	}
}

func TestReportInstalledLanguages(t *testing.T) {
	isolate(t)
	recordSite(t)
	mustRun(t, "record", "installed", "fr_FR=2016-01-04 10:11+0000", "de_DE", "--wplang", "fr_FR")

	out := mustRun(t, "report", "--format", "json")
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	var locales []string
	for _, lang := range r.Installed {
		locales = append(locales, lang.Locale)
	}
	if strings.Join(locales, ",") != "en_US,de_DE,fr_FR" {
		t.Errorf("installed = %v", locales)
	}
	if last := r.Installed[len(r.Installed)-1]; !last.Current || last.LastUpdated != "2016-01-04" {
		t.Errorf("fr_FR = %+v", last)
	}
	if r.Session.WPLang == nil || *r.Session.WPLang != "fr_FR" {
		t.Errorf("WPLang = %v", r.Session.WPLang)
	}

	md := mustRun(t, "report", "--format", "markdown")
	if !strings.Contains(md, "## Installed languages") || !strings.Contains(md, "- WPLANG: \"fr_FR\"") {
		t.Errorf("markdown report missing installed languages:\n%s", md)
	}
}

func TestRecordInstalledWithoutWPLang(t *testing.T) {
	isolate(t)
	mustRun(t, "start", "--locale", "en_US")
	mustRun(t, "record", "installed")

	out := mustRun(t, "report", "--format", "json")
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	if r.Session.WPLang != nil {
		t.Errorf("WPLang = %q, want undefined", *r.Session.WPLang)
	}
	if len(r.Installed) != 1 || !r.Installed[0].Current {
		t.Errorf("installed = %+v, want a current en_US only", r.Installed)
	}
}
