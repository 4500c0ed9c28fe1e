package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/fakeyudi/domainlog/internal/config"
	"github.com/fakeyudi/domainlog/internal/hook"
)

func TestSetupSavesGlobalConfig(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll("wp-content", 0o755); err != nil {
		t.Fatal(err)
	}

	// Language dir keeps the wp-content guess; mu-plugins and theme dirs stay empty.
	answers := strings.Join([]string{
		"",
		"/srv/plugins",
		"", "", "",
		"/srv/reports",
		"json",
		"catalog",
	}, "\n") + "\n"
	rootCmd.SetIn(strings.NewReader(answers))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out := mustRun(t, "setup")
	if !strings.Contains(out, "Config saved to") {
		t.Errorf("unexpected output: %q", out)
	}

	got, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if got.Dirs.PluginDir != "/srv/plugins" {
		t.Errorf("PluginDir = %q", got.Dirs.PluginDir)
	}
	if !strings.HasSuffix(got.Dirs.LanguageDir, "wp-content/languages") {
		t.Errorf("LanguageDir = %q, want the wp-content guess", got.Dirs.LanguageDir)
	}
	if got.OutputDir != "/srv/reports" || got.DefaultFormat != "json" || got.UsageSource != "catalog" {
		t.Errorf("config = %+v", got)
	}
}

func TestSetupCancelledOnShortInput(t *testing.T) {
	isolate(t)
	rootCmd.SetIn(strings.NewReader("/srv/languages\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	_, err := executeCommand(rootCmd, "setup")
	if err == nil || !strings.Contains(err.Error(), "setup cancelled") {
		t.Errorf("expected setup cancelled, got %v", err)
	}
}

func TestHookInstallAndUninstall(t *testing.T) {
	journalPath := isolate(t)
	mu := t.TempDir()
	t.Setenv("DOMAINLOG_MU_PLUGIN_DIR", mu)

	out := mustRun(t, "hook", "install")
	if !strings.Contains(out, "Hook written to") || !strings.Contains(out, journalPath) {
		t.Errorf("unexpected output: %q", out)
	}
	if !hook.IsInstalled(mu) {
		t.Fatal("hook not installed")
	}

	out = mustRun(t, "hook", "uninstall")
	if !strings.Contains(out, "Removed") {
		t.Errorf("unexpected output: %q", out)
	}
	out = mustRun(t, "hook", "uninstall")
	if !strings.Contains(out, "hook not installed") {
		t.Errorf("unexpected output: %q", out)
	}
}
