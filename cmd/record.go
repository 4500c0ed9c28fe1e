package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/journal"
	"github.com/fakeyudi/domainlog/internal/observe"
)

var (
	recordResolved string
	recordEntries  int
	recordHeaders  []string
	recordWPLang   string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append a host event to the current session",
}

// withRecorder runs fn against a Recorder on the configured journal.
func withRecorder(fn func(rec *journal.Recorder)) error {
	store, err := openStore("")
	if err != nil {
		return err
	}
	rec := journal.NewRecorder(store)
	if recordResolved != "" {
		resolved := recordResolved
		rec.Resolve = func(string, string) string { return resolved }
	}
	fn(rec)
	return rec.Err()
}

var recordLoadCmd = &cobra.Command{
	Use:   "load <domain> <path>",
	Short: "Record an attempt to load a translation file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecorder(func(rec *journal.Recorder) {
			rec.OnLoadAttempt(args[0], args[1])
		})
	},
}

var recordUnloadCmd = &cobra.Command{
	Use:   "unload <domain>",
	Short: "Record that a text domain was unloaded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecorder(func(rec *journal.Recorder) {
			rec.OnUnload(args[0])
		})
	},
}

var recordUseCmd = &cobra.Command{
	Use:   "use <args...>",
	Short: "Record a translation call; the last argument is the text domain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecorder(func(rec *journal.Recorder) {
			observe.UsageHook(rec)(args...)
		})
	},
}

var recordCatalogCmd = &cobra.Command{
	Use:   "catalog <domain>",
	Short: "Record the host's loaded catalog for a text domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordEntries < 0 {
			return fmt.Errorf("--entries must not be negative")
		}
		headers, err := parseHeaders(recordHeaders)
		if err != nil {
			return err
		}
		return withRecorder(func(rec *journal.Recorder) {
			rec.Snapshot(args[0], recordEntries, headers)
		})
	},
}

var recordInstalledCmd = &cobra.Command{
	Use:   "installed [locale[=revision-date]...]",
	Short: "Record the host's installed core languages",
	Long: `Record the locales installed for the host's core, each optionally with
the PO-Revision-Date of its core translation. Pass --wplang only when the
host defines the legacy WPLANG constant.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		locales := make(map[string]string, len(args))
		for _, a := range args {
			locale, date, _ := strings.Cut(a, "=")
			locale = strings.TrimSpace(locale)
			if locale == "" {
				return fmt.Errorf("invalid locale %q", a)
			}
			locales[locale] = strings.TrimSpace(date)
		}
		var wplang *string
		if cmd.Flags().Changed("wplang") {
			v := recordWPLang
			wplang = &v
		}
		return withRecorder(func(rec *journal.Recorder) {
			rec.Installed(locales, wplang)
		})
	},
}

// parseHeaders turns repeated "Name=value" flags into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q: want Name=value", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

func init() {
	recordLoadCmd.Flags().StringVar(&recordResolved, "resolved", "", "path the host actually loaded, when it rewrote the request")
	recordCatalogCmd.Flags().IntVar(&recordEntries, "entries", 0, "number of translation entries in the catalog")
	recordCatalogCmd.Flags().StringArrayVar(&recordHeaders, "header", nil, "catalog header as Name=value (repeatable)")
	recordInstalledCmd.Flags().StringVar(&recordWPLang, "wplang", "", "value of the host's WPLANG constant")
	recordCmd.AddCommand(recordLoadCmd, recordUnloadCmd, recordUseCmd, recordCatalogCmd, recordInstalledCmd)
	rootCmd.AddCommand(recordCmd)
}
