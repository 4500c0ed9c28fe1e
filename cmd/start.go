package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/journal"
	"github.com/fakeyudi/domainlog/internal/logging"
)

var startLocale string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Begin a new observation session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore("")
		if err != nil {
			return err
		}

		locale := startLocale
		if locale == "" {
			locale = localeFromEnv()
		}

		s, err := store.Begin(locale)
		if errors.Is(err, journal.ErrSessionActive) {
			if cur, _, lerr := store.Load(); lerr == nil {
				return fmt.Errorf("session already in progress (started at %s)", cur.StartTime.Format(time.RFC3339))
			}
			return err
		}
		if err != nil {
			return err
		}

		logging.Log.WithField("session", s.ID).WithField("journal", store.Path()).Info("session started")
		cmd.Printf("Session started. Journal: %s\n", store.Path())
		return nil
	},
}

// localeFromEnv derives a host locale such as "fr_FR" from the POSIX
// locale variables. "C" and "POSIX" mean no locale.
func localeFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return ""
		}
		return v
	}
	return ""
}

func init() {
	startCmd.Flags().StringVar(&startLocale, "locale", "", "locale of the observed request, e.g. fr_FR (default from $LANG)")
	rootCmd.AddCommand(startCmd)
}
