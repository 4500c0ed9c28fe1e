package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/journal"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current observation session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore("")
		if err != nil {
			return err
		}

		s, l, err := replaySession(store)
		if err != nil {
			if errors.Is(err, journal.ErrNoSession) {
				cmd.Println("no active session")
				return nil
			}
			return err
		}

		cmd.Printf("Session: %s\n", s.ID)
		cmd.Printf("Started: %s\n", s.StartTime.Format(time.RFC3339))
		cmd.Printf("Duration: %s\n", time.Since(s.StartTime).Round(time.Second).String())
		if s.Locale != "" {
			cmd.Printf("Locale: %s\n", s.Locale)
		}
		cmd.Printf("Load attempts: %d\n", l.AttemptCount())
		cmd.Printf("Domains: %d\n", len(l.DomainNames()))
		cmd.Printf("Translation calls: %d\n", l.UsageCount())
		cmd.Printf("Unloaded: %d\n", len(l.UnloadedDomainNames()))
		if s.Skipped > 0 {
			cmd.Printf("Skipped lines: %d\n", s.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
