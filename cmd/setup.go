package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/config"
	"github.com/fakeyudi/domainlog/internal/logging"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure domainlog (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works with a broken config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetOutput(cmd.ErrOrStderr())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd)
	},
}

// runSetup runs the interactive setup wizard and saves the global config.
func runSetup(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	// An unreadable existing config is replaced rather than edited.
	existing, err := config.LoadGlobal()
	if err != nil {
		logging.Log.WithError(err).Warn("ignoring existing global config")
		existing = nil
	}

	c, err := config.RunSetup(existing, cmd.InOrStdin(), out)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	path, err := config.SaveGlobal(c)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "  ✓ Config saved to %s\n", path)
	fmt.Fprintln(out, "  Setup complete. Run 'domainlog start' to begin a session.")
	fmt.Fprintln(out)
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
