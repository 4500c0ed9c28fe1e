package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/config"
	"github.com/fakeyudi/domainlog/internal/logging"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var (
	logLevel    string
	messagesDir string
)

var rootCmd = &cobra.Command{
	Use:   "domainlog",
	Short: "Record text domain load attempts and report on what the host loaded",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetOutput(cmd.ErrOrStderr())

		// First run: no global config yet. Offer the wizard only when stdin
		// is an interactive terminal.
		if !globalConfigExists() && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "  Welcome to domainlog! Looks like this is your first time.")
			if err := runSetup(cmd); err != nil {
				return err
			}
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		if err := logging.SetLevel(level); err != nil {
			return err
		}
		if messagesDir != "" {
			cfg.MessagesDir = messagesDir
		}
		return nil
	},
}

func globalConfigExists() bool {
	p, err := config.GlobalPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return !errors.Is(err, os.ErrNotExist)
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&messagesDir, "messages", "", "directory of go-i18n message files to read as a translation catalog")
}
