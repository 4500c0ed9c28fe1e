package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/report"
)

var (
	reportJournal string
	reportFormat  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the current session's report to stdout without ending it",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(reportJournal)
		if err != nil {
			return err
		}
		_, r, err := buildReport(store)
		if err != nil {
			return err
		}

		format := reportFormat
		if format == "" {
			format = GetConfig().DefaultFormat
		}
		data, err := renderFor(format, r)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// renderFor renders r as format, where "plain" selects the terminal layout.
func renderFor(format string, r *report.Report) ([]byte, error) {
	if strings.EqualFold(format, "plain") {
		return report.PlainRenderer{}.Render(r)
	}
	renderer, _, err := report.ForFormat(format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(r)
}

func init() {
	reportCmd.Flags().StringVar(&reportJournal, "journal", "", "journal to read (default: the active session)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "markdown, json or plain (default from config)")
	rootCmd.AddCommand(reportCmd)
}
