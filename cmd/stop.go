package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/logging"
	"github.com/fakeyudi/domainlog/internal/report"
)

var stopFormat string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "End the current session and write its localization report",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore("")
		if err != nil {
			return err
		}

		_, r, err := buildReport(store)
		if err != nil {
			return err
		}

		conf := GetConfig()
		format := stopFormat
		if format == "" {
			format = conf.DefaultFormat
		}
		renderer, ext, err := report.ForFormat(format)
		if err != nil {
			return err
		}
		data, err := renderer.Render(r)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		outputDir := conf.OutputDir
		if outputDir == "" {
			outputDir = "."
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		outputPath := filepath.Join(outputDir, "domainlog-"+time.Now().Format("20060102-150405")+ext)
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}

		if err := store.Delete(); err != nil {
			return err
		}

		logging.Log.WithField("output", outputPath).Info("session stopped")
		cmd.Printf("Session stopped. Output: %s\n", outputPath)
		return nil
	},
}

func init() {
	stopCmd.Flags().StringVar(&stopFormat, "format", "", "Output format: markdown or json (overrides config)")
	rootCmd.AddCommand(stopCmd)
}
