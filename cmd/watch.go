package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/journal"
	"github.com/fakeyudi/domainlog/internal/logging"
	"github.com/fakeyudi/domainlog/internal/report"
	"github.com/fakeyudi/domainlog/internal/tui"
)

var (
	watchOut    string
	watchFormat string
	watchPlain  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the session report every time the journal changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore("")
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if watchOut == "" && !watchPlain && term.IsTerminal(os.Stdout.Fd()) {
			return watchTUI(ctx, store)
		}

		format := watchFormat
		if format == "" {
			format = "plain"
			if watchOut != "" {
				format = GetConfig().DefaultFormat
			}
		}
		return watchJournal(ctx, store, func(r *report.Report) error {
			data, err := renderFor(format, r)
			if err != nil {
				return err
			}
			if watchOut != "" {
				return writeAtomic(watchOut, data)
			}
			return writeFrame(cmd.OutOrStdout(), data)
		})
	},
}

// watchJournal calls emit with a fresh report now and after every journal
// change, until ctx is done. Bursts of changes collapse into one render.
func watchJournal(ctx context.Context, store journal.Store, emit func(*report.Report) error) error {
	changed := make(chan struct{}, 1)
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	notify()

	watchErr := make(chan error, 1)
	go func() { watchErr <- journal.Watch(ctx, store.Path(), notify) }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			return err
		case <-changed:
			_, r, err := buildReport(store)
			if errors.Is(err, journal.ErrNoSession) {
				logging.Log.Debug("waiting for a session to start")
				continue
			}
			if err != nil {
				logging.Log.WithError(err).Warn("could not rebuild report")
				continue
			}
			if err := emit(r); err != nil {
				return err
			}
		}
	}
}

func watchTUI(ctx context.Context, store journal.Store) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tui.NewProgram(&report.Report{}, store.Path())
	go func() {
		err := watchJournal(ctx, store, func(r *report.Report) error {
			p.Send(tui.Refresh(r))
			return nil
		})
		if err != nil {
			logging.Log.WithError(err).Error("watch stopped")
		}
		p.Send(tea.Quit())
	}()
	_, err := p.Run()
	return err
}

// writeFrame clears the screen when w is a terminal and prints data.
func writeFrame(w io.Writer, data []byte) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) {
		if _, err := io.WriteString(w, "\x1b[H\x1b[2J"); err != nil {
			return err
		}
	}
	_, err := w.Write(data)
	return err
}

// writeAtomic replaces path with data using a temp file and rename.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".domainlog-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "write the report to this file instead of the terminal")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "markdown, json or plain")
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "print plain text instead of the TUI")
	rootCmd.AddCommand(watchCmd)
}
