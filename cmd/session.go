package cmd

import (
	"github.com/fakeyudi/domainlog/internal/catalog"
	"github.com/fakeyudi/domainlog/internal/journal"
	"github.com/fakeyudi/domainlog/internal/logging"
	"github.com/fakeyudi/domainlog/internal/observe"
	"github.com/fakeyudi/domainlog/internal/report"
)

// openStore opens the journal at path, falling back to the configured one.
func openStore(path string) (journal.Store, error) {
	if path == "" {
		path = GetConfig().JournalPath
	}
	return journal.NewStore(path)
}

// replaySession loads the journal and replays it into a fresh log.
func replaySession(store journal.Store) (*journal.Session, *observe.Log, error) {
	s, events, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	conf := GetConfig()
	log := logging.Log.WithField("session", s.ID)
	if s.Skipped > 0 {
		log.WithField("skipped", s.Skipped).Warn("journal lines could not be parsed")
	}

	snapshots := catalog.NewMemory()
	var messages *catalog.Memory
	if conf.MessagesDir != "" {
		messages, err = catalog.LoadMessageDir(conf.MessagesDir, report.ParseLocale(s.Locale), log)
		if err != nil {
			return nil, nil, err
		}
	}

	l := observe.New(conf.Dirs,
		observe.WithResolver(journal.NewRewriteTable(events).Resolve),
		observe.WithCatalog(catalog.Supplement(snapshots, messages)),
		observe.WithUsageSource(observe.UsageSource(conf.UsageSource)),
		observe.WithLogger(log),
	)
	applied := journal.Replay(events, l, snapshots)
	log.WithField("events", applied).Debug("journal replayed")
	return s, l, nil
}

// buildReport replays the journal and builds its report.
func buildReport(store journal.Store) (*journal.Session, *report.Report, error) {
	s, l, err := replaySession(store)
	if err != nil {
		return nil, nil, err
	}
	r := report.Build(l, report.Meta{
		SessionID:    s.ID,
		StartTime:    s.StartTime,
		Locale:       s.Locale,
		SkippedLines: s.Skipped,
		Installed:    s.Installed,
		WPLang:       s.WPLang,
		Hidden:       GetConfig().Hidden,
	})
	return s, r, nil
}
