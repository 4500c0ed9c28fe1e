package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned when no journal exists on disk.
var ErrNoSession = errors.New("no active session")

// ErrSessionActive is returned by Begin when a journal already exists.
var ErrSessionActive = errors.New("session already in progress")

// Store persists a session journal.
type Store interface {
	Begin(locale string) (*Session, error) // returns ErrSessionActive if one exists
	Append(ev Event) error                 // returns ErrNoSession if none exists
	Load() (*Session, []Event, error)      // returns ErrNoSession if none exists
	Delete() error
	Path() string
}

// diskStore is the concrete Store backed by a single JSON-lines file.
type diskStore struct {
	path string
}

// NewStore returns a Store writing to path, or to DefaultPath when path is
// empty. The parent directory is created if needed.
func NewStore(path string) (Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolving data directory: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: path}, nil
}

// DefaultPath returns $XDG_DATA_HOME/domainlog/journal.jsonl or
// ~/.local/share/domainlog/journal.jsonl.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "domainlog", "journal.jsonl"), nil
}

func (d *diskStore) Path() string { return d.path }

// Begin writes a fresh journal holding only the session header. The header
// is written to a temp file and renamed into place so a reader never sees a
// half-written journal.
func (d *diskStore) Begin(locale string) (*Session, error) {
	if _, err := os.Stat(d.path); err == nil {
		return nil, ErrSessionActive
	}

	s := &Session{ID: uuid.New().String(), StartTime: time.Now(), Locale: locale}
	line, err := json.Marshal(Event{Kind: KindSession, Time: s.StartTime, ID: s.ID, Locale: locale})
	if err != nil {
		return nil, fmt.Errorf("failed to start session journal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "journal-*.jsonl.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to start session journal: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(append(line, '\n')); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to start session journal: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to start session journal: %w", err)
	}
	if err = os.Rename(tmpName, d.path); err != nil {
		return nil, fmt.Errorf("failed to start session journal: %w", err)
	}
	return s, nil
}

// Append writes ev as one line at the end of the journal.
func (d *diskStore) Append(ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSession
		}
		return fmt.Errorf("failed to open session journal: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to append event: %w", err)
	}
	return f.Close()
}

// Load reads the session header and every event after it. Lines that cannot
// be parsed are skipped and counted so one bad write does not hide the rest
// of the session.
func (d *diskStore) Load() (*Session, []Event, error) {
	f, err := os.Open(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf("failed to read session journal: %w", err)
	}
	defer f.Close()

	var s *Session
	var events []Event
	var installed *Event
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil || ev.Kind == "" {
			skipped++
			continue
		}
		switch ev.Kind {
		case KindSession:
			if s == nil {
				s = &Session{ID: ev.ID, StartTime: ev.Time, Locale: ev.Locale}
			}
		case KindInstalled:
			installed = &ev
		default:
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read session journal: %w", err)
	}
	if s == nil {
		return nil, nil, fmt.Errorf("not a domainlog journal: %s has no session header", d.path)
	}
	s.Skipped = skipped
	if installed != nil {
		s.Installed = installed.Installed
		s.WPLang = installed.WPLang
	}
	return s, events, nil
}

// Delete removes the journal from disk.
func (d *diskStore) Delete() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session journal: %w", err)
	}
	return nil
}
