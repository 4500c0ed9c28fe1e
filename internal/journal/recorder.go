package journal

import (
	"sync"

	"github.com/fakeyudi/domainlog/internal/observe"
)

// Recorder is a Listener that appends every event to a journal instead of
// keeping it in memory. Listener methods cannot fail, so the first append
// error is kept and later events are dropped.
type Recorder struct {
	store Store
	// Resolve, when set, records the host's rewrite of each load path.
	Resolve observe.Resolver

	mu  sync.Mutex
	err error
}

var _ observe.Listener = (*Recorder)(nil)

// NewRecorder returns a Recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) OnLoadAttempt(domain, requestedPath string) {
	ev := Event{Kind: KindLoad, Domain: domain, Path: requestedPath}
	if r.Resolve != nil {
		if resolved := r.Resolve(requestedPath, domain); resolved != requestedPath {
			ev.Resolved = resolved
		}
	}
	r.append(ev)
}

func (r *Recorder) OnUnload(domain string) {
	r.append(Event{Kind: KindUnload, Domain: domain})
}

func (r *Recorder) OnTranslationUsed(domain string) {
	r.append(Event{Kind: KindUse, Domain: domain})
}

// Snapshot records the host's catalog state for domain.
func (r *Recorder) Snapshot(domain string, entries int, headers map[string]string) {
	r.append(Event{Kind: KindCatalog, Domain: domain, Entries: entries, Headers: headers})
}

// Installed records the host's installed core locales, each mapped to its
// revision date, and its WPLANG constant (nil when undefined).
func (r *Recorder) Installed(locales map[string]string, wplang *string) {
	r.append(Event{Kind: KindInstalled, Installed: locales, WPLang: wplang})
}

// Err returns the first append error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) append(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.err = r.store.Append(ev)
}
