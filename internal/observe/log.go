package observe

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fakeyudi/domainlog/internal/logging"
)

// Listener receives the host's text domain events.
type Listener interface {
	OnLoadAttempt(domain, requestedPath string)
	OnUnload(domain string)
	OnTranslationUsed(domain string)
}

// Resolver returns the path the host will actually load for a request,
// after any host-side rewriting.
type Resolver func(requestedPath, domain string) string

// Identity is the Resolver used when the host does not rewrite paths.
func Identity(requestedPath, _ string) string { return requestedPath }

// UsageSource selects where RequestedDomains comes from.
type UsageSource string

const (
	// UsageTracked reports domains seen through OnTranslationUsed.
	UsageTracked UsageSource = "tracked"
	// UsageCatalogSnapshot reports the domains present in the catalog, for
	// hosts that cannot emit usage events.
	UsageCatalogSnapshot UsageSource = "catalog"
)

// Option configures a Log.
type Option func(*Log)

func WithResolver(r Resolver) Option {
	return func(l *Log) {
		if r != nil {
			l.resolve = r
		}
	}
}

func WithInspector(p Inspector) Option {
	return func(l *Log) {
		if p != nil {
			l.inspector = p
		}
	}
}

func WithCatalog(c Catalog) Option {
	return func(l *Log) {
		if c != nil {
			l.catalog = c
		}
	}
}

func WithUsageSource(s UsageSource) Option {
	return func(l *Log) {
		if s != "" {
			l.usage = s
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Log is the event sink for one observation session. Every event and query
// runs under a single lock so the attempt order seen by readers is the order
// the host delivered.
type Log struct {
	mu sync.Mutex

	dirs      Dirs
	resolve   Resolver
	inspector Inspector
	catalog   Catalog
	usage     UsageSource
	logger    logrus.FieldLogger

	domains  map[string]*DomainRecord
	unloaded map[string]struct{}
	used     []string
	attempts int
}

var _ Listener = (*Log)(nil)

// New returns an empty log for one session.
func New(dirs Dirs, opts ...Option) *Log {
	l := &Log{
		dirs:      dirs,
		resolve:   Identity,
		inspector: OSInspector{},
		catalog:   emptyCatalog{},
		usage:     UsageTracked,
		logger:    logging.Discard(),
		domains:   make(map[string]*DomainRecord),
		unloaded:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnLoadAttempt records an attempt to load requestedPath for domain.
func (l *Log) OnLoadAttempt(domain, requestedPath string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	resolved := l.resolve(requestedPath, domain)
	log := l.logger.WithField("domain", domain)
	rec := newFileRecord(resolved, requestedPath, l.dirs, l.inspector, log)

	entry := log.WithFields(logrus.Fields{
		"file":   resolved,
		"owner":  rec.OwnerType(),
		"loaded": rec.IsLoaded(),
	})
	if rec.Rewritten() {
		entry = entry.WithField("requested", requestedPath)
	}
	entry.Debug("load attempt")

	d, ok := l.domains[domain]
	if !ok {
		d = newDomainRecord(domain, l.catalog)
		l.domains[domain] = d
	}
	d.add(rec)
	l.attempts++
}

// OnUnload marks domain as unloaded. Repeated calls are a no-op.
func (l *Log) OnUnload(domain string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unloaded[domain] = struct{}{}
}

// OnTranslationUsed records one translation call made against domain.
func (l *Log) OnTranslationUsed(domain string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.used = append(l.used, domain)
}

// UsageHook adapts the host's translation call shapes, which all pass the
// domain as their last argument.
func UsageHook(l Listener) func(args ...string) {
	return func(args ...string) {
		if len(args) == 0 {
			return
		}
		l.OnTranslationUsed(args[len(args)-1])
	}
}

// DomainsByOwnerType returns the domains whose owner type is t, sorted by name.
// The records are snapshots: later events do not change them.
func (l *Log) DomainsByOwnerType(t OwnerType) []*DomainRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*DomainRecord
	for _, d := range l.domains {
		if d.OwnerType() == t {
			out = append(out, d.snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Domain returns a snapshot of the record for name.
func (l *Log) Domain(name string) (*DomainRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.domains[name]
	if !ok {
		return nil, false
	}
	return d.snapshot(), true
}

// DomainNames returns every domain with at least one load attempt, sorted.
func (l *Log) DomainNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedKeys(l.domains)
}

// RequestedDomains returns the distinct domains translations were requested
// for, sorted. With UsageCatalogSnapshot the catalog's domains are used.
func (l *Log) RequestedDomains() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := make(map[string]struct{})
	if l.usage == UsageCatalogSnapshot {
		for _, d := range l.catalog.Domains() {
			set[d] = struct{}{}
		}
	} else {
		for _, d := range l.used {
			set[d] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AttemptCount returns the number of load attempts seen.
func (l *Log) AttemptCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}

// UnloadedDomainNames returns every domain that was unloaded, sorted. No
// domain is filtered out here.
func (l *Log) UnloadedDomainNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedKeys(l.unloaded)
}

// UsageCount returns the raw number of usage events, duplicates included.
func (l *Log) UsageCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.used)
}

func (l *Log) Catalog() Catalog { return l.catalog }

func (l *Log) UsageSource() UsageSource { return l.usage }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
