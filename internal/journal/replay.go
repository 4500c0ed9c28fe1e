package journal

import (
	"sync"

	"github.com/fakeyudi/domainlog/internal/catalog"
	"github.com/fakeyudi/domainlog/internal/observe"
)

// Replay feeds events into l in journal order. Catalog snapshots go to cat
// when it is non-nil. It returns the number of events applied.
func Replay(events []Event, l observe.Listener, cat *catalog.Memory) int {
	applied := 0
	for _, ev := range events {
		switch ev.Kind {
		case KindLoad:
			l.OnLoadAttempt(ev.Domain, ev.Path)
		case KindUnload:
			l.OnUnload(ev.Domain)
		case KindUse:
			l.OnTranslationUsed(ev.Domain)
		case KindCatalog:
			if cat == nil {
				continue
			}
			cat.Set(ev.Domain, ev.Entries, ev.Headers)
		default:
			continue
		}
		applied++
	}
	return applied
}

// Snapshots fills cat from the catalog events alone. The log reads the
// catalog lazily, so it can be filled before or after the load events are
// replayed.
func Snapshots(events []Event, cat *catalog.Memory) {
	for _, ev := range events {
		if ev.Kind == KindCatalog {
			cat.Set(ev.Domain, ev.Entries, ev.Headers)
		}
	}
}

type rewriteKey struct {
	domain    string
	requested string
}

// RewriteTable plays back the path rewriting the host recorded with each
// load event. Each key keeps its resolved paths in journal order, so a
// request the host rewrote differently on two attempts replays both.
type RewriteTable struct {
	mu     sync.Mutex
	queues map[rewriteKey][]string
	last   map[rewriteKey]string
}

// NewRewriteTable collects the resolved path of every load event, using the
// requested path for events the host did not rewrite.
func NewRewriteTable(events []Event) *RewriteTable {
	t := &RewriteTable{
		queues: make(map[rewriteKey][]string),
		last:   make(map[rewriteKey]string),
	}
	for _, ev := range events {
		if ev.Kind != KindLoad {
			continue
		}
		resolved := ev.Resolved
		if resolved == "" {
			resolved = ev.Path
		}
		k := rewriteKey{domain: ev.Domain, requested: ev.Path}
		t.queues[k] = append(t.queues[k], resolved)
	}
	return t
}

// Resolve implements observe.Resolver. Calls for a key consume its recorded
// paths in order. Once they run out the last one repeats, and unrecorded
// paths resolve to themselves.
func (t *RewriteTable) Resolve(requested, domain string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := rewriteKey{domain: domain, requested: requested}
	if q := t.queues[k]; len(q) > 0 {
		t.queues[k] = q[1:]
		t.last[k] = q[0]
		return q[0]
	}
	if r, ok := t.last[k]; ok {
		return r
	}
	return requested
}
