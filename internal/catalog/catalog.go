// Package catalog provides read-only translation catalogs for the
// observation log: snapshots reported by the host, and message files loaded
// through go-i18n.
package catalog

import (
	"sort"
	"sync"

	"github.com/fakeyudi/domainlog/internal/observe"
)

// Header names read by the report.
const (
	HeaderRevisionDate = "PO-Revision-Date"
	HeaderGenerator    = "X-Generator"
	HeaderLanguage     = "Language"
)

// Entry is what the catalog knows about one domain.
type Entry struct {
	Count   int               `json:"entries"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Memory is a catalog filled from host snapshots. A later snapshot of a
// domain replaces the earlier one.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ observe.Catalog = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

// Set records the entry count and headers for domain.
func (m *Memory) Set(domain string, count int, headers map[string]string) {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[domain] = Entry{Count: count, Headers: h}
}

func (m *Memory) EntryCount(domain string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[domain].Count
}

func (m *Memory) Header(domain, name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[domain]
	if !ok {
		return "", false
	}
	v, ok := e.Headers[name]
	return v, ok
}

func (m *Memory) has(domain string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[domain]
	return ok
}

// Domains returns the known domains, sorted.
func (m *Memory) Domains() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.entries))
	for d := range m.entries {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of domains in the catalog.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// layered answers from the first catalog that knows a domain.
type layered []*Memory

// Merge layers catalogs. Counts and headers come from the first catalog that
// holds the domain; Domains is the union.
func Merge(first *Memory, rest ...*Memory) observe.Catalog {
	return newLayered(first, rest...)
}

func newLayered(first *Memory, rest ...*Memory) layered {
	var l layered
	for _, m := range append([]*Memory{first}, rest...) {
		if m != nil {
			l = append(l, m)
		}
	}
	return l
}

func (l layered) owner(domain string) *Memory {
	for _, m := range l {
		if m.has(domain) {
			return m
		}
	}
	return nil
}

func (l layered) EntryCount(domain string) int {
	if m := l.owner(domain); m != nil {
		return m.EntryCount(domain)
	}
	return 0
}

func (l layered) Header(domain, name string) (string, bool) {
	if m := l.owner(domain); m != nil {
		return m.Header(domain, name)
	}
	return "", false
}

func (l layered) Domains() []string {
	set := make(map[string]struct{})
	for _, m := range l {
		for _, d := range m.Domains() {
			set[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// supplemented is a layered catalog that only lists the base's domains.
type supplemented struct {
	layered
	base *Memory
}

// Supplement fills in counts and headers the host snapshot lacks from extra
// catalogs, but only the base decides which domains exist. A domain known
// only to extra is never reported by Domains.
func Supplement(base *Memory, extra ...*Memory) observe.Catalog {
	return supplemented{layered: newLayered(base, extra...), base: base}
}

func (s supplemented) Domains() []string {
	if s.base == nil {
		return nil
	}
	return s.base.Domains()
}
