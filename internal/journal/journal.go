// Package journal stores the host's text domain events on disk as JSON lines
// so they can be replayed into an observation log later.
package journal

import "time"

// Kind identifies the type of a journal line.
type Kind string

const (
	KindSession Kind = "session"
	KindLoad    Kind = "load"
	KindUnload  Kind = "unload"
	KindUse     Kind = "use"
	KindCatalog Kind = "catalog"

	// KindInstalled lists the host's installed core locales. Load folds it
	// into the Session instead of returning it as an event.
	KindInstalled Kind = "installed"
)

// Event is one line of the journal.
type Event struct {
	Kind   Kind      `json:"kind"`
	Time   time.Time `json:"time"`
	Domain string    `json:"domain,omitempty"`

	// load
	Path     string `json:"path,omitempty"`
	Resolved string `json:"resolved,omitempty"` // path after host rewriting, if any

	// catalog
	Entries int               `json:"entries,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`

	// session
	ID     string `json:"id,omitempty"`
	Locale string `json:"locale,omitempty"`

	// installed: locale -> core PO-Revision-Date
	Installed map[string]string `json:"installed,omitempty"`
	WPLang    *string           `json:"wplang,omitempty"`
}

// Session is the header of a journal plus what was learned reading it.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	Locale    string    `json:"locale,omitempty"`

	// Installed and WPLang come from the latest installed event.
	Installed map[string]string `json:"installed,omitempty"`
	WPLang    *string           `json:"wplang,omitempty"`

	// Skipped counts lines that could not be parsed.
	Skipped int `json:"skipped,omitempty"`
}
