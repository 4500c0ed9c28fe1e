package observe

// Catalog is the host's live, read-only translation catalog.
type Catalog interface {
	// EntryCount returns the number of translated entries for domain, or 0.
	EntryCount(domain string) int
	// Header returns a catalog header value such as "PO-Revision-Date".
	Header(domain, name string) (string, bool)
	// Domains returns every domain present in the catalog.
	Domains() []string
}

type emptyCatalog struct{}

func (emptyCatalog) EntryCount(string) int                { return 0 }
func (emptyCatalog) Header(string, string) (string, bool) { return "", false }
func (emptyCatalog) Domains() []string                    { return nil }

// DomainRecord groups every load attempt made for one text domain. Files are
// kept in the order they were attempted, repeats included.
type DomainRecord struct {
	name    string
	files   []FileRecord
	catalog Catalog
}

func newDomainRecord(name string, cat Catalog) *DomainRecord {
	return &DomainRecord{name: name, catalog: cat}
}

func (d *DomainRecord) add(f FileRecord) {
	d.files = append(d.files, f)
}

// snapshot copies the record so it can be read without the log's lock.
func (d *DomainRecord) snapshot() *DomainRecord {
	files := make([]FileRecord, len(d.files))
	copy(files, d.files)
	return &DomainRecord{name: d.name, files: files, catalog: d.catalog}
}

func (d *DomainRecord) Name() string { return d.name }

func (d *DomainRecord) String() string { return d.name }

// Files returns a copy of the attempted files in insertion order.
func (d *DomainRecord) Files() []FileRecord {
	out := make([]FileRecord, len(d.files))
	copy(out, d.files)
	return out
}

// OwnerType is the first known owner type among the files, or Unknown.
func (d *DomainRecord) OwnerType() OwnerType {
	for _, f := range d.files {
		if f.ownerType != Unknown {
			return f.ownerType
		}
	}
	return Unknown
}

func (d *DomainRecord) FileCount() int { return len(d.files) }

// HasDuplicateFiles reports whether the same resolved file was attempted more
// than once for this domain.
func (d *DomainRecord) HasDuplicateFiles() bool {
	seen := make(map[string]struct{}, len(d.files))
	for _, f := range d.files {
		seen[f.resolvedPath] = struct{}{}
	}
	return len(seen) < len(d.files)
}

// HasTranslationLoaded reports whether any attempted file looked loadable.
func (d *DomainRecord) HasTranslationLoaded() bool {
	for _, f := range d.files {
		if f.loaded {
			return true
		}
	}
	return false
}

// TranslatedStringCount asks the catalog how many entries the domain has.
func (d *DomainRecord) TranslatedStringCount() int {
	if d.catalog == nil {
		return 0
	}
	return d.catalog.EntryCount(d.name)
}
