package observe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fakeyudi/domainlog/internal/logging"
)

// Inspector examines the filesystem on behalf of the log. Implementations must
// be safe to call with paths that do not exist.
type Inspector interface {
	Stat(path string) (fs.FileInfo, error)
	Readable(path string) bool
}

// OSInspector inspects the real filesystem.
type OSInspector struct{}

func (OSInspector) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Readable reports whether path can be opened for reading.
func (OSInspector) Readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// FileRecord describes one attempted load of one resource file. All fields
// are fixed at construction.
type FileRecord struct {
	resolvedPath  string
	requestedPath string
	ownerType     OwnerType
	loaded        bool
	permissions   string
}

// NewFileRecord classifies and inspects a load attempt. Inspection failures are
// recorded as "not loaded" and never returned.
func NewFileRecord(resolved, requested string, dirs Dirs, p Inspector) FileRecord {
	return newFileRecord(resolved, requested, dirs, p, logging.Discard())
}

// newFileRecord is NewFileRecord with Debug logging of inspection failures and of
// owner types taken from the requested path.
func newFileRecord(resolved, requested string, dirs Dirs, p Inspector, logger logrus.FieldLogger) FileRecord {
	if p == nil {
		p = OSInspector{}
	}
	log := logger.WithField("file", resolved)

	owner := dirs.ClassifyFile(resolved, requested)
	if owner != Unknown && resolved != requested && dirs.Classify(resolved) == Unknown {
		log.WithFields(logrus.Fields{
			"requested": requested,
			"owner":     owner,
		}).Debug("owner type taken from the requested path")
	}

	return FileRecord{
		resolvedPath:  resolved,
		requestedPath: requested,
		ownerType:     owner,
		loaded:        checkLoaded(p, resolved, log),
		permissions:   readPermissions(p, resolved),
	}
}

func (f FileRecord) ResolvedPath() string  { return f.resolvedPath }
func (f FileRecord) RequestedPath() string { return f.requestedPath }
func (f FileRecord) OwnerType() OwnerType  { return f.ownerType }
func (f FileRecord) IsLoaded() bool        { return f.loaded }

// Permissions returns the file mode as four octal digits, or "" when the
// file did not exist at construction time.
func (f FileRecord) Permissions() string { return f.permissions }

// Rewritten reports whether the host rewrote the requested path.
func (f FileRecord) Rewritten() bool { return f.resolvedPath != f.requestedPath }

func (f FileRecord) String() string { return f.resolvedPath }

func checkLoaded(p Inspector, path string, log logrus.FieldLogger) bool {
	info, err := p.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("file does not exist")
		return false
	case err != nil:
		log.WithError(err).Debug("stat failed")
		return false
	case info.IsDir():
		log.Debug("path is a directory")
		return false
	}
	if !p.Readable(path) {
		log.Debug("file is not readable")
		return false
	}
	return true
}

// readPermissions stats the file a second time so a file removed between
// the two checks is reported consistently as missing.
func readPermissions(p Inspector, path string) string {
	info, err := p.Stat(path)
	if err != nil {
		return ""
	}
	return octalMode(info.Mode())
}

// octalMode renders the permission and special bits the way a unix mode
// string would show its last four digits.
func octalMode(m fs.FileMode) string {
	bits := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if m&fs.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if m&fs.ModeSticky != 0 {
		bits |= 0o1000
	}
	return fmt.Sprintf("%04o", bits)
}
