package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/domainlog/internal/logging"
)

var messageExts = map[string]bool{".toml": true, ".json": true, ".yaml": true, ".yml": true}

// LoadMessageDir builds a catalog from the go-i18n message files in dir.
// Files are named <domain>.<lang>.<ext>. When want is not language.Und, only
// files whose base language matches it are loaded. Files that fail to parse
// are logged and skipped.
func LoadMessageDir(dir string, want language.Tag, logger logrus.FieldLogger) (*Memory, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading message dir: %w", err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

	mem := NewMemory()
	for _, e := range entries {
		if e.IsDir() || !messageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		mf, err := bundle.LoadMessageFile(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Warn("skipping message file")
			continue
		}
		if !sameLanguage(mf.Tag, want) {
			continue
		}

		domain := domainFromFile(e.Name())
		count := len(mf.Messages)
		if mem.has(domain) {
			count += mem.EntryCount(domain)
		}
		mem.Set(domain, count, map[string]string{HeaderLanguage: mf.Tag.String()})
		logger.WithFields(logrus.Fields{"domain": domain, "entries": count}).Debug("loaded message file")
	}
	return mem, nil
}

// domainFromFile returns the part of a message file name before its first dot.
func domainFromFile(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func sameLanguage(have, want language.Tag) bool {
	if want == language.Und {
		return true
	}
	hb, _ := have.Base()
	wb, _ := want.Base()
	return hb == wb
}
