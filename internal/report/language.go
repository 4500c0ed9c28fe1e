package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageNames returns the native and English names of a host locale such
// as "fr_FR". Locales x/text cannot name are returned unchanged.
func LanguageNames(locale string) (native, english string) {
	native, english = locale, locale
	tag := ParseLocale(locale)
	if tag == language.Und {
		return
	}
	if n := display.Self.Name(tag); n != "" {
		native = n
	}
	if n := display.English.Tags().Name(tag); n != "" {
		english = n
	}
	return
}

// ParseLocale converts a host locale to a language tag, or language.Und.
func ParseLocale(locale string) language.Tag {
	if locale == "" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}
