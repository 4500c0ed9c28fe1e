package report

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestMarkdownParser_PlainMarkdownWithoutSentinel(t *testing.T) {
	plain := "# Some Document\n\nJust Markdown.\n"
	_, err := MarkdownParser{}.Parse([]byte(plain))
	if err == nil {
		t.Fatal("expected error for plain Markdown without sentinel, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid domainlog report") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestMarkdownParser_CorruptedBase64Payload(t *testing.T) {
	corrupted := versionSentinel + "\n" + dataPrefix + "!!!not-valid-base64!!!" + dataSuffix + "\n"
	if _, err := (MarkdownParser{}).Parse([]byte(corrupted)); err == nil {
		t.Fatal("expected error for corrupted base64 payload, got nil")
	}
}

func TestMarkdownParser_MissingDataPayload(t *testing.T) {
	noData := versionSentinel + "\n\n# Localization\n"
	_, err := MarkdownParser{}.Parse([]byte(noData))
	if err == nil || !strings.Contains(err.Error(), "missing data payload") {
		t.Errorf("expected missing payload error, got %v", err)
	}
}

func TestMarkdownParser_UnterminatedPayload(t *testing.T) {
	bad := versionSentinel + "\n" + dataPrefix + "e30="
	_, err := MarkdownParser{}.Parse([]byte(bad))
	if err == nil || !strings.Contains(err.Error(), "malformed data payload") {
		t.Errorf("expected malformed payload error, got %v", err)
	}
}

func TestMarkdownParser_InvalidEmbeddedJSON(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("{not json"))
	bad := versionSentinel + "\n" + dataPrefix + payload + dataSuffix + "\n"
	_, err := MarkdownParser{}.Parse([]byte(bad))
	if err == nil || !strings.Contains(err.Error(), "failed to parse embedded JSON") {
		t.Errorf("expected JSON error, got %v", err)
	}
}

func TestJSONParser_Invalid(t *testing.T) {
	if _, err := (JSONParser{}).Parse([]byte("[]")); err == nil {
		t.Error("expected error for a JSON array")
	}
}

func TestParserFor(t *testing.T) {
	if _, ok := ParserFor("out/domainlog.JSON").(*JSONParser); !ok {
		t.Error("expected JSONParser for .JSON")
	}
	if _, ok := ParserFor("domainlog.md").(*MarkdownParser); !ok {
		t.Error("expected MarkdownParser for .md")
	}
}
