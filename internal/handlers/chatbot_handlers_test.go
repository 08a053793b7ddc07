package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSessionTitle(t *testing.T) {
	if got := sessionTitle("Find me a summer dress"); got != "Find me a summer dress" {
		t.Errorf("short message should be kept whole, got %q", got)
	}

	long := strings.Repeat("x", 80)
	if got := sessionTitle(long); len([]rune(got)) != sessionTitleRunes {
		t.Errorf("long message truncated to %d runes, want %d", len([]rune(got)), sessionTitleRunes)
	}
}

func TestSessionTitleKeepsUTF8Valid(t *testing.T) {
	// Accented runes are two bytes here, so a byte-wise cut at 60 lands mid
	// rune and produces invalid UTF-8.
	long := strings.Repeat("áo dài mùa hè ", 10)

	got := sessionTitle(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated title is not valid UTF-8: %q", got)
	}
	if len([]rune(got)) != sessionTitleRunes {
		t.Errorf("truncated to %d runes, want %d", len([]rune(got)), sessionTitleRunes)
	}
	if !strings.HasPrefix(long, got) {
		t.Errorf("title %q is not a prefix of the message", got)
	}
}
