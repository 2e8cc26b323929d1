package placeholder

import (
	"strings"
	"testing"
)

func TestPlaceholderExplainsMissingProvider(t *testing.T) {
	p := New("Tutor Chat")
	if p.Title() != "Tutor Chat" {
		t.Errorf("Title() = %q", p.Title())
	}
	if !strings.Contains(p.View(80, 24), "not configured") {
		t.Error("view should explain that generation is unavailable")
	}
}
