package scopebar

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
)

func TestProgressTemplate(t *testing.T) {
	tmpl := ProgressTemplate(10)

	got := tmpl(liveview.Snapshot{Name: "copy", Pos: 5, Len: 10})
	if !strings.Contains(got, "copy") || !strings.Contains(got, "5/10") {
		t.Errorf("render = %q, want name and counter", got)
	}
	if !strings.Contains(got, "=====>") {
		t.Errorf("render = %q, want a half-filled bar", got)
	}

	// Position is clamped to the length.
	got = tmpl(liveview.Snapshot{Name: "copy", Pos: 15, Len: 10})
	if !strings.Contains(got, "10/10") {
		t.Errorf("render = %q, want clamped counter 10/10", got)
	}
	if strings.Contains(got, ">") {
		t.Errorf("render = %q, full bar should have no cursor", got)
	}

	// Negative positions clamp to zero.
	got = tmpl(liveview.Snapshot{Name: "copy", Pos: -3, Len: 10})
	if !strings.Contains(got, "0/10") {
		t.Errorf("render = %q, want clamped counter 0/10", got)
	}

	// Without a length the bar degrades to a spinner.
	got = tmpl(liveview.Snapshot{Name: "copy"})
	if !strings.Contains(got, "copy") || strings.Contains(got, "/") {
		t.Errorf("render = %q, want spinner fallback without counter", got)
	}
}

func TestDefaultTemplate(t *testing.T) {
	tmpl := DefaultTemplate()

	got := tmpl(liveview.Snapshot{Prefix: "  ", Name: "job", Fields: "n=1"})
	if !strings.HasPrefix(got, "  ") {
		t.Errorf("render = %q, want indent prefix first", got)
	}
	if !strings.Contains(got, "job") || !strings.Contains(got, "{n=1}") {
		t.Errorf("render = %q, want name and braced fields", got)
	}

	got = tmpl(liveview.Snapshot{Name: "job", Message: "halfway"})
	if !strings.Contains(got, "halfway") {
		t.Errorf("render = %q, want message", got)
	}
	if strings.Contains(got, "{") {
		t.Errorf("render = %q, empty fields must not produce braces", got)
	}
}

func TestDefaultFooterTemplate(t *testing.T) {
	tmpl := DefaultFooterTemplate()
	got := tmpl(liveview.Snapshot{Pending: 3})
	if !strings.Contains(got, "...and 3 more not shown above.") {
		t.Errorf("render = %q", got)
	}
}
