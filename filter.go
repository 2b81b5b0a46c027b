package scopebar

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/scopebar/pkg/scope"
)

// Attr keys recognized by AttrFilter. Their values are ignored; only their
// presence matters.
const (
	// AttrShow forces a row for the scope carrying it.
	AttrShow = "scopebar.show"
	// AttrHide suppresses the row for the scope carrying it.
	AttrHide = "scopebar.hide"
)

// Filter decides whether a scope gets a row. Scopes rejected by a filter
// are invisible to the display: they get no record, and their descendants
// skip them when looking for the nearest displayed ancestor.
type Filter func(*scope.Scope) bool

// AttrFilter returns a Filter honoring the AttrShow and AttrHide attrs,
// falling back to showByDefault when neither is present. If both are
// present, show wins.
func AttrFilter(showByDefault bool) Filter {
	return func(s *scope.Scope) bool {
		hide := false
		for _, a := range s.Attrs() {
			switch a.Key {
			case AttrShow:
				return true
			case AttrHide:
				hide = true
			}
		}
		if hide {
			return false
		}
		return showByDefault
	}
}

// FieldFormatter turns a scope's attrs into the Fields string available to
// row templates.
type FieldFormatter func(attrs []scope.Attr) string

// DefaultFieldFormatter renders attrs in order as "k=v k2=v2", quoting
// string values.
func DefaultFieldFormatter(attrs []scope.Attr) string {
	var b strings.Builder
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Key)
		b.WriteByte('=')
		switch v := a.Value.(type) {
		case string:
			fmt.Fprintf(&b, "%q", v)
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	return b.String()
}

// HideFilterAttrs wraps f so the AttrShow and AttrHide control attrs do not
// leak into formatted fields.
func HideFilterAttrs(f FieldFormatter) FieldFormatter {
	return func(attrs []scope.Attr) string {
		kept := make([]scope.Attr, 0, len(attrs))
		for _, a := range attrs {
			if a.Key == AttrShow || a.Key == AttrHide {
				continue
			}
			kept = append(kept, a)
		}
		return f(kept)
	}
}
