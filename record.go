package scopebar

import (
	"sync"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

// recordKey keys this package's state in a scope's extension store.
type recordKey struct{}

// rowInit holds settings applied to a scope's row when it is first created.
// Callers may configure a scope before it is ever entered; these values are
// consumed by makeRowLocked and cleared after use.
type rowInit struct {
	template liveview.Template
	length   *int64
	pos      *int64
	message  *string
}

// record is the per-scope state. One record is allocated per tracked scope
// and stored in that scope's extension store; the slot manager never holds a
// record across a lock release.
type record struct {
	display *Display

	// parentScope is the nearest ancestor known to carry a record, which
	// is not necessarily the immediate parent (filtered scopes are
	// transparently skipped). Nil for roots.
	parentScope *scope.Scope

	// name, fields, depth and indentPrefix are computed once at creation
	// and immutable afterwards; templates read them without locking.
	name         string
	fields       string
	depth        int
	indentPrefix string

	mu sync.Mutex
	// row is nil until the scope is first entered. Once set, the row is
	// either hidden (queued for a slot) or shown (counted against the
	// slot limit). finish clears it back to nil.
	row *liveview.Row
	// parentRow is a copy of the nearest recorded ancestor's row handle,
	// used to insert this record's row directly below it.
	parentRow *liveview.Row
	init      rowInit
	// finishMessage, if set, is printed above the live rows when the
	// scope finishes.
	finishMessage string
}

// recordOf returns the record attached to s, or nil if s carries none
// (never tracked, or filtered out).
func recordOf(s *scope.Scope) *record {
	if s == nil {
		return nil
	}
	v, ok := s.Ext(recordKey{})
	if !ok {
		return nil
	}
	return v.(*record)
}

// bindKeys wraps t so its snapshots carry the scope name, formatted attrs
// and indent prefix.
func (r *record) bindKeys(t liveview.Template) liveview.Template {
	return func(s liveview.Snapshot) string {
		s.Name = r.name
		s.Fields = r.fields
		s.Prefix = r.indentPrefix
		return t(s)
	}
}

// makeRowLocked creates the hidden row for this record, applying and
// consuming the deferred init settings. No-op if the row already exists.
// Caller holds r.mu.
func (r *record) makeRowLocked(view *liveview.View, fallback liveview.Template) {
	if r.row != nil {
		return
	}

	tmpl := r.init.template
	if tmpl == nil {
		tmpl = r.bindKeys(fallback)
	}
	row := view.NewHiddenRow(tmpl)

	if r.init.length != nil {
		row.SetLength(*r.init.length)
	}
	if r.init.message != nil {
		row.SetMessage(*r.init.message)
	}
	if r.init.pos != nil {
		row.SetPosition(*r.init.pos)
	}
	r.init = rowInit{}
	r.row = row
}

// rowRef returns the current row handle under the record mutex.
func (r *record) rowRef() *liveview.Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.row
}
