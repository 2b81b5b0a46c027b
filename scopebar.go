package scopebar

import (
	"io"
	"strings"
	"sync/atomic"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

// DefaultMaxShown is the default number of rows shown at once.
const DefaultMaxShown = 7

// Display binds scope lifecycles to live terminal rows: every tracked scope
// gets a row when it is first entered, child rows render directly below
// their parent with an indent prefix, and at most a configured number of
// rows are shown at once — the rest wait in FIFO order behind a footer row.
//
// A Display registers itself as an observer on the Tracker passed to New
// and is driven entirely by that tracker's callbacks; rows are drawn once
// Start is called.
type Display struct {
	tracker *scope.Tracker
	view    *liveview.View
	mgr     *slotManager

	template liveview.Template
	fieldFmt FieldFormatter
	filter   Filter
	indent   string
	symbol   string

	out        io.Writer
	maxShown   uint64
	footerTmpl liveview.Template
	tick       TickSettings
}

// Option configures a Display.
type Option func(*Display)

// WithMaxShown sets the maximum number of rows shown at once and the footer
// template summarizing how many more are waiting. A nil footer disables the
// footer row entirely; waiting rows are still promoted in FIFO order.
func WithMaxShown(n uint64, footer liveview.Template) Option {
	return func(d *Display) {
		d.maxShown = n
		d.footerTmpl = footer
	}
}

// WithTemplate sets the default row template. Snapshots passed to it carry
// the scope name, formatted attrs and indent prefix.
func WithTemplate(t liveview.Template) Option {
	return func(d *Display) { d.template = t }
}

// WithFieldFormatter sets the formatter turning a scope's attrs into the
// snapshot's Fields string.
func WithFieldFormatter(f FieldFormatter) Option {
	return func(d *Display) { d.fieldFmt = f }
}

// WithIndent sets the per-level indent and the marker prefixed to child
// rows. A scope two displayed levels deep renders with the indent repeated
// twice, then the symbol.
func WithIndent(indent, symbol string) Option {
	return func(d *Display) {
		d.indent = indent
		d.symbol = symbol
	}
}

// WithTickSettings sets redraw and recompute rates.
func WithTickSettings(t TickSettings) Option {
	return func(d *Display) { d.tick = t }
}

// WithFilter restricts which scopes get rows. Scopes rejected by the filter
// are also skipped when computing a child's nearest displayed ancestor.
func WithFilter(f Filter) Option {
	return func(d *Display) { d.filter = f }
}

// WithOutput sets the writer rows are drawn to. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(d *Display) { d.out = w }
}

// New creates a Display observing tracker. Rows are not drawn until Start.
func New(tracker *scope.Tracker, opts ...Option) *Display {
	d := &Display{
		tracker:    tracker,
		template:   DefaultTemplate(),
		fieldFmt:   DefaultFieldFormatter,
		indent:     "  ",
		symbol:     "↳ ",
		maxShown:   DefaultMaxShown,
		footerTmpl: DefaultFooterTemplate(),
		tick:       DefaultTickSettings(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.view = liveview.New(d.out)
	d.view.SetDrawHz(d.tick.TermDrawHz)
	d.mgr = newSlotManager(d.view, d.lookupRecord, d.maxShown, d.footerTmpl, d.tick)

	tracker.Observe(d)
	return d
}

// Start begins drawing and installs this Display as the process-wide
// session used by the package-level print helpers.
func (d *Display) Start() {
	activeDisplay.Store(d)
	d.view.Start()
}

// Stop stops drawing and uninstalls the Display. The last frame stays on
// the terminal.
func (d *Display) Stop() {
	d.view.Stop()
	activeDisplay.CompareAndSwap(d, nil)
}

// SetMaxShown reconfigures the slot limit and footer at runtime. Rows
// already shown beyond a lowered limit keep their slots; only future
// admissions see the new limit.
func (d *Display) SetMaxShown(n uint64, footer liveview.Template) {
	d.mgr.mu.Lock()
	defer d.mgr.mu.Unlock()
	d.mgr.setMaxShown(n, footer)
}

// SetTickSettings reconfigures redraw and recompute rates. Steady ticks
// already enabled on shown rows keep their old interval.
func (d *Display) SetTickSettings(t TickSettings) {
	d.mgr.mu.Lock()
	defer d.mgr.mu.Unlock()
	d.mgr.setTickSettings(t)
}

// ScopeCreated implements scope.Observer. It formats the scope's attrs,
// finds the nearest ancestor that carries a record (skipping filtered
// scopes), computes the nesting depth and indent prefix, and attaches the
// record. No row exists yet.
func (d *Display) ScopeCreated(s *scope.Scope) {
	if d.filter != nil && !d.filter(s) {
		return
	}

	fields := d.fieldFmt(s.Attrs())

	var parentScope *scope.Scope
	depth := 0
	for p := s.Parent(); p != nil; p = p.Parent() {
		if rec := recordOf(p); rec != nil {
			parentScope = p
			depth = rec.depth + 1
			break
		}
	}
	prefix := ""
	if depth > 0 {
		prefix = strings.Repeat(d.indent, depth) + d.symbol
	}

	s.SetExt(recordKey{}, &record{
		display:      d,
		parentScope:  parentScope,
		name:         s.Name(),
		fields:       fields,
		depth:        depth,
		indentPrefix: prefix,
	})
}

// ScopeEntered implements scope.Observer. The first entry materializes the
// scope's row (and, recursively, every recorded ancestor's row) and asks
// the slot manager for admission; later entries are no-ops.
func (d *Display) ScopeEntered(s *scope.Scope) {
	if recordOf(s) == nil {
		return
	}
	d.mgr.mu.Lock()
	defer d.mgr.mu.Unlock()
	d.handleEnter(s)
}

// ScopeClosed implements scope.Observer. Fires only after all of the
// scope's children have closed.
func (d *Display) ScopeClosed(s *scope.Scope) {
	rec := recordOf(s)
	if rec == nil {
		return
	}
	d.mgr.mu.Lock()
	defer d.mgr.mu.Unlock()
	d.mgr.finish(rec)
}

// handleEnter ensures s has a row, creating it hidden from the deferred
// init settings and recursively materializing ancestors first so that
// rows appear in root-to-leaf order. A scope can be entered before its
// parent ever is (a child begun under a not-yet-entered parent), so the
// recursion retroactively shows every ancestor. Caller holds the manager
// lock; each record's own mutex is released before recursing up.
func (d *Display) handleEnter(s *scope.Scope) *liveview.Row {
	rec := recordOf(s)
	if rec == nil {
		return nil
	}

	rec.mu.Lock()
	if rec.row != nil {
		row := rec.row
		rec.mu.Unlock()
		return row
	}
	rec.makeRowLocked(d.view, d.template)
	rec.mu.Unlock()

	if rec.parentScope != nil {
		parentRow := d.handleEnter(rec.parentScope)
		rec.mu.Lock()
		rec.parentRow = parentRow
		rec.mu.Unlock()
	}

	d.mgr.show(rec, s.ID())
	return rec.rowRef()
}

// lookupRecord resolves a queued scope id to its record via the tracker
// registry. Used by the slot manager's promotion loop.
func (d *Display) lookupRecord(id string) *record {
	return recordOf(d.tracker.Lookup(id))
}

// activeDisplay is the process-wide session used by the package-level
// helpers. Nil when no Display has been started.
var activeDisplay atomic.Pointer[Display]

// Active returns the started Display, or nil.
func Active() *Display {
	return activeDisplay.Load()
}
