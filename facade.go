package scopebar

import (
	"context"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

// Bar is a handle to the row belonging to one scope. Every method is safe
// to call from any goroutine at any point in the scope's life: before the
// scope is entered the effect is deferred until the row is created, and if
// the scope carries no record at all (no Display observing, or filtered
// out) every method is a silent no-op. Callers never need to branch on
// whether a display session exists.
type Bar struct {
	scope *scope.Scope
	rec   *record
}

// For returns the Bar for the scope carried by ctx.
func For(ctx context.Context) Bar {
	return ForScope(scope.FromContext(ctx))
}

// ForScope returns the Bar for s.
func ForScope(s *scope.Scope) Bar {
	return Bar{scope: s, rec: recordOf(s)}
}

// SetTemplate sets the row's template. Applied immediately if the row
// exists, otherwise stored for when it is created.
func (b Bar) SetTemplate(t liveview.Template) {
	if b.rec == nil {
		return
	}
	bound := b.rec.bindKeys(t)
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	if b.rec.row != nil {
		b.rec.row.SetTemplate(bound)
		return
	}
	b.rec.init.template = bound
}

// SetLength sets the row's total length.
func (b Bar) SetLength(n int64) {
	if b.rec == nil {
		return
	}
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	if b.rec.row != nil {
		b.rec.row.SetLength(n)
		return
	}
	b.rec.init.length = &n
}

// SetPosition sets the row's position.
func (b Bar) SetPosition(n int64) {
	if b.rec == nil {
		return
	}
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	if b.rec.row != nil {
		b.rec.row.SetPosition(n)
		return
	}
	b.rec.init.pos = &n
}

// IncPosition adds delta to the row's position. Before the row exists the
// delta accumulates into the deferred position, initializing it to delta
// when unset (positions default to 0).
func (b Bar) IncPosition(delta int64) {
	if b.rec == nil {
		return
	}
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	if b.rec.row != nil {
		b.rec.row.IncPosition(delta)
		return
	}
	if b.rec.init.pos != nil {
		*b.rec.init.pos += delta
		return
	}
	b.rec.init.pos = &delta
}

// IncLength adds delta to the row's length. A no-op when no length has been
// set yet; incrementing an unset length has no defined base.
func (b Bar) IncLength(delta int64) {
	if b.rec == nil {
		return
	}
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	if b.rec.row != nil {
		b.rec.row.IncLength(delta)
		return
	}
	if b.rec.init.length != nil {
		*b.rec.init.length += delta
	}
}

// SetMessage sets the row's message.
func (b Bar) SetMessage(msg string) {
	if b.rec == nil {
		return
	}
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	if b.rec.row != nil {
		b.rec.row.SetMessage(msg)
		return
	}
	b.rec.init.message = &msg
}

// SetFinishMessage sets a line printed above the live rows when the scope
// finishes.
func (b Bar) SetFinishMessage(msg string) {
	if b.rec == nil {
		return
	}
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	b.rec.finishMessage = msg
}

// Start enters the scope once, which creates and shows its row. Idempotent.
func (b Bar) Start() {
	if b.rec == nil || b.scope == nil {
		return
	}
	b.scope.Enter()
}

// Tick forces a recomputation of the row's content. No-op if no row exists.
func (b Bar) Tick() {
	if row := b.row(); row != nil {
		row.Tick()
	}
}

// Reset restarts the row's position and elapsed time. No-op if no row
// exists.
func (b Bar) Reset() {
	if row := b.row(); row != nil {
		row.Reset()
	}
}

// FinishAndClear terminates the row early, releasing its slot (promoting a
// waiting row) without waiting for the scope to end. The scope's eventual
// end is then a no-op.
func (b Bar) FinishAndClear() {
	if b.rec == nil {
		return
	}
	m := b.rec.display.mgr
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finish(b.rec)
}

func (b Bar) row() *liveview.Row {
	if b.rec == nil {
		return nil
	}
	return b.rec.rowRef()
}
