package liveview

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is the state handed to a Template when a row is rendered.
// Name, Fields, Prefix and Pending are filled in by wrapper templates bound
// by the caller; the row itself only knows Message, Elapsed, Pos and Len.
type Snapshot struct {
	Name    string
	Fields  string
	Prefix  string
	Message string
	Elapsed time.Duration
	// Pos is the current position. Defaults to 0.
	Pos int64
	// Len is the total length, or -1 when no length has been set.
	Len int64
	// Pending is the number of rows waiting for a free slot. Only
	// meaningful for footer templates.
	Pending int64
}

// Template produces the text content of one row. Templates are evaluated on
// the render path and must not block or mutate shared state.
type Template func(Snapshot) string

// Row is one line of live output. Rows are created hidden via
// View.NewHiddenRow so elapsed time is measured from the true start instant
// even if the row is only shown later. A Row handle may be shared freely
// across goroutines.
type Row struct {
	view *View

	pos    atomic.Int64
	length atomic.Int64

	mu       sync.Mutex
	tmpl     Template
	message  string
	started  time.Time
	finished bool
	tickStop chan struct{}
}

// SetTemplate replaces the row's template.
func (r *Row) SetTemplate(t Template) {
	r.mu.Lock()
	r.tmpl = t
	r.mu.Unlock()
	r.view.requestRepaint()
}

// SetMessage sets the row's message.
func (r *Row) SetMessage(msg string) {
	r.mu.Lock()
	r.message = msg
	r.mu.Unlock()
	r.view.requestRepaint()
}

// SetPosition sets the row's position.
func (r *Row) SetPosition(pos int64) {
	r.pos.Store(pos)
	r.view.requestRepaint()
}

// IncPosition adds delta to the row's position.
func (r *Row) IncPosition(delta int64) {
	r.pos.Add(delta)
	r.view.requestRepaint()
}

// SetLength sets the row's total length.
func (r *Row) SetLength(length int64) {
	r.length.Store(length)
	r.view.requestRepaint()
}

// IncLength adds delta to the row's length. A row with no length set stays
// lengthless; incrementing an unset length has no defined base.
func (r *Row) IncLength(delta int64) {
	if r.length.Load() < 0 {
		return
	}
	r.length.Add(delta)
	r.view.requestRepaint()
}

// Position returns the row's current position.
func (r *Row) Position() int64 { return r.pos.Load() }

// Length returns the row's length, or -1 when unset.
func (r *Row) Length() int64 { return r.length.Load() }

// Elapsed returns the time since the row was created or last Reset.
func (r *Row) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.started)
}

// Tick forces a repaint so time-based template content is recomputed.
func (r *Row) Tick() {
	r.view.requestRepaint()
}

// Reset restarts the row: position back to 0, elapsed time from now.
// The length and template are kept.
func (r *Row) Reset() {
	r.mu.Lock()
	r.started = time.Now()
	r.finished = false
	r.mu.Unlock()
	r.pos.Store(0)
	r.view.requestRepaint()
}

// FinishAndClear stops the row's steady tick and blanks it. The row still
// occupies its slot until removed from the view.
func (r *Row) FinishAndClear() {
	r.DisableSteadyTick()
	r.mu.Lock()
	r.finished = true
	r.mu.Unlock()
	r.view.requestRepaint()
}

// EnableSteadyTick repaints the row every interval until disabled. Enabling
// an already-ticking row has no effect.
func (r *Row) EnableSteadyTick(interval time.Duration) {
	if interval <= 0 {
		return
	}
	r.mu.Lock()
	if r.tickStop != nil {
		r.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	r.tickStop = stop
	r.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				r.Tick()
			}
		}
	}()
}

// DisableSteadyTick stops the steady tick, if one is running.
func (r *Row) DisableSteadyTick() {
	r.mu.Lock()
	stop := r.tickStop
	r.tickStop = nil
	r.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

// render evaluates the row's template against its current state.
func (r *Row) render() (string, bool) {
	r.mu.Lock()
	tmpl := r.tmpl
	msg := r.message
	started := r.started
	finished := r.finished
	r.mu.Unlock()

	if finished || tmpl == nil {
		return "", false
	}
	return tmpl(Snapshot{
		Message: msg,
		Elapsed: time.Since(started),
		Pos:     r.pos.Load(),
		Len:     r.length.Load(),
	}), true
}
