package scopebar

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
)

// TickSettings controls how often rows are recomputed and how often the
// terminal is redrawn.
type TickSettings struct {
	// TermDrawHz caps terminal redraws per second.
	TermDrawHz uint8
	// DefaultTickInterval is the steady-tick interval enabled on each
	// newly shown row, recomputing time-based content even while nothing
	// else changes. Zero disables steady ticks.
	DefaultTickInterval time.Duration
	// FooterTickInterval is the steady-tick interval for the footer row.
	// Zero disables it; the footer is also ticked manually whenever the
	// pending count changes, so this only matters for footers with
	// time-based content.
	FooterTickInterval time.Duration
}

// DefaultTickSettings returns the default tick configuration: 20 redraws
// per second, rows recomputed every 100ms, no footer steady tick.
func DefaultTickSettings() TickSettings {
	return TickSettings{
		TermDrawHz:          20,
		DefaultTickInterval: 100 * time.Millisecond,
	}
}

// slotManager owns the bounded set of shown rows, the FIFO queue of records
// waiting for a free slot, and the footer row. All fields are protected by
// mu, held only for the duration of one show/finish/reconfigure call and
// never across a callback into caller code. The one exception is pending,
// an atomic read lock-free by the footer's template on every redraw.
type slotManager struct {
	mu   sync.Mutex
	view *liveview.View

	shown    uint64
	maxShown uint64

	// pending tracks the number of records actually waiting for a slot.
	pending atomic.Int64
	// pendingQueue may be longer than pending: a scope that closes before
	// its row is ever shown decrements pending but leaves its id here,
	// to be garbage-collected when the id reaches the queue front.
	pendingQueue []string

	// footerTmpl nil means a footer is never shown.
	footerTmpl liveview.Template
	footer     *liveview.Row

	tick TickSettings

	// lookup resolves a queued id to its record, or nil if the scope is
	// gone.
	lookup func(id string) *record
}

func newSlotManager(view *liveview.View, lookup func(id string) *record, maxShown uint64, footer liveview.Template, tick TickSettings) *slotManager {
	m := &slotManager{view: view, lookup: lookup, tick: tick}
	m.setMaxShown(maxShown, footer)
	return m
}

// setMaxShown replaces the slot limit and rebuilds the footer row. Lowering
// the limit does not demote rows that are already shown; it only affects
// future admissions. Caller holds m.mu (or the manager is not yet shared).
func (m *slotManager) setMaxShown(maxShown uint64, footer liveview.Template) {
	m.maxShown = maxShown

	if m.footer != nil {
		m.footer.DisableSteadyTick()
		m.view.Remove(m.footer)
	}
	m.footerTmpl = footer
	m.footer = nil
	if footer == nil {
		return
	}
	m.footer = m.view.NewHiddenRow(func(s liveview.Snapshot) string {
		// Read the atomic directly so footer redraws never need
		// the manager lock.
		s.Pending = m.pending.Load()
		return footer(s)
	})
	if m.pending.Load() > 0 {
		// Rows are already waiting; the replacement footer must be
		// visible immediately.
		if m.tick.FooterTickInterval > 0 {
			m.footer.EnableSteadyTick(m.tick.FooterTickInterval)
		}
		m.view.Add(m.footer)
		m.footer.Tick()
	}
}

// setTickSettings replaces the tick configuration. Caller holds m.mu.
func (m *slotManager) setTickSettings(tick TickSettings) {
	m.tick = tick
	m.view.SetDrawHz(tick.TermDrawHz)
}

// show admits rec's row to a slot, or queues it when all slots are taken.
// Caller holds m.mu; rec's row must already exist (hidden).
func (m *slotManager) show(rec *record, id string) {
	if m.shown >= m.maxShown {
		m.enqueuePending(id)
		return
	}

	rec.mu.Lock()
	row, parent := rec.row, rec.parentRow
	rec.mu.Unlock()
	if row == nil {
		return
	}

	switch {
	case m.view.IsShown(parent):
		// TODO: multiple children promoted next to the same parent come
		// out in reverse arrival order because each one is inserted
		// directly after the parent; fixing this needs a per-parent
		// child sequence.
		m.view.InsertAfter(parent, row)
	case m.footer != nil && m.view.IsShown(m.footer):
		// Keep the footer rendering last.
		m.view.InsertFromBack(1, row)
	default:
		m.view.Add(row)
	}
	m.shown++

	if m.tick.DefaultTickInterval > 0 {
		row.EnableSteadyTick(m.tick.DefaultTickInterval)
	}
	row.Tick()
}

// finish releases rec's slot or queue entry and promotes at most one
// waiting record. Caller holds m.mu.
func (m *slotManager) finish(rec *record) {
	rec.mu.Lock()
	row := rec.row
	rec.row = nil
	finishMsg := rec.finishMessage
	rec.mu.Unlock()

	if row == nil {
		// Scope was never entered, or already finished explicitly.
		return
	}

	if !m.view.IsShown(row) {
		// Queued but never promoted. Its queue entry is left behind and
		// garbage-collected when it reaches the front.
		m.decrementPending()
		return
	}

	if finishMsg != "" {
		m.view.Println(finishMsg)
	}
	row.FinishAndClear()
	m.view.Remove(row)
	m.shown--

	// Promote exactly one waiting record; the loop only skips stale
	// entries for scopes that closed while queued.
	for len(m.pendingQueue) > 0 {
		id := m.pendingQueue[0]
		m.pendingQueue = m.pendingQueue[1:]

		next := m.lookup(id)
		if next == nil {
			// Scope closed and was garbage-collected from the registry.
			continue
		}
		next.mu.Lock()
		hasRow := next.row != nil
		next.mu.Unlock()
		if !hasRow {
			// The scope's close callbacks have already begun on another
			// goroutine even though the registry still resolves it.
			continue
		}

		m.decrementPending()
		m.show(next, id)
		return
	}
	assertf(m.pending.Load() == 0, "pending count %d with empty queue", m.pending.Load())
}

// enqueuePending appends id to the wait queue and materializes the footer
// on the 0→1 transition. Caller holds m.mu.
func (m *slotManager) enqueuePending(id string) {
	prev := m.pending.Add(1) - 1
	m.pendingQueue = append(m.pendingQueue, id)

	if m.footer == nil {
		return
	}
	if prev == 0 {
		assertf(!m.view.IsShown(m.footer), "footer shown with no pending rows")
		// Reset first: stale content from a previous pending episode
		// must not flash before the first redraw.
		m.footer.Reset()
		if m.tick.FooterTickInterval > 0 {
			m.footer.EnableSteadyTick(m.tick.FooterTickInterval)
		}
		m.view.Add(m.footer)
	}
	m.footer.Tick()
}

// decrementPending drops the pending count and tears the footer down on the
// 1→0 transition. Caller holds m.mu.
func (m *slotManager) decrementPending() {
	prev := m.pending.Add(-1) + 1

	if m.footer == nil {
		return
	}
	if prev == 1 {
		assertf(m.view.IsShown(m.footer), "footer hidden despite pending rows")
		if m.tick.FooterTickInterval > 0 {
			m.footer.DisableSteadyTick()
		}
		m.footer.FinishAndClear()
		m.view.Remove(m.footer)
		return
	}
	m.footer.Tick()
}
