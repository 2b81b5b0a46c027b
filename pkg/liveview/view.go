// Package liveview renders an ordered set of live rows at the bottom of a
// terminal. It owns the bubbletea program that does the actual drawing;
// callers decide which rows exist, in what order, and what template each row
// renders with. Without a started program the view is headless: rows are
// tracked and Frame renders them to a string, which is what the tests use.
package liveview

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultDrawHz is the draw rate used when none is configured.
const DefaultDrawHz uint8 = 20

// View is the ordered collection of shown rows. All methods are safe for
// concurrent use.
type View struct {
	mu        sync.Mutex
	rows      []*Row
	out       io.Writer
	drawHz    uint8
	suspended bool

	prog *program
}

// New creates a view writing to out. A nil out means stderr.
func New(out io.Writer) *View {
	if out == nil {
		out = os.Stderr
	}
	return &View{out: out, drawHz: DefaultDrawHz}
}

// NewHiddenRow creates a row that is tracked but not shown. The row's start
// instant is recorded now, so elapsed-time content is accurate even if the
// row is only added to the view later.
func (v *View) NewHiddenRow(t Template) *Row {
	r := &Row{view: v, tmpl: t}
	r.mu.Lock()
	r.started = time.Now()
	r.mu.Unlock()
	r.length.Store(-1)
	return r
}

// Add shows r as the last row.
func (v *View) Add(r *Row) {
	v.mu.Lock()
	if v.indexOf(r) < 0 {
		v.rows = append(v.rows, r)
	}
	v.mu.Unlock()
	v.requestRepaint()
}

// InsertAfter shows r directly below mark. If mark is not currently shown,
// r is appended at the end instead.
func (v *View) InsertAfter(mark, r *Row) {
	v.mu.Lock()
	if v.indexOf(r) >= 0 {
		v.mu.Unlock()
		return
	}
	i := v.indexOf(mark)
	if i < 0 {
		v.rows = append(v.rows, r)
	} else {
		v.rows = append(v.rows, nil)
		copy(v.rows[i+2:], v.rows[i+1:])
		v.rows[i+1] = r
	}
	v.mu.Unlock()
	v.requestRepaint()
}

// InsertFromBack shows r n positions from the end; InsertFromBack(0, r) is
// equivalent to Add. Used to keep a footer row rendering last.
func (v *View) InsertFromBack(n int, r *Row) {
	v.mu.Lock()
	if v.indexOf(r) >= 0 {
		v.mu.Unlock()
		return
	}
	i := len(v.rows) - n
	if i < 0 {
		i = 0
	}
	v.rows = append(v.rows, nil)
	copy(v.rows[i+1:], v.rows[i:])
	v.rows[i] = r
	v.mu.Unlock()
	v.requestRepaint()
}

// Remove hides r. The row handle stays valid and can be re-added.
func (v *View) Remove(r *Row) {
	v.mu.Lock()
	if i := v.indexOf(r); i >= 0 {
		v.rows = append(v.rows[:i], v.rows[i+1:]...)
	}
	v.mu.Unlock()
	v.requestRepaint()
}

// IsShown reports whether r currently occupies a position in the view.
func (v *View) IsShown(r *Row) bool {
	if r == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.indexOf(r) >= 0
}

// indexOf returns r's position, or -1. Callers hold v.mu.
func (v *View) indexOf(r *Row) int {
	if r == nil {
		return -1
	}
	for i, row := range v.rows {
		if row == r {
			return i
		}
	}
	return -1
}

// Frame renders all shown rows, one line each, in order. Returns the empty
// string while suspended.
func (v *View) Frame() string {
	v.mu.Lock()
	if v.suspended {
		v.mu.Unlock()
		return ""
	}
	rows := make([]*Row, len(v.rows))
	copy(rows, v.rows)
	v.mu.Unlock()

	var frame string
	for _, r := range rows {
		line, ok := r.render()
		if !ok {
			continue
		}
		frame += line + "\n"
	}
	return frame
}

// Println prints a line above the live rows without clobbering them. With no
// running program the line goes straight to the view's output.
func (v *View) Println(s string) {
	v.mu.Lock()
	p := v.prog
	out := v.out
	v.mu.Unlock()

	if p != nil {
		p.println(s)
		return
	}
	fmt.Fprintln(out, s)
}

// Suspend hides all rows, runs f, then repaints. Output written by f will
// not interleave with live rows.
func (v *View) Suspend(f func()) {
	v.mu.Lock()
	v.suspended = true
	v.mu.Unlock()
	v.requestRepaint()

	defer func() {
		v.mu.Lock()
		v.suspended = false
		v.mu.Unlock()
		v.requestRepaint()
	}()
	f()
}

// Output returns the writer the view draws to.
func (v *View) Output() io.Writer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out
}

// SetDrawHz caps how often the terminal is redrawn. Takes effect the next
// time the program is started.
func (v *View) SetDrawHz(hz uint8) {
	v.mu.Lock()
	if hz > 0 {
		v.drawHz = hz
	}
	v.mu.Unlock()
}

// requestRepaint nudges the draw loop. Repaints are coalesced by the
// program's frame rate; with no running program this is a no-op.
func (v *View) requestRepaint() {
	v.mu.Lock()
	p := v.prog
	v.mu.Unlock()
	if p != nil {
		p.repaint()
	}
}
