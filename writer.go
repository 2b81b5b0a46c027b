package scopebar

import (
	"fmt"
	"io"
	"os"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
)

// sessionWriter writes through the display's view so output never
// interleaves with live rows: the rows are suspended around each write and
// repainted after it.
type sessionWriter struct {
	view   *liveview.View
	direct io.Writer
}

func (w *sessionWriter) Write(p []byte) (n int, err error) {
	w.view.Suspend(func() {
		n, err = w.direct.Write(p)
	})
	return n, err
}

// StdoutWriter returns a writer for stdout that does not clobber live
// rows. Prefer it over plain fmt.Print while the display runs.
func (d *Display) StdoutWriter() io.Writer {
	return &sessionWriter{view: d.view, direct: os.Stdout}
}

// StderrWriter returns a writer for stderr that does not clobber live
// rows. Pass it to logging output while the display runs.
func (d *Display) StderrWriter() io.Writer {
	return &sessionWriter{view: d.view, direct: os.Stderr}
}

// Suspend hides this display's rows, runs f, then repaints.
func (d *Display) Suspend(f func()) {
	d.view.Suspend(f)
}

// Println prints to stdout without clobbering the active display's rows.
// With no active display it behaves like fmt.Println.
func Println(a ...any) {
	if d := Active(); d != nil {
		fmt.Fprintln(d.StdoutWriter(), a...)
		return
	}
	fmt.Println(a...)
}

// Printf prints to stdout without clobbering the active display's rows.
// With no active display it behaves like fmt.Printf.
func Printf(format string, a ...any) {
	if d := Active(); d != nil {
		fmt.Fprintf(d.StdoutWriter(), format, a...)
		return
	}
	fmt.Printf(format, a...)
}

// Suspend hides the active display's rows, runs f, then repaints. With no
// active display it just runs f.
func Suspend(f func()) {
	if d := Active(); d != nil {
		d.Suspend(f)
		return
	}
	f()
}
