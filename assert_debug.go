//go:build scopebardebug

package scopebar

import "fmt"

// assertf panics on violated bookkeeping invariants in debug builds.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
