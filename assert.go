//go:build !scopebardebug

package scopebar

// assertf checks internal bookkeeping invariants. In normal builds a
// violated invariant is ignored — recovery is to do nothing — and the
// check compiles away. Build with -tags scopebardebug to make violations
// panic.
func assertf(cond bool, format string, args ...any) {}
