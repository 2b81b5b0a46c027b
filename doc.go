// Package scopebar shows live terminal rows for hierarchical work scopes.
//
// Programs instrumented with scope.Tracker get a row per scope with no
// display code in their libraries: a row starts the first time a scope is
// entered (or when one of its children is entered first), renders below its
// parent's row with an indent prefix, and finishes when the scope ends. At
// most a configured number of rows are shown at once; further scopes wait
// in FIFO order behind a footer row reading "...and N more not shown
// above."
//
// Quick start:
//
//	tracker := scope.NewTracker()
//	display := scopebar.New(tracker)
//	display.Start()
//	defer display.Stop()
//
//	s, ctx := tracker.Begin(ctx, "download", scope.String("host", host))
//	s.Enter()
//	defer s.End()
//
// Worker code can mutate its row unconditionally through the façade — the
// calls are silent no-ops when no display is attached:
//
//	scopebar.For(ctx).SetLength(totalBytes)
//	scopebar.For(ctx).IncPosition(n)
//
// Output that must not interleave with live rows goes through
// Display.StdoutWriter, Display.StderrWriter, or the package-level Println
// and Printf helpers.
package scopebar
