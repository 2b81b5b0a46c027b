package scopebar

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ShayCichocki/scopebar/pkg/scope"
)

func TestSlotCounters(t *testing.T) {
	e := newTestEnv(t, WithMaxShown(2, plainFooter))
	ctx := context.Background()

	assertCounts := func(shown uint64, pending int64) {
		t.Helper()
		if got := e.display.mgr.shown; got != shown {
			t.Errorf("shown = %d, want %d", got, shown)
		}
		if got := e.display.mgr.pending.Load(); got != pending {
			t.Errorf("pending = %d, want %d", got, pending)
		}
	}

	s1, _ := e.begin(ctx, "1")
	s2, _ := e.begin(ctx, "2")
	assertCounts(2, 0)

	s3, _ := e.begin(ctx, "3")
	s4, _ := e.begin(ctx, "4")
	assertCounts(2, 2)

	// Finishing a shown row promotes one waiting row.
	s1.End()
	assertCounts(2, 1)

	// Finishing a queued row only shrinks the pending count.
	s4.End()
	assertCounts(2, 0)

	s2.End()
	assertCounts(1, 0)
	s3.End()
	assertCounts(0, 0)
}

func TestConcurrentLifecycles(t *testing.T) {
	e := newTestEnv(t, WithMaxShown(3, plainFooter))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, sctx := e.tracker.Begin(ctx, fmt.Sprintf("job-%02d", i))
			s.Enter()
			time.Sleep(time.Duration(i%7) * 100 * time.Microsecond)
			if i%5 == 0 {
				// Early termination races against the lifecycle close.
				For(sctx).FinishAndClear()
			}
			s.End()
		}(i)
	}
	wg.Wait()

	if got := e.display.mgr.shown; got != 0 {
		t.Errorf("shown = %d after all scopes closed, want 0", got)
	}
	if got := e.display.mgr.pending.Load(); got != 0 {
		t.Errorf("pending = %d after all scopes closed, want 0", got)
	}
	e.assertFrame(t, "")
}

func TestConcurrentNestedLifecycles(t *testing.T) {
	e := newTestEnv(t, WithMaxShown(4, plainFooter))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			parent, pctx := e.tracker.Begin(ctx, fmt.Sprintf("parent-%d", i))
			parent.Enter()

			var cwg sync.WaitGroup
			for j := 0; j < 3; j++ {
				cwg.Add(1)
				go func(j int) {
					defer cwg.Done()
					child, _ := e.tracker.Begin(pctx, fmt.Sprintf("child-%d-%d", i, j))
					child.Enter()
					time.Sleep(time.Duration(j) * 50 * time.Microsecond)
					child.End()
				}(j)
			}
			cwg.Wait()
			parent.End()
		}(i)
	}
	wg.Wait()

	if got := e.display.mgr.shown; got != 0 {
		t.Errorf("shown = %d after all scopes closed, want 0", got)
	}
	if got := e.display.mgr.pending.Load(); got != 0 {
		t.Errorf("pending = %d after all scopes closed, want 0", got)
	}
	e.assertFrame(t, "")
}

func TestDefaultTickSettings(t *testing.T) {
	ts := DefaultTickSettings()
	if ts.TermDrawHz != 20 {
		t.Errorf("TermDrawHz = %d, want 20", ts.TermDrawHz)
	}
	if ts.DefaultTickInterval != 100*time.Millisecond {
		t.Errorf("DefaultTickInterval = %v, want 100ms", ts.DefaultTickInterval)
	}
	if ts.FooterTickInterval != 0 {
		t.Errorf("FooterTickInterval = %v, want 0 (disabled)", ts.FooterTickInterval)
	}
}

func TestScopeWithoutRecordIgnored(t *testing.T) {
	e := newTestEnv(t, WithFilter(func(*scope.Scope) bool { return false }))
	ctx := context.Background()

	s, _ := e.begin(ctx, "invisible")
	e.assertFrame(t, "")
	s.End()

	if got := e.display.mgr.shown; got != 0 {
		t.Errorf("shown = %d, want 0", got)
	}
}
