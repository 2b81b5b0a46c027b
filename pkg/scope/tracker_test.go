package scope

import (
	"context"
	"sync"
	"testing"
)

// event is one recorded observer callback.
type event struct {
	kind string
	name string
}

// recordingObserver collects callbacks in arrival order.
type recordingObserver struct {
	mu     sync.Mutex
	events []event
}

func (r *recordingObserver) ScopeCreated(s *Scope) { r.record("created", s) }
func (r *recordingObserver) ScopeEntered(s *Scope) { r.record("entered", s) }
func (r *recordingObserver) ScopeClosed(s *Scope)  { r.record("closed", s) }

func (r *recordingObserver) record(kind string, s *Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind: kind, name: s.Name()})
}

func (r *recordingObserver) assertEvents(t *testing.T, want []event) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) != len(want) {
		t.Fatalf("got %d events %v, want %d %v", len(r.events), r.events, len(want), want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, r.events[i], want[i])
		}
	}
}

func TestLifecycleDispatchOrder(t *testing.T) {
	tr := NewTracker()
	obs := &recordingObserver{}
	tr.Observe(obs)

	s, _ := tr.Begin(context.Background(), "work")
	s.Enter()
	s.Enter()
	s.End()
	s.End()

	obs.assertEvents(t, []event{
		{"created", "work"},
		{"entered", "work"},
		{"entered", "work"},
		{"closed", "work"},
	})
}

func TestCloseWaitsForChildren(t *testing.T) {
	tr := NewTracker()
	obs := &recordingObserver{}
	tr.Observe(obs)

	parent, pctx := tr.Begin(context.Background(), "parent")
	child, _ := tr.Begin(pctx, "child")

	// The parent ends first but must stay open until the child closes.
	parent.End()
	obs.assertEvents(t, []event{
		{"created", "parent"},
		{"created", "child"},
	})

	child.End()
	obs.assertEvents(t, []event{
		{"created", "parent"},
		{"created", "child"},
		{"closed", "child"},
		{"closed", "parent"},
	})
}

func TestCloseCascadesThroughGrandparent(t *testing.T) {
	tr := NewTracker()
	obs := &recordingObserver{}
	tr.Observe(obs)

	a, actx := tr.Begin(context.Background(), "a")
	b, bctx := tr.Begin(actx, "b")
	c, _ := tr.Begin(bctx, "c")

	a.End()
	b.End()
	c.End()

	obs.assertEvents(t, []event{
		{"created", "a"},
		{"created", "b"},
		{"created", "c"},
		{"closed", "c"},
		{"closed", "b"},
		{"closed", "a"},
	})
}

func TestLookupLifetime(t *testing.T) {
	tr := NewTracker()

	s, _ := tr.Begin(context.Background(), "work")
	if got := tr.Lookup(s.ID()); got != s {
		t.Fatalf("Lookup(%q) = %v, want the live scope", s.ID(), got)
	}

	s.End()
	if got := tr.Lookup(s.ID()); got != nil {
		t.Errorf("Lookup after close = %v, want nil", got)
	}
}

func TestContextPropagation(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	if got := FromContext(ctx); got != nil {
		t.Fatalf("FromContext(background) = %v, want nil", got)
	}

	parent, pctx := tr.Begin(ctx, "parent")
	if got := FromContext(pctx); got != parent {
		t.Fatalf("FromContext = %v, want parent", got)
	}

	child, cctx := tr.Begin(pctx, "child")
	if got := FromContext(cctx); got != child {
		t.Fatalf("FromContext = %v, want child", got)
	}
	if got := child.Parent(); got != parent {
		t.Errorf("child.Parent() = %v, want parent", got)
	}
	if got := parent.Parent(); got != nil {
		t.Errorf("parent.Parent() = %v, want nil", got)
	}

	child.End()
	parent.End()
}

func TestBeginWithNilContext(t *testing.T) {
	tr := NewTracker()
	s, sctx := tr.Begin(nil, "root")
	if sctx == nil {
		t.Fatal("Begin(nil, ...) returned nil context")
	}
	if got := FromContext(sctx); got != s {
		t.Errorf("FromContext = %v, want the new scope", got)
	}
	s.End()
}

func TestAttrsAndName(t *testing.T) {
	tr := NewTracker()
	s, _ := tr.Begin(context.Background(), "job", String("kind", "build"), Int("n", 4))

	if got := s.Name(); got != "job" {
		t.Errorf("Name = %q, want %q", got, "job")
	}
	attrs := s.Attrs()
	if len(attrs) != 2 {
		t.Fatalf("Attrs = %v, want 2 entries", attrs)
	}
	if attrs[0] != (Attr{Key: "kind", Value: "build"}) {
		t.Errorf("attr 0 = %v", attrs[0])
	}
	if attrs[1] != (Attr{Key: "n", Value: 4}) {
		t.Errorf("attr 1 = %v", attrs[1])
	}
	s.End()
}

type extKey struct{}

func TestExtStore(t *testing.T) {
	tr := NewTracker()
	s, _ := tr.Begin(context.Background(), "work")

	if _, ok := s.Ext(extKey{}); ok {
		t.Fatal("Ext on fresh scope reported a value")
	}
	s.SetExt(extKey{}, 42)
	v, ok := s.Ext(extKey{})
	if !ok || v != 42 {
		t.Errorf("Ext = %v, %v; want 42, true", v, ok)
	}
	s.End()
}

func TestConcurrentSiblings(t *testing.T) {
	tr := NewTracker()
	obs := &recordingObserver{}
	tr.Observe(obs)

	parent, pctx := tr.Begin(context.Background(), "parent")
	siblings := make([]*Scope, 16)
	for i := range siblings {
		siblings[i], _ = tr.Begin(pctx, "sibling")
	}
	parent.End() // stays open until the last sibling closes

	var wg sync.WaitGroup
	for _, s := range siblings {
		wg.Add(1)
		go func(s *Scope) {
			defer wg.Done()
			s.Enter()
			s.End()
		}(s)
	}
	wg.Wait()

	obs.mu.Lock()
	last := obs.events[len(obs.events)-1]
	obs.mu.Unlock()
	if last != (event{"closed", "parent"}) {
		t.Errorf("last event = %v, want parent closed last", last)
	}
	if got := tr.Lookup(parent.ID()); got != nil {
		t.Errorf("parent still registered after close: %v", got)
	}
}
