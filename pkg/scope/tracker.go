package scope

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Observer receives scope lifecycle callbacks. Callbacks for a single scope
// are ordered (created before entered before closed) but callbacks for
// unrelated scopes may arrive concurrently from different goroutines.
type Observer interface {
	// ScopeCreated fires exactly once, from the goroutine calling Begin,
	// before Begin returns.
	ScopeCreated(s *Scope)
	// ScopeEntered fires on every Enter call.
	ScopeEntered(s *Scope)
	// ScopeClosed fires exactly once, after every child of s has closed.
	ScopeClosed(s *Scope)
}

// Tracker is the registry of live scopes and the dispatch point for
// lifecycle callbacks.
type Tracker struct {
	mu        sync.RWMutex
	scopes    map[string]*Scope
	observers []Observer
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{scopes: make(map[string]*Scope)}
}

// Observe registers an observer. Observers must be registered before any
// scopes are begun; registration is not synchronized against dispatch.
func (t *Tracker) Observe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Begin creates a new scope under the scope carried by ctx (if any),
// dispatches ScopeCreated, and returns the scope along with a context
// carrying it. Begin does not enter the scope.
func (t *Tracker) Begin(ctx context.Context, name string, attrs ...Attr) (*Scope, context.Context) {
	s := &Scope{
		id:      uuid.New().String(),
		name:    name,
		attrs:   attrs,
		parent:  FromContext(ctx),
		tracker: t,
	}

	if s.parent != nil {
		s.parent.childOpened()
	}

	t.mu.Lock()
	t.scopes[s.id] = s
	t.mu.Unlock()

	for _, o := range t.snapshotObservers() {
		o.ScopeCreated(s)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return s, NewContext(ctx, s)
}

// Lookup resolves a live scope by id. A scope remains resolvable until its
// ScopeClosed dispatch has returned, so a concurrent caller may observe a
// scope whose close callbacks are already running; consumers are expected
// to treat such scopes as already closed.
func (t *Tracker) Lookup(id string) *Scope {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scopes[id]
}

// close dispatches ScopeClosed, removes s from the registry, and propagates
// the close to the parent's open-children count.
func (t *Tracker) close(s *Scope) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for _, o := range t.snapshotObservers() {
		o.ScopeClosed(s)
	}

	t.mu.Lock()
	delete(t.scopes, s.id)
	t.mu.Unlock()

	if s.parent != nil {
		s.parent.childClosed()
	}
}

func (t *Tracker) dispatchEntered(s *Scope) {
	for _, o := range t.snapshotObservers() {
		o.ScopeEntered(s)
	}
}

func (t *Tracker) snapshotObservers() []Observer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.observers
}
