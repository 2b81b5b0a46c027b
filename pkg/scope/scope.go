// Package scope provides a minimal lifecycle host for hierarchical work
// scopes. A scope is one begin/end span of work: it is created with Begin,
// optionally entered one or more times, and ended exactly once. Observers
// registered on a Tracker receive created/entered/closed callbacks and can
// hang their own per-scope state off the scope's extension store.
//
// The close callback for a scope fires only after every child scope has
// closed; a parent that ends while children are still open closes when its
// last child does. Callers on different goroutines may begin, enter and end
// unrelated scopes concurrently.
package scope

import (
	"context"
	"sync"
)

// Attr is one labeled value attached to a scope at creation time.
type Attr struct {
	Key   string
	Value any
}

// String is a convenience constructor for string-valued attrs.
func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Int is a convenience constructor for integer-valued attrs.
func Int(key string, value int) Attr {
	return Attr{Key: key, Value: value}
}

// Scope is one lifecycle-tracked unit of work. All methods are safe for
// concurrent use. The zero value is not usable; scopes are created via
// Tracker.Begin.
type Scope struct {
	id      string
	name    string
	attrs   []Attr
	parent  *Scope
	tracker *Tracker

	mu sync.Mutex
	// ext holds per-scope state owned by observers, keyed by an
	// observer-private key type.
	ext map[any]any
	// openChildren counts children that have not yet closed.
	openChildren int
	// ended is set once End has been called.
	ended bool
	// closed is set once the close callbacks have been dispatched.
	closed bool
}

// ID returns the scope's unique id.
func (s *Scope) ID() string { return s.id }

// Name returns the name the scope was created with.
func (s *Scope) Name() string { return s.name }

// Attrs returns the attrs the scope was created with. The returned slice
// must not be mutated.
func (s *Scope) Attrs() []Attr { return s.attrs }

// Parent returns the scope this scope was created under, or nil for a root
// scope. Walking Parent repeatedly yields the ancestor chain, nearest first.
func (s *Scope) Parent() *Scope { return s.parent }

// SetExt stores an extension value under key. Keys should be unexported
// types owned by the caller so unrelated observers cannot collide.
func (s *Scope) SetExt(key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ext == nil {
		s.ext = make(map[any]any, 1)
	}
	s.ext[key] = value
}

// Ext returns the extension value stored under key, if any.
func (s *Scope) Ext(key any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.ext[key]
	return v, ok
}

// Enter signals that work inside the scope is running on the calling
// goroutine. Observers receive ScopeEntered on every call; consumers that
// only care about the first entry are expected to dedupe themselves.
func (s *Scope) Enter() {
	s.tracker.dispatchEntered(s)
}

// End marks the scope as finished. The close callbacks fire immediately if
// no children are open, otherwise when the last open child closes. Calling
// End more than once has no effect.
func (s *Scope) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	ready := s.openChildren == 0
	s.mu.Unlock()

	if ready {
		s.tracker.close(s)
	}
}

// childOpened records a new open child. Called by Tracker.Begin.
func (s *Scope) childOpened() {
	s.mu.Lock()
	s.openChildren++
	s.mu.Unlock()
}

// childClosed records that a child has closed and closes this scope too if
// it was the last thing keeping an ended scope open.
func (s *Scope) childClosed() {
	s.mu.Lock()
	s.openChildren--
	ready := s.ended && s.openChildren == 0
	s.mu.Unlock()

	if ready {
		s.tracker.close(s)
	}
}

type ctxKey struct{}

// NewContext returns a context carrying s as the current scope.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the current scope carried by ctx, or nil.
func FromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxKey{}).(*Scope)
	return s
}
