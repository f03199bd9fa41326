package value

import "sync"

// deferredState is the lifecycle of a Deferred cell.
type deferredState uint8

const (
	deferredUnresolved deferredState = iota
	deferredResolved
	deferredCancelled
)

// Deferred is a write-once placeholder that resolves to a Value at most
// once. It is the mechanism every suspension point in the expander and
// evaluator uses: instead of blocking, a computation that needs a
// value that isn't ready yet registers a listener and returns.
//
// A Deferred is also, combined with a *Branch (see package eval), the body
// of a Fiber: "Fiber / Branch" in the data model is a Deferred attached to a
// cancellation group.
type Deferred struct {
	mu        sync.Mutex
	state     deferredState
	value     Value
	listeners []func(Value)
}

var _ Value = (*Deferred)(nil)

// NewDeferred returns a fresh, unresolved Deferred.
func NewDeferred() *Deferred { return &Deferred{} }

func (d *Deferred) String() string { return "deferred" }
func (d *Deferred) Kind() string   { return "deferred" }

// Await calls listener immediately if the Deferred is already resolved,
// otherwise appends it to the listener list to be called exactly once, in
// registration order, when Resolve is eventually called. If the Deferred has
// been cancelled, the listener is dropped silently — it will never fire.
func (d *Deferred) Await(listener func(Value)) {
	d.mu.Lock()
	switch d.state {
	case deferredResolved:
		v := d.value
		d.mu.Unlock()
		listener(v)
		return
	case deferredCancelled:
		d.mu.Unlock()
		return
	default:
		d.listeners = append(d.listeners, listener)
		d.mu.Unlock()
	}
}

// Resolve transitions the Deferred from unresolved to resolved and fires
// every registered listener, in registration order, then discards them.
// Resolving an already-cancelled Deferred is a silent no-op. Resolving
// an already-resolved Deferred is a fatal implementation error: it indicates
// a bug in the evaluator or a native function, never a user-reachable
// condition, so it panics rather than returning an error.
func (d *Deferred) Resolve(v Value) {
	d.mu.Lock()
	switch d.state {
	case deferredCancelled:
		d.mu.Unlock()
		return
	case deferredResolved:
		d.mu.Unlock()
		panic("value: Deferred resolved twice")
	}
	d.state = deferredResolved
	d.value = v
	listeners := d.listeners
	d.listeners = nil
	d.mu.Unlock()

	for _, l := range listeners {
		l(v)
	}
}

// Cancel marks the Deferred as cancelled: its listener list is cleared
// without being invoked, no further listener will ever fire, and any
// subsequent Resolve is a no-op. Cancel is idempotent.
func (d *Deferred) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == deferredUnresolved {
		d.state = deferredCancelled
		d.listeners = nil
	}
}

// Resolved reports whether the Deferred has resolved, and if so its value.
func (d *Deferred) Resolved() (Value, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value, d.state == deferredResolved
}

// Cancelled reports whether the Deferred has been cancelled.
func (d *Deferred) Cancelled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == deferredCancelled
}

// awaiter is satisfied by *Deferred and by any type that embeds it (such as
// eval.Fiber), so Force can chase a suspension chain without the value
// package needing to know about fibers or branches.
type awaiter interface {
	Await(func(Value))
	Resolved() (Value, bool)
	Cancelled() bool
}

// Force resolves a value tree that may itself be a Deferred (or a type
// embedding one, such as a Fiber), repeatedly awaiting until a non-deferred
// value surfaces. cb is called exactly once: with the final value, or not at
// all if the chain is cancelled.
func Force(v Value, cb func(Value)) {
	for {
		d, ok := v.(awaiter)
		if !ok {
			cb(v)
			return
		}
		resolved, ok := d.Resolved()
		if ok {
			v = resolved
			continue
		}
		if d.Cancelled() {
			return
		}
		d.Await(func(next Value) { Force(next, cb) })
		return
	}
}
