package eval

import "github.com/jaspr-lang/jaspr/value"

// Fiber is a Deferred attached to a Branch: it is the unit of
// suspension the evaluator deals in. Embedding *value.Deferred means a
// *Fiber already satisfies value.Value (and value.Force's internal awaiter
// interface) for free — exactly the "Value or Deferred" contract the
// evaluator promises its callers.
type Fiber struct {
	*value.Deferred
	branch *Branch
}

func newFiber(b *Branch) *Fiber {
	return &Fiber{Deferred: value.NewDeferred(), branch: b}
}

// Resolve resolves the fiber's value and removes it from its branch's
// active set. It shadows value.Deferred.Resolve so that
// removal always happens, even though Go's method promotion would
// otherwise let callers bypass it by calling the embedded method directly
// through an interface value typed as *value.Deferred.
func (f *Fiber) Resolve(v value.Value) {
	f.branch.removeFiber(f)
	f.Deferred.Resolve(v)
}

// Cancel cancels the fiber's underlying Deferred. It is called by the
// owning Branch during cancellation propagation; user code never calls it
// directly (a Fiber is cancelled only by cancelling its Branch).
func (f *Fiber) Cancel() {
	f.Deferred.Cancel()
}

// Branch returns the branch that owns this fiber.
func (f *Fiber) Branch() *Branch { return f.branch }
