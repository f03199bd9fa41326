package eval

import "github.com/jaspr-lang/jaspr/value"

// Raise implements the signal path: it walks ctx's dynamic stack for
// the innermost binding of the signal-handler dynamic and calls it with
// [err]. If a handler resumes (returns normally), its return value is
// delivered to k exactly as if the faulty operation had succeeded. If no
// handler ever calls k (because it cancels ctx.Branch, or re-raises into a
// chain that eventually cancels), k is simply never invoked — cancellation
// propagation is what "aborts" the computation, there is no separate error
// return path.
//
// Every error in this package flows through Raise; nothing returns an error
// object directly to its caller's continuation.
func Raise(ctx *Ctx, err *value.Object, k func(value.Value)) {
	handler, outer := lookupSignalHandler(ctx)
	// The handler itself runs with the signal-handler binding popped to
	// whatever was bound further out, so that a re-raise inside the handler
	// reaches the *next* handler rather than looping back into this one
	//.
	Call(ctx.withDyn(outer), handler, []value.Value{err}, k)
}

// raiseErr is the common-case shorthand used throughout eval.go/call.go:
// construct an error object and raise it, tail-delivering through k.
func raiseErr(ctx *Ctx, k func(value.Value), code value.ErrCode, why string, context ...any) {
	Raise(ctx, value.NewError(code, why, context...), k)
}

func lookupSignalHandler(ctx *Ctx) (value.Value, *DynFrame) {
	key := ctx.Root.SignalHandler
	for f := ctx.Dyn; f != nil; f = f.parent {
		if f.key == key {
			return f.value, f.parent
		}
	}
	return key.def, ctx.Dyn
}
