package eval

import "github.com/jaspr-lang/jaspr/value"

// UnhandledFunc is the REPL/diagnostics callback: invoked when an
// error reaches the root with no signal-handler bound anywhere in the
// dynamic stack. It is the last line of defense; the caller (a REPL
// front-end, out of scope for this module) decides whether to resume the
// raising branch with a value or cancel it.
type UnhandledFunc func(err *value.Object, branch *Branch) (resume value.Value, cancel bool)

// Root owns the root Branch and the two well-known dynamics every program
// starts with: signal-handler and name. Constructing a Root is the
// one entry point that needs an UnhandledFunc; everything else threads the
// resulting *Branch and *DynFrame through Eval/Expand calls.
type Root struct {
	branch        *Branch
	unhandled     UnhandledFunc
	SignalHandler *DynamicHandle
	Name          *DynamicHandle
}

// NewRoot builds a fresh Root. unhandled is called only when raise
// finds no bound signal-handler anywhere in the dynamic stack, which is only
// possible before user code has ever bound one.
func NewRoot(unhandled UnhandledFunc) *Root {
	r := &Root{unhandled: unhandled}
	r.branch = newBranch(r, nil)

	defaultHandler := NewNativeAsync("unhandled-signal", func(branch *Branch, args []value.Value, done func(value.Value, *value.Object)) {
		var errObj *value.Object
		if len(args) > 0 {
			errObj, _ = args[0].(*value.Object)
		}
		if errObj == nil {
			errObj = value.NewError(value.ErrNativeError, "raised value is not an error object")
		}
		resume, cancel := r.unhandled(errObj, branch)
		if cancel {
			branch.Cancel()
			return
		}
		done(resume, nil)
	})
	r.SignalHandler, _ = NewDynamic(defaultHandler, "signal-handler")
	r.Name, _ = NewDynamic(value.Nil, "name")
	return r
}

// Branch returns the root Branch, the ancestor of every fiber spawned while
// running a program on this Root.
func (r *Root) Branch() *Branch { return r.branch }

// RootScope returns a fresh scope whose only ancestor is the universal
// scope (which binds only arrayConcat, see builtins.go); module loading (out of
// scope for this package) extends it further with imports.
func (r *Root) RootScope() *Scope {
	return UniversalScope().Extend()
}
