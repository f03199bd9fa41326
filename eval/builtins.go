package eval

import (
	"sync"

	"github.com/jaspr-lang/jaspr/value"
)

// universalScope is the root of every scope chain: the one name the
// syntax-quote lowering can emit on its own, arrayConcat, bound as a
// native function. It is built once, lazily, since it holds no
// per-program state.
var (
	universalScopeOnce sync.Once
	universalScope     *Scope
)

// UniversalScope returns the process-wide base scope every program and
// module extends. It predeclares nothing but arrayConcat: the
// rest of the "surface primitive library" (arithmetic, string, channel
// operations) is an external collaborator and is wired in by module
// loading, not by this package.
func UniversalScope() *Scope {
	universalScopeOnce.Do(func() {
		s := NewScope(nil)
		s.Define(CtxValue, "arrayConcat", arrayConcatFn())
		universalScope = s
	})
	return universalScope
}

// arrayConcatFn implements arrayConcat: concatenate any
// number of array arguments into one array, in argument order. It is the
// sole built-in the macro-expander's syntax-quote lowering depends on, so
// it lives alongside the expander rather than in a hypothetical external
// primitive library.
func arrayConcatFn() *value.Object {
	return NewNativeSync("arrayConcat", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		var out []value.Value
		for i, a := range args {
			arr, ok := a.(*value.Array)
			if !ok {
				return nil, value.NewError(value.ErrBadArgs, "arrayConcat arguments must all be arrays", "fn", "arrayConcat", "args", i)
			}
			out = append(out, arr.Elems()...)
		}
		return value.NewArray(out), nil
	})
}
