package eval

import "github.com/jaspr-lang/jaspr/value"

// Source is what the (external) module loader hands the core for one
// compilation unit: an optional namespace (nil for a bare script), a
// scope already extended with whatever imports that loader resolved, and
// the module's own definitions mapping, plus an optional `main` expression
// to run once the definitions are assembled.
type Source struct {
	Namespace   *Namespace
	ImportScope *Scope // parent scope, pre-populated with imports; nil means UniversalScope().Extend()
	Defs        *value.Object
	Main        value.Value // nil if the source has no main expression
}

// AssembleModule runs the scope/defs assembler over src and, if src
// has a Main expression, kicks off its evaluation on a fresh Fiber. The
// returned scope is the module's public surface (every definition is
// visible under its short name and, if src.Namespace is set, its qualified
// name); the returned Fiber, if non-nil, resolves to main's result.
func AssembleModule(root *Root, src *Source) (*Scope, *Fiber, *value.Object) {
	parent := src.ImportScope
	if parent == nil {
		parent = UniversalScope().Extend()
	}
	ctx := NewCtx(root, parent)

	scope, _, err := Assemble(ctx, src.Defs, src.Namespace)
	if err != nil {
		return nil, nil, err
	}

	if src.Main == nil {
		return scope, nil, nil
	}

	mainCtx := ctx.withScope(scope)
	f := root.Branch().NewFiber()
	go Expand(mainCtx, src.Main, func(expanded value.Value) {
		Eval(mainCtx, expanded, f.Resolve)
	})
	return scope, f, nil
}
