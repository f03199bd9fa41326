package eval

import "github.com/jaspr-lang/jaspr/value"

// Ctx bundles the scope, $args and dynamic stack every expand/eval/call step
// threads through, plus the Branch the step runs on and the Root it ultimately belongs to (needed to reach the
// signal-handler default and to spawn junctions/fibers).
type Ctx struct {
	Scope  *Scope
	Args   *value.Array
	Dyn    *DynFrame
	Branch *Branch
	Root   *Root
}

// NewCtx builds the context a module's top-level definitions run under:
// the given scope, an empty $args, no dynamic bindings beyond Root's
// defaults, on Root's own branch.
func NewCtx(root *Root, scope *Scope) *Ctx {
	return &Ctx{Scope: scope, Args: value.EmptyArray, Dyn: nil, Branch: root.Branch(), Root: root}
}

func (c *Ctx) withScope(s *Scope) *Ctx {
	cp := *c
	cp.Scope = s
	return &cp
}

func (c *Ctx) withArgs(a *value.Array) *Ctx {
	cp := *c
	cp.Args = a
	return &cp
}

func (c *Ctx) withDyn(d *DynFrame) *Ctx {
	cp := *c
	cp.Dyn = d
	return &cp
}

func (c *Ctx) withBranch(b *Branch) *Ctx {
	cp := *c
	cp.Branch = b
	return &cp
}
