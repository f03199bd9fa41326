package eval

import "github.com/jaspr-lang/jaspr/value"

// closureHead is the reserved head identifying a closure-literal form; it
// is treated specially by both the expander and the evaluator
//, never as an ordinary call even though it is a string head like
// any macro name could be.
const closureHead = "$closure"

// ExpandTop implements expand-top: it rewrites a
// single array form at its head, one step, without recursing into
// children. Non-array forms and the quote/closure-literal shapes pass
// through unchanged (those are handled by the caller, Expand, which knows
// the surrounding recursion rules).
func ExpandTop(ctx *Ctx, code value.Value, k func(value.Value)) {
	arr, ok := code.(*value.Array)
	if !ok {
		k(code)
		return
	}
	elems := arr.Elems()
	if len(elems) == 0 {
		k(code)
		return
	}
	head, ok := elems[0].(value.String)
	if !ok {
		k(code)
		return
	}
	if string(head) == "$syntaxQuote" {
		if len(elems) != 2 {
			raiseErr(ctx, k, value.ErrBadArgs, "$syntaxQuote takes exactly one argument", "args", len(elems)-1)
			return
		}
		SyntaxQuote(ctx, elems[1], k)
		return
	}
	macro, ok := ctx.Scope.Lookup(CtxMacro, string(head))
	if !ok {
		k(code)
		return
	}
	value.Force(macro, func(mv value.Value) {
		Call(ctx, mv, elems[1:], func(expanded value.Value) {
			ExpandTop(ctx, expanded, k)
		})
	})
}

// Expand implements the full expansion step: top-expand,
// then recurse into children, with two exceptions — a quoted form `["", x]`
// is opaque, and a closure literal gets the special treatment of deferred
// body expansion when any macro. def is present.
func Expand(ctx *Ctx, code value.Value, k func(value.Value)) {
	switch t := code.(type) {
	case *value.Array:
		elems := t.Elems()
		if len(elems) == 0 {
			k(code)
			return
		}
		if head, ok := elems[0].(value.String); ok {
			if string(head) == "" {
				// Quote: opaque to expansion regardless of arity; arity errors
				// surface later, at evaluation time.
				k(code)
				return
			}
			if string(head) == closureHead && len(elems) == 4 {
				expandClosureLiteral(ctx, elems, k)
				return
			}
		}
		ExpandTop(ctx, code, func(top value.Value) {
			topArr, ok := top.(*value.Array)
			if !ok {
				Expand(ctx, top, k)
				return
			}
			topElems := topArr.Elems()
			if len(topElems) == 0 {
				k(top)
				return
			}
			if head, ok := topElems[0].(value.String); ok && string(head) == "" {
				k(top)
				return
			}
			if head, ok := topElems[0].(value.String); ok && string(head) == closureHead && len(topElems) == 4 {
				expandClosureLiteral(ctx, topElems, k)
				return
			}
			expandChildren(ctx, topElems, k)
		})
	default:
		k(code)
	}
}

func expandChildren(ctx *Ctx, elems []value.Value, k func(value.Value)) {
	out := make([]value.Value, len(elems))
	var step func(i int)
	step = func(i int) {
		if i >= len(elems) {
			k(value.NewArray(out))
			return
		}
		Expand(ctx, elems[i], func(v value.Value) {
			out[i] = v
			step(i + 1)
		})
	}
	step(0)
}

// expandClosureLiteral implements the closure-literal expansion rule: expand
// `fields` shallowly (evaluated later, at evaluation time, so "shallowly"
// here just means "as an ordinary form", not element-by-element specially);
// if any key of `defs` begins with `macro.`, defer the body's expansion
// entirely (it will be expanded, in the child scope, when the closure is
// instantiated); otherwise expand each definition's body with `name` bound
// to its key, and expand `body` in the current scope right away.
func expandClosureLiteral(ctx *Ctx, elems []value.Value, k func(value.Value)) {
	defsVal, bodyVal, fieldsVal := elems[1], elems[2], elems[3]

	Expand(ctx, fieldsVal, func(expandedFields value.Value) {
		defsObj, ok := defsVal.(*value.Object)
		if !ok {
			// Non-literal defs (itself a computed form, e.g. produced by a
			// macro) are expanded as an ordinary sub-form and left for the
			// evaluator to validate as an object.
			Expand(ctx, defsVal, func(expandedDefs value.Value) {
				k(value.NewArray([]value.Value{elems[0], expandedDefs, bodyVal, expandedFields}))
			})
			return
		}

		hasMacroDef := false
		for _, key := range defsObj.Keys() {
			c, _ := splitDefKey(key)
			if c == CtxMacro {
				hasMacroDef = true
				break
			}
		}
		if hasMacroDef {
			// Body expansion deferred to instantiation time; defs still
			// need their own bodies expanded now, under the `name` dynamic, so
			// that non-macro siblings and the macros themselves are ready by
			// the time this closure is called.
			expandDefs(ctx, defsObj, func(expandedDefs *value.Object) {
				k(value.NewArray([]value.Value{elems[0], expandedDefs, bodyVal, expandedFields}))
			})
			return
		}

		expandDefs(ctx, defsObj, func(expandedDefs *value.Object) {
			Expand(ctx, bodyVal, func(expandedBody value.Value) {
				k(value.NewArray([]value.Value{elems[0], expandedDefs, expandedBody, expandedFields}))
			})
		})
	})
}

func expandDefs(ctx *Ctx, defs *value.Object, k func(*value.Object)) {
	keys := defs.Keys()
	b := value.NewBuilder(len(keys))
	var step func(i int)
	step = func(i int) {
		if i >= len(keys) {
			k(b.Build())
			return
		}
		key := keys[i]
		raw, _ := defs.Get(key)
		_, ident := splitDefKey(key)
		defCtx := ctx
		if ctx.Root != nil && ctx.Root.Name != nil {
			defCtx = ctx.withDyn(ctx.Dyn.Push(ctx.Root.Name, value.String(ident)))
		}
		Expand(defCtx, raw, func(expanded value.Value) {
			b.Set(key, expanded)
			step(i + 1)
		})
	}
	step(0)
}
