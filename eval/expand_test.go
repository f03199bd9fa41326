package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaspr-lang/jaspr/value"
)

func TestExpandNonArrayPassesThrough(t *testing.T) {
	ctx := testCtx(t)
	got := await(t, func(k func(value.Value)) { Expand(ctx, value.Number(1), k) })
	assert.Equal(t, value.Number(1), got)
}

func TestExpandQuoteIsOpaque(t *testing.T) {
	ctx := testCtx(t)
	code := arr(str(""), arr(str("unexpanded-macro-call")))
	got := await(t, func(k func(value.Value)) { Expand(ctx, code, k) })
	assert.Equal(t, code, got)
}

func TestExpandTopRewritesMacroCallOnce(t *testing.T) {
	ctx := testCtx(t)
	scope := ctx.Scope.Extend()
	// A macro that rewrites (double x) into (+ x x); since we have no
	// arithmetic primitive here, rewrite instead into a quote of its single
	// unevaluated argument — enough to prove the rewrite ran.
	scope.Define(CtxMacro, "echo", NewNativeSync("echo", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		return arr(str(""), args[0]), nil
	}))
	ctx = ctx.withScope(scope)

	code := arr(str("echo"), str("untouched-identifier"))
	got := await(t, func(k func(value.Value)) { ExpandTop(ctx, code, k) })
	assert.Equal(t, arr(str(""), str("untouched-identifier")), got)
}

func TestExpandDoesNotRecurseIntoQuotedChildren(t *testing.T) {
	ctx := testCtx(t)
	scope := ctx.Scope.Extend()
	scope.Define(CtxMacro, "wrap", NewNativeSync("wrap", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		return arr(str(""), args[0]), nil
	}))
	ctx = ctx.withScope(scope)

	code := arr(str(""), arr(str("wrap"), str("x")))
	// Top-level head is quote, so it stays opaque even though it contains a
	// macro call — only Expand's non-quote path recurses into children.
	got := await(t, func(k func(value.Value)) { Expand(ctx, code, k) })
	assert.Equal(t, code, got)
}

func TestExpandClosureLiteralExpandsBodyEagerlyWithoutMacroDef(t *testing.T) {
	ctx := testCtx(t)
	scope := ctx.Scope.Extend()
	scope.Define(CtxMacro, "id", NewNativeSync("id", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		return args[0], nil
	}))
	ctx = ctx.withScope(scope)

	// body is a macro call that expands to a quote; once expanded it must
	// show up as that quote, proving the body was expanded eagerly.
	body := arr(str("id"), arr(str(""), value.Number(3)))
	code := arr(str("$closure"), value.EmptyObject, body, value.EmptyObject)
	got := await(t, func(k func(value.Value)) { Expand(ctx, code, k) })

	a := got.(*value.Array)
	assert.Equal(t, arr(str(""), value.Number(3)), a.Elems()[2])
}

func TestExpandClosureLiteralDefersBodyWhenMacroDefPresent(t *testing.T) {
	ctx := testCtx(t)
	// A def under the macro. context means the closure's own body expansion
	// must be deferred to instantiation time, so the raw macro-call
	// body must survive Expand untouched here.
	defs := value.NewBuilder(1)
	defs.Set("macro.noop", arr(str(""), arr(str(""), arr(str(""), value.Number(1)))))
	body := arr(str("some-macro-not-yet-bound"), value.Number(9))
	code := arr(str("$closure"), defs.Build(), body, value.EmptyObject)

	got := await(t, func(k func(value.Value)) { Expand(ctx, code, k) })
	a := got.(*value.Array)
	assert.Equal(t, body, a.Elems()[2], "body expansion must be deferred, not attempted now")
}
