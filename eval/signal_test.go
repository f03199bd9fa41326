package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaspr-lang/jaspr/value"
)

func TestRaiseWithNoHandlerBoundUsesRootDefault(t *testing.T) {
	root, unhandled := newTestRoot(t)
	ctx := NewCtx(root, root.RootScope())

	v := await(t, func(k func(value.Value)) {
		raiseErr(ctx, k, value.ErrNoBinding, "no such binding", "name", "x")
	})

	requireError(t, v, value.ErrNoBinding)
	assert.Len(t, *unhandled, 1)
}

func TestRaiseCallsBoundHandler(t *testing.T) {
	ctx := testCtx(t)
	var seen *value.Object
	handler := NewNativeSync("h", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		seen, _ = args[0].(*value.Object)
		return value.String("resumed"), nil
	})
	ctx = ctx.withDyn(ctx.Dyn.Push(ctx.Root.SignalHandler, handler))

	v := await(t, func(k func(value.Value)) {
		raiseErr(ctx, k, value.ErrBadArgs, "bad", "args", 0)
	})

	assert.Equal(t, value.String("resumed"), v)
	assert.NotNil(t, seen)
	got, _ := seen.Get("err")
	assert.Equal(t, value.String(value.ErrBadArgs), got)
}

func TestRaiseInsideHandlerEscapesToOuterHandler(t *testing.T) {
	ctx := testCtx(t)
	var outerSaw *value.Object
	outer := NewNativeSync("outer", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		outerSaw, _ = args[0].(*value.Object)
		return value.String("outer resumed"), nil
	})
	// inner is a user closure (not native) so that its body evaluates with
	// the dynamic frame Raise already popped past inner's own binding —
	// exercising the rule that a re-raise from inside a handler reaches the
	// next handler out, through an ordinary evaluation error (looking up an
	// unbound name) the way real Jaspr code would trigger it.
	inner := NewUserClosure(ctx.Scope, value.String("no-such-binding"), false, nil, "inner")

	dyn := ctx.Dyn.Push(ctx.Root.SignalHandler, outer).Push(ctx.Root.SignalHandler, inner)
	raiseCtx := ctx.withDyn(dyn)

	v := await(t, func(k func(value.Value)) {
		raiseErr(raiseCtx, k, value.ErrBadArgs, "first")
	})

	assert.NotNil(t, outerSaw, "the unbound-name error raised inside inner's body must reach outer")
	got, _ := outerSaw.Get("err")
	assert.Equal(t, value.String(value.ErrNoBinding), got)
	assert.Equal(t, value.String("outer resumed"), v)
}
