package eval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaspr-lang/jaspr/value"
)

// await blocks the calling goroutine until f resolves (possibly through a
// chain of Fibers spawned on other goroutines), failing the test if it
// takes longer than a second — every scenario here is expected to settle
// immediately; a hang means a real bug, not a slow test.
func await(t *testing.T, f func(func(value.Value))) value.Value {
	t.Helper()
	ch := make(chan value.Value, 1)
	f(func(v value.Value) { ch <- v })
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
		return nil
	}
}

// awaitNone is like await but for scenarios expected to never call k
// (cancellation): it succeeds if nothing arrives within a short window.
func awaitNone(t *testing.T, f func(func(value.Value))) {
	t.Helper()
	ch := make(chan value.Value, 1)
	f(func(v value.Value) { ch <- v })
	select {
	case v := <-ch:
		t.Fatalf("expected no result, got %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

// newTestRoot builds a Root whose unhandled signal handler records the
// error object it was given and resumes with that same object, rather than
// cancelling the branch — this makes an unhandled error observable as an
// ordinary k-delivered value in tests that don't bind their own
// signal-handler, instead of silently losing it to cancellation.
func newTestRoot(t *testing.T) (*Root, *[]*value.Object) {
	t.Helper()
	var unhandled []*value.Object
	r := NewRoot(func(err *value.Object, branch *Branch) (value.Value, bool) {
		unhandled = append(unhandled, err)
		return err, false
	})
	return r, &unhandled
}

// newCancellingTestRoot is for tests that specifically exercise branch
// cancellation on an unhandled error.
func newCancellingTestRoot(t *testing.T) *Root {
	t.Helper()
	return NewRoot(func(err *value.Object, branch *Branch) (value.Value, bool) {
		return nil, true
	})
}

func testCtx(t *testing.T) *Ctx {
	t.Helper()
	root, _ := newTestRoot(t)
	return NewCtx(root, root.RootScope())
}

// forceAll resolves every element of arr (which may itself still hold
// unresolved Fibers/Deferreds produced by concurrent array construction,
// e.g. $arrayMake or arrayConcat over one) and returns the plain values.
func forceAll(t *testing.T, arr *value.Array) []value.Value {
	t.Helper()
	out := make([]value.Value, arr.Len())
	for i, e := range arr.Elems() {
		out[i] = await(t, func(k func(value.Value)) { value.Force(e, k) })
	}
	return out
}

func requireError(t *testing.T, v value.Value, code value.ErrCode) *value.Object {
	t.Helper()
	errObj, ok := value.IsError(v)
	require.True(t, ok, "expected an error object, got %v", v)
	got, _ := errObj.Get("err")
	require.Equal(t, value.String(code), got)
	return errObj
}
