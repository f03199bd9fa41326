package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONRoundTripsScalarsAndCollections(t *testing.T) {
	b := NewBuilder(1)
	b.Set("a", NewArray([]Value{Number(1), String("x"), Bool(false), Nil}))
	obj := b.Build()

	jv, err := ToJSON(obj)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{1.0, "x", false, nil}}, jv)
}

func TestToJSONFailsOnMagic(t *testing.T) {
	m := NewBuilder(0).BuildMagic(fakeMagic{})
	_, err := ToJSON(m)
	assert.Error(t, err)
}

func TestToJSONForcesDeferredSlots(t *testing.T) {
	d := NewDeferred()
	d.Resolve(Number(9))
	arr := NewArray([]Value{d})

	jv, err := ToJSON(arr)
	require.NoError(t, err)
	assert.Equal(t, []any{9.0}, jv)
}

func TestToJSONFailsOnUnresolvedDeferred(t *testing.T) {
	_, err := ToJSON(NewDeferred())
	assert.Error(t, err)
}

func TestToJSONForcesNonDeferredAwaiterSlots(t *testing.T) {
	arr := NewArray([]Value{fakeAwaiter{resolved: Number(9)}})

	jv, err := ToJSON(arr)
	require.NoError(t, err)
	assert.Equal(t, []any{9.0}, jv)
}

func TestMarshalJSONForcesTopLevelAwaiter(t *testing.T) {
	b := NewBuilder(1)
	b.Set("z", Number(1))
	out, err := MarshalJSON(fakeAwaiter{resolved: b.Build()})
	require.NoError(t, err)
	assert.Equal(t, `{"z":1}`, string(out))
}

func TestMarshalJSONPreservesKeyOrder(t *testing.T) {
	b := NewBuilder(2)
	b.Set("z", Number(1))
	b.Set("a", Number(2))
	out, err := MarshalJSON(b.Build())
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(out))
}

func TestFromJSONThenToJSON(t *testing.T) {
	in := map[string]any{"x": []any{1.0, "y", nil, true}}
	v := FromJSON(in)
	out, err := ToJSON(v)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
