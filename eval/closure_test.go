package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspr-lang/jaspr/value"
)

func TestNewUserClosureCarriesFields(t *testing.T) {
	scope := NewScope(nil)
	fields := value.NewBuilder(1)
	fields.Set("arity", value.Number(2))
	obj := NewUserClosure(scope, value.Nil, false, fields.Build(), "f")

	v, ok := obj.Get("arity")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)

	cl, ok := ClosureOf(obj)
	require.True(t, ok)
	assert.Equal(t, "f", cl.Name())
}

func TestClosureNameDefaultsToAnonymous(t *testing.T) {
	scope := NewScope(nil)
	obj := NewUserClosure(scope, value.Nil, false, nil, "")
	cl, _ := ClosureOf(obj)
	assert.Equal(t, "<anonymous>", cl.Name())
}

func TestClosureOfRejectsNonClosureObject(t *testing.T) {
	_, ok := ClosureOf(value.EmptyObject)
	assert.False(t, ok)
}

func TestNativeClosuresReportClosureMagicKind(t *testing.T) {
	fn := NewNativeSync("f", func(branch *Branch, args []value.Value) (value.Value, *value.Object) { return value.Nil, nil })
	assert.True(t, fn.IsMagic(value.MagicClosure))
}
