package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspr-lang/jaspr/value"
)

func TestAssembleModuleWithoutMainReturnsScopeOnly(t *testing.T) {
	root, _ := newTestRoot(t)
	defs := value.NewBuilder(1)
	defs.Set("x", value.Number(1))
	scope, fiber, err := AssembleModule(root, &Source{Defs: defs.Build()})
	require.Nil(t, err)
	assert.Nil(t, fiber)

	v, ok := scope.Lookup(CtxValue, "x")
	require.True(t, ok)
	got := await(t, func(k func(value.Value)) { value.Force(v, k) })
	assert.Equal(t, value.Number(1), got)
}

func TestAssembleModuleRunsMain(t *testing.T) {
	root, _ := newTestRoot(t)
	defs := value.NewBuilder(1)
	defs.Set("greeting", arr(str(""), value.String("hi")))
	scope, fiber, err := AssembleModule(root, &Source{Defs: defs.Build(), Main: str("greeting")})
	require.Nil(t, err)
	require.NotNil(t, fiber)
	_ = scope

	got := await(t, func(k func(value.Value)) { fiber.Await(k) })
	assert.Equal(t, value.String("hi"), got)
}

func TestAssembleModuleDefaultsImportScopeToUniversal(t *testing.T) {
	root, _ := newTestRoot(t)
	defs := value.NewBuilder(1)
	defs.Set("concatted", arr(str("arrayConcat"), arr(str(""), arr(value.Number(1))), arr(str(""), arr(value.Number(2)))))
	scope, _, err := AssembleModule(root, &Source{Defs: defs.Build()})
	require.Nil(t, err)

	v, _ := scope.Lookup(CtxValue, "concatted")
	got := await(t, func(k func(value.Value)) { value.Force(v, k) })
	a := got.(*value.Array)
	assert.Equal(t, []value.Value{value.Number(1), value.Number(2)}, forceAll(t, a))
}
