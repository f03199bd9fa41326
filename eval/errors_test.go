package eval

import (
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/jaspr-lang/jaspr/value"
)

// errorObjectSchema is the shape every error object produced by this package
// must satisfy: a required `err` code drawn from the exhaustive taxonomy and
// a required human-readable `why`, with arbitrary additional context keys.
const errorObjectSchema = `{
	"type": "object",
	"required": ["err", "why"],
	"properties": {
		"err": {
			"type": "string",
			"enum": [
				"NoBinding", "NoKey", "NoMatch", "BadName", "BadArgs",
				"BadModule", "BadPattern", "NotCallable", "NoPrimitive",
				"NotJSON", "ParseFailed", "EvalFailed", "ReadFailed",
				"WriteFailed", "NativeError", "NotImplemented",
				"AssertFailed", "ChanClosed"
			]
		},
		"why": {"type": "string"}
	}
}`

func compileErrorSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	c := jsonschema.NewCompiler()
	require.NoError(t, c.AddResource("error.json", strings.NewReader(errorObjectSchema)))
	s, err := c.Compile("error.json")
	require.NoError(t, err)
	return s
}

// validateAgainstSchema forces errObj to plain JSON and checks it against s,
// the same way a host embedding this evaluator would validate an error
// surfaced to a user-facing diagnostic.
func validateAgainstSchema(t *testing.T, s *jsonschema.Schema, errObj *value.Object) {
	t.Helper()
	jv, err := value.ToJSON(errObj)
	require.NoError(t, err)
	require.NoError(t, s.Validate(jv))
}

func TestNewErrorMatchesErrorObjectSchema(t *testing.T) {
	s := compileErrorSchema(t)
	errObj := value.NewError(value.ErrBadArgs, "wrong number of arguments", "fn", "double", "args", 2)
	validateAgainstSchema(t, s, errObj)
}

func TestEveryErrCodeProducesASchemaValidError(t *testing.T) {
	s := compileErrorSchema(t)
	codes := []value.ErrCode{
		value.ErrNoBinding, value.ErrNoKey, value.ErrNoMatch, value.ErrBadName,
		value.ErrBadArgs, value.ErrBadModule, value.ErrBadPattern,
		value.ErrNotCallable, value.ErrNoPrimitive, value.ErrNotJSON,
		value.ErrParseFailed, value.ErrEvalFailed, value.ErrReadFailed,
		value.ErrWriteFailed, value.ErrNativeError, value.ErrNotImplemented,
		value.ErrAssertFailed, value.ErrChanClosed,
	}
	for _, code := range codes {
		validateAgainstSchema(t, s, value.NewError(code, "boom"))
	}
}

func TestChanClosedMatchesErrorObjectSchema(t *testing.T) {
	s := compileErrorSchema(t)
	validateAgainstSchema(t, s, value.ChanClosed())
}

func TestRaiseWithNoHandlerProducesASchemaValidError(t *testing.T) {
	s := compileErrorSchema(t)
	root, _ := newTestRoot(t)
	ctx := NewCtx(root, root.RootScope())

	v := await(t, func(k func(value.Value)) {
		raiseErr(ctx, k, value.ErrNoBinding, "no such binding", "name", "x")
	})
	errObj := requireError(t, v, value.ErrNoBinding)
	validateAgainstSchema(t, s, errObj)
}

func TestCallNativeSyncErrorIsSchemaValidAfterFnAnnotation(t *testing.T) {
	s := compileErrorSchema(t)
	ctx := testCtx(t)
	boom := NewNativeSync("boom", func(branch *Branch, args []value.Value) (value.Value, *value.Object) {
		return nil, value.NewError(value.ErrBadArgs, "always fails")
	})

	v := await(t, func(k func(value.Value)) { Call(ctx, boom, nil, k) })
	errObj := requireError(t, v, value.ErrBadArgs)
	validateAgainstSchema(t, s, errObj)
}

func TestMissingWhyFailsSchemaValidation(t *testing.T) {
	s := compileErrorSchema(t)
	b := value.NewBuilder(1)
	b.Set("err", value.String(value.ErrBadArgs))
	jv, err := value.ToJSON(b.Build())
	require.NoError(t, err)
	require.Error(t, s.Validate(jv))
}

func TestUnknownErrCodeFailsSchemaValidation(t *testing.T) {
	s := compileErrorSchema(t)
	errObj := value.NewError(value.ErrCode("NotARealCode"), "boom")
	jv, err := value.ToJSON(errObj)
	require.NoError(t, err)
	require.Error(t, s.Validate(jv))
}
