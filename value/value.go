// Package value implements the tagged union of values that a Jaspr program
// manipulates: the JSON kinds (null, boolean, number, string, array, object),
// the Deferred placeholder used for lazy and concurrent resolution, and the
// magic-object mechanism that lets an Object additionally carry an opaque
// handle to an implementation-side object (a closure, a dynamic variable, or
// a channel).
package value

import "fmt"

// Value is implemented by every kind of Jaspr value. Null, Bool, Number and
// String are plain Go types with this method set; Array, Object and Deferred
// are pointer types.
type Value interface {
	// String returns a short, human-readable representation, primarily for
	// error messages and debugging; it is not a serialization format.
	String() string
	// Kind names the value's tag, e.g. "null", "number", "array".
	Kind() string
}

// Null is the single value of null type.
type Null struct{}

// Nil is the canonical Null value.
var Nil = Null{}

func (Null) String() string { return "null" }
func (Null) Kind() string   { return "null" }

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Kind() string { return "boolean" }

// Number is an IEEE-754 double.
type Number float64

func (n Number) String() string { return fmt.Sprintf("%g", float64(n)) }
func (Number) Kind() string     { return "number" }

// String is a UTF-8 string value.
type String string

func (s String) String() string { return string(s) }
func (String) Kind() string     { return "string" }

// Truth reports the value's boolean coercion. `false`, `null`, `0`, `""`,
// and the empty array/object are falsy; everything else (including magic
// objects, which are never empty) is truthy: `["$if", [], 1, 2]` evaluates
// the `else` branch because `[]` is falsy.
func Truth(v Value) bool {
	switch v := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	case *Array:
		return v.Len() != 0
	case *Object:
		return v.Magic() != nil || v.Len() != 0
	default:
		return true
	}
}

// MagicKind identifies which of the three magic-object kinds a Magic
// implementation is.
type MagicKind string

const (
	MagicClosure MagicKind = "closure"
	MagicDynamic MagicKind = "dynamic"
	MagicChannel MagicKind = "channel"
)

// Magic is implemented by the hidden handle an Object carries when it is a
// closure, a dynamic-variable handle, or a channel. Magic handles are opaque
// to user code: they compare by identity (see Is) and are never produced by
// JSON serialization (see ToJSON).
type Magic interface {
	MagicKind() MagicKind
}
