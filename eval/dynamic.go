// Package eval implements the runtime that the rest of Jaspr's evaluation
// core depends on: scopes, the dynamic-binding stack, the fiber/branch
// concurrency tree, the macro-expander, the evaluator, the scope/defs
// assembler, and the signal/raise path. It mirrors the role
// lang/machine plays: almost everything that "runs" a program, as opposed
// to the plain data kinds in package value.
package eval

import "github.com/jaspr-lang/jaspr/value"

// DynamicHandle is the magic handle behind a dynamic-variable object.
// It is opaque to user code: two dynamics are the same variable only if
// they are the same *DynamicHandle, exactly like any other magic object
// compares by identity (value.Is).
type DynamicHandle struct {
	def  value.Value
	name string // for diagnostics only, not part of identity
}

var _ value.Magic = (*DynamicHandle)(nil)

func (d *DynamicHandle) MagicKind() value.MagicKind { return value.MagicDynamic }

// NewDynamic allocates a fresh dynamic-variable handle with the given
// default value, wrapped as the Value a program manipulates ($dynamic).
func NewDynamic(def value.Value, name string) (*DynamicHandle, *value.Object) {
	h := &DynamicHandle{def: def, name: name}
	return h, value.NewBuilder(0).BuildMagic(h)
}

// DynamicOf unwraps a dynamic-variable Value back to its handle, or reports
// false if v is not a dynamic variable.
func DynamicOf(v value.Value) (*DynamicHandle, bool) {
	o, ok := v.(*value.Object)
	if !ok {
		return nil, false
	}
	h, ok := o.Magic().(*DynamicHandle)
	return h, ok
}

// DynFrame is one frame of the immutable, singly linked dynamic-binding
// stack. The zero value (nil *DynFrame) is the empty stack: every
// lookup on it falls through to each dynamic's own default.
type DynFrame struct {
	key    *DynamicHandle
	value  value.Value
	parent *DynFrame
}

// Push returns a new stack with one additional frame binding key to v, per
// $dynamicLet. The receiver is untouched, so the caller's own view of
// the stack is unaffected — this is what makes dynamic-let's "restores the
// outer binding after" guarantee free: the caller simply
// keeps evaluating with its original *DynFrame once the extended body
// finishes.
func (s *DynFrame) Push(key *DynamicHandle, v value.Value) *DynFrame {
	return &DynFrame{key: key, value: v, parent: s}
}

// Get walks the stack from innermost to outermost looking for key,
// returning the bound value, or key's own default on a miss.
func (s *DynFrame) Get(key *DynamicHandle) value.Value {
	for f := s; f != nil; f = f.parent {
		if f.key == key {
			return f.value
		}
	}
	return key.def
}
