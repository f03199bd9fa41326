package value

// Array is an ordered, fixed-length sequence of Values. Unlike
// lang/types.Array, a Jaspr Array is not a mutable list: it is
// a persistent JSON-tree value. A slot may itself hold a *Deferred; resolving
// that Deferred (the same object held in the slot) is how $arrayMake and
// ordinary evaluation publish results into an array without the Array
// itself ever being mutated.
type Array struct {
	elems []Value
}

var _ Value = (*Array)(nil)

// NewArray returns an array wrapping elems directly; callers must not retain
// and mutate the slice afterward.
func NewArray(elems []Value) *Array { return &Array{elems: elems} }

// EmptyArray is the canonical empty array.
var EmptyArray = NewArray(nil)

func (a *Array) String() string { return "array" }
func (a *Array) Kind() string   { return "array" }
func (a *Array) Len() int       { return len(a.elems) }

// Index returns the i-th element, or (nil, false) if i is out of range after
// negative-index normalization (negative counts from the end).
func (a *Array) Index(i int) (Value, bool) {
	if i < 0 {
		i += len(a.elems)
	}
	if i < 0 || i >= len(a.elems) {
		return nil, false
	}
	return a.elems[i], true
}

// Elems returns the underlying slice; callers must treat it as read-only.
func (a *Array) Elems() []Value { return a.elems }
