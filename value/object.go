package value

import "github.com/dolthub/swiss"

// Object is a mapping from string keys to Values. It additionally carries an
// optional hidden Magic handle, which is how closures, dynamic-variable
// handles and channels masquerade as ordinary objects to user code.
//
// The backing store is a swiss.Map, the same choice lang/machine.Map makes;
// swiss.Map's own iteration order is not guaranteed stable across
// iterations, so Object additionally keeps the key slice it was built with
// to guarantee a stable key-iteration order within one Value's lifetime
// without relying on the map implementation.
type Object struct {
	fields *swiss.Map[string, Value]
	keys   []string
	magic  Magic
}

var _ Value = (*Object)(nil)

// EmptyObject is the canonical empty, non-magic object.
var EmptyObject = NewObject(nil)

// NewObject returns an object whose iteration order is the keys slice and
// whose field table is empty: it takes no values, so Get finds none of the
// keys. Objects with values are built with NewBuilder.
func NewObject(keys []string) *Object {
	o := &Object{
		fields: swiss.NewMap[string, Value](uint32(len(keys))),
		keys:   keys,
	}
	return o
}

// Builder accumulates key/value pairs into an Object, preserving insertion
// order. Setting a key a second time overwrites its value and keeps its
// first position; Has reports whether a key has already been set.
type Builder struct {
	fields *swiss.Map[string, Value]
	keys   []string
}

// NewBuilder returns a Builder with initial capacity for at least size
// entries.
func NewBuilder(size int) *Builder {
	return &Builder{fields: swiss.NewMap[string, Value](uint32(size))}
}

// Set adds or overwrites the value for key, appending key to the iteration
// order the first time it is seen.
func (b *Builder) Set(key string, v Value) {
	if _, ok := b.fields.Get(key); !ok {
		b.keys = append(b.keys, key)
	}
	b.fields.Put(key, v)
}

// Has reports whether key has already been set.
func (b *Builder) Has(key string) bool {
	_, ok := b.fields.Get(key)
	return ok
}

// Build finalizes the object. The Builder must not be reused afterward.
func (b *Builder) Build() *Object {
	return &Object{fields: b.fields, keys: b.keys}
}

// BuildMagic finalizes the object with a hidden magic handle attached.
func (b *Builder) BuildMagic(m Magic) *Object {
	return &Object{fields: b.fields, keys: b.keys, magic: m}
}

func (o *Object) String() string { return "object" }
func (o *Object) Kind() string   { return "object" }
func (o *Object) Len() int       { return len(o.keys) }

// Get returns the value bound to key, or (nil, false) if absent.
func (o *Object) Get(key string) (Value, bool) {
	return o.fields.Get(key)
}

// Keys returns the object's keys in stable iteration order. Callers must
// treat the returned slice as read-only.
func (o *Object) Keys() []string { return o.keys }

// Magic returns the object's hidden handle, or nil if it is a plain object.
func (o *Object) Magic() Magic { return o.magic }

// IsMagic reports whether o carries a hidden handle of the given kind.
func (o *Object) IsMagic(kind MagicKind) bool {
	return o.magic != nil && o.magic.MagicKind() == kind
}
