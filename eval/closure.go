package eval

import "github.com/jaspr-lang/jaspr/value"

// closureKind distinguishes a user closure (captured scope + body code tree)
// from the two native-function forms the host can supply. All three
// present the same magic kind ("closure") to user code: a native function
// value is a closure whose magic handle carries an implementation-language
// function rather than scope-bound source.
type closureKind uint8

const (
	closureUser closureKind = iota
	closureNativeSync
	closureNativeAsync
)

// NativeSync is a synchronous native function: it receives already
// fully-resolved argument values and returns a result, or an error object to
// raise. It additionally receives the calling Branch, since native code
// that needs to spawn concurrent work (e.g. a channel operation waiting on
// more than one peer) needs a cancellation scope to attach to.
type NativeSync func(branch *Branch, args []value.Value) (value.Value, *value.Object)

// NativeAsync is the asynchronous form: instead of returning
// synchronously, it is handed a completion callback; the evaluator passes
// the value given to that callback straight to the call's continuation, or
// raises the error object, so the caller observes the same continuation
// contract as any other call.
type NativeAsync func(branch *Branch, args []value.Value, done func(value.Value, *value.Object))

// Closure is the magic handle behind a closure value. Its captured
// scope, body and fields are read-only once built: a Scope becomes
// read-only the moment it is handed to user code.
type Closure struct {
	kind    closureKind
	name    string // from the `name` dynamic at definition time; diagnostics only
	scope   *Scope
	body    value.Value // code tree; already expanded unless pending is set
	pending bool        // true if body still needs macro-expansion, deferred because a macro. def was present
	sync    NativeSync
	async   NativeAsync
}

var _ value.Magic = (*Closure)(nil)

func (c *Closure) MagicKind() value.MagicKind { return value.MagicClosure }

// NewUserClosure builds the Value for a `$closure` special form: a
// magic object whose hidden handle is the captured scope and body, plus
// whatever user-visible fields the closure literal's `fields` map supplied.
// pending marks a body whose macro-expansion was deferred to instantiation
// time.
func NewUserClosure(scope *Scope, body value.Value, pending bool, fields *value.Object, name string) *value.Object {
	c := &Closure{kind: closureUser, scope: scope, body: body, pending: pending, name: name}
	return attachFields(c, fields)
}

// NewNativeSync wraps a host function as a callable Jaspr value.
func NewNativeSync(name string, fn NativeSync) *value.Object {
	c := &Closure{kind: closureNativeSync, name: name, sync: fn}
	return value.NewBuilder(0).BuildMagic(c)
}

// NewNativeAsync wraps a host async function as a callable Jaspr value.
func NewNativeAsync(name string, fn NativeAsync) *value.Object {
	c := &Closure{kind: closureNativeAsync, name: name, async: fn}
	return value.NewBuilder(0).BuildMagic(c)
}

func attachFields(c *Closure, fields *value.Object) *value.Object {
	b := value.NewBuilder(0)
	if fields != nil {
		for _, k := range fields.Keys() {
			v, _ := fields.Get(k)
			b.Set(k, v)
		}
	}
	return b.BuildMagic(c)
}

// ClosureOf unwraps a Value back to its *Closure, or reports false.
func ClosureOf(v value.Value) (*Closure, bool) {
	o, ok := v.(*value.Object)
	if !ok {
		return nil, false
	}
	c, ok := o.Magic().(*Closure)
	return c, ok
}

// Name returns the closure's diagnostic name, or "<anonymous>" if it was
// never defined through the Scope/Defs assembler.
func (c *Closure) Name() string {
	if c.name == "" {
		return "<anonymous>"
	}
	return c.name
}
