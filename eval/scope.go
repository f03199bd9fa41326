package eval

import "github.com/jaspr-lang/jaspr/value"

// Context names one of the five per-context namespaces a Scope carries
//.
type Context string

const (
	CtxValue Context = "value"
	CtxMacro Context = "macro"
	CtxCheck Context = "check"
	CtxDoc   Context = "doc"
	CtxTest  Context = "test"
)

// Contexts is the full, ordered list of recognized contexts, for validation
// and diagnostics.
var Contexts = []Context{CtxValue, CtxMacro, CtxCheck, CtxDoc, CtxTest}

// Scope is a mapping from context to name to Value, plus a qualified-name
// table, with prototype-like parent chaining: a child scope extends its
// parent by layered lookup, shadowing on name collision. Once handed
// to user code a Scope is read-only except for the backing Deferred cells
// its own placeholders may still be resolving.
type Scope struct {
	parent    *Scope
	tables    map[Context]map[string]value.Value
	qualified map[string]string
}

// NewScope returns a new, empty scope extending parent (which may be nil for
// the root/universe scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, tables: make(map[Context]map[string]value.Value)}
}

// Extend returns an empty child scope of s, ready to have
// per-context bindings set via Define before being handed to user code.
func (s *Scope) Extend() *Scope { return NewScope(s) }

// Define binds name to v in context ctx of this scope only (never walking to
// the parent), overwriting any existing binding for name in this same
// scope's table.
func (s *Scope) Define(ctx Context, name string, v value.Value) {
	t := s.tables[ctx]
	if t == nil {
		t = make(map[string]value.Value)
		s.tables[ctx] = t
	}
	t[name] = v
}

// DefineQualified records that name resolves, via syntax-quote, to qualified
//.
func (s *Scope) DefineQualified(name, qualified string) {
	if s.qualified == nil {
		s.qualified = make(map[string]string)
	}
	s.qualified[name] = qualified
}

// Lookup walks from s outward through parents, returning the first binding
// of name found in context ctx.
func (s *Scope) Lookup(ctx Context, name string) (value.Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.tables[ctx]; ok {
			if v, ok := t[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Qualify resolves name to its module-qualified form via the nearest scope
// in the chain that has one recorded, or returns name unchanged if none do
// — syntax-quote consults this to lower plain identifiers.
func (s *Scope) Qualify(name string) string {
	for sc := s; sc != nil; sc = sc.parent {
		if q, ok := sc.qualified[name]; ok {
			return q
		}
	}
	return name
}

// Names returns every name bound in context ctx across the whole scope
// chain, nearest-shadowing-first-but-deduplicated; it is used only for
// diagnostics (the `help`/"did you mean" suggestion on NoBinding, see
// suggest.go) and is not on any evaluator hot path.
func (s *Scope) Names(ctx Context) []string {
	seen := make(map[string]bool)
	var names []string
	for sc := s; sc != nil; sc = sc.parent {
		for n := range sc.tables[ctx] {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}
