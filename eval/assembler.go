package eval

import (
	"regexp"
	"strings"

	"github.com/jaspr-lang/jaspr/value"
)

// Namespace identifies a module: a script being assembled (e.g. for
// a $closure's own defs) has no namespace, and its definitions are visible
// only under their short name.
type Namespace struct {
	Module  string
	Version string
}

func (ns *Namespace) qualify(ident string) string {
	if ns == nil {
		return ident
	}
	return ns.Module + "@" + ns.Version + "." + ident
}

// legalIdent matches the identifier grammar: no leading
// `$`, no `.`, non-empty. null/true/false and bare numbers are excluded
// separately since they would otherwise match the regex.
var legalIdent = regexp.MustCompile(`^[^$.\s\[\]{}"]+$`)

var reservedLiterals = map[string]bool{"null": true, "true": true, "false": true}

var numericIdent = regexp.MustCompile(`^-?[0-9]`)

func isLegalName(ident string) bool {
	if ident == "" || !legalIdent.MatchString(ident) {
		return false
	}
	if reservedLiterals[ident] || numericIdent.MatchString(ident) {
		return false
	}
	return true
}

// splitDefKey splits a definition key on its last `.` into (context, ident):
// the part before the dot must name one of the five contexts, otherwise
// the whole key is a plain value binding.
func splitDefKey(key string) (Context, string) {
	if i := strings.LastIndex(key, "."); i >= 0 {
		prefix, ident := Context(key[:i]), key[i+1:]
		for _, c := range Contexts {
			if c == prefix {
				return prefix, ident
			}
		}
	}
	return CtxValue, key
}

type parsedDef struct {
	rawKey    string
	ctx       Context
	ident     string
	qualified string
}

// Assemble builds a new scope from a definitions object, extending
// ctx.Scope. It returns the new scope, whether any macro.-context
// definition was present (the $closure evaluator uses this to decide
// whether body expansion must be deferred to instantiation time), and
// an error object on validation failure.
//
// Every definition's body is expanded and evaluated concurrently, in its
// own goroutine, against placeholders allocated for every other definition
// in the same pass — this is what makes mutual recursion and
// order-independent forward reference work unconditionally:
// a definition's body can reference a sibling's placeholder before that
// sibling has finished evaluating, because Force simply suspends until it
// resolves.
func Assemble(ctx *Ctx, defs *value.Object, ns *Namespace) (*Scope, bool, *value.Object) {
	keys := defs.Keys()
	parsed := make([]parsedDef, 0, len(keys))
	hasMacro := false

	for _, key := range keys {
		c, ident := splitDefKey(key)
		if !isLegalName(ident) {
			return nil, false, value.NewError(value.ErrBadName, "illegal definition name", "name", key)
		}
		if (c == CtxDoc || c == CtxTest) && ns == nil {
			return nil, false, value.NewError(value.ErrBadName, "doc/test definitions are only permitted at module top level", "name", key)
		}
		if c == CtxMacro {
			hasMacro = true
		}
		parsed = append(parsed, parsedDef{rawKey: key, ctx: c, ident: ident, qualified: ns.qualify(ident)})
	}

	newScope := ctx.Scope.Extend()
	placeholders := make(map[string]*Fiber, len(parsed))

	for _, p := range parsed {
		if p.ctx == CtxDoc || p.ctx == CtxTest {
			continue
		}
		d := ctx.Branch.NewFiber()
		placeholders[p.rawKey] = d
		newScope.Define(p.ctx, p.ident, d)
		if ns != nil {
			newScope.Define(p.ctx, p.qualified, d)
			newScope.DefineQualified(p.ident, p.qualified)
		}
	}

	for _, p := range parsed {
		raw, _ := defs.Get(p.rawKey)
		switch p.ctx {
		case CtxDoc:
			s, ok := raw.(value.String)
			if !ok {
				return nil, false, value.NewError(value.ErrBadName, "doc value must be a literal string", "name", p.ident)
			}
			newScope.Define(CtxDoc, p.ident, s)
		case CtxTest:
			newScope.Define(CtxTest, p.ident, raw)
		}
	}

	for _, p := range parsed {
		if p.ctx == CtxDoc || p.ctx == CtxTest {
			continue
		}
		p := p
		raw, _ := defs.Get(p.rawKey)
		d := placeholders[p.rawKey]
		defCtx := ctx.withScope(newScope)
		if ctx.Root != nil && ctx.Root.Name != nil {
			defCtx = defCtx.withDyn(ctx.Dyn.Push(ctx.Root.Name, value.String(p.qualified)))
		}
		go Expand(defCtx, raw, func(expanded value.Value) {
			Eval(defCtx, expanded, d.Resolve)
		})
	}

	return newScope, hasMacro, nil
}
