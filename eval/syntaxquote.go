package eval

import (
	"strings"

	"github.com/jaspr-lang/jaspr/value"
)

// SyntaxQuote implements syntax-quote lowering. It is purely
// syntactic — no evaluation happens while lowering — so it never suspends;
// k is always called exactly once, synchronously, except for the one error
// case (splice used outside array position), which goes through Raise like
// every other error.
//
// Two paths: if the quoted tree contains no unquote/unquote-splicing
// in any nested array, the whole thing is equivalent to a plain quote of the
// alias/gensym-resolved literal tree. Otherwise each array
// level that contains an unquote is lowered into code that reconstructs the
// array at evaluation time, using the one extra primitive syntax-quote is
// allowed to emit: arrayConcat. Objects are not searched for unquotes: an
// object is always copied as literal data (keys and string values resolved,
// `.NAME.` keys gensym-renamed), so an unquote form inside an object stays
// inert data.
func SyntaxQuote(ctx *Ctx, tree value.Value, k func(value.Value)) {
	memo := make(map[string]string)
	if !containsUnquote(tree) {
		k(value.NewArray([]value.Value{value.String(""), literalizeSQ(ctx, tree, memo)}))
		return
	}
	code, isSplice := lowerSQ(ctx, tree, memo)
	if isSplice {
		raiseErr(ctx, k, value.ErrNotCallable, "unquote-splicing used outside array position")
		return
	}
	k(code)
}

func containsUnquote(node value.Value) bool {
	arr, ok := node.(*value.Array)
	if !ok {
		return false
	}
	elems := arr.Elems()
	if len(elems) == 2 {
		if h, ok := elems[0].(value.String); ok && (string(h) == "$unquote" || string(h) == "$unquoteSplicing") {
			return true
		}
	}
	for _, e := range elems {
		if containsUnquote(e) {
			return true
		}
	}
	return false
}

// literalizeSQ resolves every string in node (aliases and .NAME. gensyms)
// but otherwise copies it unchanged, producing plain literal data with no
// code semantics — valid only when containsUnquote(node) is false.
func literalizeSQ(ctx *Ctx, node value.Value, memo map[string]string) value.Value {
	switch t := node.(type) {
	case value.String:
		return value.String(resolveSQString(ctx.Scope, memo, string(t)))
	case *value.Array:
		elems := t.Elems()
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			out[i] = literalizeSQ(ctx, e, memo)
		}
		return value.NewArray(out)
	case *value.Object:
		b := value.NewBuilder(len(t.Keys()))
		for _, key := range t.Keys() {
			v, _ := t.Get(key)
			b.Set(resolveSQString(ctx.Scope, memo, key), literalizeSQ(ctx, v, memo))
		}
		return b.Build()
	default:
		return node
	}
}

// resolveSQString implements the per-string lowering rule: `.NAME.` becomes
// a gensym (memoized per syntax-quote expansion so repeated occurrences of
// the same `.NAME.` share one generated symbol), anything else resolves
// through the scope's qualified-name table.
func resolveSQString(scope *Scope, memo map[string]string, s string) string {
	if name, ok := gensymHint(s); ok {
		if g, ok := memo[name]; ok {
			return g
		}
		g := gensym(name)
		memo[name] = g
		return g
	}
	return scope.Qualify(s)
}

func gensymHint(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, ".") && strings.HasSuffix(s, ".") {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// lowerSQ lowers a node of the syntax-quoted tree that is known to contain
// an unquote somewhere within it (or to be one itself) into a code
// expression, plus whether that expression itself is a splice
// (unquote-splicing) that only makes sense directly inside an array run.
func lowerSQ(ctx *Ctx, node value.Value, memo map[string]string) (code value.Value, isSplice bool) {
	arr, ok := node.(*value.Array)
	if !ok {
		return quoteOf(literalizeSQ(ctx, node, memo)), false
	}
	elems := arr.Elems()
	if len(elems) == 2 {
		if h, ok := elems[0].(value.String); ok {
			switch string(h) {
			case "$unquote":
				return elems[1], false
			case "$unquoteSplicing":
				return elems[1], true
			}
		}
	}
	if !containsUnquote(node) {
		return quoteOf(literalizeSQ(ctx, node, memo)), false
	}
	return lowerArraySQ(ctx, elems, memo), false
}

// lowerArraySQ partitions elems into contiguous non-spliced runs and
// splices, emitting one literal quoted array per run and the raw
// code for each splice/unquote, then joins them with arrayConcat. A
// non-splicing unquote inside an array position contributes a one-element
// array built with $arrayMake, since array-shaped code is otherwise always
// call-dispatched and there is no other primitive for "construct a
// one-element array from a computed value".
func lowerArraySQ(ctx *Ctx, elems []value.Value, memo map[string]string) value.Value {
	var parts []value.Value
	var pendingLiteral []value.Value

	flushLiteral := func() {
		if len(pendingLiteral) == 0 {
			return
		}
		parts = append(parts, quoteOf(value.NewArray(pendingLiteral)))
		pendingLiteral = nil
	}

	for _, e := range elems {
		if code, isSplice := lowerElemSQ(ctx, e, memo); code != nil {
			flushLiteral()
			if isSplice {
				parts = append(parts, code)
			} else {
				parts = append(parts, singletonArray(code))
			}
			continue
		}
		pendingLiteral = append(pendingLiteral, literalizeSQ(ctx, e, memo))
	}
	flushLiteral()

	if len(parts) == 1 {
		return parts[0]
	}
	call := make([]value.Value, 0, len(parts)+1)
	call = append(call, value.String("arrayConcat"))
	call = append(call, parts...)
	return value.NewArray(call)
}

// lowerElemSQ returns (code, isSplice) if e is itself an unquote or
// unquote-splicing form, or contains one anywhere within it; it returns a
// nil code for an element with no unquote in it at all (the caller then folds it
// into the surrounding literal run instead).
func lowerElemSQ(ctx *Ctx, e value.Value, memo map[string]string) (value.Value, bool) {
	if !containsUnquote(e) {
		return nil, false
	}
	code, isSplice := lowerSQ(ctx, e, memo)
	return code, isSplice
}

func quoteOf(v value.Value) value.Value {
	return value.NewArray([]value.Value{value.String(""), v})
}

// singletonArray builds code that evaluates to a one-element array holding
// the value of code, using $arrayMake with length 1: the generated
// closure ignores its index argument ($args) and always evaluates to code.
func singletonArray(code value.Value) value.Value {
	closureLit := value.NewArray([]value.Value{
		value.String("$closure"),
		value.EmptyObject,
		code,
		value.EmptyObject,
	})
	return value.NewArray([]value.Value{value.String("$arrayMake"), closureLit, value.Number(1)})
}
