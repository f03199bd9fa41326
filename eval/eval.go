package eval

import (
	"strings"

	"github.com/jaspr-lang/jaspr/value"
)

// Eval interprets an expanded code tree against ctx. It never blocks:
// every suspension point re-arms through value.Force or a freshly spawned
// Fiber, and the eventual result (or silence, on cancellation) reaches k.
func Eval(ctx *Ctx, code value.Value, k func(value.Value)) {
	value.Force(code, func(v value.Value) {
		switch t := v.(type) {
		case value.String:
			evalString(ctx, t, k)
		case *value.Array:
			evalArray(ctx, t, k)
		case *value.Object:
			if t.Magic() != nil {
				k(t)
				return
			}
			evalObject(ctx, t, k)
		default:
			// null, bool, number: self-evaluating.
			k(v)
		}
	})
}

func evalString(ctx *Ctx, s value.String, k func(value.Value)) {
	name := string(s)
	if name == "$args" {
		k(ctx.Args)
		return
	}
	if strings.HasPrefix(name, "$") {
		raiseErr(ctx, k, value.ErrBadName, "reserved name cannot be used as a value", "name", name)
		return
	}
	v, ok := ctx.Scope.Lookup(CtxValue, name)
	if !ok {
		help, hasHelp := suggestName(ctx.Scope.Names(CtxValue), name)
		if hasHelp {
			raiseErr(ctx, k, value.ErrNoBinding, "no such binding", "name", name, "help", help)
		} else {
			raiseErr(ctx, k, value.ErrNoBinding, "no such binding", "name", name)
		}
		return
	}
	value.Force(v, k)
}

func evalObject(ctx *Ctx, obj *value.Object, k func(value.Value)) {
	keys := obj.Keys()
	if len(keys) == 0 {
		k(obj)
		return
	}
	b := value.NewBuilder(len(keys))
	var step func(i int)
	step = func(i int) {
		if i >= len(keys) {
			k(b.Build())
			return
		}
		fv, _ := obj.Get(keys[i])
		f := ctx.Branch.NewFiber()
		go Eval(ctx, fv, f.Resolve)
		value.Force(f, func(rv value.Value) {
			b.Set(keys[i], rv)
			step(i + 1)
		})
	}
	step(0)
}

func evalArray(ctx *Ctx, arr *value.Array, k func(value.Value)) {
	elems := arr.Elems()
	if len(elems) == 0 {
		k(arr)
		return
	}
	if head, ok := elems[0].(value.String); ok {
		if handled := evalSpecialForm(ctx, string(head), elems, k); handled {
			return
		}
		if strings.HasPrefix(string(head), "$") {
			raiseErr(ctx, k, value.ErrNoPrimitive, "unknown primitive", "name", string(head))
			return
		}
	}
	evalCall(ctx, elems, k)
}

// evalSpecialForm handles every reserved array head, including "" (quote)
// and the $closure head. It returns false for any head that is not a
// special form so the caller falls through to general call dispatch. It
// returns true once it has either produced or scheduled a result (including
// error cases raised through k).
func evalSpecialForm(ctx *Ctx, head string, elems []value.Value, k func(value.Value)) bool {
	switch head {
	case "":
		if len(elems) != 2 {
			raiseErr(ctx, k, value.ErrBadArgs, "quote takes exactly one argument", "args", len(elems)-1)
			return true
		}
		k(elems[1])
		return true
	case "$if":
		if len(elems) != 4 {
			raiseErr(ctx, k, value.ErrBadArgs, "$if takes exactly three arguments", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(cond value.Value) {
			if value.Truth(cond) {
				Eval(ctx, elems[2], k)
			} else {
				Eval(ctx, elems[3], k)
			}
		})
		return true
	case "$then":
		if len(elems) != 3 {
			raiseErr(ctx, k, value.ErrBadArgs, "$then takes exactly two arguments", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(value.Value) { Eval(ctx, elems[2], k) })
		return true
	case "$closure":
		evalClosureForm(ctx, elems, k)
		return true
	case "$apply":
		if len(elems) != 3 {
			raiseErr(ctx, k, value.ErrBadArgs, "$apply takes exactly two arguments", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(callee value.Value) {
			Eval(ctx, elems[2], func(argsVal value.Value) {
				value.Force(argsVal, func(av value.Value) {
					a, ok := av.(*value.Array)
					if !ok {
						raiseErr(ctx, k, value.ErrBadArgs, "$apply arguments must be an array", "args", av)
						return
					}
					Call(ctx, callee, a.Elems(), k)
				})
			})
		})
		return true
	case "$dynamicGet":
		if len(elems) != 2 {
			raiseErr(ctx, k, value.ErrBadArgs, "$dynamicGet takes exactly one argument", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(dv value.Value) {
			h, ok := DynamicOf(dv)
			if !ok {
				raiseErr(ctx, k, value.ErrBadArgs, "$dynamicGet argument is not a dynamic variable", "args", dv)
				return
			}
			k(ctx.Dyn.Get(h))
		})
		return true
	case "$dynamicLet":
		if len(elems) != 4 {
			raiseErr(ctx, k, value.ErrBadArgs, "$dynamicLet takes exactly three arguments", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(dv value.Value) {
			h, ok := DynamicOf(dv)
			if !ok {
				raiseErr(ctx, k, value.ErrBadArgs, "$dynamicLet first argument is not a dynamic variable", "args", dv)
				return
			}
			Eval(ctx, elems[2], func(v value.Value) {
				Eval(ctx.withDyn(ctx.Dyn.Push(h, v)), elems[3], k)
			})
		})
		return true
	case "$contextGet":
		if len(elems) != 3 {
			raiseErr(ctx, k, value.ErrBadArgs, "$contextGet takes exactly two arguments", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(cv value.Value) {
			cs, ok := cv.(value.String)
			if !ok {
				raiseErr(ctx, k, value.ErrBadArgs, "$contextGet context must be a string", "args", cv)
				return
			}
			Eval(ctx, elems[2], func(nv value.Value) {
				ns, ok := nv.(value.String)
				if !ok {
					raiseErr(ctx, k, value.ErrBadArgs, "$contextGet name must be a string", "args", nv)
					return
				}
				v, ok := ctx.Scope.Lookup(Context(cs), string(ns))
				if !ok {
					raiseErr(ctx, k, value.ErrNoBinding, "no such binding in context", "context", string(cs), "name", string(ns))
					return
				}
				value.Force(v, k)
			})
		})
		return true
	case "$junction":
		evalJunction(ctx, elems[1:], k)
		return true
	case "$eval":
		if len(elems) != 2 {
			raiseErr(ctx, k, value.ErrBadArgs, "$eval takes exactly one argument", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(code value.Value) { Eval(ctx, code, k) })
		return true
	case "$macroexpand":
		if len(elems) != 2 {
			raiseErr(ctx, k, value.ErrBadArgs, "$macroexpand takes exactly one argument", "args", len(elems)-1)
			return true
		}
		Eval(ctx, elems[1], func(code value.Value) { Expand(ctx, code, k) })
		return true
	case "$arrayMake":
		evalArrayMake(ctx, elems, k)
		return true
	case "$objectMake":
		evalObjectMake(ctx, elems, k)
		return true
	case "$syntaxQuote", "$unquote", "$unquoteSplicing":
		raiseErr(ctx, k, value.ErrNoPrimitive, "form is only meaningful inside a syntax-quote", "name", head)
		return true
	default:
		return false
	}
}

func evalClosureForm(ctx *Ctx, elems []value.Value, k func(value.Value)) {
	if len(elems) != 4 {
		raiseErr(ctx, k, value.ErrBadArgs, "$closure takes exactly three arguments", "args", len(elems)-1)
		return
	}
	defsVal, bodyVal, fieldsVal := elems[1], elems[2], elems[3]
	defsObj, ok := defsVal.(*value.Object)
	if !ok {
		value.Force(defsVal, func(v value.Value) {
			o, ok := v.(*value.Object)
			if !ok {
				raiseErr(ctx, k, value.ErrBadArgs, "$closure definitions must be an object", "args", v)
				return
			}
			finishClosureForm(ctx, o, bodyVal, fieldsVal, k)
		})
		return
	}
	finishClosureForm(ctx, defsObj, bodyVal, fieldsVal, k)
}

func finishClosureForm(ctx *Ctx, defs *value.Object, bodyVal, fieldsVal value.Value, k func(value.Value)) {
	newScope, pending, assembleErr := Assemble(ctx, defs, nil)
	if assembleErr != nil {
		Raise(ctx, assembleErr, k)
		return
	}

	// bodyVal already went through the macro-expander (Expand, see
	// expandClosureLiteral) before Eval ever sees this form — except in the
	// `pending` case, where expansion was deliberately deferred to
	// instantiation time and bodyVal is still raw source.
	Eval(ctx, fieldsVal, func(fv value.Value) {
		var fields *value.Object
		if fo, ok := fv.(*value.Object); ok {
			fields = fo
		}
		k(NewUserClosure(newScope, bodyVal, pending, fields, currentName(ctx)))
	})
}

func currentName(ctx *Ctx) string {
	if ctx.Root == nil || ctx.Root.Name == nil {
		return ""
	}
	v := ctx.Dyn.Get(ctx.Root.Name)
	if s, ok := v.(value.String); ok {
		return string(s)
	}
	return ""
}

func evalJunction(ctx *Ctx, exprs []value.Value, k func(value.Value)) {
	if len(exprs) == 0 {
		raiseErr(ctx, k, value.ErrBadArgs, "$junction requires at least one expression")
		return
	}
	j, peers := NewJunction(ctx.Branch, len(exprs))
	for i, expr := range exprs {
		i, expr := i, expr
		peerCtx := ctx.withBranch(peers[i])
		go Eval(peerCtx, expr, func(v value.Value) { j.Win(i, v) })
	}
	value.Force(j.Fiber(), k)
}

func evalArrayMake(ctx *Ctx, elems []value.Value, k func(value.Value)) {
	if len(elems) != 3 {
		raiseErr(ctx, k, value.ErrBadArgs, "$arrayMake takes exactly two arguments", "args", len(elems)-1)
		return
	}
	Eval(ctx, elems[1], func(fn value.Value) {
		Eval(ctx, elems[2], func(lenVal value.Value) {
			n, ok := lenVal.(value.Number)
			if !ok {
				raiseErr(ctx, k, value.ErrBadArgs, "$arrayMake length must be a number", "args", lenVal)
				return
			}
			length := int(n)
			if length < 0 {
				raiseErr(ctx, k, value.ErrBadArgs, "$arrayMake length must be non-negative", "args", lenVal)
				return
			}
			slots := make([]value.Value, length)
			for i := 0; i < length; i++ {
				i := i
				f := ctx.Branch.NewFiber()
				slots[i] = f
				go Call(ctx, fn, []value.Value{value.Number(i)}, f.Resolve)
			}
			k(value.NewArray(slots))
		})
	})
}

func evalObjectMake(ctx *Ctx, elems []value.Value, k func(value.Value)) {
	if len(elems) != 3 {
		raiseErr(ctx, k, value.ErrBadArgs, "$objectMake takes exactly two arguments", "args", len(elems)-1)
		return
	}
	Eval(ctx, elems[1], func(fn value.Value) {
		Eval(ctx, elems[2], func(keysVal value.Value) {
			value.Force(keysVal, func(kv value.Value) {
				keysArr, ok := kv.(*value.Array)
				if !ok {
					raiseErr(ctx, k, value.ErrBadArgs, "$objectMake keys must be an array", "args", kv)
					return
				}
				keyElems := keysArr.Elems()
				b := value.NewBuilder(len(keyElems))
				var step func(i int)
				step = func(i int) {
					if i >= len(keyElems) {
						k(b.Build())
						return
					}
					value.Force(keyElems[i], func(key value.Value) {
						ks, ok := key.(value.String)
						if !ok {
							raiseErr(ctx, k, value.ErrBadArgs, "$objectMake key must be a string", "args", key)
							return
						}
						f := ctx.Branch.NewFiber()
						go Call(ctx, fn, []value.Value{ks}, f.Resolve)
						value.Force(f, func(v value.Value) {
							b.Set(string(ks), v)
							step(i + 1)
						})
					})
				}
				step(0)
			})
		})
	})
}

func evalCall(ctx *Ctx, elems []value.Value, k func(value.Value)) {
	fibers := make([]value.Value, len(elems))
	for i, e := range elems {
		i, e := i, e
		f := ctx.Branch.NewFiber()
		fibers[i] = f
		go Eval(ctx, e, f.Resolve)
	}
	Call(ctx, fibers[0], fibers[1:], k)
}
