package eval

import "github.com/jaspr-lang/jaspr/value"

// Call implements call dispatch. callee and each element of args
// may be Values or Deferreds/Fibers; Call forces whatever it needs to
// inspect, in dispatch-priority order, and eventually delivers
// exactly one Value to k (or never calls k, if the computation is
// cancelled — see Raise).
func Call(ctx *Ctx, callee value.Value, args []value.Value, k func(value.Value)) {
	value.Force(callee, func(cv value.Value) {
		switch t := cv.(type) {
		case *value.Object:
			if cl, ok := t.Magic().(*Closure); ok {
				callClosure(ctx, cl, args, k)
				return
			}
			if len(t.Keys()) == 0 {
				buildObjectFromArgs(ctx, args, k)
				return
			}
			raiseErr(ctx, k, value.ErrNotCallable, "object is not a closure and not callable", "callee", t)
		case *value.Array:
			if len(t.Elems()) == 0 {
				buildObjectFromArgs(ctx, args, k)
				return
			}
			raiseErr(ctx, k, value.ErrNotCallable, "non-empty array is not callable", "callee", t)
		case value.Number:
			callIndex(ctx, t, args, k)
		case value.String:
			callKey(ctx, t, args, k)
		default:
			raiseErr(ctx, k, value.ErrNotCallable, "value is not callable", "callee", cv)
		}
	})
}

func callIndex(ctx *Ctx, n value.Number, args []value.Value, k func(value.Value)) {
	if len(args) != 1 {
		raiseErr(ctx, k, value.ErrBadArgs, "numeric index takes exactly one argument", "args", len(args))
		return
	}
	value.Force(args[0], func(av value.Value) {
		arr, ok := av.(*value.Array)
		if !ok {
			raiseErr(ctx, k, value.ErrNotCallable, "numeric index target is not an array", "callee", n, "in", av)
			return
		}
		v, ok := arr.Index(int(n))
		if !ok {
			raiseErr(ctx, k, value.ErrNoKey, "index out of range", "key", n, "in", arr)
			return
		}
		k(v)
	})
}

func callKey(ctx *Ctx, s value.String, args []value.Value, k func(value.Value)) {
	if len(args) != 1 {
		raiseErr(ctx, k, value.ErrBadArgs, "string key takes exactly one argument", "args", len(args))
		return
	}
	value.Force(args[0], func(ov value.Value) {
		obj, ok := ov.(*value.Object)
		if !ok {
			raiseErr(ctx, k, value.ErrNotCallable, "string key target is not an object", "callee", s, "in", ov)
			return
		}
		v, ok := obj.Get(string(s))
		if !ok {
			raiseErr(ctx, k, value.ErrNoKey, "no such key", "key", s, "in", obj)
			return
		}
		k(v)
	})
}

// buildObjectFromArgs implements the empty-array/empty-object construction
// rule: args is a flat key/value sequence, odd length or a
// non-string key is BadArgs.
func buildObjectFromArgs(ctx *Ctx, args []value.Value, k func(value.Value)) {
	if len(args)%2 != 0 {
		raiseErr(ctx, k, value.ErrBadArgs, "object constructor requires an even number of arguments", "args", len(args))
		return
	}
	b := value.NewBuilder(len(args) / 2)
	var step func(i int)
	step = func(i int) {
		if i >= len(args) {
			k(b.Build())
			return
		}
		value.Force(args[i], func(kv value.Value) {
			ks, ok := kv.(value.String)
			if !ok {
				raiseErr(ctx, k, value.ErrBadArgs, "object constructor key must be a string", "key", kv)
				return
			}
			value.Force(args[i+1], func(v value.Value) {
				b.Set(string(ks), v)
				step(i + 2)
			})
		})
	}
	step(0)
}

func callClosure(ctx *Ctx, cl *Closure, args []value.Value, k func(value.Value)) {
	switch cl.kind {
	case closureNativeSync:
		resolveAll(args, func(resolved []value.Value) {
			v, errObj := cl.sync(ctx.Branch, resolved)
			if errObj != nil {
				Raise(ctx, wrapContext(errObj, cl.Name()), k)
				return
			}
			k(v)
		})
	case closureNativeAsync:
		resolveAll(args, func(resolved []value.Value) {
			cl.async(ctx.Branch, resolved, func(v value.Value, errObj *value.Object) {
				if errObj != nil {
					Raise(ctx, wrapContext(errObj, cl.Name()), k)
					return
				}
				k(v)
			})
		})
	case closureUser:
		argsArr := value.NewArray(args)
		newScope := cl.scope.Extend()
		newScope.Define(CtxValue, "$args", argsArr)
		bodyCtx := &Ctx{Scope: newScope, Args: argsArr, Dyn: ctx.Dyn, Branch: ctx.Branch, Root: ctx.Root}
		if cl.pending {
			Expand(bodyCtx, cl.body, func(expanded value.Value) {
				Eval(bodyCtx, expanded, k)
			})
			return
		}
		Eval(bodyCtx, cl.body, k)
	}
}

// wrapContext annotates a native error with the name of the closure that
// raised it, unless the native implementation already set one.
func wrapContext(err *value.Object, fn string) *value.Object {
	if _, ok := err.Get("fn"); ok {
		return err
	}
	b := value.NewBuilder(len(err.Keys()) + 1)
	for _, key := range err.Keys() {
		v, _ := err.Get(key)
		b.Set(key, v)
	}
	b.Set("fn", value.String(fn))
	return b.Build()
}

// resolveAll forces every element of args, in order, then delivers the
// fully-resolved slice to k. Native functions always receive resolved
// arguments.
func resolveAll(args []value.Value, k func([]value.Value)) {
	resolved := make([]value.Value, len(args))
	var step func(i int)
	step = func(i int) {
		if i >= len(args) {
			k(resolved)
			return
		}
		value.Force(args[i], func(v value.Value) {
			resolved[i] = v
			step(i + 1)
		})
	}
	step(0)
}
