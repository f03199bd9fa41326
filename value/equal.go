package value

// Is implements the `is?` identity/equality primitive: strict
// identity for magic objects, and strict, recursive, type-exact equality for
// pure JSON values. Both operands must already be fully forced (no
// *Deferred slots at the top level); Is does not await.
func Is(x, y Value) bool {
	switch x := x.(type) {
	case Null:
		_, ok := y.(Null)
		return ok
	case Bool:
		yb, ok := y.(Bool)
		return ok && x == yb
	case Number:
		yn, ok := y.(Number)
		return ok && x == yn
	case String:
		ys, ok := y.(String)
		return ok && x == ys
	case *Array:
		ya, ok := y.(*Array)
		if !ok || x.Len() != ya.Len() {
			return false
		}
		for i, xe := range x.elems {
			if !Is(forced(xe), forced(ya.elems[i])) {
				return false
			}
		}
		return true
	case *Object:
		yo, ok := y.(*Object)
		if !ok {
			return false
		}
		if x.Magic() != nil || yo.Magic() != nil {
			// Magic objects compare by identity, not structure.
			return x == yo
		}
		if x.Len() != yo.Len() {
			return false
		}
		for _, k := range x.keys {
			xv, _ := x.Get(k)
			yv, ok := yo.Get(k)
			if !ok || !Is(forced(xv), forced(yv)) {
				return false
			}
		}
		return true
	case *Deferred:
		// Two Deferreds are the same value only if they are the same cell;
		// resolved Deferreds should be unwrapped by the caller before Is is
		// reached, but guard here rather than panic on a stray one.
		return x == y
	default:
		return x == y
	}
}

// forced returns v unwrapped one level if it happens to already be a
// resolved awaiter (a *Deferred, or a type embedding one, such as a Fiber),
// without blocking; Is is only ever called from contexts (the evaluator)
// that have already forced their operands, so this is a defensive
// convenience, not the suspension mechanism itself (see value.Force for
// that).
func forced(v Value) Value {
	if d, ok := v.(awaiter); ok {
		if rv, ok := d.Resolved(); ok {
			return forced(rv)
		}
	}
	return v
}
