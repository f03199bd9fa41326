package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ToJSON forces v (which must not contain any unresolved awaiter — callers
// evaluate to completion first) into a plain Go value suitable for
// encoding/json: map[string]any, []any, float64, string, bool, or nil. A
// resolved awaiter (a *Deferred, or a type embedding one, such as a Fiber)
// anywhere in the tree, including at the root, is transparently unwrapped.
// ToJSON fails if and only if the tree contains a magic object.
func ToJSON(v Value) (any, error) {
	switch v := forced(v).(type) {
	case Null:
		return nil, nil
	case Bool:
		return bool(v), nil
	case Number:
		return float64(v), nil
	case String:
		return string(v), nil
	case *Array:
		out := make([]any, v.Len())
		for i, e := range v.elems {
			jv, err := ToJSON(forced(e))
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	case *Object:
		if v.Magic() != nil {
			return nil, fmt.Errorf("value: cannot serialize magic object of kind %s to JSON", v.Magic().MagicKind())
		}
		out := make(map[string]any, v.Len())
		for _, k := range v.keys {
			fv, _ := v.Get(k)
			jv, err := ToJSON(forced(fv))
			if err != nil {
				return nil, err
			}
			out[k] = jv
		}
		return out, nil
	case *Deferred:
		return nil, fmt.Errorf("value: cannot serialize unresolved deferred to JSON")
	default:
		if _, ok := v.(awaiter); ok {
			return nil, fmt.Errorf("value: cannot serialize unresolved %s to JSON", v.Kind())
		}
		return nil, fmt.Errorf("value: cannot serialize %s to JSON", v.Kind())
	}
}

// MarshalJSON renders v as a JSON document, failing with the same rule as
// ToJSON. Object keys are emitted in the value's own stable iteration order
// rather than Go's default sorted-key behavior, since callers may rely on
// that order for human-readable output (doc/test dumps, REPL front-ends).
func MarshalJSON(v Value) ([]byte, error) {
	jv, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return marshalOrdered(v, jv)
}

// marshalOrdered re-walks v alongside its already-converted plain-Go form so
// it can emit objects using v's key order instead of encoding/json's
// alphabetical default.
func marshalOrdered(v Value, jv any) ([]byte, error) {
	switch v := forced(v).(type) {
	case *Object:
		var buf []byte
		buf = append(buf, '{')
		for i, k := range v.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			fv, _ := v.Get(k)
			vb, err := marshalOrdered(forced(fv), nil)
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	case *Array:
		var buf []byte
		buf = append(buf, '[')
		for i, e := range v.elems {
			if i > 0 {
				buf = append(buf, ',')
			}
			eb, err := marshalOrdered(forced(e), nil)
			if err != nil {
				return nil, err
			}
			buf = append(buf, eb...)
		}
		buf = append(buf, ']')
		return buf, nil
	default:
		leaf, err := ToJSON(v)
		if err != nil {
			return nil, err
		}
		return json.Marshal(leaf)
	}
}

// FromJSON converts a plain Go value decoded by encoding/json (map[string]any
// with map iteration reordered deterministically, []any, float64, string,
// bool, nil) into a Value tree. Since encoding/json does not preserve
// source key order, object keys are sorted; a caller that needs the
// original document order should decode with json.Decoder/Token directly.
func FromJSON(v any) Value {
	switch v := v.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = FromJSON(e)
		}
		return NewArray(elems)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := NewBuilder(len(keys))
		for _, k := range keys {
			b.Set(k, FromJSON(v[k]))
		}
		return b.Build()
	default:
		panic(fmt.Sprintf("value: FromJSON: unexpected %T", v))
	}
}
