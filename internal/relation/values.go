package relation

import (
	"encoding/json"
	"fmt"
	"reflect"

	"mtkeras/internal/domain"
)

// normalize maps every numeric kind to float64, []byte to string and any
// slice or array to []any, recursively, so outputs from different oracles
// compare by value.
func normalize(v domain.Output) domain.Output {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x
	case []byte:
		return string(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func equal(a, b domain.Output) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func isNumber(v domain.Output) (float64, bool) {
	f, ok := normalize(v).(float64)
	return f, ok
}

func collection(v domain.Output) ([]any, bool) {
	c, ok := normalize(v).([]any)
	return c, ok
}

type set map[string]struct{}

func key(v any) string {
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func toSet(items []any) set {
	s := make(set, len(items))
	for _, it := range items {
		s[key(it)] = struct{}{}
	}
	return s
}

// setOf interprets output i as a set or reports why it cannot.
func setOf(rel string, i int, v domain.Output) (set, error) {
	c, ok := collection(v)
	if !ok {
		return nil, domain.OutputShapeError{Relation: rel, Index: i, Reason: fmt.Sprintf("%T is not a collection", v)}
	}
	return toSet(c), nil
}

func (s set) equals(o set) bool {
	return len(s) == len(o) && s.subsetOf(o)
}

func (s set) subsetOf(o set) bool {
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

func (s set) intersects(o set) bool {
	for k := range s {
		if _, ok := o[k]; ok {
			return true
		}
	}
	return false
}

func (s set) minus(o set) set {
	out := set{}
	for k := range s {
		if _, ok := o[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}
