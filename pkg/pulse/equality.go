package pulse

import "reflect"

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
// The two-result assertions matter when T is an interface type: the dynamic
// types of a and b may differ, which is simply inequality.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int8:
		bv, ok := any(b).(int8)
		return ok && av == bv
	case int16:
		bv, ok := any(b).(int16)
		return ok && av == bv
	case int32:
		bv, ok := any(b).(int32)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint:
		bv, ok := any(b).(uint)
		return ok && av == bv
	case uint8:
		bv, ok := any(b).(uint8)
		return ok && av == bv
	case uint16:
		bv, ok := any(b).(uint16)
		return ok && av == bv
	case uint32:
		bv, ok := any(b).(uint32)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float32:
		bv, ok := any(b).(float32)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}

// castValue converts a type-erased value back to T, mapping nil to the
// zero value (a plain assertion panics on nil even when T is an interface).
func castValue[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// anyEquals is defaultEquals over type-erased values.
func anyEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return defaultEquals(a, b)
}
