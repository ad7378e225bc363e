package creator

import (
	"fmt"
	"math"
	"reflect"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/errors"
)

// toSlice flattens the sequence-like values accepted by base initializers.
func toSlice(seq any) ([]any, error) {
	switch s := seq.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return append([]any{}, s...), nil
	case *ListValue:
		return append([]any{}, s.Items...), nil
	case *TypedArray:
		return s.Values(), nil
	case *Float64Array:
		out := make([]any, s.Len())
		for i, f := range s.data {
			out[i] = f
		}
		return out, nil
	case *Instance:
		return toSlice(s.value)
	}

	rv := reflect.ValueOf(seq)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldWantType, "sequence"),
			errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", seq)),
		)
	}
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// toInt64 accepts integers and integral floats. Decoded JSON numbers are
// always float64.
func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

func toUint64(v any) (uint64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	default:
		return 0, false
	}
}
