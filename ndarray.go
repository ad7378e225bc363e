package creator

import (
	"fmt"
	"slices"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/errors"
)

// Float64Array is a one-dimensional numeric array. Views created with View
// share storage with the array they were derived from.
type Float64Array struct {
	data []float64
}

func NewFloat64Array(values ...float64) *Float64Array {
	return &Float64Array{data: slices.Clone(values)}
}

func (a *Float64Array) Len() int { return len(a.data) }

func (a *Float64Array) At(i int) (float64, error) {
	if i < 0 || i >= len(a.data) {
		return 0, indexError(i)
	}
	return a.data[i], nil
}

func (a *Float64Array) Set(i int, f float64) error {
	if i < 0 || i >= len(a.data) {
		return indexError(i)
	}
	a.data[i] = f
	return nil
}

// Values returns a copy of the elements.
func (a *Float64Array) Values() []float64 { return slices.Clone(a.data) }

// View returns the elements [i, j) without copying them.
func (a *Float64Array) View(i, j int) (*Float64Array, error) {
	if i < 0 || j > len(a.data) || i > j {
		return nil, errorc.With(
			errors.ErrIndexOutOfRange,
			errorc.String(errors.ErrorFieldIndex, fmt.Sprintf("[%d:%d] of %d", i, j, len(a.data))),
		)
	}
	return &Float64Array{data: a.data[i:j:j]}, nil
}

func (a *Float64Array) String() string { return fmt.Sprint(a.data) }

// NDArray is the raw numeric-array base: its initializer takes a length and
// yields zeros, and a generic deep copy drops its elements. Create
// substitutes a replacement built from any numeric sequence.
var NDArray Base = rawNDArrayBase{}

type rawNDArrayBase struct{}

func (rawNDArrayBase) BaseName() string { return "ndarray" }
func (rawNDArrayBase) Zero() any        { return &Float64Array{data: []float64{}} }

func (b rawNDArrayBase) Init(_ *Type, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
			errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%d arguments", len(args))),
		)
	}
	n, ok := toInt64(args[0])
	if !ok || n < 0 {
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
			errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%v", args[0])),
		)
	}
	return &Float64Array{data: make([]float64, n)}, nil
}

type numericArrayBase struct{}

var numericArrayReplacement Base = numericArrayBase{}

func (numericArrayBase) BaseName() string { return "creator.ndarray" }
func (numericArrayBase) Zero() any        { return &Float64Array{data: []float64{}} }

func (b numericArrayBase) Init(_ *Type, args ...any) (any, error) {
	switch len(args) {
	case 0:
		return b.Zero(), nil
	case 1:
	default:
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
			errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%d arguments", len(args))),
		)
	}
	if fs, ok := args[0].([]float64); ok {
		return NewFloat64Array(fs...), nil
	}
	items, err := toSlice(args[0])
	if err != nil {
		return nil, errorc.With(err, errorc.String(errors.ErrorFieldBaseName, b.BaseName()))
	}
	data := make([]float64, len(items))
	for i, it := range items {
		f, ok := toFloat64(it)
		if !ok {
			return nil, errorc.With(
				errors.ErrBaseArgs,
				errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
				errorc.String(errors.ErrorFieldIndex, fmt.Sprint(i)),
				errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", it)),
			)
		}
		data[i] = f
	}
	return &Float64Array{data: data}, nil
}

func (numericArrayBase) CopyValue(v any) (any, error) {
	a, ok := v.(*Float64Array)
	if !ok {
		return nil, valueTypeError("creator.ndarray", a, v)
	}
	return NewFloat64Array(a.data...), nil
}

func (numericArrayBase) View(v any, i, j int) (any, error) {
	a, ok := v.(*Float64Array)
	if !ok {
		return nil, valueTypeError("creator.ndarray", a, v)
	}
	return a.View(i, j)
}

func (numericArrayBase) Reduce(v any) ([]any, error) {
	a, ok := v.(*Float64Array)
	if !ok {
		return nil, valueTypeError("creator.ndarray", a, v)
	}
	out := make([]any, len(a.data))
	for i, f := range a.data {
		out[i] = f
	}
	return []any{out}, nil
}
