package creator

import (
	"fmt"
	"maps"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/errors"
)

// Built-in bases.
var (
	// Object has no initializer: constructor arguments are ignored.
	Object Base = objectBase{}
	// List values are *ListValue, built from an optional sequence.
	List Base = listBase{}
	// Dict values are DictValue, built from an optional map.
	Dict Base = dictBase{}
)

// ObjectValue is the value of an Object instance.
type ObjectValue struct{}

type objectBase struct{}

func (objectBase) BaseName() string { return "object" }
func (objectBase) Zero() any        { return ObjectValue{} }

// ListValue is an ordered sequence of arbitrary values.
type ListValue struct {
	Items []any
}

func (l *ListValue) Len() int { return len(l.Items) }

func (l *ListValue) Append(vs ...any) { l.Items = append(l.Items, vs...) }

func (l *ListValue) String() string { return fmt.Sprint(l.Items) }

type listBase struct{}

func (listBase) BaseName() string { return "list" }
func (listBase) Zero() any        { return &ListValue{Items: []any{}} }

func (b listBase) Init(_ *Type, args ...any) (any, error) {
	switch len(args) {
	case 0:
		return b.Zero(), nil
	case 1:
		items, err := toSlice(args[0])
		if err != nil {
			return nil, errorc.With(err, errorc.String(errors.ErrorFieldBaseName, b.BaseName()))
		}
		return &ListValue{Items: items}, nil
	default:
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
			errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%d arguments", len(args))),
		)
	}
}

func (listBase) Reduce(v any) ([]any, error) {
	l, ok := v.(*ListValue)
	if !ok {
		return nil, valueTypeError("list", l, v)
	}
	return []any{append([]any{}, l.Items...)}, nil
}

// DictValue maps names to arbitrary values.
type DictValue map[string]any

type dictBase struct{}

func (dictBase) BaseName() string { return "dict" }
func (dictBase) Zero() any        { return DictValue{} }

func (b dictBase) Init(_ *Type, args ...any) (any, error) {
	switch len(args) {
	case 0:
		return b.Zero(), nil
	case 1:
		switch m := args[0].(type) {
		case DictValue:
			return maps.Clone(m), nil
		case map[string]any:
			return DictValue(maps.Clone(m)), nil
		case nil:
			return b.Zero(), nil
		}
	}
	return nil, errorc.With(
		errors.ErrBaseArgs,
		errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
		errorc.String(errors.ErrorFieldValue, fmt.Sprint(args...)),
	)
}

func (dictBase) Reduce(v any) ([]any, error) {
	d, ok := v.(DictValue)
	if !ok {
		return nil, valueTypeError("dict", d, v)
	}
	return []any{map[string]any(maps.Clone(d))}, nil
}

func valueTypeError(base string, want, got any) error {
	return errorc.With(
		errors.ErrValueType,
		errorc.String(errors.ErrorFieldBaseName, base),
		errorc.String(errors.ErrorFieldWantType, fmt.Sprintf("%T", want)),
		errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", got)),
	)
}
