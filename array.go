package creator

import (
	"fmt"
	"math"
	"slices"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/constants"
	"github.com/gaoruize321/creator/errors"
)

// Typecode identifies the element type of a TypedArray.
type Typecode byte

const (
	TypecodeInt8    Typecode = 'b'
	TypecodeUint8   Typecode = 'B'
	TypecodeInt16   Typecode = 'h'
	TypecodeUint16  Typecode = 'H'
	TypecodeInt32   Typecode = 'i'
	TypecodeUint32  Typecode = 'I'
	TypecodeLong    Typecode = 'l'
	TypecodeULong   Typecode = 'L'
	TypecodeInt64   Typecode = 'q'
	TypecodeUint64  Typecode = 'Q'
	TypecodeFloat32 Typecode = 'f'
	TypecodeFloat64 Typecode = 'd'
)

func (c Typecode) String() string { return string(rune(c)) }

type elemKind int

const (
	kindSigned elemKind = iota
	kindUnsigned
	kindFloat
)

type typecodeInfo struct {
	kind elemKind
	bits int
}

var typecodes = map[Typecode]typecodeInfo{
	TypecodeInt8:    {kindSigned, 8},
	TypecodeUint8:   {kindUnsigned, 8},
	TypecodeInt16:   {kindSigned, 16},
	TypecodeUint16:  {kindUnsigned, 16},
	TypecodeInt32:   {kindSigned, 32},
	TypecodeUint32:  {kindUnsigned, 32},
	TypecodeLong:    {kindSigned, 64},
	TypecodeULong:   {kindUnsigned, 64},
	TypecodeInt64:   {kindSigned, 64},
	TypecodeUint64:  {kindUnsigned, 64},
	TypecodeFloat32: {kindFloat, 32},
	TypecodeFloat64: {kindFloat, 64},
}

// ParseTypecode accepts a Typecode, a byte, a rune or a one-character string.
func ParseTypecode(v any) (Typecode, error) {
	var c Typecode
	switch tc := v.(type) {
	case Typecode:
		c = tc
	case byte:
		c = Typecode(tc)
	case rune:
		if tc > math.MaxUint8 {
			return 0, typecodeError(fmt.Sprint(tc))
		}
		c = Typecode(tc)
	case string:
		if len(tc) != 1 {
			return 0, typecodeError(tc)
		}
		c = Typecode(tc[0])
	default:
		return 0, typecodeError(fmt.Sprintf("%v", v))
	}
	if _, ok := typecodes[c]; !ok {
		return 0, typecodeError(c.String())
	}
	return c, nil
}

func typecodeError(got string) error {
	return errorc.With(errors.ErrTypecodeUnsupported, errorc.String(errors.ErrorFieldTypecode, got))
}

// TypedArray is a compact sequence of numbers of a single typecode.
// Signed elements are held as int64, unsigned as uint64 and floats as
// float64; float32 elements are rounded on the way in.
type TypedArray struct {
	code Typecode
	data []any
}

// NewTypedArray builds an array of typecode code from seq.
func NewTypedArray(code Typecode, seq any) (*TypedArray, error) {
	if _, ok := typecodes[code]; !ok {
		return nil, typecodeError(code.String())
	}
	items, err := toSlice(seq)
	if err != nil {
		return nil, err
	}
	a := &TypedArray{code: code, data: make([]any, 0, len(items))}
	if err := a.Append(items...); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *TypedArray) Typecode() Typecode { return a.code }

func (a *TypedArray) Len() int { return len(a.data) }

func (a *TypedArray) At(i int) (any, error) {
	if i < 0 || i >= len(a.data) {
		return nil, indexError(i)
	}
	return a.data[i], nil
}

func (a *TypedArray) Set(i int, v any) error {
	if i < 0 || i >= len(a.data) {
		return indexError(i)
	}
	nv, err := a.normalize(v)
	if err != nil {
		return err
	}
	a.data[i] = nv
	return nil
}

// Append adds vs in order. Nothing is appended if any value does not fit.
func (a *TypedArray) Append(vs ...any) error {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		nv, err := a.normalize(v)
		if err != nil {
			return err
		}
		out = append(out, nv)
	}
	a.data = append(a.data, out...)
	return nil
}

// Values returns a copy of the elements.
func (a *TypedArray) Values() []any { return slices.Clone(a.data) }

// Float64s returns the elements converted to float64.
func (a *TypedArray) Float64s() []float64 {
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i], _ = toFloat64(v)
	}
	return out
}

func (a *TypedArray) String() string {
	return fmt.Sprintf("array(%q, %v)", a.code.String(), a.data)
}

func (a *TypedArray) clone() *TypedArray {
	return &TypedArray{code: a.code, data: slices.Clone(a.data)}
}

func (a *TypedArray) normalize(v any) (any, error) {
	info := typecodes[a.code]
	switch info.kind {
	case kindSigned:
		i, ok := toInt64(v)
		if ok && info.bits < 64 {
			lim := int64(1) << (info.bits - 1)
			ok = i >= -lim && i < lim
		}
		if !ok {
			return nil, rangeError(a.code, v)
		}
		return i, nil
	case kindUnsigned:
		u, ok := toUint64(v)
		if ok && info.bits < 64 {
			ok = u < uint64(1)<<info.bits
		}
		if !ok {
			return nil, rangeError(a.code, v)
		}
		return u, nil
	default:
		f, ok := toFloat64(v)
		if !ok {
			return nil, rangeError(a.code, v)
		}
		if info.bits == 32 {
			f = float64(float32(f))
		}
		return f, nil
	}
}

func rangeError(code Typecode, v any) error {
	return errorc.With(
		errors.ErrValueOutOfRange,
		errorc.String(errors.ErrorFieldTypecode, code.String()),
		errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%v (%T)", v, v)),
	)
}

func indexError(i int) error {
	return errorc.With(errors.ErrIndexOutOfRange, errorc.String(errors.ErrorFieldIndex, fmt.Sprint(i)))
}

// Array is the raw typed-array base. Its initializer needs the typecode as
// first argument, and its elements are not visible to a generic deep copy;
// Create substitutes a replacement that fixes both.
var Array Base = rawArrayBase{}

type rawArrayBase struct{}

func (rawArrayBase) BaseName() string { return "array" }
func (rawArrayBase) Zero() any        { return nil }

func (b rawArrayBase) Init(_ *Type, args ...any) (any, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
			errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%d arguments", len(args))),
		)
	}
	code, err := ParseTypecode(args[0])
	if err != nil {
		return nil, err
	}
	var seq any
	if len(args) == 2 {
		seq = args[1]
	}
	return NewTypedArray(code, seq)
}

// typedArrayBase builds arrays from a sequence alone, using the typecode
// declared as the static attribute "typecode" of the synthesized type.
type typedArrayBase struct{}

var typedArrayReplacement Base = typedArrayBase{}

func (typedArrayBase) BaseName() string { return "creator.array" }
func (typedArrayBase) Zero() any        { return nil }

func (b typedArrayBase) Init(t *Type, args ...any) (any, error) {
	if len(args) > 1 {
		return nil, errorc.With(
			errors.ErrBaseArgs,
			errorc.String(errors.ErrorFieldBaseName, b.BaseName()),
			errorc.String(errors.ErrorFieldValue, fmt.Sprintf("%d arguments", len(args))),
		)
	}
	var raw any
	ok := false
	if t != nil {
		raw, ok = t.Static(constants.AttrTypecode)
	}
	if !ok {
		name := ""
		if t != nil {
			name = t.Name()
		}
		return nil, errorc.With(
			errors.ErrTypecodeMissing,
			errorc.String(errors.ErrorFieldTypeName, name),
			errorc.String(errors.ErrorFieldAttrName, constants.AttrTypecode),
		)
	}
	code, err := ParseTypecode(raw)
	if err != nil {
		return nil, err
	}
	var seq any
	if len(args) == 1 {
		seq = args[0]
	}
	return NewTypedArray(code, seq)
}

func (typedArrayBase) CopyValue(v any) (any, error) {
	a, ok := v.(*TypedArray)
	if !ok {
		return nil, valueTypeError("creator.array", a, v)
	}
	return a.clone(), nil
}

func (typedArrayBase) Reduce(v any) ([]any, error) {
	a, ok := v.(*TypedArray)
	if !ok {
		return nil, valueTypeError("creator.array", a, v)
	}
	return []any{a.Values()}, nil
}
