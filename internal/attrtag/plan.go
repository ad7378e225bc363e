// Package attrtag reads the attr struct tags that declare the attributes of a
// record type.
//
//	attr:"static=<yaml>"   same value for every record, decoded from YAML
//	attr:"factory"         fresh empty slice, map or pointee per record
//	attr:"factory=<name>"  value produced by a named producer per record
//	attr:"type=<name>"     new instance of a synthesized type per record
//	attr:"record"          nested record (struct or *struct)
//	attr:"-"               ignored
package attrtag

import (
	"reflect"
	"strings"
	"sync"

	"github.com/ygrebnov/errorc"
	"gopkg.in/yaml.v3"

	"github.com/gaoruize321/creator/constants"
	"github.com/gaoruize321/creator/errors"
)

// Kind of attribute a tagged field declares.
type Kind int

const (
	Static Kind = iota + 1
	Alloc
	Producer
	Instance
	Nested
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Alloc:
		return "alloc"
	case Producer:
		return "producer"
	case Instance:
		return "instance"
	case Nested:
		return "record"
	default:
		return "unknown"
	}
}

// Field is one tagged field of a record struct.
type Field struct {
	Index int
	Name  string
	Type  reflect.Type
	Kind  Kind
	// Arg is the YAML literal, the producer name or the type name.
	Arg string
	// Plan of a Nested field; its Type is the struct type, even when the
	// field is a pointer.
	Plan *Plan

	static reflect.Value
}

// Plan lists the tagged fields of a struct type in declaration order.
type Plan struct {
	Type   reflect.Type
	Fields []Field
}

type cached struct {
	plan *Plan
	err  error
}

var plans sync.Map // map[reflect.Type]cached

// For returns the plan of struct type t. Plans, and tag errors, are cached
// per type.
func For(t reflect.Type) (*Plan, error) {
	if v, ok := plans.Load(t); ok {
		c := v.(cached)
		return c.plan, c.err
	}
	p, err := build(t, make(map[reflect.Type]bool))
	plans.Store(t, cached{plan: p, err: err})
	return p, err
}

func build(t reflect.Type, building map[reflect.Type]bool) (*Plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, errorc.With(errors.ErrNotStruct, errorc.String(errors.ErrorFieldRecordType, t.String()))
	}
	if building[t] {
		return nil, tagError(t, "", "", "recursive record")
	}
	building[t] = true
	defer delete(building, t)

	p := &Plan{Type: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(constants.TagAttr)
		if !ok || tag == constants.DirectiveSkip {
			continue
		}
		if !sf.IsExported() {
			return nil, tagError(t, sf.Name, tag, "unexported field")
		}
		f, err := parseField(t, sf, tag, building)
		if err != nil {
			return nil, err
		}
		f.Index = i
		p.Fields = append(p.Fields, f)
	}
	return p, nil
}

func parseField(owner reflect.Type, sf reflect.StructField, tag string, building map[reflect.Type]bool) (Field, error) {
	directive, arg, hasArg := strings.Cut(tag, "=")
	f := Field{Name: sf.Name, Type: sf.Type, Arg: arg}

	switch directive {
	case constants.DirectiveStatic:
		v, err := decodeStatic(sf.Type, arg)
		if err != nil {
			return Field{}, tagError(owner, sf.Name, tag, "static literal: "+err.Error())
		}
		f.Kind, f.static = Static, v
	case constants.DirectiveFactory:
		if hasArg {
			if arg == "" {
				return Field{}, tagError(owner, sf.Name, tag, "empty producer name")
			}
			f.Kind = Producer
			break
		}
		switch sf.Type.Kind() {
		case reflect.Slice, reflect.Map, reflect.Pointer:
		default:
			return Field{}, tagError(owner, sf.Name, tag, "factory needs a slice, map or pointer field")
		}
		f.Kind = Alloc
	case constants.DirectiveType:
		if arg == "" {
			return Field{}, tagError(owner, sf.Name, tag, "empty type name")
		}
		f.Kind = Instance
	case constants.DirectiveRecord:
		st := sf.Type
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		if st.Kind() != reflect.Struct {
			return Field{}, tagError(owner, sf.Name, tag, "record needs a struct or *struct field")
		}
		sub, err := build(st, building)
		if err != nil {
			return Field{}, err
		}
		f.Kind, f.Plan = Nested, sub
	default:
		return Field{}, tagError(owner, sf.Name, tag, "unknown directive")
	}
	return f, nil
}

// decodeStatic decodes a YAML literal into a new value of type t.
func decodeStatic(t reflect.Type, lit string) (reflect.Value, error) {
	v := reflect.New(t)
	if err := yaml.Unmarshal([]byte(lit), v.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return v.Elem(), nil
}

// Static returns the value of a Static field. Values of reference kinds are
// decoded again so that records never share them.
func (f Field) Static() reflect.Value {
	switch f.Type.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		if v, err := decodeStatic(f.Type, f.Arg); err == nil {
			return v
		}
	}
	return f.static
}

// Alloc returns a fresh empty value for an Alloc field.
func (f Field) Alloc() reflect.Value {
	switch f.Type.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(f.Type, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(f.Type)
	default:
		return reflect.New(f.Type.Elem())
	}
}

func tagError(owner reflect.Type, field, tag, reason string) error {
	return errorc.With(
		errors.ErrRecordTag,
		errorc.String(errors.ErrorFieldRecordType, owner.String()),
		errorc.String(errors.ErrorFieldFieldName, field),
		errorc.String(errors.ErrorFieldValue, tag),
		errorc.String(errors.ErrorFieldCause, reason),
	)
}
