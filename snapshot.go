package creator

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ygrebnov/errorc"
	"gopkg.in/yaml.v3"

	"github.com/gaoruize321/creator/errors"
)

// Snapshot is enough to rebuild an instance: the registered type name, the
// base constructor arguments and the instance attributes. Attributes holding
// instances are snapshotted recursively in Nested, and attributes holding
// arrays in Arrays.
type Snapshot struct {
	Type   string                    `json:"type" yaml:"type"`
	Args   []any                     `json:"args,omitempty" yaml:"args,omitempty"`
	Attrs  map[string]any            `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Nested map[string]*Snapshot      `json:"nested,omitempty" yaml:"nested,omitempty"`
	Arrays map[string]*ArraySnapshot `json:"arrays,omitempty" yaml:"arrays,omitempty"`
}

// ArraySnapshot holds a *TypedArray or, when Typecode is empty, a
// *Float64Array.
type ArraySnapshot struct {
	Typecode string `json:"typecode,omitempty" yaml:"typecode,omitempty"`
	Values   []any  `json:"values" yaml:"values"`
}

// Reduce snapshots in. The base must implement Reducer.
func (in *Instance) Reduce() (*Snapshot, error) {
	r, ok := rootBase(in.typ.base).(Reducer)
	if !ok {
		return nil, errorc.With(
			errors.ErrReduceUnsupported,
			errorc.String(errors.ErrorFieldTypeName, in.typ.name),
			errorc.String(errors.ErrorFieldBaseName, in.typ.base.BaseName()),
		)
	}
	args, err := r.Reduce(in.value)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{Type: in.typ.name, Args: args}
	for name, v := range in.attrs {
		switch av := v.(type) {
		case *Instance:
			ns, err := av.Reduce()
			if err != nil {
				return nil, err
			}
			if s.Nested == nil {
				s.Nested = make(map[string]*Snapshot)
			}
			s.Nested[name] = ns
		case *TypedArray:
			s.addArray(name, &ArraySnapshot{Typecode: av.code.String(), Values: av.Values()})
		case *Float64Array:
			values := make([]any, len(av.data))
			for i, f := range av.data {
				values[i] = f
			}
			s.addArray(name, &ArraySnapshot{Values: values})
		default:
			if err := checkEncodable(reflect.ValueOf(v)); err != nil {
				return nil, errorc.With(
					errors.ErrReduceUnsupported,
					errorc.String(errors.ErrorFieldTypeName, in.typ.name),
					errorc.String(errors.ErrorFieldAttrName, name),
					errorc.String(errors.ErrorFieldGotType, err.Error()),
				)
			}
			if s.Attrs == nil {
				s.Attrs = make(map[string]any)
			}
			s.Attrs[name] = v
		}
	}
	return s, nil
}

func (s *Snapshot) addArray(name string, a *ArraySnapshot) {
	if s.Arrays == nil {
		s.Arrays = make(map[string]*ArraySnapshot)
	}
	s.Arrays[name] = a
}

// checkEncodable rejects values the codecs would encode without their
// state: instances and arrays below the top level, structs with unexported
// fields, funcs and channels. The error text names the offending type.
func checkEncodable(v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	switch v.Interface().(type) {
	case *Instance, *TypedArray, *Float64Array:
		return fmt.Errorf("%s", v.Type())
	}
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return fmt.Errorf("%s", v.Type())
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return checkEncodable(v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkEncodable(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkEncodable(iter.Value()); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				return fmt.Errorf("%s", t)
			}
			if err := checkEncodable(v.Field(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Restore rebuilds an instance from s. The type is looked up by name, built
// with s.Args, and its instance attributes are then replaced by the
// snapshotted ones.
func (ns *Namespace) Restore(s *Snapshot) (*Instance, error) {
	if s == nil || s.Type == "" {
		return nil, errors.ErrInvalidSnapshot
	}
	inst, err := ns.New(s.Type, s.Args...)
	if err != nil {
		return nil, err
	}
	for name, v := range s.Attrs {
		inst.attrs[name] = v
	}
	for name, a := range s.Arrays {
		v, err := a.restore()
		if err != nil {
			return nil, errorc.With(err, errorc.String(errors.ErrorFieldAttrName, name))
		}
		inst.attrs[name] = v
	}
	for name, sub := range s.Nested {
		sv, err := ns.Restore(sub)
		if err != nil {
			return nil, errorc.With(err, errorc.String(errors.ErrorFieldAttrName, name))
		}
		inst.attrs[name] = sv
	}
	return inst, nil
}

func (a *ArraySnapshot) restore() (any, error) {
	if a == nil {
		return nil, errors.ErrInvalidSnapshot
	}
	if a.Typecode != "" {
		code, err := ParseTypecode(a.Typecode)
		if err != nil {
			return nil, err
		}
		return NewTypedArray(code, a.Values)
	}
	data := make([]float64, len(a.Values))
	for i, v := range a.Values {
		f, ok := toFloat64(v)
		if !ok {
			return nil, errorc.With(
				errors.ErrInvalidSnapshot,
				errorc.String(errors.ErrorFieldIndex, fmt.Sprint(i)),
				errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", v)),
			)
		}
		data[i] = f
	}
	return &Float64Array{data: data}, nil
}

// EncodeYAML reduces in and encodes the snapshot as YAML.
func EncodeYAML(in *Instance) ([]byte, error) {
	s, err := in.Reduce()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(s)
}

// DecodeYAML decodes a YAML snapshot and restores it in ns.
func (ns *Namespace) DecodeYAML(data []byte) (*Instance, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errorc.With(errors.ErrInvalidSnapshot, errorc.Error(errors.ErrorFieldCause, err))
	}
	return ns.Restore(&s)
}

// EncodeJSON reduces in and encodes the snapshot as JSON.
func EncodeJSON(in *Instance) ([]byte, error) {
	s, err := in.Reduce()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot of %s: %w", in.typ.name, err)
	}
	return b, nil
}

// DecodeJSON decodes a JSON snapshot and restores it in ns.
func (ns *Namespace) DecodeJSON(data []byte) (*Instance, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errorc.With(errors.ErrInvalidSnapshot, errorc.Error(errors.ErrorFieldCause, err))
	}
	return ns.Restore(&s)
}

// Restore rebuilds an instance in the Default namespace.
func Restore(s *Snapshot) (*Instance, error) { return Default.Restore(s) }
