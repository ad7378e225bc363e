package creator

import (
	"reflect"
	"sync"

	clone "github.com/huandu/go-clone"
)

var instancePtrType = reflect.TypeOf((*Instance)(nil))

// cloner deep-copies values that cannot reach an instance. Types are shared
// between an instance and its copy, never cloned.
var cloner = newCloner()

func newCloner() *clone.Allocator {
	a := clone.NewAllocator(nil, nil)
	a.MarkAsOpaquePointer(reflect.TypeOf((*Type)(nil)))
	return a
}

// graphCopier copies one value graph. Every instance in the graph is copied
// once, so shared references and cycles between instances are preserved.
type graphCopier struct {
	instances map[*Instance]*Instance
	pointers  map[pointerKey]reflect.Value
}

type pointerKey struct {
	p uintptr
	t reflect.Type
}

func newGraphCopier() *graphCopier {
	return &graphCopier{
		instances: make(map[*Instance]*Instance),
		pointers:  make(map[pointerKey]reflect.Value),
	}
}

func (c *graphCopier) instance(in *Instance) (*Instance, error) {
	if in == nil {
		return nil, nil
	}
	if out, ok := c.instances[in]; ok {
		return out, nil
	}
	out := &Instance{typ: in.typ, attrs: make(map[string]any, len(in.attrs))}
	c.instances[in] = out

	v, err := c.baseValue(in.typ.base, in.value)
	if err != nil {
		return nil, err
	}
	out.value = v

	if err := c.attrs(in.attrs, out.attrs); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *graphCopier) attrs(src, dst map[string]any) error {
	for name, v := range src {
		cv, err := c.value(v)
		if err != nil {
			return err
		}
		dst[name] = cv
	}
	return nil
}

// baseValue copies a base value with the base's Copier when it has one.
func (c *graphCopier) baseValue(base Base, v any) (any, error) {
	if cp, ok := rootBase(base).(Copier); ok {
		return cp.CopyValue(v)
	}
	return c.value(v)
}

func (c *graphCopier) value(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv, err := c.reflectValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

// reflectValue walks the containers that may hold instances and hands
// everything else to cloner. Unexported struct fields are cloned as a whole.
func (c *graphCopier) reflectValue(rv reflect.Value) (reflect.Value, error) {
	t := rv.Type()
	if t == instancePtrType {
		in, err := c.instance(rv.Interface().(*Instance))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(in), nil
	}
	if !mayHoldInstance(t) {
		return cloner.CloneSlowly(rv), nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		out := reflect.New(t).Elem()
		if rv.IsNil() {
			return out, nil
		}
		inner, err := c.reflectValue(rv.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Set(inner)
		return out, nil

	case reflect.Pointer:
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}
		key := pointerKey{p: rv.Pointer(), t: t}
		if out, ok := c.pointers[key]; ok {
			return out, nil
		}
		out := reflect.New(t.Elem())
		c.pointers[key] = out
		inner, err := c.reflectValue(rv.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Elem().Set(inner)
		return out, nil

	case reflect.Slice:
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		if err := c.elems(rv, out); err != nil {
			return reflect.Value{}, err
		}
		return out, nil

	case reflect.Array:
		out := reflect.New(t).Elem()
		if err := c.elems(rv, out); err != nil {
			return reflect.Value{}, err
		}
		return out, nil

	case reflect.Map:
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := c.reflectValue(iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key(), ev)
		}
		return out, nil

	case reflect.Struct:
		out := cloner.CloneSlowly(rv)
		if !out.CanSet() {
			cp := reflect.New(t).Elem()
			cp.Set(out)
			out = cp
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || !mayHoldInstance(f.Type) {
				continue
			}
			fv, err := c.reflectValue(rv.Field(i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(i).Set(fv)
		}
		return out, nil
	}
	return cloner.CloneSlowly(rv), nil
}

func (c *graphCopier) elems(src, dst reflect.Value) error {
	for i := 0; i < src.Len(); i++ {
		ev, err := c.reflectValue(src.Index(i))
		if err != nil {
			return err
		}
		dst.Index(i).Set(ev)
	}
	return nil
}

var holdsInstance sync.Map // map[reflect.Type]bool

// mayHoldInstance reports whether a value of type t can reach an *Instance
// through interfaces, pointers, containers or exported struct fields.
func mayHoldInstance(t reflect.Type) bool {
	if v, ok := holdsInstance.Load(t); ok {
		return v.(bool)
	}
	held := typeHoldsInstance(t, make(map[reflect.Type]bool))
	holdsInstance.Store(t, held)
	return held
}

func typeHoldsInstance(t reflect.Type, visiting map[reflect.Type]bool) bool {
	if t == instancePtrType {
		return true
	}
	if visiting[t] {
		return false
	}
	visiting[t] = true

	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		return typeHoldsInstance(t.Elem(), visiting)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.IsExported() && typeHoldsInstance(f.Type, visiting) {
				return true
			}
		}
	}
	return false
}
