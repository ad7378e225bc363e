package creator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/errors"
)

// Instance is a value of a synthesized type: the base value plus the
// instance's own attributes.
type Instance struct {
	typ   *Type
	value any
	attrs map[string]any
}

func (in *Instance) Type() *Type { return in.typ }

// Value returns the base value.
func (in *Instance) Value() any { return in.value }

// Attr returns the instance attribute name, falling back to the static
// attribute of the same name.
func (in *Instance) Attr(name string) (any, bool) {
	if v, ok := in.attrs[name]; ok {
		return v, true
	}
	return in.typ.Static(name)
}

// SetAttr sets an instance attribute. It shadows a static attribute of the
// same name for this instance only.
func (in *Instance) SetAttr(name string, v any) {
	in.attrs[name] = v
}

// DelAttr removes an instance attribute; a static attribute of the same name
// becomes visible again.
func (in *Instance) DelAttr(name string) {
	delete(in.attrs, name)
}

// Attrs returns a shallow copy of the instance attributes.
func (in *Instance) Attrs() map[string]any {
	return maps.Clone(in.attrs)
}

// AttrNames returns the sorted names of the instance attributes.
func (in *Instance) AttrNames() []string {
	return slices.Sorted(maps.Keys(in.attrs))
}

func (in *Instance) String() string {
	return fmt.Sprintf("%s(%v)", in.typ.name, in.value)
}

// ValueAs returns the base value of in as V.
func ValueAs[V any](in *Instance) (V, error) {
	v, ok := in.value.(V)
	if !ok {
		var zero V
		return zero, errorc.With(
			errors.ErrValueType,
			errorc.String(errors.ErrorFieldTypeName, in.typ.name),
			errorc.String(errors.ErrorFieldWantType, fmt.Sprintf("%T", zero)),
			errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", in.value)),
		)
	}
	return v, nil
}

// AttrAs returns the attribute name of in as V.
func AttrAs[V any](in *Instance, name string) (V, error) {
	var zero V
	raw, ok := in.Attr(name)
	if !ok {
		return zero, errorc.With(
			errors.ErrAttrNotFound,
			errorc.String(errors.ErrorFieldTypeName, in.typ.name),
			errorc.String(errors.ErrorFieldAttrName, name),
		)
	}
	v, ok := raw.(V)
	if !ok {
		return zero, errorc.With(
			errors.ErrAttrType,
			errorc.String(errors.ErrorFieldAttrName, name),
			errorc.String(errors.ErrorFieldWantType, fmt.Sprintf("%T", zero)),
			errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", raw)),
		)
	}
	return v, nil
}

// DeepCopy returns an independent copy of in: the base value and every
// instance attribute are copied, including instances held in slices, maps
// and exported struct fields. An instance reachable twice is copied once.
func (in *Instance) DeepCopy() (*Instance, error) {
	return newGraphCopier().instance(in)
}

// View returns an instance of the same type whose value is the view [i, j)
// of in's value. Attributes follow the type's ViewPolicy.
func (in *Instance) View(i, j int) (*Instance, error) {
	vw, ok := rootBase(in.typ.base).(Viewer)
	if !ok {
		return nil, errorc.With(
			errors.ErrViewUnsupported,
			errorc.String(errors.ErrorFieldTypeName, in.typ.name),
			errorc.String(errors.ErrorFieldBaseName, in.typ.base.BaseName()),
		)
	}
	v, err := vw.View(in.value, i, j)
	if err != nil {
		return nil, err
	}

	out := &Instance{typ: in.typ, value: v, attrs: make(map[string]any, len(in.attrs))}
	switch in.typ.views {
	case ViewReinit:
		if err := in.typ.reinit(out); err != nil {
			return nil, err
		}
	default:
		c := newGraphCopier()
		c.instances[in] = out
		if err := c.attrs(in.attrs, out.attrs); err != nil {
			return nil, err
		}
	}
	return out, nil
}
