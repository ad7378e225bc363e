package creator

import (
	"reflect"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/errors"
)

// Factory produces a fresh instance attribute value. It is invoked once per
// instance construction.
type Factory func() (any, error)

// ViewPolicy selects how instance attributes flow into a view derived with
// Instance.View.
type ViewPolicy int

const (
	// ViewInherit deep-copies the parent's instance attributes into the view.
	ViewInherit ViewPolicy = iota
	// ViewReinit runs the type's factories again for every view.
	ViewReinit
)

func (p ViewPolicy) String() string {
	switch p {
	case ViewInherit:
		return "inherit"
	case ViewReinit:
		return "reinit"
	default:
		return "unknown"
	}
}

// Attrs declares the attributes of a synthesized type.
type Attrs struct {
	// Static values live on the type and are shared by every instance until
	// an instance sets its own attribute of the same name.
	Static map[string]any
	// Factories produce one value per instance.
	Factories map[string]Factory
	Views     ViewPolicy
}

// Func adapts a typed producer to a Factory.
func Func[V any](fn func() V) Factory {
	if fn == nil {
		return nil
	}
	return func() (any, error) { return fn(), nil }
}

// Of returns a Factory that constructs a new value of base with no arguments.
// For a *Type the produced value is a new *Instance.
func Of(base Base) Factory {
	if base == nil {
		return nil
	}
	return func() (any, error) {
		if t, ok := base.(*Type); ok {
			return t.New()
		}
		return construct(nil, base)
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Partition splits kv into static attributes and factories: a value is a
// factory when it can be called with no arguments. Bases (including
// synthesized types) are callable and produce a new value of themselves.
// Functions that need arguments are rejected.
func Partition(kv map[string]any) (Attrs, error) {
	attrs := Attrs{
		Static:    make(map[string]any),
		Factories: make(map[string]Factory),
	}
	for name, v := range kv {
		f, callable, err := asFactory(v)
		if err != nil {
			return Attrs{}, errorc.With(
				err,
				errorc.String(errors.ErrorFieldAttrName, name),
			)
		}
		if callable {
			attrs.Factories[name] = f
			continue
		}
		attrs.Static[name] = v
	}
	return attrs, nil
}

func asFactory(v any) (Factory, bool, error) {
	switch fn := v.(type) {
	case nil:
		return nil, false, nil
	case Factory:
		return fn, fn != nil, nil
	case func() (any, error):
		return fn, fn != nil, nil
	case func() any:
		return Func(fn), fn != nil, nil
	case Base:
		return Of(fn), true, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return nil, false, nil
	}
	if rv.IsNil() {
		return nil, false, nil
	}
	ft := rv.Type()
	if ft.NumIn() != 0 {
		return nil, false, errorc.With(
			errors.ErrFactorySignature,
			errorc.String(errors.ErrorFieldGotType, ft.String()),
		)
	}
	switch {
	case ft.NumOut() == 1:
		return func() (any, error) {
			return rv.Call(nil)[0].Interface(), nil
		}, true, nil
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		return func() (any, error) {
			out := rv.Call(nil)
			if errv := out[1]; !errv.IsNil() {
				return nil, errv.Interface().(error)
			}
			return out[0].Interface(), nil
		}, true, nil
	default:
		return nil, false, errorc.With(
			errors.ErrFactorySignature,
			errorc.String(errors.ErrorFieldGotType, ft.String()),
		)
	}
}
