package creator

import (
	"fmt"
	"reflect"

	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/errors"
	"github.com/gaoruize321/creator/internal/attrtag"
)

// Record is the compile-time counterpart of Create for a struct type T whose
// fields declare their attributes with attr tags:
//
//	type Individual struct {
//		Weights  []float64      `attr:"static=[1, -1]"`    // same value for every record
//		Genes    []float64      `attr:"factory"`           // fresh empty slice per record
//		Strategy *Float64Array  `attr:"factory=strategy"`  // named producer per record
//		Fitness  *Instance      `attr:"type=FitnessMax"`   // new instance of a synthesized type
//		Stats    Stats          `attr:"record"`            // nested record
//	}
//
// Producers play the role of Attrs.Factories; type fields are built like
// Of(type) in the record's namespace.
type Record[T any] struct {
	plan      *attrtag.Plan
	producers map[string]Factory
	ns        *Namespace
}

// RecordOption configures a Record.
type RecordOption func(*recordConfig)

type recordConfig struct {
	producers map[string]Factory
	ns        *Namespace
}

// WithProducer registers the producer used by attr:"factory=<name>" fields.
func WithProducer(name string, f Factory) RecordOption {
	return func(c *recordConfig) {
		if f != nil {
			c.producers[name] = f
		}
	}
}

// InNamespace resolves attr:"type=<name>" fields in ns instead of Default.
func InNamespace(ns *Namespace) RecordOption {
	return func(c *recordConfig) {
		if ns != nil {
			c.ns = ns
		}
	}
}

// NewRecord returns a Record for T. T must be a struct type, its attr tags
// must parse, and every producer they name must be registered.
func NewRecord[T any](opts ...RecordOption) (*Record[T], error) {
	cfg := recordConfig{producers: make(map[string]Factory), ns: Default}
	for _, opt := range opts {
		opt(&cfg)
	}

	plan, err := attrtag.For(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	if err := checkPlan(plan, cfg.producers); err != nil {
		return nil, err
	}
	return &Record[T]{plan: plan, producers: cfg.producers, ns: cfg.ns}, nil
}

func checkPlan(p *attrtag.Plan, producers map[string]Factory) error {
	for _, f := range p.Fields {
		switch f.Kind {
		case attrtag.Producer:
			if _, ok := producers[f.Arg]; !ok {
				return errorc.With(
					errors.ErrProducerNotFound,
					errorc.String(errors.ErrorFieldRecordType, p.Type.String()),
					errorc.String(errors.ErrorFieldFieldName, f.Name),
					errorc.String(errors.ErrorFieldProducer, f.Arg),
				)
			}
		case attrtag.Instance:
			if !instancePtrType.AssignableTo(f.Type) {
				return errorc.With(
					errors.ErrRecordTag,
					errorc.String(errors.ErrorFieldRecordType, p.Type.String()),
					errorc.String(errors.ErrorFieldFieldName, f.Name),
					errorc.String(errors.ErrorFieldWantType, instancePtrType.String()),
					errorc.String(errors.ErrorFieldGotType, f.Type.String()),
				)
			}
		case attrtag.Nested:
			if err := checkPlan(f.Plan, producers); err != nil {
				return err
			}
		}
	}
	return nil
}

// New allocates a T and fills in its attributes.
func (r *Record[T]) New() (*T, error) {
	obj := new(T)
	if err := r.Apply(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Apply fills in the zero attribute fields of obj. Fields already set are
// left untouched, so Apply is safe to call more than once. Errors from
// producers and from type construction are returned unchanged.
func (r *Record[T]) Apply(obj *T) error {
	if obj == nil {
		return errors.ErrNilObject
	}
	return r.apply(reflect.ValueOf(obj).Elem(), r.plan)
}

func (r *Record[T]) apply(v reflect.Value, p *attrtag.Plan) error {
	for _, f := range p.Fields {
		fv := v.Field(f.Index)

		if f.Kind == attrtag.Nested {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					fv.Set(reflect.New(f.Type.Elem()))
				}
				fv = fv.Elem()
			}
			if err := r.apply(fv, f.Plan); err != nil {
				return err
			}
			continue
		}
		if !fv.IsZero() {
			continue
		}

		switch f.Kind {
		case attrtag.Static:
			fv.Set(f.Static())
		case attrtag.Alloc:
			fv.Set(f.Alloc())
		case attrtag.Producer:
			out, err := r.producers[f.Arg]()
			if err != nil {
				return err
			}
			if err := setProduced(fv, f, out); err != nil {
				return err
			}
		case attrtag.Instance:
			in, err := r.ns.New(f.Arg)
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(in))
		}
	}
	return nil
}

func setProduced(fv reflect.Value, f attrtag.Field, out any) error {
	if out == nil {
		return nil
	}
	rv := reflect.ValueOf(out)
	if !rv.Type().AssignableTo(f.Type) {
		return errorc.With(
			errors.ErrAttrType,
			errorc.String(errors.ErrorFieldFieldName, f.Name),
			errorc.String(errors.ErrorFieldProducer, f.Arg),
			errorc.String(errors.ErrorFieldWantType, f.Type.String()),
			errorc.String(errors.ErrorFieldGotType, fmt.Sprintf("%T", out)),
		)
	}
	fv.Set(rv)
	return nil
}

// Clone returns a deep copy of obj. Instances held by obj are copied the
// same way DeepCopy copies them.
func (r *Record[T]) Clone(obj *T) (*T, error) {
	if obj == nil {
		return nil, errors.ErrNilObject
	}
	c, err := newGraphCopier().value(obj)
	if err != nil {
		return nil, err
	}
	return c.(*T), nil
}
