package creator

import (
	"maps"
	"slices"
)

// Type is a synthesized composite type: a base extended with static
// attributes and per-instance factories. A Type is immutable once created.
type Type struct {
	name      string
	base      Base
	static    map[string]any
	factories map[string]Factory
	views     ViewPolicy
}

func newType(name string, base Base, attrs Attrs) *Type {
	t := &Type{
		name:      name,
		base:      base,
		static:    maps.Clone(attrs.Static),
		factories: maps.Clone(attrs.Factories),
		views:     attrs.Views,
	}
	if t.static == nil {
		t.static = make(map[string]any)
	}
	if t.factories == nil {
		t.factories = make(map[string]Factory)
	}
	for name, f := range t.factories {
		if f == nil {
			panic("creator: nil factory for attribute " + name)
		}
	}
	return t
}

func (t *Type) Name() string { return t.name }

// Base returns the base the type extends, after replacement.
func (t *Type) Base() Base { return t.base }

// Views returns the view policy of the type.
func (t *Type) Views() ViewPolicy { return t.views }

// BaseName makes *Type usable as the base of another synthesized type.
func (t *Type) BaseName() string { return t.name }

// Zero returns the base value of an instance built with no arguments. Zero
// cannot report errors: it returns nil when construction fails, and callers
// that need the error use Init.
func (t *Type) Zero() any {
	v, err := t.Init(t)
	if err != nil {
		return nil
	}
	return v
}

// Static returns the static attribute name, searching up the chain of
// synthesized bases.
func (t *Type) Static(name string) (any, bool) {
	for cur := t; cur != nil; {
		if v, ok := cur.static[name]; ok {
			return v, true
		}
		next, ok := cur.base.(*Type)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// StaticNames returns the sorted names of the type's own static attributes.
func (t *Type) StaticNames() []string {
	return slices.Sorted(maps.Keys(t.static))
}

// FactoryNames returns the sorted names of the type's own factories.
func (t *Type) FactoryNames() []string {
	return slices.Sorted(maps.Keys(t.factories))
}

// IsA reports whether t derives from base. A type created from a replaced
// base also derives from the base that was replaced.
func (t *Type) IsA(base Base) bool {
	return t.isA(base, Replacements)
}

func (t *Type) isA(base Base, repl *ReplacementRegistry) bool {
	if base == nil {
		return false
	}
	var b Base = t
	for {
		if sameBase(b, base) || (repl != nil && sameBase(repl.Lookup(base), b)) {
			return true
		}
		next, ok := b.(*Type)
		if !ok {
			return false
		}
		b = next.base
	}
}

// New constructs an instance. Every factory is invoked with no arguments and
// its result stored as an instance attribute; args are then forwarded to the
// base initializer, or ignored when the base has none. Errors from factories
// and from the base are returned unchanged.
//
// When the base is itself a synthesized type, its initializer runs after
// t's factories, so an ancestor factory overwrites a descendant factory of
// the same name.
func (t *Type) New(args ...any) (*Instance, error) {
	inst := &Instance{typ: t, attrs: make(map[string]any, len(t.factories))}
	v, err := t.initInstance(inst, args)
	if err != nil {
		return nil, err
	}
	inst.value = v
	return inst, nil
}

// Init builds the base value of a new instance of t. Instance attributes
// produced on the way are discarded.
func (t *Type) Init(_ *Type, args ...any) (any, error) {
	inst, err := t.New(args...)
	if err != nil {
		return nil, err
	}
	return inst.value, nil
}

// initInstance runs t's factories, then delegates to the base.
func (t *Type) initInstance(inst *Instance, args []any) (any, error) {
	if err := t.runFactories(inst); err != nil {
		return nil, err
	}
	if parent, ok := t.base.(*Type); ok {
		return parent.initInstance(inst, args)
	}
	if ini, ok := t.base.(Initializer); ok {
		return ini.Init(inst.typ, args...)
	}
	return t.base.Zero(), nil
}

func (t *Type) runFactories(inst *Instance) error {
	for _, name := range t.FactoryNames() {
		v, err := t.factories[name]()
		if err != nil {
			return err
		}
		inst.attrs[name] = v
	}
	return nil
}

// reinit runs the factories of t and its synthesized bases, in the order New
// runs them, without touching the base value.
func (t *Type) reinit(inst *Instance) error {
	for cur := t; ; {
		if err := cur.runFactories(inst); err != nil {
			return err
		}
		next, ok := cur.base.(*Type)
		if !ok {
			return nil
		}
		cur = next
	}
}

// construct builds a base value with no arguments.
func construct(t *Type, base Base) (any, error) {
	if ini, ok := base.(Initializer); ok {
		return ini.Init(t)
	}
	return base.Zero(), nil
}
