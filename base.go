package creator

import "reflect"

// Base is a type that synthesized types extend. Bases should be comparable;
// a base that is not can still be extended but is never replaced.
//
// Zero returns the value of a fresh instance when the base has no initializer
// of its own. A base with a custom initializer also implements Initializer.
// Zero has no error return; a value that may fail to build belongs in Init.
type Base interface {
	BaseName() string
	Zero() any
}

// Initializer is a Base with its own initializer. Init receives the type being
// instantiated (so it can read static attributes) and the constructor
// arguments left over after instance factories have run.
type Initializer interface {
	Base
	Init(t *Type, args ...any) (any, error)
}

// Copier is implemented by bases whose values cannot be deep-copied
// generically.
type Copier interface {
	CopyValue(v any) (any, error)
}

// Viewer is implemented by bases whose values support derived views sharing
// storage with the parent, for positions [i, j).
type Viewer interface {
	View(v any, i, j int) (any, error)
}

// Reducer is implemented by bases whose values can be rebuilt from
// constructor arguments.
type Reducer interface {
	Reduce(v any) ([]any, error)
}

// rootBase follows a chain of synthesized types down to the first base that
// is not itself a *Type.
func rootBase(b Base) Base {
	for {
		t, ok := b.(*Type)
		if !ok {
			return b
		}
		b = t.base
	}
}

func comparableBase(b Base) bool {
	return b != nil && reflect.TypeOf(b).Comparable()
}

// sameBase compares bases by identity, and bases that are not comparable by
// deep equality.
func sameBase(a, b Base) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !comparableBase(a) {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
