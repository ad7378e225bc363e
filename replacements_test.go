package creator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReplacements_builtin(t *testing.T) {
	if got := Replacements.Lookup(NDArray); got != numericArrayReplacement {
		t.Fatalf("NDArray -> %s", got.BaseName())
	}
	if got := Replacements.Lookup(Array); got != typedArrayReplacement {
		t.Fatalf("Array -> %s", got.BaseName())
	}
	if got := Replacements.Lookup(List); got != List {
		t.Fatalf("unregistered bases must map to themselves, got %s", got.BaseName())
	}
}

func TestReplacementRegistry(t *testing.T) {
	r := NewReplacementRegistry()
	r.Register(List, Dict)
	r.Register(Object, List)
	r.Register(List, Object)

	want := []Replacement{
		{Base: List, Replacement: Object},
		{Base: Object, Replacement: List},
	}
	if diff := cmp.Diff(want, r.Entries(), cmp.Comparer(func(a, b Base) bool { return a == b })); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	r.Delete(List)
	r.Delete(Dict)
	if r.Len() != 1 || r.Lookup(List) != List {
		t.Fatalf("Delete did not remove List: len=%d", r.Len())
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on nil replacement")
		}
	}()
	r.Register(List, nil)
}

// sliceBase is a base whose dynamic type cannot be a map key.
type sliceBase []int

func (sliceBase) BaseName() string { return "slice" }
func (b sliceBase) Zero() any      { return []int(b) }

func TestReplacementRegistry_notComparable(t *testing.T) {
	r := NewReplacementRegistry()
	r.Register(List, Dict)

	b := sliceBase{1, 2}
	if got := r.Lookup(b); fmt.Sprint(got) != fmt.Sprint(b) {
		t.Fatalf("Lookup = %v; want the base itself", got)
	}
	r.Delete(b)
	if r.Len() != 1 {
		t.Fatalf("Delete of an unknown base changed the registry")
	}

	defer func() {
		msg := fmt.Sprint(recover())
		if !strings.Contains(msg, "not comparable") {
			t.Fatalf("expected a panic explaining the base is not comparable, got %q", msg)
		}
	}()
	r.Register(b, List)
}

func TestNamespace_Create_notComparableBase(t *testing.T) {
	ns := NewNamespace()
	ns.Create("S", sliceBase{1, 2}, Attrs{Static: map[string]any{"k": 1}})

	s, ok := ns.Lookup("S")
	if !ok {
		t.Fatalf("S not registered")
	}
	if !s.IsA(sliceBase{1, 2}) || s.IsA(sliceBase{3}) || s.IsA(List) {
		t.Fatalf("IsA mismatch for a non-comparable base")
	}
	in, err := s.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, in.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}
