package creator

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	creatorerrors "github.com/gaoruize321/creator/errors"
)

func TestPartition(t *testing.T) {
	boom := errors.New("boom")
	attrs, err := Partition(map[string]any{
		"spam":    1,
		"name":    "ind",
		"weights": []float64{1, -1},
		"nothing": nil,
		"bar":     Dict,
		"any":     func() any { return 7 },
		"pair":    func() (any, error) { return nil, boom },
		"typed":   func() []int { return []int{} },
		"checked": func() (string, error) { return "ok", nil },
		"factory": Factory(func() (any, error) { return 1, nil }),
	})
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	static := slices.Sorted(maps.Keys(attrs.Static))
	if diff := cmp.Diff([]string{"name", "nothing", "spam", "weights"}, static); diff != "" {
		t.Fatalf("static mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name    string
		want    any
		wantErr error
	}{
		{name: "bar", want: DictValue{}},
		{name: "any", want: 7},
		{name: "pair", wantErr: boom},
		{name: "typed", want: []int{}},
		{name: "checked", want: "ok"},
		{name: "factory", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := attrs.Factories[tt.name]
			if !ok {
				t.Fatalf("%s is not a factory", tt.name)
			}
			got, err := f()
			if err != tt.wantErr {
				t.Fatalf("err = %v; want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartition_rejects(t *testing.T) {
	tests := map[string]any{
		"needs args":   func(int) int { return 0 },
		"no results":   func() {},
		"two results":  func() (int, int) { return 0, 0 },
		"variadic arg": func(...int) int { return 0 },
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Partition(map[string]any{"f": v})
			if !errors.Is(err, creatorerrors.ErrFactorySignature) {
				t.Fatalf("expected ErrFactorySignature, got %v", err)
			}
		})
	}
}

func TestOf_type(t *testing.T) {
	ns := NewNamespace()
	ns.Create("Fitness", Object, Attrs{Factories: map[string]Factory{
		"values": Func(func() []float64 { return []float64{} }),
	}})
	fitness, _ := ns.Lookup("Fitness")

	f := Of(fitness)
	a, err := f()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	b, _ := f()
	ia, ok := a.(*Instance)
	if !ok {
		t.Fatalf("factory of a type must produce an instance, got %T", a)
	}
	if ia == b.(*Instance) {
		t.Fatalf("factory returned the same instance twice")
	}
	if ia.Type() != fitness {
		t.Fatalf("instance of %s; want Fitness", ia.Type().Name())
	}
}

func TestViewPolicy_String(t *testing.T) {
	if ViewInherit.String() != "inherit" || ViewReinit.String() != "reinit" || ViewPolicy(9).String() != "unknown" {
		t.Fatalf("unexpected names")
	}
}

