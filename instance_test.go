package creator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	creatorerrors "github.com/gaoruize321/creator/errors"
)

func TestInstance_DeepCopy(t *testing.T) {
	ns := NewNamespace()
	ns.Create("Fitness", Object, Attrs{Factories: map[string]Factory{
		"values": Func(func() []float64 { return []float64{} }),
	}})
	fitness, _ := ns.Lookup("Fitness")
	ns.Create("Individual", List, Attrs{Factories: map[string]Factory{
		"fitness": Of(fitness),
	}})

	ind, err := ns.New("Individual", []int{1, 2, 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fit, _ := AttrAs[*Instance](ind, "fitness")
	fit.SetAttr("values", []float64{4.2})
	ind.SetAttr("born", 7)
	ind.SetAttr("twin", fit)

	c, err := ind.DeepCopy()
	if err != nil {
		t.Fatalf("DeepCopy: %v", err)
	}
	if c.Type() != ind.Type() {
		t.Fatalf("type changed by copy")
	}

	cl, _ := ValueAs[*ListValue](c)
	il, _ := ValueAs[*ListValue](ind)
	if cl == il {
		t.Fatalf("list value is shared")
	}
	if diff := cmp.Diff(il.Items, cl.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if v, _ := c.Attr("born"); v != 7 {
		t.Fatalf("attribute set after construction lost: %v", v)
	}

	cfit, _ := AttrAs[*Instance](c, "fitness")
	ctwin, _ := AttrAs[*Instance](c, "twin")
	if cfit == fit {
		t.Fatalf("nested instance is shared")
	}
	if cfit != ctwin {
		t.Fatalf("an instance reachable twice must be copied once")
	}
	values, _ := AttrAs[[]float64](cfit, "values")
	if diff := cmp.Diff([]float64{4.2}, values); diff != "" {
		t.Fatalf("nested values mismatch (-want +got):\n%s", diff)
	}

	values[0] = 0
	orig, _ := AttrAs[[]float64](fit, "values")
	if orig[0] != 4.2 {
		t.Fatalf("copy shares attribute storage with the original")
	}
}

func TestInstance_DeepCopy_cycle(t *testing.T) {
	ns := NewNamespace()
	ns.Create("Node", Object, Attrs{})
	a, _ := ns.New("Node")
	b, _ := ns.New("Node")
	a.SetAttr("next", b)
	b.SetAttr("next", a)

	c, err := a.DeepCopy()
	if err != nil {
		t.Fatalf("DeepCopy: %v", err)
	}
	next, _ := AttrAs[*Instance](c, "next")
	back, _ := AttrAs[*Instance](next, "next")
	if back != c {
		t.Fatalf("cycle not preserved in copy")
	}
}

func TestInstance_View(t *testing.T) {
	newNS := func(p ViewPolicy) *Namespace {
		ns := NewNamespace()
		ns.Create("Individual", NDArray, Attrs{
			Factories: map[string]Factory{"strategy": Func(func() []float64 { return []float64{1} })},
			Views:     p,
		})
		return ns
	}

	t.Run("inherit copies attributes and shares storage", func(t *testing.T) {
		ns := newNS(ViewInherit)
		in, err := ns.New("Individual", []float64{1, 2, 3, 4})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		in.SetAttr("strategy", []float64{0.5, 0.25})

		v, err := in.View(1, 3)
		if err != nil {
			t.Fatalf("View: %v", err)
		}
		s, _ := AttrAs[[]float64](v, "strategy")
		if diff := cmp.Diff([]float64{0.5, 0.25}, s); diff != "" {
			t.Fatalf("strategy mismatch (-want +got):\n%s", diff)
		}

		arr, _ := ValueAs[*Float64Array](v)
		if err := arr.Set(0, 20); err != nil {
			t.Fatalf("Set: %v", err)
		}
		parent, _ := ValueAs[*Float64Array](in)
		if diff := cmp.Diff([]float64{1, 20, 3, 4}, parent.Values()); diff != "" {
			t.Fatalf("view does not share storage (-want +got):\n%s", diff)
		}
	})

	t.Run("reinit runs factories again", func(t *testing.T) {
		ns := newNS(ViewReinit)
		in, _ := ns.New("Individual", []float64{1, 2, 3})
		in.SetAttr("strategy", []float64{9})
		in.SetAttr("extra", true)

		v, err := in.View(0, 2)
		if err != nil {
			t.Fatalf("View: %v", err)
		}
		s, _ := AttrAs[[]float64](v, "strategy")
		if diff := cmp.Diff([]float64{1}, s); diff != "" {
			t.Fatalf("strategy mismatch (-want +got):\n%s", diff)
		}
		if _, ok := v.Attr("extra"); ok {
			t.Fatalf("reinit view must not carry attributes set after construction")
		}
	})

	t.Run("bounds and unsupported bases", func(t *testing.T) {
		ns := newNS(ViewInherit)
		in, _ := ns.New("Individual", []float64{1})
		if _, err := in.View(0, 5); !errors.Is(err, creatorerrors.ErrIndexOutOfRange) {
			t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
		}

		ns.Create("L", List, Attrs{})
		l, _ := ns.New("L")
		if _, err := l.View(0, 0); !errors.Is(err, creatorerrors.ErrViewUnsupported) {
			t.Fatalf("expected ErrViewUnsupported, got %v", err)
		}
	})
}

func TestInstance_DeepCopy_arrayAttrs(t *testing.T) {
	ns := NewNamespace()
	ns.Create("Individual", NDArray, Attrs{Factories: map[string]Factory{
		"strategy": Func(func() *Float64Array { return NewFloat64Array(1, 2, 3) }),
	}})

	in, err := ns.New("Individual", []float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mask, err := NewTypedArray(TypecodeUint8, []int{1, 0, 1})
	if err != nil {
		t.Fatalf("NewTypedArray: %v", err)
	}
	in.SetAttr("mask", mask)

	c, err := in.DeepCopy()
	if err != nil {
		t.Fatalf("DeepCopy: %v", err)
	}

	s, err := AttrAs[*Float64Array](c, "strategy")
	if err != nil {
		t.Fatalf("AttrAs: %v", err)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, s.Values()); diff != "" {
		t.Fatalf("strategy mismatch (-want +got):\n%s", diff)
	}
	if err := s.Set(0, 7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	orig, _ := AttrAs[*Float64Array](in, "strategy")
	if v, _ := orig.At(0); v != 1 {
		t.Fatalf("copy shares the strategy with the original")
	}

	cm, err := AttrAs[*TypedArray](c, "mask")
	if err != nil {
		t.Fatalf("AttrAs: %v", err)
	}
	if cm.Typecode() != TypecodeUint8 {
		t.Fatalf("typecode = %v", cm.Typecode())
	}
	if diff := cmp.Diff([]any{uint64(1), uint64(0), uint64(1)}, cm.Values()); diff != "" {
		t.Fatalf("mask mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_DeepCopy_nestedContainers(t *testing.T) {
	ns := NewNamespace()
	ns.Create("Fitness", Object, Attrs{})
	ns.Create("Population", List, Attrs{})

	f, _ := ns.New("Fitness")
	f.SetAttr("values", []float64{1.5})
	g, _ := ns.New("Fitness")

	pop, err := ns.New("Population", []any{f, g})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pop.SetAttr("parents", []*Instance{f})
	pop.SetAttr("byName", DictValue{"best": f})
	pop.SetAttr("hall", map[string][]*Instance{"top": {g}})

	c, err := pop.DeepCopy()
	if err != nil {
		t.Fatalf("DeepCopy: %v", err)
	}

	items, _ := ValueAs[*ListValue](c)
	cf, ok := items.Items[0].(*Instance)
	if !ok || cf == f {
		t.Fatalf("list element not copied: %#v", items.Items[0])
	}
	if cf.Type() != f.Type() {
		t.Fatalf("copied element lost its type")
	}
	values, _ := AttrAs[[]float64](cf, "values")
	if diff := cmp.Diff([]float64{1.5}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	parents, _ := AttrAs[[]*Instance](c, "parents")
	byName, _ := AttrAs[DictValue](c, "byName")
	hall, _ := AttrAs[map[string][]*Instance](c, "hall")
	if parents[0] != cf || byName["best"] != cf {
		t.Fatalf("an instance reachable from several containers must be copied once")
	}
	if hall["top"][0] != items.Items[1] {
		t.Fatalf("nested map of slices not mapped onto the copied instance")
	}

	parents[0].SetAttr("x", 1)
	if _, ok := f.Attr("x"); ok {
		t.Fatalf("attribute set on the copy leaked to the original")
	}
}
