package schemakit_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	sk "github.com/reoring/schemakit"
)

func str(key string) sk.Field { return sk.Field{Key: key, Type: sk.TypeString} }

func nested(key string, children ...sk.Field) sk.Field {
	if children == nil {
		children = []sk.Field{}
	}
	return sk.Field{Key: key, Type: sk.TypeNested, Children: children}
}

func scenarioTree() sk.Tree {
	return sk.NewTree(str("name"), nested("address", str("city")))
}

func TestAddRemove_AreInverse(t *testing.T) {
	base := sk.NewTree(str("a"), nested("b", str("c")), nested("d"))
	for _, p := range []sk.Path{{}, {1}, {2}} {
		added, err := sk.AddField(base, p)
		if err != nil {
			t.Fatalf("AddField %s: %v", p, err)
		}
		var last int
		if len(p) == 0 {
			last = added.Len() - 1
		} else {
			n, _ := added.At(p)
			last = n.Len() - 1
		}
		removed, err := sk.RemoveField(added, p.Append(last))
		if err != nil {
			t.Fatalf("RemoveField %s: %v", p.Append(last), err)
		}
		if diff := cmp.Diff(base.Fields(), removed.Fields()); diff != "" {
			t.Fatalf("add/remove at %s not inverse (-want +got):\n%s", p, diff)
		}
	}
}

func TestAddField_Defaults(t *testing.T) {
	got, err := sk.AddField(sk.Tree{}, nil)
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if diff := cmp.Diff([]sk.Field{{Type: sk.TypeString}}, got.Fields()); diff != "" {
		t.Fatalf("default field (-want +got):\n%s", diff)
	}
}

func TestMutations_LeavePriorTreeUnchanged(t *testing.T) {
	before := scenarioTree()
	snapshot := before.Fields()

	steps := []func(sk.Tree) (sk.Tree, error){
		func(t sk.Tree) (sk.Tree, error) { return sk.AddField(t, sk.Path{1}) },
		func(t sk.Tree) (sk.Tree, error) { return sk.UpdateField(t, sk.Path{1, 0}, sk.PatchKey("zip")) },
		func(t sk.Tree) (sk.Tree, error) { return sk.RemoveField(t, sk.Path{0}) },
		func(t sk.Tree) (sk.Tree, error) { return sk.ToggleLock(t, sk.Path{1}) },
	}
	for i, step := range steps {
		if _, err := step(before); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if diff := cmp.Diff(snapshot, before.Fields()); diff != "" {
			t.Fatalf("step %d mutated the receiver (-want +got):\n%s", i, diff)
		}
	}
}

func TestInvalidPath(t *testing.T) {
	tr := scenarioTree()
	cases := map[string]func() error{
		"add out of range":       func() error { _, err := sk.AddField(tr, sk.Path{5}); return err },
		"add under primitive":    func() error { _, err := sk.AddField(tr, sk.Path{0}); return err },
		"update out of range":    func() error { _, err := sk.UpdateField(tr, sk.Path{1, 3}, sk.PatchKey("x")); return err },
		"update root list":       func() error { _, err := sk.UpdateField(tr, sk.Path{}, sk.PatchKey("x")); return err },
		"remove empty path":      func() error { _, err := sk.RemoveField(tr, nil); return err },
		"remove negative":        func() error { _, err := sk.RemoveField(tr, sk.Path{-1}); return err },
		"toggle through leaf":    func() error { _, err := sk.ToggleLock(tr, sk.Path{0, 0}); return err },
		"at deeper than present": func() error { _, err := tr.At(sk.Path{1, 0, 0}); return err },
	}
	for name, fn := range cases {
		if err := fn(); !errors.Is(err, sk.ErrInvalidPath) {
			t.Fatalf("%s: expected ErrInvalidPath, got %v", name, err)
		}
	}
}

func TestUpdateField_UnknownType(t *testing.T) {
	_, err := sk.UpdateField(scenarioTree(), sk.Path{0}, sk.PatchType("date"))
	if !errors.Is(err, sk.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestUpdateField_TypeChangeDropsChildren(t *testing.T) {
	tr, err := sk.UpdateField(scenarioTree(), sk.Path{1}, sk.PatchType(sk.TypeString))
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	n, _ := tr.At(sk.Path{1})
	if n.Len() != 0 || n.Field().Children != nil {
		t.Fatalf("primitive field kept %d children", n.Len())
	}
	// switching back starts with an empty group
	tr, _ = sk.UpdateField(tr, sk.Path{1}, sk.PatchType(sk.TypeNested))
	if n, _ := tr.At(sk.Path{1}); n.Len() != 0 {
		t.Fatalf("expected empty group, got %d children", n.Len())
	}
}

func TestUpdateField_MergesSubset(t *testing.T) {
	tr, err := sk.UpdateField(scenarioTree(), sk.Path{1},
		sk.PatchKey("home").Merge(sk.PatchChildren(str("street"), str("zip"))))
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	want := []sk.Field{str("name"), nested("home", str("street"), str("zip"))}
	if diff := cmp.Diff(want, tr.Fields()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestUpdateField_LockedIsLenient(t *testing.T) {
	tr, _ := sk.ToggleLock(scenarioTree(), sk.Path{0})
	if n, _ := tr.At(sk.Path{0}); !n.Locked() {
		t.Fatalf("expected locked")
	}
	tr, err := sk.UpdateField(tr, sk.Path{0}, sk.PatchKey("renamed"))
	if err != nil {
		t.Fatalf("UpdateField on locked field: %v", err)
	}
	n, _ := tr.At(sk.Path{0})
	if n.Key() != "renamed" || !n.Locked() {
		t.Fatalf("got key=%q locked=%v", n.Key(), n.Locked())
	}
}

func TestRemoveField_ClosesGap(t *testing.T) {
	tr, _ := sk.RemoveField(sk.NewTree(str("a"), str("b"), str("c")), sk.Path{1})
	if diff := cmp.Diff([]sk.Field{str("a"), str("c")}, tr.Fields()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestWalk_DocumentOrder(t *testing.T) {
	tr := sk.NewTree(nested("a", str("b"), nested("c", str("d"))), str("e"))
	var got []string
	_ = tr.Walk(func(p sk.Path, n sk.Node) error {
		got = append(got, p.String()+"="+n.Key())
		if n.Key() == "c" {
			return sk.SkipChildren
		}
		return nil
	})
	want := []string{"/0=a", "/0/0=b", "/0/1=c", "/1=e"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestPath_StringRoundTrip(t *testing.T) {
	for _, s := range []string{"/", "/0", "/1/0/12"} {
		p, err := sk.ParsePath(s)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", s, err)
		}
		if p.String() != s {
			t.Fatalf("round trip %q -> %q", s, p.String())
		}
	}
	if _, err := sk.ParsePath("1/a"); !errors.Is(err, sk.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestNewTree_UnknownTypeFallsBack(t *testing.T) {
	tr := sk.NewTree(sk.Field{Key: "x", Type: "date", Children: []sk.Field{str("y")}})
	n := tr.Root(0)
	if n.Type() != sk.TypeString || n.Len() != 0 {
		t.Fatalf("got type=%s children=%d", n.Type(), n.Len())
	}
}
