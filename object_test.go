package schemakit_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	sk "github.com/reoring/schemakit"
)

func TestObject_SetKeepsPosition(t *testing.T) {
	o := sk.NewObject().Set("b", "string").Set("a", "number").Set("b", "boolean")
	if diff := cmp.Diff([]string{"b", "a"}, o.Keys()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if v, _ := o.Get("b"); v != "boolean" {
		t.Fatalf("b = %v", v)
	}
	o.Delete("b")
	if diff := cmp.Diff([]string{"a"}, o.Keys()); diff != "" {
		t.Fatalf("after delete (-want +got):\n%s", diff)
	}
}

func TestObject_JSONKeepsOrder(t *testing.T) {
	in := `{"zeta":"string","alpha":{"z":"number","a":"float"},"mid":"objectId"}`
	var o sk.Object
	if err := json.Unmarshal([]byte(in), &o); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := json.Marshal(&o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("got %s, want %s", out, in)
	}
}

func TestObject_YAMLKeepsOrder(t *testing.T) {
	in := "zeta: string\nalpha:\n    z: number\n    a: float\n"
	var o sk.Object
	if err := yaml.Unmarshal([]byte(in), &o); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := sk.NewObject().Set("zeta", "string").Set("alpha", sk.NewObject().Set("z", "number").Set("a", "float"))
	if !o.Equal(want) {
		t.Fatalf("decoded object differs: %v", o.Keys())
	}
	out, err := yaml.Marshal(&o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("got:\n%s\nwant:\n%s", out, in)
	}
}

func TestObject_EqualIsOrderSensitive(t *testing.T) {
	a := sk.NewObject().Set("x", "string").Set("y", "string")
	b := sk.NewObject().Set("y", "string").Set("x", "string")
	if a.Equal(b) {
		t.Fatalf("objects with different key order must differ")
	}
	if !a.Equal(a.Clone()) {
		t.Fatalf("clone must be equal")
	}
	if !sk.NewObject().Equal(nil) {
		t.Fatalf("empty and nil objects are equal")
	}
}

func TestObject_Fingerprint(t *testing.T) {
	a := sk.NewObject().Set("x", "string").Set("n", sk.NewObject().Set("y", "number"))
	if a.Fingerprint() != a.Clone().Fingerprint() {
		t.Fatalf("fingerprint must be stable across clones")
	}
	b := a.Clone().Set("x", "boolean")
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("fingerprint must change with content")
	}
}

func TestDecodeObject_DuplicateKey(t *testing.T) {
	data := []byte(`{"x":{"a":"string","b":"number","a":"boolean"}}`)

	o, warns, err := sk.DecodeObject(data, sk.DecodeOpt{OnDuplicateKey: sk.Warn})
	if err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if len(warns) != 1 || warns[0].Code != sk.CodeDuplicateKey || warns[0].Where() != "/x/a" {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if warns[0].Message != "duplicate key" {
		t.Fatalf("message must come from i18n, got %q", warns[0].Message)
	}
	if errors.Is(warns, sk.ErrFieldValidationFailed) {
		t.Fatalf("decode findings must not match ErrFieldValidationFailed")
	}
	want := sk.NewObject().Set("x", sk.NewObject().Set("a", "boolean").Set("b", "number"))
	if !o.Equal(want) {
		t.Fatalf("last write must win at the first position")
	}

	if _, warns, _ := sk.DecodeObject(data, sk.DecodeOpt{}); len(warns) != 0 {
		t.Fatalf("ignore policy must not warn, got %v", warns)
	}

	_, _, err = sk.DecodeObject(data, sk.DecodeOpt{OnDuplicateKey: sk.Error})
	if !errors.Is(err, sk.ErrMalformedSchema) {
		t.Fatalf("expected ErrMalformedSchema, got %v", err)
	}
	iss, ok := sk.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Pointer != "/x/a" {
		t.Fatalf("expected duplicate_key issue at /x/a, got %v", iss)
	}
}

func TestDecodeObject_MaxDepth(t *testing.T) {
	// depth = 3 for { a: { b: { c: ... } } }
	data := []byte(`{"a":{"b":{"c":"string"}}}`)
	_, _, err := sk.DecodeObject(data, sk.DecodeOpt{MaxDepth: 2})
	iss, ok := sk.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != sk.CodeDepthExceeded || iss[0].Pointer != "/a/b" {
		t.Fatalf("expected depth_exceeded at /a/b, got %v (%v)", iss, err)
	}
	if _, _, err := sk.DecodeObject(data, sk.DecodeOpt{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 must pass: %v", err)
	}
}

func TestDecodeObject_Rejects(t *testing.T) {
	for _, in := range []string{`["a"]`, `"x"`, `{"a":`, ``, `{"a":"string"} {"b":1}`, `{"a":"string"}"x"`, `{"a":"string"}]`} {
		if _, _, err := sk.DecodeObject([]byte(in), sk.DefaultDecodeOpt()); !errors.Is(err, sk.ErrMalformedSchema) {
			t.Fatalf("%q: expected ErrMalformedSchema, got %v", in, err)
		}
	}
}

func TestDecodeObject_TrailingWhitespace(t *testing.T) {
	o, _, err := sk.DecodeObject([]byte("{\"a\":\"string\"}\n  "), sk.DefaultDecodeOpt())
	if err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, o.Keys()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestObject_Depth(t *testing.T) {
	cases := []struct {
		name string
		in   *sk.Object
		want int
	}{
		{"nil", nil, 0},
		{"empty", sk.NewObject(), 1},
		{"leaves", sk.NewObject().Set("a", "string"), 1},
		{"nested", sk.NewObject().Set("a", sk.NewObject().Set("b", sk.NewObject())), 3},
		{"array", sk.NewObject().Set("a", []any{"x", sk.NewObject()}), 3},
	}
	for _, c := range cases {
		if got := c.in.Depth(); got != c.want {
			t.Fatalf("%s: depth %d, want %d", c.name, got, c.want)
		}
	}
}

func TestObject_SetOnNil(t *testing.T) {
	var o *sk.Object
	got := o.Set("a", "string").Set("b", "number")
	if diff := cmp.Diff([]string{"a", "b"}, got.Keys()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
