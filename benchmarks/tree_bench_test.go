package benchmarks_test

import (
	"fmt"
	"testing"

	sk "github.com/reoring/schemakit"
)

// ---- Helpers ----

// wideTree builds width root groups, each holding width string fields.
func wideTree(tb testing.TB, width int) sk.Tree {
	tb.Helper()
	roots := make([]sk.Field, width)
	for i := range roots {
		kids := make([]sk.Field, width)
		for j := range kids {
			kids[j] = sk.Field{Key: fmt.Sprintf("f%d", j), Type: sk.TypeString}
		}
		roots[i] = sk.Field{Key: fmt.Sprintf("g%d", i), Type: sk.TypeNested, Children: kids}
	}
	return sk.NewTree(roots...)
}

// deepTree builds a single chain of depth nested groups ending in a leaf.
func deepTree(depth int) sk.Tree {
	f := sk.Field{Key: "leaf", Type: sk.TypeString}
	for i := 0; i < depth; i++ {
		f = sk.Field{Key: fmt.Sprintf("d%d", i), Type: sk.TypeNested, Children: []sk.Field{f}}
	}
	return sk.NewTree(f)
}

// ---- Benchmarks ----

func BenchmarkUpdateField_Wide(b *testing.B) {
	for _, width := range []int{10, 100} {
		b.Run(fmt.Sprintf("width=%d", width), func(b *testing.B) {
			tr := wideTree(b, width)
			p := sk.Path{width / 2, width / 2}
			patch := sk.PatchKey("renamed")
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := sk.UpdateField(tr, p, patch); err != nil {
					b.Fatalf("UpdateField: %v", err)
				}
			}
		})
	}
}

func BenchmarkUpdateField_Deep(b *testing.B) {
	const depth = 32
	tr := deepTree(depth)
	p := make(sk.Path, depth+1)
	patch := sk.PatchType(sk.TypeNumber)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sk.UpdateField(tr, p, patch); err != nil {
			b.Fatalf("UpdateField: %v", err)
		}
	}
}

func BenchmarkCompile_Wide(b *testing.B) {
	tr := wideTree(b, 100)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sk.Compile(tr)
	}
}

func BenchmarkDecodeObject(b *testing.B) {
	data, err := sk.Compile(wideTree(b, 50)).MarshalJSON()
	if err != nil {
		b.Fatalf("MarshalJSON: %v", err)
	}
	opt := sk.DefaultDecodeOpt()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := sk.DecodeObject(data, opt); err != nil {
			b.Fatalf("DecodeObject: %v", err)
		}
	}
}

func BenchmarkPreviewJSON(b *testing.B) {
	tr := wideTree(b, 50)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sk.PreviewJSON(tr); err != nil {
			b.Fatalf("PreviewJSON: %v", err)
		}
	}
}
