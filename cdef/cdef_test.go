package cdef

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStructC(t *testing.T) {
	s := &Struct{
		Name: "ns_Widget",
		Fields: []Field{
			{Type: "void*", Name: "__vfptr"},
			{Type: "ns::Other*", Name: "next"},
			{Type: "int32_t", Name: "count"},
		},
	}

	want := "typedef struct ns_Widget {\n" +
		"\tvoid* __vfptr;\n" +
		"\tns_Other* next;\n" +
		"\tint32_t count;\n" +
		"} ns_Widget;\n"

	if diff := cmp.Diff(want, s.C()); diff != "" {
		t.Fatalf("C() mismatch (-want +got):\n%s", diff)
	}
}

func TestFuncC(t *testing.T) {
	cases := []struct {
		name string
		fn   Func
		want string
	}{
		{
			name: "Thiscall",
			fn: Func{
				Name:   "HelloClass__Say_PQC",
				Symbol: "?Say@HelloClass@@UEAAXPEBD@Z",
				Conv:   Thiscall,
				Params: []string{"HelloClass*", "const char*"},
			},
			want: "void __thiscall HelloClass__Say_PQC(HelloClass*, const char*) __asm__(\"?Say@HelloClass@@UEAAXPEBD@Z\");\n",
		},
		{
			name: "StaticNoParams",
			fn: Func{
				Name:   "HelloClass__StaticHello_V",
				Symbol: "_ZN10HelloClass11StaticHelloEv",
				Return: "void",
			},
			want: "void HelloClass__StaticHello_V(void) __asm__(\"_ZN10HelloClass11StaticHelloEv\");\n",
		},
		{
			name: "Reference",
			fn: Func{
				Name:   "Vec__Add__Vec_",
				Symbol: "_ZN3Vec3AddERKS_",
				Return: "Vec&",
				Params: []string{"Vec*", "const Vec&"},
			},
			want: "Vec* Vec__Add__Vec_(Vec*, const Vec*) __asm__(\"_ZN3Vec3AddERKS_\");\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.fn.C()); diff != "" {
				t.Fatalf("C() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNamespaceDeclare(t *testing.T) {
	ns := NewNamespace()

	a := &Struct{Name: "A", Fields: []Field{{Type: "int32_t", Name: "x"}}}
	if err := ns.Declare(a); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := ns.Declare(&Struct{Name: "A", Fields: []Field{{Type: "int32_t", Name: "x"}}}); err != nil {
		t.Fatalf("identical redeclaration: %v", err)
	}

	err := ns.Declare(&Struct{Name: "A", Fields: []Field{{Type: "int64_t", Name: "x"}}})
	var conflict *NamespaceConflictError
	if !errors.As(err, &conflict) || conflict.Name != "A" {
		t.Fatalf("conflicting redeclaration: got %v, want NamespaceConflictError", err)
	}

	if got, ok := ns.Struct("A"); !ok || got != a {
		t.Fatalf("Struct(A) = %v, %v", got, ok)
	}
	if ns.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ns.Len())
	}

	f := &Func{Name: "A__C_V", Symbol: "a", Params: []string{"A*"}}
	if err := ns.Declare(f); err != nil {
		t.Fatalf("Declare func: %v", err)
	}
	if _, ok := ns.Struct("A__C_V"); ok {
		t.Fatalf("Struct returned a function declaration")
	}

	want := a.C() + f.C()
	if got := ns.Source(); got != want {
		t.Fatalf("Source() = %q, want %q", got, want)
	}
}

func TestABIFor(t *testing.T) {
	cases := map[string]ABI{
		"MSVC":    MSVC,
		"msvc14":  MSVC,
		"VS2019":  MSVC,
		"GCC":     Itanium,
		"clang":   Itanium,
		"itanium": Itanium,
		"mingw":   Itanium,
	}

	for id, want := range cases {
		if got := ABIFor(id); got != want {
			t.Errorf("ABIFor(%q) = %s, want %s", id, got, want)
		}
	}

	if MSVC.MemberConv() != Thiscall || Itanium.MemberConv() != Cdecl {
		t.Fatalf("unexpected member conventions")
	}
}

func TestFileName(t *testing.T) {
	cases := []struct {
		name, goos, want string
	}{
		{"HelloWorld", "linux", "libHelloWorld.so"},
		{"HelloWorld", "darwin", "libHelloWorld.dylib"},
		{"HelloWorld", "windows", "HelloWorld.dll"},
		{"libfoo.so.1", "linux", "libfoo.so.1"},
		{"./build/foo", "linux", "./build/foo"},
	}

	for _, tc := range cases {
		if got := FileName(tc.name, tc.goos); got != tc.want {
			t.Errorf("FileName(%q, %q) = %q, want %q", tc.name, tc.goos, got, tc.want)
		}
	}
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths("/opt/lib/libx.so", []string{"/a"})
	if diff := cmp.Diff([]string{"/opt/lib/libx.so"}, paths); diff != "" {
		t.Errorf("absolute path mismatch (-want +got):\n%s", diff)
	}

	paths = SearchPaths("x.so", []string{"/a", "", "/b"})
	want := []string{filepath.Join("/a", "x.so"), filepath.Join("/b", "x.so"), "x.so"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("search paths mismatch (-want +got):\n%s", diff)
	}
}

func TestIdent(t *testing.T) {
	cases := map[string]string{
		"HelloClass":      "HelloClass",
		"geo::Shape":      "geo_Shape",
		"_unsigned long_": "_unsigned_long_",
		"a::b::c":         "a_b_c",
	}

	for in, want := range cases {
		if got := Ident(in); got != want {
			t.Errorf("Ident(%q) = %q, want %q", in, got, want)
		}
	}
}
