package mangle

import (
	"strings"
	"testing"
)

func TestSuffix(t *testing.T) {
	cases := []struct {
		name   string
		params []string
		want   string
	}{
		{name: "Empty", params: nil, want: "V"},
		{name: "Mixed", params: []string{"const char*", "uint32_t", "void*"}, want: "PQCiPV"},
		{name: "Uint64", params: []string{"uint64_t"}, want: "L"},
		{name: "CtorPair", params: []string{"int64_t", "int32_t"}, want: "LI"},
		{name: "Double", params: []string{"double"}, want: "D"},
		{name: "ConstRef", params: []string{"const int32_t&"}, want: "QRI"},
		{name: "PointerToConstRef", params: []string{"const float *&"}, want: "PQRF"},
		{name: "Unsigned", params: []string{"unsigned int", "unsigned  char"}, want: "ic"},
		{name: "Spacing", params: []string{"  const   char  *"}, want: "PQC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Suffix(tc.params); got != tc.want {
				t.Fatalf("Suffix(%q) = %q, want %q", tc.params, got, tc.want)
			}
		})
	}
}

func TestSuffixUnknownType(t *testing.T) {
	got := Suffix([]string{"Foo"})
	if !strings.Contains(got, "_Foo_") {
		t.Fatalf("Suffix([Foo]) = %q, want it to contain _Foo_", got)
	}

	got = Suffix([]string{"const Foo*", "int32_t"})
	if got != "PQ_Foo_I" {
		t.Fatalf("Suffix([const Foo*, int32_t]) = %q, want %q", got, "PQ_Foo_I")
	}
}

func TestSplit(t *testing.T) {
	bare, q := Split("const constant_t*")
	if bare != "constant_t" {
		t.Fatalf("bare = %q, want constant_t", bare)
	}
	if !q.Pointer || !q.Const || q.Reference {
		t.Fatalf("qualifiers = %+v", q)
	}
}
