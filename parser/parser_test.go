package parser

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readHello(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile("../testdata/hello.bind")
	if err != nil {
		t.Fatalf("reading binding: %v", err)
	}
	return string(data)
}

func TestParseHelloClass(t *testing.T) {
	b, err := Parse(readHello(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diff := cmp.Diff([]string{"HelloWorld"}, b.Libraries); diff != "" {
		t.Errorf("libraries mismatch (-want +got):\n%s", diff)
	}

	wantProbes := Symbols{
		{Compiler: "MSVC", Name: "??0HelloClass@@QEAA@XZ"},
		{Compiler: "GCC", Name: "_ZN10HelloClassC1Ev"},
	}
	if diff := cmp.Diff(wantProbes, b.Probes); diff != "" {
		t.Errorf("probes mismatch (-want +got):\n%s", diff)
	}

	if len(b.Classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(b.Classes))
	}
	c := b.Classes[0]

	if c.Name != "HelloClass" || !c.HasVirtuals || len(c.Inherits) != 0 {
		t.Fatalf("class header = %q virtuals=%v inherits=%v", c.Name, c.HasVirtuals, c.Inherits)
	}
	if c.Line != 11 {
		t.Errorf("class line = %d, want 11", c.Line)
	}

	wantData := []Member{
		{Type: "int64_t", Name: "one"},
		{Type: "int32_t", Name: "two"},
		{Type: "double", Name: "three"},
	}
	if diff := cmp.Diff(wantData, c.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	counts := map[MethodKind]int{
		Constructor: 2,
		Destructor:  1,
		Instance:    2,
		Static:      1,
	}
	for kind, want := range counts {
		if got := c.Count(kind); got != want {
			t.Errorf("%s count = %d, want %d", kind, got, want)
		}
	}
	if got := c.Count(Instance) + c.Count(Static); got != 3 {
		t.Errorf("named methods = %d, want 3", got)
	}

	say := c.Methods[4]
	want := Method{
		Kind:       Instance,
		Name:       "Say",
		ReturnType: "void",
		Params:     []string{"const char*"},
		Symbols: Symbols{
			{Compiler: "MSVC", Name: "?Say@HelloClass@@UEAAXPEBD@Z"},
			{Compiler: "GCC", Name: "_ZN10HelloClass3SayEPKc"},
		},
		Line: 42,
	}
	if diff := cmp.Diff(want, say); diff != "" {
		t.Errorf("Say mismatch (-want +got):\n%s", diff)
	}

	ctor := c.Methods[1]
	if diff := cmp.Diff([]string{"int64_t", "int32_t"}, ctor.Params); diff != "" {
		t.Errorf("ctor params mismatch (-want +got):\n%s", diff)
	}
	if sym, ok := ctor.Symbols.Lookup("gcc"); !ok || sym != "_ZN10HelloClassC1Eli" {
		t.Errorf("Lookup(gcc) = %q, %v", sym, ok)
	}
}

func TestParseTruncatedMethods(t *testing.T) {
	text := readHello(t)
	text = strings.TrimRight(text, "\n")
	text = strings.TrimSuffix(text, "}")

	_, err := Parse(text)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse error = %v, want *ParseError", err)
	}
	if perr.Line != 11 || perr.Token != "class" {
		t.Fatalf("got line %d token %q, want line 11 token %q", perr.Line, perr.Token, "class")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		line  int
		token string
	}{
		{
			name:  "UnknownDirective",
			text:  "assembly \"a\"\n\nklass Foo {}\n",
			line:  3,
			token: "klass",
		},
		{
			name:  "BareDataBlock",
			text:  "class Foo {\n\thas_virtuals;\n\t{ int32_t x; }\n}\n",
			line:  3,
			token: "{",
		},
		{
			name: "BadSymbolInMethods",
			text: `class Foo {
	methods {
		!() {
			MSVC ??0Foo@@QEAA@XZ;
		}
		void Bar() {
			GCC ;
		}
	}
}
`,
			line:  7,
			token: "GCC",
		},
		{
			name:  "BadMember",
			text:  "class Foo {\n\tdata {\n\t\tint32_t x;\n\t\t42 y;\n\t}\n}\n",
			line:  4,
			token: "42",
		},
		{
			name:  "CommentsCountLines",
			text:  "/*\n\n*/\n// x\n?\n",
			line:  5,
			token: "?",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Parse(tc.text)
			if b != nil {
				t.Fatalf("Parse returned a partial binding")
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse error = %v, want *ParseError", err)
			}
			if perr.Line != tc.line || perr.Token != tc.token {
				t.Fatalf("got line %d token %q, want line %d token %q", perr.Line, perr.Token, tc.line, tc.token)
			}
		})
	}
}

func TestParseVariants(t *testing.T) {
	text := `
assembly "shapes";
assembly "shapes_d"

class geo::Shape {
	has_virtuals;
	methods {
		static geo::Shape* Create(void) { GCC _ZN3geo5Shape6CreateEv; }
		const char* Name() const_ignored { GCC x; }
	}
}

class geo::Circle : public geo::Shape, Extra {
	data {
		unsigned  int   radius;
		const char * label;
	}
}
`
	_, err := Parse(text)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 9 {
		t.Fatalf("trailing qualifier: got %v, want a ParseError on line 9", err)
	}

	text = strings.Replace(text, " const_ignored", "", 1)
	b, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diff := cmp.Diff([]string{"shapes", "shapes_d"}, b.Libraries); diff != "" {
		t.Errorf("libraries mismatch (-want +got):\n%s", diff)
	}

	shape, ok := b.Class("geo::Shape")
	if !ok {
		t.Fatalf("geo::Shape not parsed")
	}
	create := shape.Methods[0]
	if create.Kind != Static || create.ReturnType != "geo::Shape*" || len(create.Params) != 0 {
		t.Errorf("Create = %+v", create)
	}
	name := shape.Methods[1]
	if name.Kind != Instance || name.ReturnType != "const char*" || name.Name != "Name" {
		t.Errorf("Name = %+v", name)
	}

	circle, ok := b.Class("geo::Circle")
	if !ok {
		t.Fatalf("geo::Circle not parsed")
	}
	if diff := cmp.Diff([]string{"geo::Shape", "Extra"}, circle.Inherits); diff != "" {
		t.Errorf("inherits mismatch (-want +got):\n%s", diff)
	}
	wantData := []Member{
		{Type: "unsigned int", Name: "radius"},
		{Type: "const char *", Name: "label"},
	}
	if diff := cmp.Diff(wantData, circle.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommentNesting(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		classes []string
	}{
		{
			name:    "BlockOpenerInLineComment",
			text:    "// see /* here\nclass A {}\n/* */\nclass B {}\n",
			classes: []string{"A", "B"},
		},
		{
			name:    "LineCommentInBlockComment",
			text:    "/* // still\nclass A {} */\nclass B {}\n",
			classes: []string{"B"},
		},
		{
			name:    "CarriageReturnEndsLineComment",
			text:    "// note\rclass A {}\r\n",
			classes: []string{"A"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Parse(tc.text)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			var got []string
			for _, c := range b.Classes {
				got = append(got, c.Name)
			}
			if diff := cmp.Diff(tc.classes, got); diff != "" {
				t.Errorf("classes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := Parse("// a /* b\n?\n/* */\n")
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 2 || perr.Token != "?" {
		t.Fatalf("got %v, want a ParseError on line 2 at %q", err, "?")
	}
}
