package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/ardanlabs/cppbind/cdef"
	"github.com/ardanlabs/cppbind/generator"
	"github.com/ardanlabs/cppbind/loader"
	"github.com/ardanlabs/cppbind/mangle"
	"github.com/ardanlabs/cppbind/native"
	"github.com/ardanlabs/cppbind/parser"
)

func main() {
	bindingPath := flag.String("binding", "", "Path to binding description file")
	emit := flag.Bool("emit", false, "Print the generated C declarations instead of loading the library")
	compilers := flag.String("compiler", "", "Comma-separated compiler ids to emit (default: all in the binding)")
	outputDir := flag.String("output", "", "Write emitted headers to this directory instead of stdout")
	libs := flag.String("lib", "", "Comma-separated libraries to try before the binding's own")
	call := flag.String("call", "", "Static accessor to invoke after loading")
	arg := flag.String("arg", "", "String argument passed to -call")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *bindingPath == "" {
		fmt.Fprintln(os.Stderr, "error: -binding flag is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := loader.ConfigFromEnv()

	log, err := newLogger(*verbose || cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	data, err := os.ReadFile(*bindingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading binding: %v\n", err)
		os.Exit(1)
	}

	binding, err := parser.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing binding: %v\n", err)
		os.Exit(1)
	}

	if *emit {
		if err := emitHeaders(binding, *bindingPath, splitList(*compilers), *outputDir, log); err != nil {
			fmt.Fprintf(os.Stderr, "error generating declarations: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opener := native.NewOpener(cdef.Default, cfg.LibraryPath...)

	var override []cdef.Library
	for _, name := range splitList(*libs) {
		lib, err := opener.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading %s: %v\n", name, err)
			os.Exit(1)
		}
		override = append(override, lib)
	}

	l := loader.New(opener, loader.WithLogger(log), loader.WithConfig(cfg))

	table, err := l.LoadBinding(binding, override...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading binding: %v\n", err)
		os.Exit(1)
	}

	for _, lib := range override {
		if lib.Name() != table.Library {
			cdef.Release(lib)
		}
	}

	fmt.Printf("Library: %s\nCompiler: %s\n", table.Library, table.Compiler)
	for _, name := range table.Names() {
		fmt.Printf("  %s\n", name)
	}

	if *call != "" {
		if err := callStatic(table, *call, *arg); err != nil {
			fmt.Fprintf(os.Stderr, "error calling %s: %v\n", *call, err)
			os.Exit(1)
		}
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func emitHeaders(b *parser.Binding, bindingPath string, compilers []string, outputDir string, log *zap.Logger) error {
	if len(compilers) == 0 {
		compilers = bindingCompilers(b)
	}

	g := generator.New(cdef.NewNamespace(), generator.WithLogger(log))

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	base := strings.TrimSuffix(filepath.Base(bindingPath), filepath.Ext(bindingPath))

	for _, compiler := range compilers {
		decls, err := g.Declarations(b, compiler)
		if err != nil {
			return fmt.Errorf("%s: %w", compiler, err)
		}
		header := generator.Header(decls)

		if outputDir == "" {
			fmt.Printf("// %s\n%s\n", compiler, header)
			continue
		}

		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.h", base, strings.ToLower(compiler)))
		if err := os.WriteFile(path, []byte(header), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Generated: %s\n", path)
	}

	return nil
}

// bindingCompilers lists every compiler id the binding mentions, in order of
// first appearance.
func bindingCompilers(b *parser.Binding) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(syms parser.Symbols) {
		for _, s := range syms {
			key := strings.ToLower(s.Compiler)
			if !seen[key] {
				seen[key] = true
				ids = append(ids, s.Compiler)
			}
		}
	}

	add(b.Probes)
	for _, c := range b.Classes {
		for _, m := range c.Methods {
			add(m.Symbols)
		}
	}

	return ids
}

// callStatic invokes an accessor taking no arguments or a single const
// char*, returning void or a C string that is printed.
func callStatic(table *generator.SymbolTable, name, arg string) error {
	fn, ok := table.Func(name)
	if !ok {
		return fmt.Errorf("accessor not found")
	}
	decl := table.Decls[name]

	var args []unsafe.Pointer
	switch {
	case len(decl.Params) == 0:
	case len(decl.Params) == 1 && mangle.Code(decl.Params[0]) == "PQC":
		p, err := native.CString(arg)
		if err != nil {
			return err
		}
		args = append(args, unsafe.Pointer(&p))
	default:
		return fmt.Errorf("unsupported parameters %v", decl.Params)
	}

	switch code := mangle.Code(decl.Return); code {
	case "V":
		fn.Call(nil, args...)
	case "PC", "PQC":
		var out *byte
		fn.Call(unsafe.Pointer(&out), args...)
		fmt.Println(native.GoString(out))
	default:
		return fmt.Errorf("unsupported return type %q", decl.Return)
	}

	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
