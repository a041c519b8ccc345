// Package loader parses a binding, detects the library and compiler it
// applies to, and generates the resulting symbol table.
package loader

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ardanlabs/cppbind/cdef"
	"github.com/ardanlabs/cppbind/detect"
	"github.com/ardanlabs/cppbind/generator"
	"github.com/ardanlabs/cppbind/parser"
)

type Loader struct {
	opener cdef.Opener
	ns     *cdef.Namespace
	log    *zap.Logger
	cfg    Config
}

type Option func(*Loader)

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

func WithNamespace(ns *cdef.Namespace) Option {
	return func(l *Loader) {
		l.ns = ns
	}
}

func WithConfig(cfg Config) Option {
	return func(l *Loader) {
		l.cfg = cfg
	}
}

func New(opener cdef.Opener, opts ...Option) *Loader {
	l := &Loader{
		opener: opener,
		ns:     cdef.Default,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load parses binding text and returns the accessors generated for the
// library and compiler detected for it. Override libraries are tried before
// the binding's candidates.
func (l *Loader) Load(text string, override ...cdef.Library) (*generator.SymbolTable, error) {
	b, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing binding: %w", err)
	}

	return l.LoadBinding(b, override...)
}

func (l *Loader) LoadFile(path string, override ...cdef.Library) (*generator.SymbolTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binding: %w", err)
	}

	return l.Load(string(data), override...)
}

func (l *Loader) LoadBinding(b *parser.Binding, override ...cdef.Library) (*generator.SymbolTable, error) {
	lib, compiler, err := l.Detect(b, override...)
	if err != nil {
		return nil, err
	}

	table, err := generator.New(l.ns, generator.WithLogger(l.log)).Generate(b, compiler, lib)
	if err != nil {
		return nil, fmt.Errorf("generating %s bindings: %w", compiler, err)
	}

	l.log.Info("binding loaded",
		zap.String("library", lib.Name()),
		zap.String("compiler", compiler),
		zap.Int("accessors", len(table.Funcs)),
		zap.Int("classes", len(table.Types)))

	return table, nil
}

// Detect picks the library and compiler for b, honouring the configured
// override libraries and compiler restriction.
func (l *Loader) Detect(b *parser.Binding, override ...cdef.Library) (cdef.Library, string, error) {
	libs := append([]cdef.Library(nil), override...)
	var opened []cdef.Library
	for _, name := range l.cfg.Libraries {
		lib, err := l.opener.Open(name)
		if err != nil {
			l.log.Warn("configured library did not load",
				zap.String("library", name),
				zap.Error(err))
			continue
		}
		libs = append(libs, lib)
		opened = append(opened, lib)
	}

	probes := b.Probes
	if l.cfg.Compiler != "" {
		probes = nil
		for _, p := range b.Probes {
			if strings.EqualFold(p.Compiler, l.cfg.Compiler) {
				probes = append(probes, p)
			}
		}
	}

	d := detect.New(l.opener, l.ns, detect.WithLogger(l.log))
	lib, compiler, err := d.Choose(b.Libraries, probes, libs...)

	for _, o := range opened {
		if o == lib {
			continue
		}
		if cerr := cdef.Release(o); cerr != nil {
			l.log.Warn("closing configured library",
				zap.String("library", o.Name()),
				zap.Error(cerr))
		}
	}

	if err != nil {
		return nil, "", fmt.Errorf("detecting library: %w", err)
	}

	return lib, compiler, nil
}
