// Package detect works out which shared library to bind against and which
// compiler built it, by probing for symbols only that compiler would emit.
package detect

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ardanlabs/cppbind/cdef"
	"github.com/ardanlabs/cppbind/parser"
)

var (
	ErrNoLibraryFound     = errors.New("no library found")
	ErrNoCompilerDetected = errors.New("no compiler detected")
)

// probeSeq numbers probe declarations for the life of the process, so a
// probe never reuses the name of an earlier, unrelated one.
var probeSeq atomic.Uint64

type Detector struct {
	opener cdef.Opener
	ns     *cdef.Namespace
	log    *zap.Logger
}

type Option func(*Detector)

func WithLogger(log *zap.Logger) Option {
	return func(d *Detector) {
		d.log = log
	}
}

func New(opener cdef.Opener, ns *cdef.Namespace, opts ...Option) *Detector {
	if ns == nil {
		ns = cdef.Default
	}

	d := &Detector{
		opener: opener,
		ns:     ns,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Detect runs Choose with the binding's candidate libraries and probes.
func (d *Detector) Detect(b *parser.Binding, override ...cdef.Library) (cdef.Library, string, error) {
	return d.Choose(b.Libraries, b.Probes, override...)
}

// Choose tries the override libraries, then each candidate that loads, and
// returns the first library where a compiler's probe symbol resolves.
// Candidates are opened only as they are reached, so nothing after a
// successful library is loaded. Probes are tried in declaration order. With
// no candidates the process's own symbols are used. Libraries Choose opened
// itself and did not pick are closed; overrides belong to the caller.
func (d *Detector) Choose(candidates []string, probes parser.Symbols, override ...cdef.Library) (cdef.Library, string, error) {
	var tried int

	for _, lib := range override {
		tried++
		if compiler, ok, err := d.probe(lib, probes); err != nil {
			return nil, "", err
		} else if ok {
			return lib, compiler, nil
		}
	}

	if len(candidates) == 0 {
		self, err := d.opener.Self()
		if err != nil {
			d.log.Debug("process symbols unavailable", zap.Error(err))
		} else {
			tried++
			compiler, ok, err := d.probe(self, probes)
			if ok && err == nil {
				return self, compiler, nil
			}
			d.release(self)
			if err != nil {
				return nil, "", err
			}
		}
	}

	for _, name := range candidates {
		lib, err := d.opener.Open(name)
		if err != nil {
			d.log.Debug("candidate library did not load",
				zap.String("library", name),
				zap.Error(err))
			continue
		}

		tried++
		compiler, ok, err := d.probe(lib, probes)
		if ok && err == nil {
			return lib, compiler, nil
		}
		d.release(lib)
		if err != nil {
			return nil, "", err
		}
	}

	if tried == 0 {
		return nil, "", ErrNoLibraryFound
	}

	return nil, "", fmt.Errorf("%w: tried %d libraries with %d probes", ErrNoCompilerDetected, tried, len(probes))
}

func (d *Detector) release(lib cdef.Library) {
	if err := cdef.Release(lib); err != nil {
		d.log.Warn("closing library",
			zap.String("library", lib.Name()),
			zap.Error(err))
	}
}

// probe declares a fresh zero-argument accessor for each probe symbol and
// reports the first compiler whose symbol resolves in lib.
func (d *Detector) probe(lib cdef.Library, probes parser.Symbols) (string, bool, error) {
	for _, p := range probes {
		fn := &cdef.Func{
			Name:   fmt.Sprintf("__cppbind_probe_%d", probeSeq.Add(1)),
			Symbol: p.Name,
			Return: "void",
		}
		if err := d.ns.Declare(fn); err != nil {
			return "", false, err
		}

		if _, err := lib.Resolve(fn); err != nil {
			d.log.Debug("probe did not resolve",
				zap.String("library", lib.Name()),
				zap.String("compiler", p.Compiler),
				zap.String("symbol", p.Name),
				zap.Error(err))
			continue
		}

		d.log.Info("detected compiler",
			zap.String("library", lib.Name()),
			zap.String("compiler", p.Compiler))

		return p.Compiler, true, nil
	}

	return "", false, nil
}
