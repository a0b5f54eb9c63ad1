// Package manifest turns a declarative description of an archive into a
// pak.Archive.
//
// A manifest lists declarations in order. Each one is a file (one source
// file under a destination name), a dir (every regular file below a source
// directory under a destination prefix), an align (pad so the next record
// starts on a boundary) or a pad (fixed fill). Sources may reference
// variables with ${name}.
//
//	method: zlib
//	vars:
//	  ekb: images/ekb
//	entries:
//	  - file: boot/sbe.bin
//	    source: ${ekb}/sbe.bin
//	    method: store
//	  - dir: hwp
//	    source: ${ekb}/hwp
//	  - align: 4096
//	  - pad: 64
//
// YAML is the default format; files ending in ".toml" are read as TOML
// with the same keys.
//
// The lifecycle is Parse, Build, CreateArchive. Parse and Build collect
// every problem they find and return them together as an *Error.
package manifest

import (
	"log/slog"

	"github.com/meigma/pak"
)

// DeclKind identifies the type of a declaration.
type DeclKind int

const (
	DeclFile DeclKind = iota
	DeclDir
	DeclAlign
	DeclPad
)

func (k DeclKind) String() string {
	switch k {
	case DeclFile:
		return "file"
	case DeclDir:
		return "dir"
	case DeclAlign:
		return "align"
	case DeclPad:
		return "pad"
	default:
		return "unknown"
	}
}

// Declaration is one validated manifest entry with variables expanded.
type Declaration struct {
	Kind DeclKind
	// Name is the destination name (file) or prefix (dir).
	Name   string
	Source string
	Method pak.Compression
	// Size is the boundary for align and the fill length for pad.
	Size int
}

// Mapping is one resolved archive operation produced by Build. Dir
// declarations expand into one file mapping per source file.
type Mapping struct {
	Kind   DeclKind
	Name   string
	Source string
	Method pak.Compression
	Size   int
}

// Manifest holds the state of one manifest through its lifecycle.
type Manifest struct {
	path          string
	defaultMethod pak.Compression
	logger        *slog.Logger

	method   pak.Compression
	vars     map[string]string
	decls    []Declaration
	parsed   bool
	mappings []Mapping
	built    bool
}

// Option configures a Manifest.
type Option func(*Manifest)

// WithLogger sets the logger for manifest operations.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manifest) {
		m.logger = logger
	}
}

// WithDefaultMethod sets the method used when neither a declaration nor
// the manifest names one. The default is zlib.
func WithDefaultMethod(method pak.Compression) Option {
	return func(m *Manifest) {
		m.defaultMethod = method
	}
}

// New returns an empty manifest.
func New(opts ...Option) *Manifest {
	m := &Manifest{defaultMethod: pak.CompressionZlib}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manifest) log() *slog.Logger {
	if m.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.logger
}

// Path returns the file the manifest was parsed from, if any.
func (m *Manifest) Path() string { return m.path }

// Declarations returns the parsed declarations in manifest order.
func (m *Manifest) Declarations() []Declaration {
	return append([]Declaration(nil), m.decls...)
}

// Mappings returns the resolved mappings in manifest order. It is empty
// until Build succeeds.
func (m *Manifest) Mappings() []Mapping {
	return append([]Mapping(nil), m.mappings...)
}

// Built reports whether Build has completed without errors.
func (m *Manifest) Built() bool { return m.built }
