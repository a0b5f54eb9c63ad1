package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/bits"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/meigma/pak"
)

// Format selects the manifest syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFor picks the format from a file name: ".toml" is TOML, anything
// else YAML.
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

type document struct {
	Method  string            `yaml:"method" toml:"method"`
	Vars    map[string]string `yaml:"vars" toml:"vars"`
	Entries []rawDecl         `yaml:"entries" toml:"entries"`
}

type rawDecl struct {
	File   *string `yaml:"file" toml:"file"`
	Dir    *string `yaml:"dir" toml:"dir"`
	Align  *int    `yaml:"align" toml:"align"`
	Pad    *int    `yaml:"pad" toml:"pad"`
	Source string  `yaml:"source" toml:"source"`
	Method string  `yaml:"method" toml:"method"`
}

var varRef = regexp.MustCompile(`\$\{([^}]*)\}`)

// Parse reads and validates the manifest at path. It checks syntax and
// internal consistency only; sources are not touched until Build.
//
// All problems are returned together as an *Error. A missing manifest
// file returns an error matching pak.ErrFileNotFound.
func (m *Manifest) Parse(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", pak.ErrFileNotFound, file)
		}
		return fmt.Errorf("read manifest: %w", err)
	}
	m.path = file
	return m.parse(data, FormatFor(file), file)
}

// ParseBytes validates a manifest held in memory. Relative sources are
// resolved against the working directory unless Build is given a base
// path.
func (m *Manifest) ParseBytes(data []byte, format Format) error {
	m.path = ""
	return m.parse(data, format, "<bytes>")
}

func (m *Manifest) parse(data []byte, format Format, name string) error {
	m.parsed, m.built = false, false
	m.decls, m.mappings = nil, nil

	var c collector
	doc, ok := decode(data, format, &c)
	if ok {
		m.validate(doc, &c)
	}
	if err := c.err("parse", name); err != nil {
		m.log().Warn("manifest parse failed",
			slog.String("manifest", name),
			slog.Int("errors", len(c.errs)))
		return err
	}
	m.parsed = true
	m.log().Debug("manifest parsed",
		slog.String("manifest", name),
		slog.Int("declarations", len(m.decls)))
	return nil
}

// decode unmarshals data. Unknown keys are collected as problems and
// decoding carries on; a syntax error stops it and returns false.
func decode(data []byte, format Format, c *collector) (document, bool) {
	var doc document
	switch format {
	case FormatTOML:
		err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&doc)
		var strict *toml.StrictMissingError
		var decErr *toml.DecodeError
		switch {
		case err == nil:
		case errors.As(err, &strict):
			for _, e := range strict.Errors {
				c.addf("toml", ErrUnknownKey, "%s", strings.Join(e.Key(), "."))
			}
		case errors.As(err, &decErr):
			row, col := decErr.Position()
			c.addf("toml", ErrSyntax, "line %d column %d: %s", row, col, decErr.Error())
			return doc, false
		default:
			c.add("toml", fmt.Errorf("%w: %w", ErrSyntax, err))
			return doc, false
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err := dec.Decode(&doc)
		var typeErr *yaml.TypeError
		switch {
		case err == nil, errors.Is(err, io.EOF):
		case errors.As(err, &typeErr):
			for _, msg := range typeErr.Errors {
				if strings.Contains(msg, "not found in type") {
					c.addf("yaml", ErrUnknownKey, "%s", msg)
				} else {
					c.addf("yaml", ErrSyntax, "%s", msg)
				}
			}
		default:
			c.add("yaml", fmt.Errorf("%w: %w", ErrSyntax, err))
			return doc, false
		}
	}
	return doc, true
}

func (m *Manifest) validate(doc document, c *collector) {
	m.vars = doc.Vars
	m.method = m.defaultMethod
	if doc.Method != "" {
		method, err := pak.ParseCompression(doc.Method)
		if err != nil {
			c.add("method", err)
		} else {
			m.method = method
		}
	}

	seen := make(map[string]string)
	for i, r := range doc.Entries {
		where := fmt.Sprintf("entries[%d]", i)
		d, ok := m.declaration(where, r, c)
		if !ok {
			continue
		}
		if d.Kind == DeclFile {
			if first, dup := seen[d.Name]; dup {
				c.addf(where, ErrDuplicateName, "%s (first declared at %s)", d.Name, first)
				continue
			}
			seen[d.Name] = where
		}
		m.decls = append(m.decls, d)
	}
}

func (m *Manifest) declaration(where string, r rawDecl, c *collector) (Declaration, bool) {
	kinds := 0
	for _, set := range []bool{r.File != nil, r.Dir != nil, r.Align != nil, r.Pad != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		c.add(where, ErrDeclaration)
		return Declaration{}, false
	}

	before := len(c.errs)
	d := Declaration{Method: m.method}
	switch {
	case r.File != nil, r.Dir != nil:
		d.Kind = DeclFile
		if r.Dir != nil {
			d.Kind = DeclDir
		}
		if r.Method != "" {
			method, err := pak.ParseCompression(r.Method)
			if err != nil {
				c.add(where, err)
			}
			d.Method = method
		}
		if r.Source == "" {
			c.add(where, ErrMissingSource)
			break
		}
		d.Source = m.expand(where, r.Source, c)
		if d.Kind == DeclFile {
			d.Name = pak.NormalizeName(*r.File)
			if d.Name == "" {
				d.Name = pak.NormalizeName(path.Base(filepath.ToSlash(d.Source)))
			}
		} else {
			d.Name = pak.NormalizeName(*r.Dir)
		}
	case r.Align != nil:
		d.Kind = DeclAlign
		d.Size = *r.Align
		if d.Size <= 0 || bits.OnesCount(uint(d.Size)) != 1 {
			c.addf(where, ErrAlignment, "%d", d.Size)
		}
	case r.Pad != nil:
		d.Kind = DeclPad
		d.Size = *r.Pad
		if d.Size < 0 {
			c.addf(where, ErrPadSize, "%d", d.Size)
		}
	}
	if (d.Kind == DeclAlign || d.Kind == DeclPad) && (r.Source != "" || r.Method != "") {
		c.addf(where, ErrUnexpectedField, "%s takes no source or method", d.Kind)
	}
	return d, len(c.errs) == before
}

// expand replaces ${name} references with manifest variables. Every
// undefined reference is a separate problem.
func (m *Manifest) expand(where, s string, c *collector) string {
	return varRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		value, ok := m.vars[name]
		if !ok {
			c.addf(where, ErrUndefinedVar, "%s", name)
			return ref
		}
		return value
	})
}
