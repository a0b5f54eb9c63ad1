package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/meigma/pak"
	"github.com/meigma/pak/internal/walk"
)

// Build resolves every declaration against basePath. An empty basePath
// means the directory of the manifest file (or the working directory for
// a manifest parsed from bytes). Absolute sources are used as-is.
//
// Dir declarations expand to one file mapping per regular file below the
// source, in lexical order, named prefix/relative/path and inheriting the
// declaration's method. Every missing or unusable source is collected and
// returned together as an *Error.
//
// A file produced by a dir declaration may share its name with another
// mapping; the archive keeps the last one. Build returns pak.ErrNotBuilt
// when Parse has not succeeded.
func (m *Manifest) Build(ctx context.Context, basePath string) error {
	if !m.parsed {
		return pak.ErrNotBuilt
	}
	m.built = false
	m.mappings = nil

	if basePath == "" && m.path != "" {
		basePath = filepath.Dir(m.path)
	}

	var c collector
	var mappings []Mapping
	for i, d := range m.decls {
		where := fmt.Sprintf("%s %q", d.Kind, d.Name)
		if d.Name == "" {
			where = fmt.Sprintf("%s #%d", d.Kind, i)
		}
		switch d.Kind {
		case DeclFile:
			src := resolve(basePath, d.Source)
			if err := checkFile(src); err != nil {
				c.add(where, err)
				continue
			}
			mappings = append(mappings, Mapping{Kind: DeclFile, Name: d.Name, Source: src, Method: d.Method})
		case DeclDir:
			src := resolve(basePath, d.Source)
			files, err := walk.Files(ctx, src, m.logger)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.add(where, sourceError(src, err))
				continue
			}
			for _, rel := range files {
				mappings = append(mappings, Mapping{
					Kind:   DeclFile,
					Name:   pak.NormalizeName(path.Join(d.Name, rel)),
					Source: filepath.Join(src, filepath.FromSlash(rel)),
					Method: d.Method,
				})
			}
			m.log().Debug("expanded directory",
				slog.String("dir", src),
				slog.String("prefix", d.Name),
				slog.Int("files", len(files)))
		case DeclAlign, DeclPad:
			mappings = append(mappings, Mapping{Kind: d.Kind, Size: d.Size})
		}
	}

	if err := c.err("build", m.name()); err != nil {
		m.log().Warn("manifest build failed",
			slog.String("manifest", m.name()),
			slog.Int("errors", len(c.errs)))
		return err
	}
	m.mappings = mappings
	m.built = true
	m.log().Debug("manifest built",
		slog.String("manifest", m.name()),
		slog.String("base", basePath),
		slog.Int("mappings", len(mappings)))
	return nil
}

func (m *Manifest) name() string {
	if m.path == "" {
		return "<bytes>"
	}
	return m.path
}

func resolve(base, source string) string {
	source = filepath.FromSlash(source)
	if filepath.IsAbs(source) || base == "" {
		return filepath.Clean(source)
	}
	return filepath.Join(base, source)
}

func checkFile(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return sourceError(src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, src)
	}
	return nil
}

func sourceError(src string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", pak.ErrFileNotFound, src)
	}
	if errors.Is(err, walk.ErrNotDir) {
		return fmt.Errorf("%w: %s", walk.ErrNotDir, src)
	}
	return err
}
