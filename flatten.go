package pak

import (
	"fmt"
	"log/slog"
	"slices"
)

// Flatten replaces every file entry whose name matches the nested pattern
// with the entries of the archive it contains, renamed to
// "<outer name>>/<inner name>". Nested entries that are themselves
// archives are expanded on later passes until no entry matches.
//
// Each pass expands every match found in the list as it stood when the
// pass began, so an archive nested N levels deep is flattened in N passes.
// Flatten returns the number of passes that expanded at least one entry.
//
// Nesting deeper than WithMaxNestingDepth, or decoding more than
// WithMaxExpandedSize bytes in total, fails with ErrCorruptArchive.
//
// A matching entry that does not decode as an archive fails the whole
// call; entries expanded before the failure stay expanded.
func (a *Archive) Flatten() (int, error) {
	g, err := compilePattern(a.cfg.nestedPattern)
	if err != nil {
		return 0, err
	}
	var decoded uint64
	passes := 0
	for {
		expanded := 0
		for i := 0; i < len(a.entries); {
			e := a.entries[i]
			if e.kind == KindPad || !g.Match(e.name) {
				i++
				continue
			}
			if a.cfg.maxDepth > 0 && passes >= a.cfg.maxDepth {
				return passes, fmt.Errorf("%w: %q nested deeper than %d levels",
					ErrCorruptArchive, e.name, a.cfg.maxDepth)
			}
			decoded += e.Size()
			if a.cfg.maxExpanded > 0 && decoded > a.cfg.maxExpanded {
				return passes, fmt.Errorf("%w: nested archives expand past %d bytes at %q",
					ErrCorruptArchive, a.cfg.maxExpanded, e.name)
			}
			children, err := a.nested(e)
			if err != nil {
				return passes, err
			}
			a.entries = slices.Replace(a.entries, i, i+1, children...)
			i += len(children)
			expanded++
		}
		if expanded == 0 {
			return passes, nil
		}
		passes++
		a.log().Debug("flatten pass",
			slog.Int("pass", passes),
			slog.Int("expanded", expanded),
			slog.Int("entries", len(a.entries)))
	}
}

// nested decodes e as an archive and returns its entries renamed under e.
func (a *Archive) nested(e *Entry) ([]*Entry, error) {
	data, err := e.Data()
	if err != nil {
		return nil, err
	}
	inner := a.view(nil)
	if err := inner.LoadBytes(data); err != nil {
		return nil, fmt.Errorf("nested archive %q: %w", e.name, err)
	}
	for _, child := range inner.entries {
		if child.kind == KindFile {
			child.name = e.name + NestedSeparator + child.name
		}
	}
	return inner.entries, nil
}
