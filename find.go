package pak

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// globMeta holds the characters that make a pattern a glob rather than a
// literal name.
const globMeta = `*?[]{}\`

// Find returns an unbound view of the file entries whose names match any
// of patterns. The view shares entries with the archive, so changes made
// through it are visible in the archive.
//
// Patterns use shell glob syntax; "*" also matches "/". With no patterns
// the view holds every entry, pads included. Otherwise pads never match.
//
// Find returns an error matching ErrNoMatch when nothing matches or when a
// literal pattern (one without glob metacharacters) names no entry.
func (a *Archive) Find(patterns ...string) (*Archive, error) {
	if len(patterns) == 0 {
		return a.view(a.Entries()), nil
	}
	matchers := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		g, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		matchers[i] = g
	}

	hits := make([]bool, len(patterns))
	var found []*Entry
	for _, e := range a.entries {
		if e.kind == KindPad {
			continue
		}
		matched := false
		for i, g := range matchers {
			if g.Match(e.name) {
				hits[i] = true
				matched = true
			}
		}
		if matched {
			found = append(found, e)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(patterns, ", "))
	}
	var missing []string
	for i, p := range patterns {
		if !hits[i] && isLiteral(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(missing, ", "))
	}
	return a.view(found), nil
}

func compilePattern(p string) (glob.Glob, error) {
	if isLiteral(p) {
		p = NormalizeName(p)
	}
	g, err := glob.Compile(p)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, p, err)
	}
	return g, nil
}

func isLiteral(p string) bool {
	return !strings.ContainsAny(p, globMeta)
}
