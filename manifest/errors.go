package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meigma/pak"
)

// Problems collected by Parse and Build. Each is wrapped with the location
// of the declaration that caused it.
var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrDeclaration     = errors.New("declaration needs exactly one of file, dir, align, pad")
	ErrMissingSource   = errors.New("missing source")
	ErrUnexpectedField = errors.New("field not valid for this declaration")
	ErrUndefinedVar    = errors.New("undefined variable")
	ErrAlignment       = errors.New("alignment must be a positive power of two")
	ErrPadSize         = errors.New("pad size must not be negative")
	ErrDuplicateName   = errors.New("duplicate destination")
	ErrNotRegular      = errors.New("source is not a regular file")
	ErrSyntax          = errors.New("syntax error")
)

// Error aggregates every problem found by one Parse or Build call.
// It matches pak.ErrManifest and each collected problem with errors.Is.
type Error struct {
	Op     string
	Path   string
	Errors []error
}

// Count returns the number of collected problems.
func (e *Error) Count() int { return len(e.Errors) }

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest %s %s: %d error", e.Op, e.Path, len(e.Errors))
	if len(e.Errors) != 1 {
		b.WriteString("s")
	}
	for _, err := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the collected problems.
func (e *Error) Unwrap() []error { return e.Errors }

// Is reports whether target is pak.ErrManifest.
func (e *Error) Is(target error) bool { return target == pak.ErrManifest }

// collector accumulates problems for one operation.
type collector struct {
	errs []error
}

func (c *collector) add(where string, err error) {
	c.errs = append(c.errs, fmt.Errorf("%s: %w", where, err))
}

func (c *collector) addf(where string, sentinel error, format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%s: %w: %s", where, sentinel, fmt.Sprintf(format, args...)))
}

// err returns nil when nothing was collected so callers never see a typed
// nil.
func (c *collector) err(op, path string) error {
	if len(c.errs) == 0 {
		return nil
	}
	return &Error{Op: op, Path: path, Errors: c.errs}
}

// Count returns the number of problems carried by err: 0 for nil, the
// collected count for an *Error and 1 for anything else.
func Count(err error) int {
	if err == nil {
		return 0
	}
	var me *Error
	if errors.As(err, &me) {
		return me.Count()
	}
	return 1
}
