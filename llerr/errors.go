// Package llerr defines the structured error taxonomy shared by the
// llconfig and llruleset packages.
package llerr

import "fmt"

// Kind distinguishes the layer that produced an error.
type Kind int

const (
	// IO covers failures reading input bytes or opening a path.
	IO Kind = iota
	// Syntax covers JSON/TOML parse errors.
	Syntax
	// Schema covers well-formed documents that violate structural rules.
	Schema
	// Vocabulary covers unknown access-right keywords and bad aliases.
	Vocabulary
	// Composition covers directory-composition failures.
	Composition
	// Kernel covers Landlock syscall failures.
	Kernel
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case Syntax:
		return "Syntax"
	case Schema:
		return "Schema"
	case Vocabulary:
		return "Vocabulary"
	case Composition:
		return "Composition"
	case Kernel:
		return "Kernel"
	default:
		return "Unknown"
	}
}

// Errno maps a Kind to the small negative integer an FFI boundary
// would return to C callers. The core itself never uses these values;
// they exist so callers embedding this library behind a C ABI have a
// stable mapping to depend on.
func (k Kind) Errno() int {
	return -(int(k) + 1)
}

// Error is the structured error type returned by every fallible
// operation in this module. There is exactly one Error per failed
// call; errors are never aggregated (see spec §7).
type Error struct {
	Kind Kind
	Msg  string

	// Offset is a byte offset into the input, when known. -1 if unknown.
	Offset int
	// Line and Col are 1-based source positions, when known. 0 if unknown.
	Line, Col int

	// Path identifies the offending file, config key, or parent entry,
	// when applicable.
	Path string

	// Err is the underlying error, if any (e.g. a syscall errno or a
	// JSON/TOML decoder error). May be nil.
	Err error
}

func (e *Error) Error() string {
	loc := ""
	switch {
	case e.Line > 0:
		loc = fmt.Sprintf(" at line %d, col %d", e.Line, e.Col)
	case e.Offset >= 0:
		loc = fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Path != "" {
		loc = fmt.Sprintf("%s (%s)", loc, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s%s: %v", e.Kind, e.Msg, loc, e.Err)
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Msg, loc)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with no known source location.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Offset: -1}
}

// Newf is like New but formats Msg with fmt.Sprintf.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: -1}
}

// Wrap creates an Error that carries an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Offset: -1, Err: err}
}

// WithPath returns a copy of e with Path set.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}

// WithOffset returns a copy of e with Offset set.
func (e *Error) WithOffset(offset int) *Error {
	c := *e
	c.Offset = offset
	return &c
}

// WithPos returns a copy of e with Line/Col set.
func (e *Error) WithPos(line, col int) *Error {
	c := *e
	c.Line, c.Col = line, col
	return &c
}
