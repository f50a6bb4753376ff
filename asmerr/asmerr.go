// Package asmerr is the shared diagnostic shape for every stage past the
// lexer: syntactic (parser panic-mode), semantic, encoder, and writer
// errors, per the taxonomy in spec §7. It is grounded on the teacher's
// parser/errors.go Position/ErrorKind/Error/ErrorList pattern, generalized
// so encoder and writer diagnostics reuse the same renderer the parser
// uses instead of inventing their own shape.
//
// This package is built on fmt/errors rather than a third-party logging
// or diagnostics library: the teacher's own parser, encoder, and loader
// packages diagnose errors the same way (a typed struct plus fmt.Sprintf),
// and nothing in the retrieval pack reaches for a structured-logging
// dependency (zerolog, zap, logrus) for this kind of one-shot compiler
// diagnostic. Introducing one here would be stack drift with no grounding.
package asmerr

import "fmt"

// Position is the file/line/column a diagnostic is attributed to.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Kind identifies which stage of spec §7's taxonomy raised the error.
type Kind int

const (
	Lexical Kind = iota
	Syntactic
	Semantic
	Encoder
	Writer
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntactic:
		return "syntax error"
	case Semantic:
		return "semantic error"
	case Encoder:
		return "encoder error"
	case Writer:
		return "writer error"
	default:
		return "error"
	}
}

// Error is one diagnostic: file/line, offending lexeme, a single-sentence
// explanation, and the taxonomy kind that produced it.
type Error struct {
	Kind    Kind
	Pos     Position
	Lexeme  string
	Message string
}

func New(kind Kind, pos Position, lexeme, message string) *Error {
	return &Error{Kind: kind, Pos: pos, Lexeme: lexeme, Message: message}
}

func (e *Error) Error() string {
	if e.Lexeme != "" {
		return fmt.Sprintf("%s: %s: %s (near %q)", e.Pos, e.Kind, e.Message, e.Lexeme)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// List collects multiple diagnostics. The parser's panic-mode recovery
// (spec §7) uses this to report several syntax errors from one run before
// aborting; every later stage uses first-error-wins and never accumulates
// more than one entry.
type List struct {
	Errors []*Error
}

func (l *List) Add(e *Error) {
	l.Errors = append(l.Errors, e)
}

func (l *List) HasErrors() bool { return len(l.Errors) > 0 }

func (l *List) Error() string {
	if len(l.Errors) == 0 {
		return ""
	}
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	out := fmt.Sprintf("%d errors:", len(l.Errors))
	for _, e := range l.Errors {
		out += "\n  " + e.Error()
	}
	return out
}
