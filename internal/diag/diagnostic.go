// Package diag carries diagnostic data through the compiler. Spec §7
// says the design intentionally does not batch or recover: the driver
// stops at the first SevError Diagnostic it sees. The Bag/Reporter
// split still exists because it is how the teacher structures every
// phase (including tests), and a single Diagnostic is what "stop on
// first error" looks like in this shape.
package diag

import "fygc/internal/source"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}

// Note provides auxiliary context for a diagnostic, e.g. the other
// side of a unify mismatch or the original declaration of a symbol
// being redeclared.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single issue, not recovered from (spec §7).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Error implements error, so a Diagnostic can flow through ordinary Go
// error-returning signatures up to the CLI layer.
func (d Diagnostic) Error() string {
	return d.Code.String() + ": " + d.Message
}
