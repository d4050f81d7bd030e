package diag

import (
	"tails/internal/source"
)

// Note is a related span with a short explanation.
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Related returns the spans of all notes in order.
func (d Diagnostic) Related() []source.Span {
	if len(d.Notes) == 0 {
		return nil
	}
	out := make([]source.Span, len(d.Notes))
	for i, n := range d.Notes {
		out[i] = n.Span
	}
	return out
}
