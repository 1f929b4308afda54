package diag

import "pysema/internal/source"

// Note attaches a secondary span/message to a Diagnostic, e.g. pointing at a
// previous declaration.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the advisory record the resolver emits for the handful of
// conditions it treats as soft-but-worth-flagging (duplicate bindings,
// shadowing, unresolved imports). It never represents a hard failure: the
// resolver always finishes building the table regardless of what it reports.
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

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
