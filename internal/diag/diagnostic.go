package diag

import (
	"strings"

	"tagml/internal/source"
)

// Diagnostic is one finding about a document.
//
// Span locates the finding in bytes; Range is the same location in
// line/character form and is filled in once the owning file is known.
// Unranged diagnostics (ambiguity reports, I/O failures) have Ranged == false.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Code     Code
	Message  string
	Span     source.Span
	Range    source.Range
	Ranged   bool
}

func New(sev Severity, code Code, span source.Span, args ...any) Diagnostic {
	kind := KindCustom
	if code.IsSyntax() {
		kind = KindSyntax
	}
	return Diagnostic{
		Severity: sev,
		Kind:     kind,
		Code:     code,
		Message:  code.Format(args...),
		Span:     span,
		Ranged:   true,
	}
}

func NewError(code Code, span source.Span, args ...any) Diagnostic {
	return New(SevError, code, span, args...)
}

func NewWarning(code Code, span source.Span, args ...any) Diagnostic {
	return New(SevWarning, code, span, args...)
}

// NewAmbiguity builds an unranged ambiguity report.
func NewAmbiguity(code Code, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Kind:     KindAmbiguity,
		Code:     code,
		Message:  code.Format(args...),
	}
}

// WithRange attaches a resolved range.
func (d Diagnostic) WithRange(r source.Range) Diagnostic {
	d.Range = r
	d.Ranged = true
	return d
}

// resolved reports whether the range was already computed.
func (d *Diagnostic) resolved() bool {
	return !d.Ranged || d.Range.Start.Line != 0
}

// Compare orders ranged diagnostics by range and message; unranged ones
// come after all ranged ones and are ordered by message.
func (d Diagnostic) Compare(other Diagnostic) int {
	switch {
	case d.Ranged && other.Ranged:
		if c := d.Range.Compare(other.Range); c != 0 {
			return c
		}
	case d.Ranged:
		return -1
	case other.Ranged:
		return 1
	}
	return strings.Compare(d.Message, other.Message)
}

func (d Diagnostic) String() string {
	if !d.Ranged {
		return d.Message
	}
	return d.Range.String() + " " + d.Message
}
