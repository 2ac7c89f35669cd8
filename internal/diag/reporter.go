package diag

import "tagml/internal/source"

// Reporter receives diagnostics from the lexer and the parser.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string)
}

// BagReporter stores reports in a Bag as is; the message is already
// formatted by the caller.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r.Bag == nil {
		return
	}
	d := New(sev, code, primary)
	d.Message = msg
	r.Bag.Add(d)
}
