package diag

import "tagml/internal/source"

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards to next, dropping a diagnostic seen before with the
// same code, span and message. The lexer and the parser share one, so a
// broken tag that both of them notice is reported once.
type DedupReporter struct {
	next    Reporter
	seen    map[dedupKey]struct{}
	dropped int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, span: primary, msg: msg}
	if _, ok := r.seen[key]; ok {
		r.dropped++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg)
	}
}

// Dropped returns how many repeats were filtered out.
func (r *DedupReporter) Dropped() int {
	if r == nil {
		return 0
	}
	return r.dropped
}
