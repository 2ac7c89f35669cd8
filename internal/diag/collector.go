package diag

import (
	"github.com/pkg/errors"

	"tagml/internal/source"
)

// ErrBreak signals that a breaking error was recorded and the walk over the
// current document must stop.
var ErrBreak = errors.New("parsing aborted")

// Collector accumulates the diagnostics of one document.
// It is owned by a single parse and is not safe for concurrent use.
type Collector struct {
	file            *source.File
	bag             *Bag
	broken          bool
	reportAmbiguity bool
}

// NewCollector binds a collector to file; max limits the number of stored
// diagnostics (0 means unlimited).
func NewCollector(file *source.File, max int) *Collector {
	return &Collector{file: file, bag: NewBag(max)}
}

// ReportAmbiguity enables ambiguity diagnostics, which are dropped by default.
func (c *Collector) ReportAmbiguity(on bool) *Collector {
	c.reportAmbiguity = on
	return c
}

func (c *Collector) add(d Diagnostic) {
	if d.Kind == KindAmbiguity && !c.reportAmbiguity {
		return
	}
	if !d.resolved() && c.file != nil {
		d.Range = c.file.Range(d.Span)
	}
	c.bag.Add(d)
}

// AddError records an error built from code's template.
func (c *Collector) AddError(span source.Span, code Code, args ...any) {
	c.add(NewError(code, span, args...))
}

// AddWarning records a warning built from code's template.
func (c *Collector) AddWarning(span source.Span, code Code, args ...any) {
	c.add(NewWarning(code, span, args...))
}

// AddBreakingError records the error and returns an error wrapping ErrBreak.
// Callers must stop issuing events for the current document.
func (c *Collector) AddBreakingError(span source.Span, code Code, args ...any) error {
	d := NewError(code, span, args...)
	c.add(d)
	c.broken = true
	return errors.Wrap(ErrBreak, d.Message)
}

// AddErrors merges diagnostics produced by a nested parse.
func (c *Collector) AddErrors(list []Diagnostic) {
	for _, d := range list {
		c.add(d)
	}
}

// AddAmbiguity records an unranged ambiguity report, if enabled.
func (c *Collector) AddAmbiguity(code Code, args ...any) {
	c.add(NewAmbiguity(code, args...))
}

// Report implements Reporter so lexer and parser can feed the collector directly.
func (c *Collector) Report(code Code, sev Severity, primary source.Span, msg string) {
	d := New(sev, code, primary)
	d.Message = msg
	c.add(d)
}

// Broken reports whether a breaking error was recorded.
func (c *Collector) Broken() bool { return c.broken }

// Overflow counts diagnostics dropped by the limit.
func (c *Collector) Overflow() int { return c.bag.Overflow() }

func (c *Collector) HasErrors() bool { return c.bag.HasErrors() }

func (c *Collector) HasWarnings() bool { return c.bag.HasWarnings() }

// OrderedErrors returns errors sorted by range, then message.
func (c *Collector) OrderedErrors() []Diagnostic { return c.bag.Errors() }

// OrderedWarnings returns warnings sorted by range, then message.
func (c *Collector) OrderedWarnings() []Diagnostic { return c.bag.Warnings() }

// Bag exposes the underlying storage for formatters.
func (c *Collector) Bag() *Bag { return c.bag }
