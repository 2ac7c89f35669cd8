package driver

import (
	"tagml/internal/observ"
	"tagml/internal/sema"
	"tagml/internal/trace"
)

// Extension is the default file suffix ParseDir looks for.
const Extension = ".tagml"

// Options configures a parse.
type Options struct {
	TextPolicy     sema.TextPolicy
	UnclosedMarkup sema.UnclosedPolicy
	// MaxDiagnostics limits stored diagnostics per document, 0 - без ограничений.
	MaxDiagnostics int
	// ReportAmbiguity keeps ambiguity reports, which are dropped by default.
	ReportAmbiguity bool

	Tracer trace.Tracer
	Timer  *observ.Timer // может быть nil

	// Only used by ParseDir.
	Extension string // "" - Extension
	Cache     *DiskCache
	Progress  func(ProgressEvent)
}

func (o Options) semaOptions() sema.Options {
	return sema.Options{TextPolicy: o.TextPolicy, UnclosedMarkup: o.UnclosedMarkup}
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

func (o Options) progress(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}
