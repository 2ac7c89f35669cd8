package driver

import (
	"fmt"

	"github.com/pkg/errors"

	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/header"
	"tagml/internal/lexer"
	"tagml/internal/markup"
	"tagml/internal/observ"
	"tagml/internal/parser"
	"tagml/internal/sema"
	"tagml/internal/source"
	"tagml/internal/trace"
)

// Result is the outcome of validating one document.
//
// A parse succeeds when Errors is empty; warnings never fail it. Tokens holds
// whatever was emitted, also for a failed parse.
type Result struct {
	FileSet  *source.FileSet
	File     *source.File
	Tokens   []markup.Token
	Header   *header.Header
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
	// Stopped is set when a breaking error ended validation early.
	Stopped bool
	// Cached results are restored from DiskCache and carry no tokens.
	Cached bool
}

// OK reports whether the document is valid.
func (r *Result) OK() bool { return r != nil && len(r.Errors) == 0 }

// Parse validates in-memory TAGML text.
func Parse(text string, opts Options) *Result {
	return ParseSource("<input>", []byte(text), opts)
}

// ParseSource validates content under the given display name.
func ParseSource(name string, content []byte, opts Options) *Result {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, content))
	res := check(file, opts, 0)
	res.FileSet = fs
	return res
}

// ParseFile loads and validates a file. Only I/O failures are returned as
// errors; validation findings are in the Result.
func ParseFile(path string, opts Options) (*Result, error) {
	span := trace.Begin(opts.tracer(), trace.ScopeDriver, "parse", 0).WithExtra("path", path)
	defer span.End("")

	fs := source.NewFileSet()
	loaded := opts.Timer.Start("load")
	id, err := fs.Load(path)
	loaded("")
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	res := check(fs.Get(id), opts, span.ID())
	res.FileSet = fs
	return res, nil
}

func check(file *source.File, opts Options, parent uint64) *Result {
	tr := opts.tracer()
	span := trace.Begin(tr, trace.ScopePhase, "lex+parse", parent)

	diags := diag.NewCollector(file, opts.MaxDiagnostics).ReportAmbiguity(opts.ReportAmbiguity)
	l := sema.NewListener(file, diags, opts.semaOptions())
	pl := &phaseListener{Listener: l, tracer: tr, timer: opts.Timer, parent: span.ID()}
	syntax := diag.NewDedupReporter(diags)
	lx := lexer.New(file, lexer.Options{Reporter: syntax})
	pres := parser.Parse(file, lx, pl, parser.Options{Reporter: syntax})
	pl.finish()

	res := &Result{
		File:     file,
		Tokens:   l.Tokens(),
		Header:   l.Header(),
		Errors:   diags.OrderedErrors(),
		Warnings: diags.OrderedWarnings(),
		Stopped:  pres.Stopped,
	}
	span.WithExtra("errors", fmt.Sprint(len(res.Errors))).
		WithExtra("warnings", fmt.Sprint(len(res.Warnings))).
		WithExtra("repeats", fmt.Sprint(syntax.Dropped())).
		WithExtra("over-limit", fmt.Sprint(diags.Overflow()))
	span.End(fmt.Sprintf("%d tokens", len(res.Tokens)))
	return res
}

// phaseListener splits the walk into "header" and "body" spans and forwards
// every event to the validating listener.
type phaseListener struct {
	parser.Listener
	tracer trace.Tracer
	timer  *observ.Timer
	parent uint64

	body     *trace.Span
	bodyDone func(note string)
	events   int
}

func (l *phaseListener) OnHeader(h *ast.Header) error {
	span := trace.Begin(l.tracer, trace.ScopePhase, "header", l.parent)
	done := l.timer.Start("header")
	err := l.Listener.OnHeader(h)
	done("")
	span.End("")
	l.startBody()
	return err
}

func (l *phaseListener) startBody() {
	if l.body != nil {
		return
	}
	l.body = trace.Begin(l.tracer, trace.ScopePhase, "body", l.parent)
	l.bodyDone = l.timer.Start("body")
}

func (l *phaseListener) event(name string, span source.Span) {
	l.startBody()
	l.events++
	trace.Point(l.tracer, trace.ScopeEvent, name, l.body.ID(), span.String())
}

func (l *phaseListener) OnStartTag(t *ast.StartTag) error {
	l.event("start-tag", t.Span)
	return l.Listener.OnStartTag(t)
}

func (l *phaseListener) OnEndTag(t *ast.EndTag) error {
	l.event("end-tag", t.Span)
	return l.Listener.OnEndTag(t)
}

func (l *phaseListener) OnMilestone(m *ast.Milestone) error {
	l.event("milestone", m.Span)
	return l.Listener.OnMilestone(m)
}

func (l *phaseListener) OnText(t *ast.Text) error {
	l.event("text", t.Span)
	return l.Listener.OnText(t)
}

func (l *phaseListener) finish() {
	if l.body == nil {
		return
	}
	note := fmt.Sprintf("%d events", l.events)
	l.bodyDone(note)
	l.body.End(note)
}
