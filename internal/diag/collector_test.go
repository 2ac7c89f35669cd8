package diag

import (
	"errors"
	"testing"

	"tagml/internal/source"
)

func newTestFile(t *testing.T, text string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.tagml", []byte(text)))
}

func messages(ds []Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}

func TestCollectorOrdering(t *testing.T) {
	f := newTestFile(t, "line one\nline two\nline three\n")
	c := NewCollector(f, 0).ReportAmbiguity(true)

	c.AddError(source.Span{Start: 9, End: 13}, DocMissingAttribute, "b", "x")
	c.AddError(source.Span{Start: 9, End: 13}, DocMissingAttribute, "a", "x")
	c.AddError(source.Span{Start: 0, End: 4}, DocUndefinedEntity, "e")
	c.AddError(source.Span{Start: 9, End: 11}, DocUndefinedEntity, "z")
	c.AddAmbiguity(DocAmbiguousClose, "<x]", "A, B")
	c.AddWarning(source.Span{Start: 18, End: 22}, DocUndefinedElement, "w")

	want := []string{
		`Entity "e" has not been defined in the header.`,
		`Entity "z" has not been defined in the header.`,
		`Required attribute "a" is missing on element "x".`,
		`Required attribute "b" is missing on element "x".`,
		`ambiguity: closing tag <x] matches open markup in layers A, B`,
	}
	got := messages(c.OrderedErrors())
	if len(got) != len(want) {
		t.Fatalf("got %d errors: %q", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("error %d: got %q, want %q", i, got[i], want[i])
		}
	}

	warnings := c.OrderedWarnings()
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(warnings))
	}
	if warnings[0].Range != source.NewRange(3, 1, 3, 5) {
		t.Errorf("warning range = %v", warnings[0].Range)
	}
	if !c.HasErrors() || !c.HasWarnings() {
		t.Error("HasErrors/HasWarnings must be true")
	}
}

func TestCollectorDropsAmbiguityByDefault(t *testing.T) {
	c := NewCollector(nil, 0)
	c.AddAmbiguity(DocAmbiguousClose, "<x]", "A, B")
	if c.HasErrors() {
		t.Fatal("ambiguity must be suppressed unless requested")
	}
}

func TestCollectorBreakingError(t *testing.T) {
	f := newTestFile(t, "[+q>")
	c := NewCollector(f, 0)
	err := c.AddBreakingError(source.Span{Start: 0, End: 4}, DocResumeWithoutSuspend, "q")
	if !errors.Is(err, ErrBreak) {
		t.Fatalf("expected ErrBreak, got %v", err)
	}
	if !c.Broken() {
		t.Error("collector must remember the breaking error")
	}
	errs := c.OrderedErrors()
	if len(errs) != 1 || errs[0].Range != source.NewRange(1, 1, 1, 5) {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestCollectorAddErrorsResolvesRanges(t *testing.T) {
	f := newTestFile(t, "ab\ncd")
	c := NewCollector(f, 0)
	c.AddErrors([]Diagnostic{
		NewError(HdrMissingOntologyField, source.Span{Start: 3, End: 5}),
		NewError(HdrMissingOntologyRoot, source.Span{}).WithRange(source.NewRange(9, 9, 9, 9)),
	})
	errs := c.OrderedErrors()
	if errs[0].Range != source.NewRange(2, 1, 2, 3) {
		t.Errorf("range not resolved: %v", errs[0].Range)
	}
	if errs[1].Range != source.NewRange(9, 9, 9, 9) {
		t.Errorf("pre-resolved range must be kept: %v", errs[1].Range)
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(DocUndefinedEntity, source.Span{}, "x"))
	}
	if b.Len() != 2 || b.Overflow() != 1 {
		t.Fatalf("Len = %d, Overflow = %d, want 2 and 1", b.Len(), b.Overflow())
	}
	if !b.HasErrors() || b.HasWarnings() {
		t.Error("HasErrors/HasWarnings mismatch")
	}
	if errs := b.Errors(); len(errs) != 2 {
		t.Errorf("Errors = %d", len(errs))
	}
	if warns := b.Warnings(); warns == nil || len(warns) != 0 {
		t.Errorf("Warnings = %v, want an empty slice", warns)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	r.Report(LexUnterminatedTag, SevError, source.Span{Start: 1, End: 2}, "x")
	r.Report(LexUnterminatedTag, SevError, source.Span{Start: 1, End: 2}, "x")
	r.Report(LexUnterminatedTag, SevError, source.Span{Start: 1, End: 3}, "x")
	if bag.Len() != 2 || r.Dropped() != 1 {
		t.Fatalf("expected 2 diagnostics and 1 repeat, got %d and %d", bag.Len(), r.Dropped())
	}
	if bag.Items()[0].Kind != KindSyntax {
		t.Error("lexer codes must produce syntax diagnostics")
	}
}

func TestCodeFormatting(t *testing.T) {
	tests := []struct {
		code Code
		args []any
		id   string
		want string
	}{
		{HdrMissingOntologyField, nil, "HDR3001", `Field ":ontology" missing in header.`},
		{DocWrongDataType, []any{"n", "Integer", "String"}, "DOC4012", `Attribute "n" is defined as dataType Integer, but is used as dataType String`},
		{SynBadTag, []any{"expected '>'"}, "SYN2003", `syntax error: expected '>'`},
		{IOLoadFileError, []any{"x"}, "IO5001", "failed to load file: x"},
	}
	for _, tt := range tests {
		if got := tt.code.Format(tt.args...); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.id, got, tt.want)
		}
		if tt.code.ID() != tt.id {
			t.Errorf("ID = %s, want %s", tt.code.ID(), tt.id)
		}
	}
}

func TestFormatShort(t *testing.T) {
	f := newTestFile(t, "x\n[a>")
	c := NewCollector(f, 0)
	c.AddWarning(source.Span{Start: 2, End: 5}, DocUndefinedElement, "a")
	got := FormatShort("doc.tagml", c.OrderedWarnings())
	want := `warning DOC4001 doc.tagml:2:1 Element "a" is not defined in the ontology.`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}
