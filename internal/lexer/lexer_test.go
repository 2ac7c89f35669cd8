package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"tagml/internal/diag"
	"tagml/internal/lexer"
	"tagml/internal/source"
	"tagml/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string) {
	d := diag.New(sev, code, primary)
	d.Message = msg
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, len(r.diagnostics))
	for i, d := range r.diagnostics {
		out[i] = d.Code
	}
	return out
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tagml", []byte(input))
	rep := &testReporter{}
	return lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), rep
}

// dump печатает токены как "Kind(text)" через пробел
func dump(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	}
	return strings.Join(parts, " ")
}

func TestTokenStream(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "header and body",
			input: `[!{":ontology":{"root":"tagml"}}!][tagml>body<tagml]`,
			want:  `Header([!{":ontology":{"root":"tagml"}}!]) StartTag([tagml>) Text(body) EndTag(<tagml])`,
		},
		{
			name:  "header string containing terminator",
			input: `[!{"a":"!]"}!]x`,
			want:  `Header([!{"a":"!]"}!]) Text(x)`,
		},
		{
			name:  "leading whitespace then header",
			input: "\n  [!{}!]\n[a>",
			want:  "Text(\n  ) Header([!{}!]) Text(\n) StartTag([a>)",
		},
		{
			name:  "comment after body started",
			input: `[a>x[! note !]y<a]`,
			want:  `StartTag([a>) Text(x) Comment([! note !]) Text(y) EndTag(<a])`,
		},
		{
			name:  "milestone with list value",
			input: `[pb n=[1,2] id="a>b"]`,
			want:  `Milestone([pb n=[1,2] id="a>b"])`,
		},
		{
			name:  "rich text annotation",
			input: `[note text=[>a [b>c<b]<]>z`,
			want:  `StartTag([note text=[>a [b>c<b]<]>) Text(z)`,
		},
		{
			name:  "reference arrow",
			input: `[person who->jd>`,
			want:  `StartTag([person who->jd>)`,
		},
		{
			name:  "suspend resume and layers",
			input: `[q|+A,B>a<-q|A][+q>b<q]`,
			want:  `StartTag([q|+A,B>) Text(a) EndTag(<-q|A]) StartTag([+q>) Text(b) EndTag(<q])`,
		},
		{
			name:  "escapes stay in text",
			input: `a\[b\<c\\d`,
			want:  `Text(a\[b\<c\\d)`,
		},
		{
			name:  "variation",
			input: `x<|a|b|>y|z`,
			want:  `Text(x) DivergeOpen(<|) Text(a) Divider(|) Text(b) ConvergeClose(|>) Text(y|z)`,
		},
		{
			name:  "whitespace inside tags",
			input: `[ tagml >body< tagml ]`,
			want:  `StartTag([ tagml >) Text(body) EndTag(< tagml ])`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, rep := makeTestLexer(tc.input)
			got := dump(lx.All())
			if got != tc.want {
				t.Fatalf("tokens:\n got  %s\n want %s", got, tc.want)
			}
			if len(rep.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.codes())
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unterminated tag", "[tagml body", diag.LexUnterminatedTag},
		{"unterminated close tag", "<tagml [a>", diag.LexUnterminatedTag},
		{"unterminated header", `[!{"a":1}`, diag.LexUnterminatedHeader},
		{"unterminated comment", "x[! note", diag.LexUnterminatedComment},
		{"unterminated string", `[a b="c>`, diag.LexUnterminatedString},
		{"dangling escape", `abc\`, diag.LexDanglingEscape},
		{"lone open bracket at end", "text[", diag.LexUnterminatedTag},
		{"lone close bracket at end", "text<", diag.LexUnterminatedTag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, rep := makeTestLexer(tc.input)
			lx.All()
			codes := rep.codes()
			if len(codes) == 0 || codes[0] != tc.code {
				t.Fatalf("codes = %v, want first %s", codes, tc.code.ID())
			}
		})
	}
}

func TestTokenSpans(t *testing.T) {
	input := "[a>xy<a]"
	lx, _ := makeTestLexer(input)
	for _, tok := range lx.All() {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("%s: span text %q != %q", tok.Kind, got, tok.Text)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("[a>")
	if p := lx.Peek(); p.Kind != token.StartTag {
		t.Fatalf("peek = %s", p.Kind)
	}
	if n := lx.Next(); n.Kind != token.StartTag {
		t.Fatalf("next = %s", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("after tag = %s", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must repeat, got %s", n.Kind)
	}
}

func TestBagReporter(t *testing.T) {
	bag := diag.NewBag(0)
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tagml", []byte("[a"))
	lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
	if !bag.HasErrors() {
		t.Fatalf("expected an error in the bag")
	}
	if msg := bag.Items()[0].Message; msg != "syntax error: unterminated markup tag" {
		t.Fatalf("message = %q", msg)
	}
}
