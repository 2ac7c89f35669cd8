package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/lexer"
	"tagml/internal/source"
)

// recorder записывает события в компактном текстовом виде
type recorder struct {
	events  []string
	starts  []*ast.StartTag
	stopAt  int
	stopErr error
}

func (r *recorder) add(ev string) error {
	r.events = append(r.events, ev)
	if r.stopAt > 0 && len(r.events) == r.stopAt {
		return r.stopErr
	}
	return nil
}

func layers(ls []ast.Layer) string {
	if len(ls) == 0 {
		return ""
	}
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.Name
	}
	return "|" + strings.Join(names, ",")
}

func (r *recorder) OnHeader(h *ast.Header) error { return r.add("header") }

func (r *recorder) OnStartTag(t *ast.StartTag) error {
	r.starts = append(r.starts, t)
	return r.add(fmt.Sprintf("start(%s%s%s)", t.Prefix, t.Name.QName(), layers(t.Layers)))
}

func (r *recorder) OnEndTag(t *ast.EndTag) error {
	return r.add(fmt.Sprintf("end(%s%s%s)", t.Prefix, t.Name.QName(), layers(t.Layers)))
}

func (r *recorder) OnMilestone(m *ast.Milestone) error {
	return r.add(fmt.Sprintf("milestone(%s%s)", m.Name.QName(), layers(m.Layers)))
}

func (r *recorder) OnText(t *ast.Text) error { return r.add(fmt.Sprintf("text(%s)", t.Content)) }

func (r *recorder) OnEOF(source.Span) error { return r.add("eof") }

func parseString(t *testing.T, input string, rec *recorder) (*diag.Bag, Result) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.tagml", []byte(input)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := Parse(file, lx, rec, Options{Reporter: rep})
	return bag, res
}

func TestEvents(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple",
			input: `[!{}!][tagml>body<tagml]`,
			want:  "header start(tagml) text(body) end(tagml) eof",
		},
		{
			name:  "whitespace after header is dropped",
			input: "[!{}!]\n\n[tagml>body<tagml]\n",
			want:  "header start(tagml) text(body) end(tagml) text(\n) eof",
		},
		{
			name:  "prefixes and layers",
			input: `[!{}!][q|+A,B>a<-q|A][+q>b<?q]`,
			want:  "header start(q|A,B) text(a) end(-q|A) start(+q) text(b) end(?q) eof",
		},
		{
			name:  "milestone namespace and escapes",
			input: `[!{}!][tei:pb n=1]a\[b`,
			want:  "header milestone(tei:pb) text(a[b) eof",
		},
		{
			name:  "comments and variations produce no events",
			input: `[!{}!][! c !]x<|a|b|>y`,
			want:  "header text(x) text(a) text(b) text(y) eof",
		},
		{
			name:  "whitespace inside tags",
			input: `[!{}!][ tagml >body< tagml ]`,
			want:  "header start(tagml) text(body) end(tagml) eof",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			bag, _ := parseString(t, tc.input, rec)
			if got := strings.Join(rec.events, " "); got != tc.want {
				t.Fatalf("events:\n got  %s\n want %s", got, tc.want)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
		})
	}
}

func TestAnnotations(t *testing.T) {
	rec := &recorder{}
	input := `[!{}!][x s="a \"b\"" t='c' b=true n=-12 f=1.5 l=[1, 2] sl=["a","b"] e=[] o={k=1 m="v"} r=[>rich [i>text<i]<] :id=x1 !who=jd by->jd bad=@@>`
	bag, _ := parseString(t, input, rec)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(rec.starts) != 1 {
		t.Fatalf("starts = %d", len(rec.starts))
	}
	type want struct {
		kind  ast.AnnotationKind
		name  string
		value ast.ValueKind
		text  string
	}
	wants := []want{
		{ast.AnnotationBasic, "s", ast.ValueString, `a "b"`},
		{ast.AnnotationBasic, "t", ast.ValueString, "c"},
		{ast.AnnotationBasic, "b", ast.ValueBoolean, "true"},
		{ast.AnnotationBasic, "n", ast.ValueNumber, "-12"},
		{ast.AnnotationBasic, "f", ast.ValueNumber, "1.5"},
		{ast.AnnotationBasic, "l", ast.ValueList, "[1, 2]"},
		{ast.AnnotationBasic, "sl", ast.ValueList, `["a","b"]`},
		{ast.AnnotationBasic, "e", ast.ValueList, "[]"},
		{ast.AnnotationBasic, "o", ast.ValueObject, `{k=1 m="v"}`},
		{ast.AnnotationBasic, "r", ast.ValueRichText, "rich [i>text<i]"},
		{ast.AnnotationIdentifying, ":id", ast.ValueInvalid, "x1"},
		{ast.AnnotationReference, "who", 0, "jd"},
		{ast.AnnotationReference, "by", 0, "jd"},
		{ast.AnnotationBasic, "bad", ast.ValueInvalid, "@@"},
	}
	got := rec.starts[0].Annotations
	if len(got) != len(wants) {
		t.Fatalf("annotations = %d, want %d", len(got), len(wants))
	}
	for i, w := range wants {
		a := got[i]
		if a.Kind != w.kind || a.Name != w.name {
			t.Errorf("#%d: kind %d name %q", i, a.Kind, a.Name)
			continue
		}
		if a.Kind == ast.AnnotationReference {
			if a.Ref != w.text {
				t.Errorf("#%d: ref %q", i, a.Ref)
			}
			continue
		}
		if a.Value.Kind != w.value {
			t.Errorf("#%d %s: value kind %s, want %s", i, a.Name, a.Value.Kind, w.value)
		}
		text := a.Value.Raw
		switch a.Value.Kind {
		case ast.ValueString, ast.ValueRichText:
			text = a.Value.Str
		case ast.ValueBoolean:
			text = fmt.Sprint(a.Value.Bool)
		}
		if text != w.text {
			t.Errorf("#%d %s: value %q, want %q", i, a.Name, text, w.text)
		}
	}
	if !got[3].Value.IsInt || got[4].Value.IsInt {
		t.Errorf("IsInt misclassified")
	}
	if n := len(got[8].Value.Fields); n != 2 {
		t.Errorf("object fields = %d", n)
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  diag.Code
		start uint32
	}{
		{"missing header", `[tagml>x<tagml]`, diag.SynMissingHeader, 0},
		{"no element name", `[!{}!][>x`, diag.SynBadTag, 8},
		{"junk in close tag", `[!{}!][a>x<a b]`, diag.SynBadTag, 13},
		{"missing equals", `[!{}!][a b>`, diag.SynBadAnnotation, 10},
		{"unclosed variation", `[!{}!]x<|a|b`, diag.SynUnbalancedVariation, 7},
		{"list without comma", `[!{}!][a l=[1,2 x]>`, diag.SynBadAnnotation, 16},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bag, _ := parseString(t, tc.input, &recorder{})
			items := bag.Items()
			if len(items) == 0 {
				t.Fatalf("no diagnostics")
			}
			if items[0].Code != tc.code || items[0].Span.Start != tc.start {
				t.Fatalf("got %s at %d (%s), want %s at %d",
					items[0].Code.ID(), items[0].Span.Start, items[0].Message, tc.code.ID(), tc.start)
			}
			if !strings.HasPrefix(items[0].Message, "syntax error: ") {
				t.Errorf("message %q", items[0].Message)
			}
		})
	}
}

func TestBadAnnotationKeepsTag(t *testing.T) {
	rec := &recorder{}
	bag, _ := parseString(t, `[!{}!][a x=1 y>z<a]`, rec)
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	if got := strings.Join(rec.events, " "); got != "header start(a) text(z) end(a) eof" {
		t.Fatalf("events = %s", got)
	}
	if n := len(rec.starts[0].Annotations); n != 1 {
		t.Fatalf("annotations kept = %d", n)
	}
}

func TestListenerErrorStopsParse(t *testing.T) {
	rec := &recorder{stopAt: 2, stopErr: errors.Wrap(diag.ErrBreak, "stop")}
	_, res := parseString(t, `[!{}!][a>x<a]`, rec)
	if !res.Stopped || !errors.Is(res.Err, diag.ErrBreak) {
		t.Fatalf("result = %+v", res)
	}
	if len(rec.events) != 2 {
		t.Fatalf("events after stop: %v", rec.events)
	}
}
