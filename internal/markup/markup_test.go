package markup

import (
	"testing"

	"tagml/internal/ontology"
)

func TestUnescapeText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{`a\[b`, "a[b"},
		{`\<tag\]`, "<tag]"},
		{`back\\slash`, `back\slash`},
		{`pipe\|`, "pipe|"},
		{`tail\`, `tail\`},
		{`ü\ü`, "üü"},
	}
	for _, tc := range cases {
		if got := UnescapeText(tc.in); got != tc.want {
			t.Errorf("UnescapeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeTextRoundTrip(t *testing.T) {
	for _, s := range []string{"a[b<c", `x\y`, "p|q", "nothing"} {
		if got := UnescapeText(EscapeText(s)); got != s {
			t.Errorf("round trip of %q gave %q", s, got)
		}
	}
	if got := EscapeText("[a>"); got != `\[a>` {
		t.Errorf("EscapeText = %q", got)
	}
}

func TestUnquoteString(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"text"`, "text"},
		{`'text'`, "text"},
		{`"say \"hi\""`, `say "hi"`},
		{`'it\'s'`, "it's"},
		{`""`, ""},
	}
	for _, tc := range cases {
		if got := UnquoteString(tc.in); got != tc.want {
			t.Errorf("UnquoteString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTypedValueString(t *testing.T) {
	cases := []struct {
		v    TypedValue
		want string
	}{
		{TypedValue{ontology.TypeString, `a"b`}, `"a\"b"`},
		{TypedValue{ontology.TypeBoolean, true}, "true"},
		{TypedValue{ontology.TypeInteger, int64(42)}, "42"},
		{TypedValue{ontology.TypeIntegerList, []int64{1, 2}}, "[1,2]"},
		{TypedValue{ontology.TypeStringList, []string{"x", "y"}}, `["x","y"]`},
		{TypedValue{ontology.TypeRichText, "some [b>bold<b]"}, "[>some [b>bold<b]<]"},
		{TypedValue{ontology.TypeObject, []KeyValue{{"n", TypedValue{ontology.TypeInteger, int64(1)}}}}, "{n=1}"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String() = %s, want %s", got, tc.want)
		}
	}
}

func TestSequence(t *testing.T) {
	toks := []Token{
		&MarkupOpen{QName: "q", MarkupID: 3},
		&TextToken{Content: "A"},
		&MarkupSuspend{QName: "q", MarkupID: 3},
		&MarkupMilestone{QName: "pb"},
	}
	if got := Sequence(toks); got != "Open(q,3)->Text(A)->Suspend(q,3)->Milestone(pb)" {
		t.Errorf("Sequence = %s", got)
	}
	if !IsBlank(" \n\t") || IsBlank(" x ") {
		t.Errorf("IsBlank misclassifies")
	}
}
