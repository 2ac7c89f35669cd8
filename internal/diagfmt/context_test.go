package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tagml/internal/diag"
	"tagml/internal/sema"
	"tagml/internal/source"
)

const headerDoc = `[!{
    "name": "test",
    "id": "test001",
    ":ontology": {
      "elements": {
        "p": {
           "decription": "typo is intentional"
        }  
      }
    }
}!]
[p>text<p]`

func ranged(msg string, sl, sc, el, ec uint32) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Message: msg}
	return d.WithRange(source.NewRange(sl, sc, el, ec))
}

func TestInContextMultiLine(t *testing.T) {
	src := NewSource(headerDoc)
	c := src.InContext(ranged(`Element "p" is missing a description.`, 6, 9, 8, 10))
	if c.Header != "line 6-8" {
		t.Fatalf("header = %q", c.Header)
	}
	want := [][2]uint32{{9, 15}, {1, 47}, {1, 10}}
	if len(c.Lines) != len(want) {
		t.Fatalf("lines = %d", len(c.Lines))
	}
	for i, w := range want {
		if c.Lines[i].First != w[0] || c.Lines[i].Last != w[1] {
			t.Errorf("line %d: range %d..%d, want %d..%d", i, c.Lines[i].First, c.Lines[i].Last, w[0], w[1])
		}
	}

	expected := strings.Join([]string{
		`line 6-8: Element "p" is missing a description.`,
		`        "p": {`,
		`        ------`,
		`           "decription": "typo is intentional"`,
		`----------------------------------------------`,
		`        }  `,
		`---------`,
	}, "\n")
	if got := c.Pretty(0); got != expected {
		t.Fatalf("pretty:\n%s\nwant:\n%s", got, expected)
	}
}

func TestInContextSingleLine(t *testing.T) {
	got := NewSource(headerDoc).InContext(ranged(`Unknown element field "decription"`, 7, 12, 7, 47)).Pretty(DefaultWrap)
	expected := "line 7: Unknown element field \"decription\"\n" +
		`           "decription": "typo is intentional"` + "\n" +
		`           -----------------------------------`
	if got != expected {
		t.Fatalf("pretty:\n%s\nwant:\n%s", got, expected)
	}
}

func TestUnrangedIsBareMessage(t *testing.T) {
	d := diag.NewAmbiguity(diag.SynAmbiguity, "two ways")
	if got := NewSource("x").InContext(d).Pretty(0); got != "ambiguity: two ways" {
		t.Fatalf("pretty = %q", got)
	}
}

func warningsOf(t *testing.T, text string) []diag.Diagnostic {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("doc.tagml", []byte(text)))
	diags := diag.NewCollector(file, 0)
	sema.Check(file, diags, sema.Options{})
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.OrderedErrors())
	}
	return diags.OrderedWarnings()
}

const rootOnly = "[!{\n  \":ontology\": {\n    \"root\": \"tagml\"\n  }\n}!]\n"

func TestUndefinedElementUnderlines(t *testing.T) {
	body := "[tagml>[book>[title>Foo Bar<title][chapter>[l>Lorem ipsum dolar amacet.<l]<chapter]<book]<tagml]"
	text := rootOnly + body
	warnings := warningsOf(t, text)
	if len(warnings) != 5 {
		t.Fatalf("warnings = %d", len(warnings))
	}
	cases := []struct {
		name      string
		underline string
	}{
		{"tagml", "-------"},
		{"book", "       ------"},
		{"title", strings.Repeat(" ", 13) + "-------"},
		{"chapter", strings.Repeat(" ", 34) + "---------"},
		{"l", strings.Repeat(" ", 43) + "---"},
	}
	src := NewSource(text)
	for i, tc := range cases {
		expected := `line 6: Element "` + tc.name + `" is not defined in the ontology.` + "\n" + body + "\n" + tc.underline
		if got := src.InContext(warnings[i]).Pretty(0); got != expected {
			t.Errorf("%s:\n%s\nwant:\n%s", tc.name, got, expected)
		}
	}
}

func TestLongLinesAreWrapped(t *testing.T) {
	// первая "é" проверяет, что колонки считаются в символах, а не байтах
	body := "[tagml>lorém ipsum " + strings.Repeat("lorem ipsum ", 79) + "[x>phasellus<x].<tagml]"
	text := rootOnly + body
	warnings := warningsOf(t, text)
	if len(warnings) != 2 {
		t.Fatalf("warnings = %d", len(warnings))
	}
	x := warnings[1]
	if x.Range != source.NewRange(6, 968, 6, 971) {
		t.Fatalf("range of [x> = %s", x.Range)
	}
	src := NewSource(text)

	got := src.InContext(x).Pretty(80)
	expected := "line 6: Element \"x\" is not defined in the ontology.\n" +
		" ipsum [x>phasellus<x].<tagml]\n" +
		"       ---"
	if got != expected {
		t.Fatalf("wrap 80:\n%s\nwant:\n%s", got, expected)
	}

	first := src.InContext(warnings[0]).Pretty(0)
	lines := strings.Split(first, "\n")
	if len(lines) != 3 || len([]rune(lines[1])) != DefaultWrap || lines[2] != "-------" {
		t.Fatalf("default wrap:\n%s", first)
	}
}

func TestPrettyWriter(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("doc.tagml", []byte(rootOnly+"[tagml>x<tagml]")))
	diags := diag.NewCollector(file, 0)
	sema.Check(file, diags, sema.Options{})

	var buf bytes.Buffer
	if err := Pretty(&buf, diags.OrderedWarnings(), file, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"doc.tagml:6:1: WARNING DOC4001", `line 6: Element "tagml" is not defined`, "-------"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("doc.tagml", []byte(rootOnly+"[tagml>x<tagml]")))
	diags := diag.NewCollector(file, 0)
	sema.Check(file, diags, sema.Options{})

	var buf bytes.Buffer
	if err := JSON(&buf, diags.OrderedWarnings(), file, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "DOC4001" || d.Severity != "WARNING" || d.Location == nil {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 6 || d.Location.StartChar != 1 || d.Location.EndChar != 8 {
		t.Fatalf("location = %+v", *d.Location)
	}
}

func TestTokenOutput(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("doc.tagml", []byte(rootOnly+"[tagml n=1>x<tagml]")))
	res := sema.Check(file, diag.NewCollector(file, 0), sema.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, res.Tokens); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "Open") || !strings.Contains(out, "tagml#0 n=1") || !strings.Contains(out, `"x"`) {
		t.Fatalf("pretty tokens:\n%s", out)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, res.Tokens); err != nil {
		t.Fatal(err)
	}
	var toks []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &toks); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(toks) != 4 || toks[1].Kind != "Open" || toks[1].ID == nil || *toks[1].ID != 0 || toks[1].Attributes["n"] != "1" {
		t.Fatalf("json tokens = %+v", toks)
	}
}
