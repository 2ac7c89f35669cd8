package diagfmt

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"tagml/internal/diag"
)

// DefaultWrap is the column at which Context.Pretty wraps long source lines.
const DefaultWrap = 120

// SourceLineRange is one source line touched by a diagnostic together with
// the 1-based character range to underline. Last is exclusive.
type SourceLineRange struct {
	Line  string
	First uint32
	Last  uint32
}

// Context is a diagnostic placed in its source text.
type Context struct {
	Message string
	Header  string // "line N" or "line N-M"; empty for unranged diagnostics
	Lines   []SourceLineRange
}

// Source splits a document into lines once so that many diagnostics can be
// placed in it.
type Source struct {
	lines []string
}

func NewSource(text string) *Source {
	return &Source{lines: strings.Split(text, "\n")}
}

func (s *Source) line(n uint32) string {
	if n == 0 || int(n) > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// InContext resolves the lines and character ranges covered by d.
func (s *Source) InContext(d diag.Diagnostic) Context {
	if !d.Ranged {
		return Context{Message: d.Message}
	}
	start, end := d.Range.Start, d.Range.End
	c := Context{Message: d.Message, Header: fmt.Sprintf("line %d", start.Line)}
	if end.Line != start.Line {
		c.Header = fmt.Sprintf("line %d-%d", start.Line, end.Line)
	}
	for n := start.Line; n <= end.Line; n++ {
		line := s.line(n)
		width := uint32(len([]rune(line))) + 1 // #nosec G115 -- line length
		r := SourceLineRange{Line: line, First: 1, Last: width}
		switch {
		case n == start.Line && n == end.Line:
			r.First, r.Last = start.Character, end.Character
		case n == start.Line:
			r.First = start.Character
		case n == end.Line:
			r.Last = end.Character
		}
		c.Lines = append(c.Lines, r)
	}
	return c
}

// underline renders the dashes under r, padded so they line up with the source text.
func (r SourceLineRange) underline() string {
	if r.Last <= r.First {
		return ""
	}
	runes := []rune(r.Line)
	col := func(char uint32) int {
		// ширина в колонках терминала до символа char (1-based)
		n := max(int(char)-1, 0)
		if n <= len(runes) {
			return runewidth.StringWidth(string(runes[:n]))
		}
		return runewidth.StringWidth(r.Line) + n - len(runes)
	}
	from, to := col(r.First), col(r.Last)
	return strings.Repeat(" ", from) + strings.Repeat("-", to-from)
}

// Pretty renders the context as "header: message" followed by each source
// line and its underline. Lines longer than wrapAt columns are cut into
// chunks; only chunks with something underlined are kept.
func (c Context) Pretty(wrapAt int) string {
	if c.Header == "" {
		return c.Message
	}
	if wrapAt <= 0 {
		wrapAt = DefaultWrap
	}
	var b strings.Builder
	b.WriteString(c.Header)
	b.WriteString(": ")
	b.WriteString(c.Message)
	for _, r := range c.Lines {
		lines := chunk(r.Line, wrapAt)
		marks := chunk(r.underline(), wrapAt)
		for i := 0; i < len(lines) && i < len(marks); i++ {
			if strings.TrimSpace(marks[i]) == "" {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(lines[i])
			b.WriteByte('\n')
			b.WriteString(strings.TrimRight(marks[i], " "))
		}
	}
	return b.String()
}

// chunk cuts s into pieces at most width columns wide.
func chunk(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	var (
		out []string
		cur strings.Builder
		w   int
	)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && w > 0 {
			out = append(out, cur.String())
			cur.Reset()
			w = 0
		}
		cur.WriteRune(r)
		w += rw
	}
	return append(out, cur.String())
}
