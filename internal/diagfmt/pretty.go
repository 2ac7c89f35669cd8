package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tagml/internal/diag"
	"tagml/internal/source"
)

type palette struct {
	path, err, warn, info, code *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path: mk(color.Bold),
		err:  mk(color.FgRed, color.Bold),
		warn: mk(color.FgYellow, color.Bold),
		info: mk(color.FgCyan),
		code: mk(color.Faint),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики одного файла в человекочитаемый вид.
// Для каждой печатает
//
//	<path>:<line>:<char>: <SEV> <CODE>
//
// и затем контекст: "line N: message", строки исходника и подчёркивание.
// Порядок входного среза сохраняется.
func Pretty(w io.Writer, diags []diag.Diagnostic, file *source.File, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	path := file.FormatPath(opts.PathMode.String(), opts.BaseDir)
	src := NewSource(string(file.Content))

	for i, d := range diags {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		loc := path
		if d.Ranged {
			loc = fmt.Sprintf("%s:%d:%d", path, d.Range.Start.Line, d.Range.Start.Character)
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s\n",
			p.path.Sprint(loc), p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID())); err != nil {
			return err
		}
		body := d.Message
		if !opts.NoContext {
			body = src.InContext(d).Pretty(opts.Wrap)
		}
		if _, err := fmt.Fprintln(w, body); err != nil {
			return err
		}
	}
	return nil
}

// Short writes diagnostics one per line, see diag.FormatShort.
func Short(w io.Writer, path string, diags []diag.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, diag.FormatShort(path, diags))
	return err
}
