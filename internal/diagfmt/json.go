package diagfmt

import (
	"encoding/json"
	"io"

	"tagml/internal/diag"
	"tagml/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartChar uint32 `json:"start_char,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndChar   uint32 `json:"end_char,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Kind     string        `json:"kind"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"` // nil для диагностик без диапазона
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// makeLocation создаёт LocationJSON из диагностики
func makeLocation(d diag.Diagnostic, file *source.File, opts JSONOpts) *LocationJSON {
	if !d.Ranged {
		return nil
	}
	loc := &LocationJSON{
		File:      file.FormatPath(opts.PathMode.String(), opts.BaseDir),
		StartByte: d.Span.Start,
		EndByte:   d.Span.End,
	}
	if opts.IncludePositions {
		loc.StartLine = d.Range.Start.Line
		loc.StartChar = d.Range.Start.Character
		loc.EndLine = d.Range.End.Line
		loc.EndChar = d.Range.End.Character
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, file *source.File, opts JSONOpts) DiagnosticsOutput {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range diags[:n] {
		out = append(out, DiagnosticJSON{
			Severity: d.Severity.String(),
			Kind:     d.Kind.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d, file, opts),
		})
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, file *source.File, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, file, opts))
}
