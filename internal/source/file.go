package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// FileID identifies one loaded version of a document within a FileSet.
type FileID uint32

// FileFlags records how a document's bytes were obtained and normalized.
type FileFlags uint8

const (
	// FileVirtual marks text that did not come from disk (a string, stdin, a test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// String lists the set flags, "virtual,bom,crlf" style.
func (f FileFlags) String() string {
	var parts []string
	if f&FileVirtual != 0 {
		parts = append(parts, "virtual")
	}
	if f&FileHadBOM != 0 {
		parts = append(parts, "bom")
	}
	if f&FileNormalizedCRLF != 0 {
		parts = append(parts, "crlf")
	}
	return strings.Join(parts, ",")
}

// File is one document version. Content is already normalized, so offsets
// in spans and diagnostics refer to the normalized text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte // sha256 of Content, ключ дискового кэша
	Flags   FileFlags
}

// Position converts a byte offset into a 1-based line and rune column.
// Offsets past the end of the content clamp to the end.
func (f *File) Position(off uint32) Position {
	if n := uint32(len(f.Content)); off > n { // #nosec G115 -- checked by Add
		off = n
	}
	// количество переводов строки строго до off
	line := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
	var lineStart uint32
	if line > 0 {
		lineStart = f.LineIdx[line-1] + 1
	}
	col := utf8.RuneCount(f.Content[lineStart:off])
	return Position{
		Line:      uint32(line + 1), // #nosec G115 -- bounded by content length
		Character: uint32(col + 1),  // #nosec G115 -- bounded by content length
	}
}

// Range converts a span of this file into a Range.
func (f *File) Range(span Span) Range {
	return Range{Start: f.Position(span.Start), End: f.Position(span.End)}
}

// Text returns the source text covered by the span.
func (f *File) Text(span Span) string {
	n := uint32(len(f.Content)) // #nosec G115 -- checked by Add
	start, end := min(span.Start, n), min(span.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCount returns the number of lines; a trailing newline starts an empty last line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx) + 1) // #nosec G115 -- bounded by content length
}

// GetLine возвращает строку с заданным номером (1-based) без перевода строки.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || lineNum > f.LineCount() {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := uint32(len(f.Content)) // #nosec G115 -- checked by Add
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// короткие и относительные пути оставляем как есть
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
