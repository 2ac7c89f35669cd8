package source

import "fmt"

// Span - байтовый диапазон [Start, End) в нормализованном тексте файла.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// EmptyAt is the zero-width span at off; diagnostics about something
// missing point there.
func EmptyAt(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Shift maps a span local to a slice of the file (the header JSON, for one)
// back to file offsets.
func (s Span) Shift(base uint32) Span {
	s.Start += base
	s.End += base
	return s
}
