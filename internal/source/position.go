package source

import "fmt"

// Position is a human-readable location in a document.
// Both fields are 1-based; Character counts runes, not bytes.
type Position struct {
	Line      uint32
	Character uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Compare orders positions by line, then by character.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	}
	return 0
}

// Range spans Start up to End. End points just past the last character.
type Range struct {
	Start Position
	End   Position
}

// NewRange is a shortcut used mostly by tests.
func NewRange(startLine, startChar, endLine, endChar uint32) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Compare orders ranges by start position, then by end position.
func (r Range) Compare(other Range) int {
	if c := r.Start.Compare(other.Start); c != 0 {
		return c
	}
	return r.End.Compare(other.End)
}

// Lines reports how many source lines the range touches.
func (r Range) Lines() uint32 {
	if r.End.Line < r.Start.Line {
		return 1
	}
	return r.End.Line - r.Start.Line + 1
}
