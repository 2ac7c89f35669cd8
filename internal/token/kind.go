package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Header is the leading [!{ ... }!] block.
	Header
	// Comment is a [! ... !] block after the header.
	Comment
	// StartTag is [name ...> or [+name ...>.
	StartTag
	// EndTag is <name] or <-name].
	EndTag
	// Milestone is [name ...] without content.
	Milestone
	// Text is a run of character data, escapes included.
	Text

	// DivergeOpen opens a text variation: <|
	DivergeOpen
	// Divider separates variation branches: |
	Divider
	// ConvergeClose closes a text variation: |>
	ConvergeClose
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Header:        "Header",
	Comment:       "Comment",
	StartTag:      "StartTag",
	EndTag:        "EndTag",
	Milestone:     "Milestone",
	Text:          "Text",
	DivergeOpen:   "DivergeOpen",
	Divider:       "Divider",
	ConvergeClose: "ConvergeClose",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
