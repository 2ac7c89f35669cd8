package token

import (
	"tagml/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsTag reports whether the token is a start, end or milestone tag.
func (t Token) IsTag() bool {
	switch t.Kind {
	case StartTag, EndTag, Milestone:
		return true
	default:
		return false
	}
}

// IsVariation reports whether the token is a text variation marker.
func (t Token) IsVariation() bool {
	switch t.Kind {
	case DivergeOpen, Divider, ConvergeClose:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the parser may skip the token without effect.
func (t Token) IsTrivia() bool { return t.Kind == Comment }
