package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics. Warnings never fail a parse.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Kind tells where a diagnostic comes from.
type Kind uint8

const (
	// KindCustom covers validation findings (ontology, document structure).
	KindCustom Kind = iota
	// KindSyntax covers lexer and grammar errors.
	KindSyntax
	// KindAmbiguity is reported only on request and carries no range.
	KindAmbiguity
)

func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	case KindSyntax:
		return "syntax"
	case KindAmbiguity:
		return "ambiguity"
	}
	return "unknown"
}
