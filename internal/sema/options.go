package sema

// TextPolicy decides which text runs become tokens.
type TextPolicy uint8

const (
	// TextEmitAll emits every text run.
	TextEmitAll TextPolicy = iota
	// TextSuppressOutsideMarkup drops text while no markup is open in any layer.
	TextSuppressOutsideMarkup
)

func (p TextPolicy) String() string {
	if p == TextSuppressOutsideMarkup {
		return "suppress-outside-markup"
	}
	return "emit-all"
}

// ParseTextPolicy accepts the names produced by String.
func ParseTextPolicy(s string) (TextPolicy, bool) {
	switch s {
	case "emit-all", "":
		return TextEmitAll, true
	case "suppress-outside-markup":
		return TextSuppressOutsideMarkup, true
	}
	return TextEmitAll, false
}

// UnclosedPolicy decides what happens to markup still open at end of document.
type UnclosedPolicy uint8

const (
	UnclosedError UnclosedPolicy = iota
	UnclosedIgnore
)

func (p UnclosedPolicy) String() string {
	if p == UnclosedIgnore {
		return "ignore"
	}
	return "error"
}

func ParseUnclosedPolicy(s string) (UnclosedPolicy, bool) {
	switch s {
	case "error", "":
		return UnclosedError, true
	case "ignore":
		return UnclosedIgnore, true
	}
	return UnclosedError, false
}

// Options configure validation of one document.
type Options struct {
	TextPolicy     TextPolicy
	UnclosedMarkup UnclosedPolicy
}
