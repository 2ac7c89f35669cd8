package lexer

// ===== Классификаторы =====

// IsNameStart reports whether b may begin an element, layer or attribute name.
func IsNameStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// IsNameContinue reports whether b may continue a name.
func IsNameContinue(b byte) bool {
	return IsNameStart(b) || (b >= '0' && b <= '9') || b == '.' || b == '-'
}

// IsSpace reports ASCII whitespace.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsSpace(s[i]) {
			return false
		}
	}
	return true
}
