package markup

import "strings"

// UnescapeText removes the backslash from every escape sequence in body text.
// A trailing lone backslash is kept.
func UnescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `<`, `\<`, `|`, `\|`)

// EscapeText escapes the characters that would otherwise start markup.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EscapeString renders s as a double-quoted annotation value.
func EscapeString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// UnquoteString strips the quotes of an annotation string and resolves
// backslash escapes. Both quote styles are accepted.
func UnquoteString(raw string) string {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	}
	return UnescapeText(raw)
}
