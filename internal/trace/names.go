package trace

import (
	"fmt"
	"strings"
)

// names maps the values of a small enum to their flag spelling; an empty
// entry is a value with no name.
type names[T ~uint8] []string

func (n names[T]) name(v T) string {
	if i := int(v); i < len(n) && n[i] != "" {
		return n[i]
	}
	return "unknown"
}

func (n names[T]) parse(what, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	var valid []string
	for i, name := range n {
		if name == "" {
			continue
		}
		if name == s {
			return T(i), nil // #nosec G115 -- tables are tiny
		}
		valid = append(valid, name)
	}
	return 0, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(valid, "|"))
}
