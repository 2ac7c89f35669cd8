package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line as
// "<severity> <code> <path>:<line>:<char> <message>". The input order is kept;
// callers pass OrderedErrors/OrderedWarnings for a stable result.
func FormatShort(path string, diags []Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		if d.Ranged {
			fmt.Fprintf(&b, "%s %s %s:%d:%d %s", severityLabel(d.Severity), d.Code.ID(), path,
				d.Range.Start.Line, d.Range.Start.Character, sanitizeMessage(d.Message))
		} else {
			fmt.Fprintf(&b, "%s %s %s %s", severityLabel(d.Severity), d.Code.ID(), path, sanitizeMessage(d.Message))
		}
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	return strings.ReplaceAll(msg, "\n", " ")
}
