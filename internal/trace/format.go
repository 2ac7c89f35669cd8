package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota
	FormatText          // human-readable text
	FormatNDJSON        // newline-delimited JSON
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

var processStart = time.Now()

// FormatEvent renders ev as one line in the given format.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

func formatNDJSON(ev *Event) []byte {
	type jsonEvent struct {
		Time     string            `json:"time"`
		Seq      uint64            `json:"seq"`
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		SpanID   uint64            `json:"span_id,omitempty"`
		ParentID uint64            `json:"parent_id,omitempty"`
		GID      uint64            `json:"gid,omitempty"`
		Name     string            `json:"name"`
		Detail   string            `json:"detail,omitempty"`
		Extra    map[string]string `json:"extra,omitempty"`
	}
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindGlyphs = [...]string{KindSpanBegin: "→ ", KindSpanEnd: "← ", KindPoint: "• ", KindHeartbeat: "♡ "}

// formatText: "[  12.345ms] g7   → name (detail) {k=v}". Child events get
// two extra spaces.
func formatText(ev *Event) []byte {
	buf := fmt.Appendf(nil, "[%9.3fms] ", float64(ev.Time.Sub(processStart))/float64(time.Millisecond))
	if ev.GID != 0 {
		buf = fmt.Appendf(buf, "g%d ", ev.GID)
	}
	if ev.ParentID > 0 {
		buf = append(buf, "  "...)
	}
	if int(ev.Kind) < len(kindGlyphs) {
		buf = append(buf, kindGlyphs[ev.Kind]...)
	}
	buf = append(buf, ev.Name...)
	if ev.Detail != "" {
		buf = fmt.Appendf(buf, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		buf = append(buf, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				buf = append(buf, ", "...)
			}
			buf = fmt.Appendf(buf, "%s=%s", k, ev.Extra[k])
		}
		buf = append(buf, '}')
	}
	return append(buf, '\n')
}
