package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
)

var kindNames = names[Kind]{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string { return kindNames.name(k) }

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers whole CLI operations: parse, check.
	ScopeDriver Scope = iota + 1
	// ScopePhase covers the phases of one document: lex+parse, header, body.
	ScopePhase
	// ScopeFile covers one file of a directory run.
	ScopeFile
	ScopeEvent // один parse event
)

var scopeNames = names[Scope]{"", "driver", "phase", "file", "event"}

func (s Scope) String() string { return scopeNames.name(s) }

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64 // goroutine, для параллельной проверки каталога
	Name     string // "body", "file:a.tagml"
	Detail   string
	Extra    map[string]string
}
