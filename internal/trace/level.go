package trace

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only the ring dump on failure
	LevelPhase        // driver + phases
	LevelDetail       // + files
	LevelDebug        // + every parse event
)

var levelNames = names[Level]{"off", "error", "phase", "detail", "debug"}

// deepest scope kept by each level
var levelScopes = [...]Scope{LevelPhase: ScopePhase, LevelDetail: ScopeFile, LevelDebug: ScopeEvent}

func (l Level) String() string { return levelNames.name(l) }

// ParseLevel reads a --trace-level value. Case is ignored.
func ParseLevel(s string) (Level, error) {
	return levelNames.parse("level", s)
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScopes) && scope <= levelScopes[l]
}

// keeps is ShouldEmit for a whole event; heartbeats pass at any level.
func (l Level) keeps(ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.ShouldEmit(ev.Scope)
}
