package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// NextSeq returns the next global event number.
func NextSeq() uint64 { return seq.Add(1) }

// getGoroutineID reads N from the "goroutine N [running]:" header of the
// current stack. Workers of a directory check differ by it.
func getGoroutineID() uint64 {
	var buf [64]byte
	line := buf[:runtime.Stack(buf[:], false)]
	line, ok := bytes.CutPrefix(line, []byte("goroutine "))
	if !ok {
		return 0
	}
	num, _, _ := bytes.Cut(line, []byte{' '})
	gid, err := strconv.ParseUint(string(num), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open operation. End must be called once.
type Span struct {
	tracer  Tracer
	begin   Event // begin event; End reuses its identity fields
	started time.Time
	extra   map[string]string
}

// off is the span handed out when nothing is traced; its ID is 0.
func off() *Span { return &Span{tracer: Nop} }

// Begin starts a span under parent (0 for a root). A disabled tracer or a
// scope above the level gives a span that emits nothing and has ID 0.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return off()
	}
	now := time.Now()
	s := &Span{
		tracer:  t,
		started: now,
		begin: Event{
			Time:     now,
			Seq:      NextSeq(),
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanIDs.Add(1),
			ParentID: parent,
			GID:      getGoroutineID(),
			Name:     name,
		},
	}
	ev := s.begin
	t.Emit(&ev)
	return s
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

// End emits the end event with detail and the collected extras and returns
// how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	ev := s.begin
	ev.Time = now
	ev.Seq = NextSeq()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 4)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
