// Package observ measures how long the phases of a run take (--timings).
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// Timer records phases in the order they start. It is safe for concurrent
// use, and a nil *Timer records nothing, so callers need no checks.
type Timer struct {
	mu     sync.Mutex
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Start opens a phase ("load", "header", "body", "validate") and returns the
// function that closes it with a note.
func (t *Timer) Start(name string) (done func(note string)) {
	if t == nil {
		return func(string) {}
	}
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	t.mu.Unlock()

	var once sync.Once
	return func(note string) {
		once.Do(func() {
			t.mu.Lock()
			p := &t.phases[idx]
			p.dur = time.Since(p.start)
			p.note = note
			t.mu.Unlock()
		})
	}
}

// PhaseReport - фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is embedded into JSON output when --timings is set.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases. The total is the sum of all of them, nested
// ones included.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary is the --timings table printed to stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&b, "  // %s", note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
