package trace

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Heartbeat periodically emits a KindHeartbeat event with the goroutine
// count and heap size. A run of heartbeats with no span ends between them
// points at the document the check is stuck on.
type Heartbeat struct {
	tracer Tracer
	every  time.Duration
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// StartHeartbeat returns nil when tracing is off or every <= 0. Stop on a
// nil Heartbeat does nothing.
func StartHeartbeat(tracer Tracer, every time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || every <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		every:  every,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer close(h.exited)
	tick := time.NewTicker(h.every)
	defer tick.Stop()

	var beat uint64
	var mem runtime.MemStats
	for {
		select {
		case <-h.done:
			return
		case now := <-tick.C:
			beat++
			runtime.ReadMemStats(&mem)
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d goroutines=%d heap=%dKiB", beat, runtime.NumGoroutine(), mem.HeapAlloc>>10),
			})
		}
	}
}

// Stop ends the loop and waits for it; calling it again is a no-op.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	<-h.exited
}
