package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tagml/internal/trace"
)

// tracing holds what setupTracing started so that finishTracing can stop it
// after Execute returns, error or not.
var tracing struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
}

// setupTracing inspects trace-related flags, attaches a tracer to the command
// context and starts the heartbeat if requested.
func setupTracing(cmd *cobra.Command) error {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	tracing.tracer = tracer
	tracing.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	return nil
}

// finishTracing stops the heartbeat and flushes the tracer. When the command
// failed, the ring buffer (if any) is dumped to stderr.
func finishTracing(failed bool) {
	if tracing.tracer == nil {
		return
	}
	tracing.heartbeat.Stop()
	if failed {
		dumpRing(os.Stderr, tracing.tracer)
	}
	if err := tracing.tracer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
	}
	if err := tracing.tracer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
	}
	tracing.tracer = nil
}

func dumpRing(w io.Writer, tr trace.Tracer) {
	var ring *trace.RingTracer
	switch t := tr.(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring = t.Ring()
	}
	if ring == nil || len(ring.Snapshot()) == 0 {
		return
	}
	fmt.Fprintln(w, "trace: last events")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
