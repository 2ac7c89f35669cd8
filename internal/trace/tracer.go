package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Tracer receives trace events. Directory checks emit from several workers,
// so implementations are goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool // Level() > LevelOff
}

// Nop is the tracer used when tracing is off.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// StorageMode says where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they come
	ModeRing                          // last events in memory
	ModeBoth
)

var modeNames = names[StorageMode]{"", "stream", "ring", "both"}

func (m StorageMode) String() string { return modeNames.name(m) }

// ParseMode reads a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	return modeNames.parse("mode", s)
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks by OutputPath extension
	Output     io.Writer // if nil, OutputPath is opened
	OutputPath string    // "-" or "" for stderr
	RingSize   int       // DefaultRingSize when <= 0
}

// New builds the tracer described by cfg; LevelOff gives Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == ModeRing {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, outputFormat(cfg))
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

func outputFormat(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	// #nosec G304 -- path comes from the --trace flag
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return &traceFile{Writer: bufio.NewWriter(f), f: f}, nil
}

// traceFile buffers writes to the --trace file; Close flushes it.
type traceFile struct {
	*bufio.Writer
	f *os.File
}

func (t *traceFile) Close() error {
	if err := t.Flush(); err != nil {
		_ = t.f.Close()
		return err
	}
	return t.f.Close()
}
