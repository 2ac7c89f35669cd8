// Package prof backs the --cpu-profile, --mem-profile and --runtime-trace
// flags. One Session covers a whole command, directory checks included.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/pkg/errors"
)

// Paths of the outputs; empty means off.
type Config struct {
	CPU   string
	Mem   string // heap profile written by Stop
	Trace string
}

func (c Config) empty() bool { return c.CPU == "" && c.Mem == "" && c.Trace == "" }

// Session is a running set of profilers.
type Session struct {
	mem   string
	cpu   *os.File
	trace *os.File
}

// Start begins the requested profilers. On error nothing is left running.
// A Config with no paths gives a nil Session; Stop on nil does nothing.
func Start(cfg Config) (*Session, error) {
	if cfg.empty() {
		return nil, nil
	}
	s := &Session{}
	if cfg.CPU != "" {
		f, err := create(cfg.CPU, "cpu profile")
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "cpu profile")
		}
		s.cpu = f
	}
	if cfg.Trace != "" {
		f, err := create(cfg.Trace, "runtime trace")
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
				err = errors.Wrap(err, "runtime trace")
			}
		}
		if err != nil {
			_ = s.Stop()
			return nil, err
		}
		s.trace = f
	}
	s.mem = cfg.Mem
	return s, nil
}

// Stop ends the profilers, writes the heap profile and closes the files. It
// reports the first error; later calls do nothing.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}
	if s.trace != nil {
		trace.Stop()
		keep(errors.Wrap(s.trace.Close(), "runtime trace"))
		s.trace = nil
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		keep(errors.Wrap(s.cpu.Close(), "cpu profile"))
		s.cpu = nil
	}
	if s.mem != "" {
		keep(writeHeap(s.mem))
		s.mem = ""
	}
	return first
}

func writeHeap(path string) error {
	f, err := create(path, "heap profile")
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "heap profile")
	}
	return errors.Wrap(f.Close(), "heap profile")
}

func create(path, what string) (*os.File, error) {
	// #nosec G304 -- path comes from a CLI flag
	f, err := os.Create(path)
	return f, errors.Wrap(err, what)
}
