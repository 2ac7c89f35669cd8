package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagml/internal/prof"
)

// stopProfiling is replaced by setupProfiling; main calls it after Execute.
var stopProfiling = func() {}

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(prof.Config{CPU: cpuProfile, Mem: memProfile, Trace: tracePath})
	if err != nil {
		return err
	}
	stopProfiling = func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
		}
		stopProfiling = func() {}
	}
	return nil
}
