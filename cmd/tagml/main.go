package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tagml/internal/trace"
	"tagml/internal/version"
)

// errFailed is returned once diagnostics have been printed; main exits with
// status 1 without printing anything else.
var errFailed = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "tagml",
	Short: "TAGML validating parser",
	Long:  `tagml validates TAGML documents against the ontology declared in their header`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		return setupTracing(cmd)
	},
}

// main registers subcommands and global flags and runs the root command.
// Any error, including failed validation, exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inferHeaderCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("paths", "auto", "how document paths are printed (auto|absolute|relative|basename)")
	pf.Bool("quiet", false, "suppress non-essential output and source context")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics kept per document (0=all)")
	pf.String("text-policy", "", "text outside markup (emit-all|suppress-outside-markup)")
	pf.String("unclosed-markup", "", "markup left open at end of document (error|ignore)")
	pf.Bool("report-ambiguity", false, "keep ambiguity reports")
	pf.String("config", "", "path to tagml.toml (default: search upwards from the working directory)")

	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0=off)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	err := rootCmd.Execute()
	finishTracing(err != nil)
	stopProfiling()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// fail silences cobra for an already reported failure.
func fail(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errFailed
}

func unknownFormat(format string, allowed string) error {
	return fmt.Errorf("unknown format %q (expected %s)", format, allowed)
}
