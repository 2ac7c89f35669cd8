package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tagml/internal/diag"
	"tagml/internal/diagfmt"
	"tagml/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.tagml>",
	Short: "Validate a TAGML document",
	Long:  `Parse validates a TAGML document against its header and prints the diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
}

// documentReport is the JSON form of one validated document.
type documentReport struct {
	Path     string                    `json:"path"`
	OK       bool                      `json:"ok"`
	Stopped  bool                      `json:"stopped,omitempty"`
	Cached   bool                      `json:"cached,omitempty"`
	Tokens   int                       `json:"tokens"`
	Errors   diagfmt.DiagnosticsOutput `json:"errors"`
	Warnings diagfmt.DiagnosticsOutput `json:"warnings"`
	Timings  *driver.TimingReport      `json:"timings,omitempty"`
}

func newDocumentReport(res *driver.Result, opts diagfmt.JSONOpts) documentReport {
	return documentReport{
		Path:     res.File.FormatPath(opts.PathMode.String(), opts.BaseDir),
		OK:       res.OK(),
		Stopped:  res.Stopped,
		Cached:   res.Cached,
		Tokens:   len(res.Tokens),
		Errors:   diagfmt.BuildDiagnosticsOutput(res.Errors, res.File, opts),
		Warnings: diagfmt.BuildDiagnosticsOutput(res.Warnings, res.File, opts),
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := checkDiagFormat(s.Format); err != nil {
		return err
	}

	opts := s.driverOptions(cmd)
	res, err := driver.ParseFile(path, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch s.Format {
	case "json":
		report := newDocumentReport(res, s.jsonOpts(""))
		report.Timings = driver.Timings("parse", path, opts.Timer)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	default:
		if err := printDiagnostics(out, res, s, ""); err != nil {
			return err
		}
		if res.OK() && !s.Quiet {
			fmt.Fprintf(out, "%s: ok (%d tokens)\n", path, len(res.Tokens))
		}
		if opts.Timer != nil {
			fmt.Fprint(os.Stderr, opts.Timer.Summary())
		}
	}

	if !res.OK() {
		return fail(cmd)
	}
	return nil
}

// printDiagnostics writes errors then warnings of res in the pretty or short
// format.
func printDiagnostics(w io.Writer, res *driver.Result, s settings, baseDir string) error {
	all := make([]diag.Diagnostic, 0, len(res.Errors)+len(res.Warnings))
	all = append(all, res.Errors...)
	all = append(all, res.Warnings...)
	if len(all) == 0 {
		return nil
	}
	if s.Format == "short" {
		return diagfmt.Short(w, res.File.FormatPath(s.Paths.String(), baseDir), all)
	}
	if err := diagfmt.Pretty(w, all, res.File, s.prettyOpts(baseDir)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
