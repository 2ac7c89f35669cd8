package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"tagml/internal/diagfmt"
	"tagml/internal/driver"
	"tagml/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <directory>",
	Short: "Validate every TAGML document in a directory",
	Long:  `Check validates all *.tagml files under a directory in parallel and reports the diagnostics of each`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	checkCmd.Flags().Bool("cache", false, "reuse results of unchanged documents from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	checkCmd.Flags().String("ext", driver.Extension, "file extension of documents")
}

// checkReport is the JSON form of a directory run.
type checkReport struct {
	RunID    string               `json:"run_id"`
	Dir      string               `json:"dir"`
	OK       bool                 `json:"ok"`
	Errors   int                  `json:"errors"`
	Warnings int                  `json:"warnings"`
	Files    []documentReport     `json:"files"`
	Timings  *driver.TimingReport `json:"timings,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := args[0]
	st, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(err, "check")
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory, use `tagml parse` for single documents", dir)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := checkDiagFormat(s.Format); err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	opts := s.driverOptions(cmd)
	if s.Cache || clearCache {
		cache, err := driver.OpenDiskCache("tagml")
		if err != nil {
			return err
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return err
			}
		}
		if s.Cache {
			opts.Cache = cache
		}
	}

	ctx, span := trace.StartSpan(cmd.Context(), trace.ScopeDriver, "cli:check")
	defer span.End("")

	var run *driver.DirResult
	// JSON в stdout не смешиваем с UI
	if s.Format != "json" && !s.Quiet && shouldUseTUI(mode) {
		files, err := driver.ListFiles(dir, s.Extension)
		if err != nil {
			return err
		}
		run, err = runCheckWithUI(ctx, "check "+dir, dir, files, opts, s.Jobs)
		if err != nil {
			return err
		}
	} else {
		run, err = driver.ParseDir(ctx, dir, opts, s.Jobs)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if s.Format == "json" {
		if err := writeCheckJSON(out, run, s.jsonOpts(dir), driver.Timings("check", dir, opts.Timer)); err != nil {
			return err
		}
	} else {
		for _, r := range run.Files {
			if err := printDiagnostics(out, r, s, dir); err != nil {
				return err
			}
		}
		if !s.Quiet {
			printCheckSummary(out, run)
		}
		if opts.Timer != nil {
			fmt.Fprint(os.Stderr, opts.Timer.Summary())
		}
	}

	if !run.OK() {
		return fail(cmd)
	}
	return nil
}

func writeCheckJSON(w io.Writer, run *driver.DirResult, opts diagfmt.JSONOpts, timings *driver.TimingReport) error {
	errs, warns := run.Counts()
	report := checkReport{
		RunID:    run.RunID,
		Dir:      run.Dir,
		OK:       run.OK(),
		Errors:   errs,
		Warnings: warns,
		Files:    make([]documentReport, 0, len(run.Files)),
		Timings:  timings,
	}
	for _, r := range run.Files {
		report.Files = append(report.Files, newDocumentReport(r, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func printCheckSummary(w io.Writer, run *driver.DirResult) {
	var failed, cached int
	for _, r := range run.Files {
		if !r.OK() {
			failed++
		}
		if r.Cached {
			cached++
		}
	}
	errs, warns := run.Counts()
	fmt.Fprintf(w, "checked %d files: %d failed, %d errors, %d warnings", len(run.Files), failed, errs, warns)
	if cached > 0 {
		fmt.Fprintf(w, " (%d cached)", cached)
	}
	fmt.Fprintln(w)
}
