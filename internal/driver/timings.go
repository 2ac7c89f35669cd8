package driver

import "tagml/internal/observ"

// TimingReport is the "timings" block of JSON output.
type TimingReport struct {
	Kind string `json:"kind"` // "parse" или "check"
	Path string `json:"path,omitempty"`
	observ.Report
}

// Timings snapshots t; nil when timings were not requested.
func Timings(kind, path string, t *observ.Timer) *TimingReport {
	if t == nil {
		return nil
	}
	return &TimingReport{Kind: kind, Path: path, Report: t.Report()}
}
