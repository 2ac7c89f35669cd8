package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"tagml/internal/diagfmt"
	"tagml/internal/driver"
	"tagml/internal/observ"
	"tagml/internal/sema"
	"tagml/internal/trace"
)

const configFileName = "tagml.toml"

// projectConfig is the content of tagml.toml. Every key is optional.
type projectConfig struct {
	Parse  parseConfig  `toml:"parse"`
	Output outputConfig `toml:"output"`
	Check  checkConfig  `toml:"check"`
}

type parseConfig struct {
	TextPolicy     string `toml:"text_policy"`
	UnclosedMarkup string `toml:"unclosed_markup"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type outputConfig struct {
	Color  string `toml:"color"`
	Wrap   int    `toml:"wrap"`
	Format string `toml:"format"`
	Paths  string `toml:"paths"`
}

type checkConfig struct {
	Jobs      int    `toml:"jobs"`
	Extension string `toml:"extension"`
	Cache     bool   `toml:"cache"`
}

// findConfig walks up from startDir looking for tagml.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// settings is the merged view of defaults, tagml.toml and flags.
type settings struct {
	TextPolicy      sema.TextPolicy
	UnclosedMarkup  sema.UnclosedPolicy
	MaxDiagnostics  int
	ReportAmbiguity bool

	Color  string
	Wrap   int
	Format string
	Paths  diagfmt.PathMode

	Jobs      int
	Extension string
	Cache     bool

	Quiet   bool
	Timings bool
}

func defaultSettings() settings {
	return settings{Color: "auto", Format: "pretty", Extension: driver.Extension}
}

// applyConfig overrides s with the keys present in cfg.
func (s *settings) applyConfig(cfg projectConfig) error {
	if cfg.Parse.TextPolicy != "" {
		if err := s.setTextPolicy(cfg.Parse.TextPolicy); err != nil {
			return err
		}
	}
	if cfg.Parse.UnclosedMarkup != "" {
		if err := s.setUnclosed(cfg.Parse.UnclosedMarkup); err != nil {
			return err
		}
	}
	if cfg.Parse.MaxDiagnostics < 0 || cfg.Output.Wrap < 0 || cfg.Check.Jobs < 0 {
		return errors.New("max_diagnostics, wrap and jobs must not be negative")
	}
	if cfg.Parse.MaxDiagnostics > 0 {
		s.MaxDiagnostics = cfg.Parse.MaxDiagnostics
	}
	if cfg.Output.Color != "" {
		if _, err := readColorMode(cfg.Output.Color); err != nil {
			return err
		}
		s.Color = cfg.Output.Color
	}
	if cfg.Output.Wrap > 0 {
		s.Wrap = cfg.Output.Wrap
	}
	if cfg.Output.Format != "" {
		if err := checkDiagFormat(cfg.Output.Format); err != nil {
			return err
		}
		s.Format = cfg.Output.Format
	}
	if cfg.Output.Paths != "" {
		if err := s.setPaths(cfg.Output.Paths); err != nil {
			return err
		}
	}
	if cfg.Check.Jobs > 0 {
		s.Jobs = cfg.Check.Jobs
	}
	if cfg.Check.Extension != "" {
		s.Extension = normalizeExtension(cfg.Check.Extension)
	}
	s.Cache = s.Cache || cfg.Check.Cache
	return nil
}

func (s *settings) setTextPolicy(v string) error {
	p, ok := sema.ParseTextPolicy(v)
	if !ok {
		return fmt.Errorf("invalid text policy %q (expected emit-all|suppress-outside-markup)", v)
	}
	s.TextPolicy = p
	return nil
}

func (s *settings) setUnclosed(v string) error {
	p, ok := sema.ParseUnclosedPolicy(v)
	if !ok {
		return fmt.Errorf("invalid unclosed markup policy %q (expected error|ignore)", v)
	}
	s.UnclosedMarkup = p
	return nil
}

func (s *settings) setPaths(v string) error {
	m, ok := diagfmt.ParsePathMode(v)
	if !ok {
		return fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", v)
	}
	s.Paths = m
	return nil
}

func normalizeExtension(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

func checkDiagFormat(format string) error {
	switch format {
	case "pretty", "json", "short":
		return nil
	}
	return unknownFormat(format, "pretty|json|short")
}

// loadSettings merges tagml.toml and the flags of cmd. Only flags set on the
// command line override the file.
func loadSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	global := cmd.Root().PersistentFlags()

	path, err := global.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return s, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return s, err
		}
		if err := s.applyConfig(cfg); err != nil {
			return s, fmt.Errorf("%s: %w", path, err)
		}
	}

	if global.Changed("text-policy") {
		v, _ := global.GetString("text-policy")
		if err := s.setTextPolicy(v); err != nil {
			return s, err
		}
	}
	if global.Changed("unclosed-markup") {
		v, _ := global.GetString("unclosed-markup")
		if err := s.setUnclosed(v); err != nil {
			return s, err
		}
	}
	if global.Changed("max-diagnostics") {
		s.MaxDiagnostics, _ = global.GetInt("max-diagnostics")
	}
	if global.Changed("color") {
		s.Color, _ = global.GetString("color")
	}
	if global.Changed("paths") {
		v, _ := global.GetString("paths")
		if err := s.setPaths(v); err != nil {
			return s, err
		}
	}
	s.ReportAmbiguity, _ = global.GetBool("report-ambiguity")
	s.Quiet, _ = global.GetBool("quiet")
	s.Timings, _ = global.GetBool("timings")

	local := cmd.Flags()
	if f := local.Lookup("format"); f != nil && f.Changed {
		s.Format = f.Value.String()
	}
	if f := local.Lookup("jobs"); f != nil && f.Changed {
		s.Jobs, _ = local.GetInt("jobs")
	}
	if f := local.Lookup("cache"); f != nil && f.Changed {
		s.Cache, _ = local.GetBool("cache")
	}
	if f := local.Lookup("ext"); f != nil && f.Changed {
		s.Extension = normalizeExtension(f.Value.String())
	}

	mode, err := readColorMode(s.Color)
	if err != nil {
		return s, err
	}
	applyColorMode(mode)
	return s, nil
}

// driverOptions builds the options of one run. The tracer comes from the
// command context; a timer is attached only with --timings.
func (s settings) driverOptions(cmd *cobra.Command) driver.Options {
	opts := driver.Options{
		TextPolicy:      s.TextPolicy,
		UnclosedMarkup:  s.UnclosedMarkup,
		MaxDiagnostics:  s.MaxDiagnostics,
		ReportAmbiguity: s.ReportAmbiguity,
		Tracer:          trace.FromContext(cmd.Context()),
		Extension:       s.Extension,
	}
	if s.Timings {
		opts.Timer = observ.NewTimer()
	}
	return opts
}

// prettyOpts and jsonOpts print paths relative to baseDir with --paths=relative;
// check passes its directory, parse the working directory ("").
func (s settings) prettyOpts(baseDir string) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		PathMode:  s.Paths,
		BaseDir:   baseDir,
		Wrap:      s.Wrap,
		NoContext: s.Quiet,
	}
}

func (s settings) jsonOpts(baseDir string) diagfmt.JSONOpts {
	return diagfmt.JSONOpts{IncludePositions: true, PathMode: s.Paths, BaseDir: baseDir}
}
