package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagml/internal/diagfmt"
	"tagml/internal/driver"
	"tagml/internal/sema"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tagml.toml"), "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig: %q %v %v", path, ok, err)
	}
	want, _ := filepath.Abs(filepath.Join(root, "tagml.toml"))
	if path != want {
		t.Fatalf("findConfig = %q, want %q", path, want)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagml.toml")
	writeFile(t, path, `# corpus settings
[parse]
text_policy = "suppress-outside-markup"
unclosed_markup = "ignore"
max_diagnostics = 20

[output]
color = "off"
wrap = 80
format = "short"
paths = "relative"

[check]
jobs = 3
extension = "xml"
cache = true
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	s := defaultSettings()
	if err := s.applyConfig(cfg); err != nil {
		t.Fatal(err)
	}
	want := settings{
		TextPolicy:     sema.TextSuppressOutsideMarkup,
		UnclosedMarkup: sema.UnclosedIgnore,
		MaxDiagnostics: 20,
		Color:          "off",
		Wrap:           80,
		Format:         "short",
		Paths:          diagfmt.PathModeRelative,
		Jobs:           3,
		Extension:      ".xml",
		Cache:          true,
	}
	if s != want {
		t.Fatalf("settings = %+v\nwant %+v", s, want)
	}
}

func TestConfigDefaultsSurviveEmptyFile(t *testing.T) {
	s := defaultSettings()
	if err := s.applyConfig(projectConfig{}); err != nil {
		t.Fatal(err)
	}
	if s != defaultSettings() {
		t.Fatalf("empty config changed settings: %+v", s)
	}
}

func TestConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "[parse]\nstrict = true\n", "unknown keys: parse.strict"},
		{"bad policy", "[parse]\ntext_policy = \"some\"\n", "invalid text policy"},
		{"bad unclosed", "[parse]\nunclosed_markup = \"warn\"\n", "invalid unclosed markup policy"},
		{"bad color", "[output]\ncolor = \"always\"\n", "invalid color mode"},
		{"bad format", "[output]\nformat = \"sarif\"\n", "unknown format"},
		{"bad paths", "[output]\npaths = \"full\"\n", "invalid path mode"},
		{"negative jobs", "[check]\njobs = -1\n", "must not be negative"},
		{"not toml", "[parse\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tagml.toml")
			writeFile(t, path, tc.data)
			cfg, err := loadConfig(path)
			if err == nil {
				s := defaultSettings()
				err = s.applyConfig(cfg)
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected an error")
	}
	if _, err := readColorMode("sometimes"); err == nil || !strings.Contains(err.Error(), "color") {
		t.Errorf("readColorMode: %v", err)
	}
}

const testHeader = `[!{":ontology":{"root":"doc","elements":{"doc":{"description":"root"}}}}!]`

func TestCheckReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.tagml"), testHeader+`[doc>text<doc]`)
	writeFile(t, filepath.Join(dir, "bad.tagml"), testHeader+`[doc>text`)

	run, err := driver.ParseDir(context.Background(), dir, driver.Options{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeCheckJSON(&buf, run, diagfmt.JSONOpts{PathMode: diagfmt.PathModeRelative, BaseDir: dir}, nil); err != nil {
		t.Fatal(err)
	}
	var report checkReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if report.RunID != run.RunID || report.OK || len(report.Files) != 2 {
		t.Fatalf("report = %+v", report)
	}
	// файлы отсортированы: bad.tagml первым
	if report.Files[0].Path != "bad.tagml" || report.Files[0].OK || !report.Files[1].OK || report.Files[0].Errors.Count == 0 {
		t.Errorf("files = %+v", report.Files)
	}
	if report.Errors != report.Files[0].Errors.Count {
		t.Errorf("errors = %d", report.Errors)
	}

	buf.Reset()
	printCheckSummary(&buf, run)
	if !strings.HasPrefix(buf.String(), "checked 2 files: 1 failed, ") {
		t.Errorf("summary = %q", buf.String())
	}
}
