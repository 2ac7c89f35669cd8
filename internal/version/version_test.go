package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredWithoutColor(t *testing.T) {
	saved, savedNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNoColor }()
	color.NoColor = true

	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.5", "1.2.3-rc.1+build.5"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestColoredWithColor(t *testing.T) {
	saved, savedNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNoColor }()
	color.NoColor = false

	Version = "1.2.3-dev"
	got := Colored()
	if got == Version {
		t.Fatal("expected escape codes")
	}
	if want := majorColor.Sprint("1"); got[:len(want)] != want {
		t.Errorf("major part = %q", got)
	}
}

func TestCurrent(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()
	GitCommit = "abc123"
	if info := Current(); info.Version != Version || info.GitCommit != "abc123" {
		t.Errorf("info = %+v", info)
	}
}
