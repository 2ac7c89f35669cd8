package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// uiMode is an auto|on|off switch, used by --ui and --color.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseSwitch(value string) (uiMode, bool) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, true
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, true
	}
	return "", false
}

func readUIMode(value string) (uiMode, error) {
	m, ok := parseSwitch(value)
	if !ok {
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return m, nil
}

func readColorMode(value string) (uiMode, error) {
	m, ok := parseSwitch(value)
	if !ok {
		return "", fmt.Errorf("invalid color mode %q (expected auto|on|off)", value)
	}
	return m, nil
}

// shouldUseTUI: the progress view is drawn on stderr, so auto looks there.
func shouldUseTUI(mode uiMode) bool {
	if mode == uiModeAuto {
		return isTerminal(os.Stderr)
	}
	return mode == uiModeOn
}

// applyColorMode sets the process-wide switch of fatih/color, read by the
// diagnostics printer and the version banner. Auto honours NO_COLOR.
func applyColorMode(mode uiMode) {
	if mode == uiModeAuto {
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout)
		return
	}
	color.NoColor = mode == uiModeOff
}

func colorEnabled() bool { return !color.NoColor }
