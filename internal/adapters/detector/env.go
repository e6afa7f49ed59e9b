// Package detector provides environment detection for output styling selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the styling mode for the linear renderer.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeColor renders with ANSI colors and symbols.
	ModeColor
	// ModePlain renders without ANSI escapes, for CI logs and redirected output.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies a user override flag to auto-detection.
// userFlag should be one of: "auto", "color", "plain", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "color":
		return ModeColor
	case "plain", "ci":
		return ModePlain
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
