package detector_test

import (
	"os"
	"testing"

	"go.indexbridge.dev/core/internal/adapters/detector"
)

func TestDetectEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
	}{
		{name: "CI=true forces plain mode", ciValue: "true"},
		{name: "CI=1 forces plain mode", ciValue: "1"},
		{name: "CI=false does not force plain", ciValue: "false"},
		{name: "No CI env var", ciValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalCI := os.Getenv("CI")
			defer func() {
				if originalCI != "" {
					_ = os.Setenv("CI", originalCI)
				} else {
					_ = os.Unsetenv("CI")
				}
			}()

			if tt.ciValue != "" {
				if err := os.Setenv("CI", tt.ciValue); err != nil {
					t.Fatalf("Failed to set CI: %v", err)
				}
			} else {
				_ = os.Unsetenv("CI")
			}

			mode := detector.DetectEnvironment()

			if tt.ciValue == "true" || tt.ciValue == "1" {
				if mode != detector.ModePlain {
					t.Errorf("Expected ModePlain with CI=%s, got %v", tt.ciValue, mode)
				}
			}
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     detector.OutputMode
	}{
		{
			name:         "auto respects auto-detection (color)",
			autoDetected: detector.ModeColor,
			userFlag:     "auto",
			expected:     detector.ModeColor,
		},
		{
			name:         "auto respects auto-detection (plain)",
			autoDetected: detector.ModePlain,
			userFlag:     "auto",
			expected:     detector.ModePlain,
		},
		{
			name:         "empty flag respects auto-detection",
			autoDetected: detector.ModeColor,
			userFlag:     "",
			expected:     detector.ModeColor,
		},
		{
			name:         "color overrides auto-detection",
			autoDetected: detector.ModePlain,
			userFlag:     "color",
			expected:     detector.ModeColor,
		},
		{
			name:         "plain overrides auto-detection",
			autoDetected: detector.ModeColor,
			userFlag:     "plain",
			expected:     detector.ModePlain,
		},
		{
			name:         "ci is alias for plain",
			autoDetected: detector.ModeColor,
			userFlag:     "ci",
			expected:     detector.ModePlain,
		},
		{
			name:         "invalid flag respects auto-detection",
			autoDetected: detector.ModeColor,
			userFlag:     "invalid",
			expected:     detector.ModeColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.ResolveMode(tt.autoDetected, tt.userFlag)
			if got != tt.expected {
				t.Errorf("ResolveMode(%v, %q) = %v, want %v",
					tt.autoDetected, tt.userFlag, got, tt.expected)
			}
		})
	}
}

func TestResolveMode_EdgeCases(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     detector.OutputMode
	}{
		{
			name:         "unknown flag falls back to auto-detection (plain)",
			autoDetected: detector.ModePlain,
			userFlag:     "unknown",
			expected:     detector.ModePlain,
		},
		{
			name:         "empty string falls back to auto-detection (plain)",
			autoDetected: detector.ModePlain,
			userFlag:     "",
			expected:     detector.ModePlain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.ResolveMode(tt.autoDetected, tt.userFlag)
			if got != tt.expected {
				t.Errorf("ResolveMode(%v, %q) = %v, want %v",
					tt.autoDetected, tt.userFlag, got, tt.expected)
			}
		})
	}
}
