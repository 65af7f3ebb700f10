package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{Context: "type not found", Problem: "Cannot find view model type 'x'."},
			contains: []string{
				"❌ TYPE NOT FOUND\n",
				"   Cannot find view model type 'x'.\n",
			},
		},
		{
			name:     "error with suggestions",
			opts:     ErrorOptions{Problem: "unknown", Suggestions: []string{"person", "save"}},
			contains: []string{"Did you mean: person, save?"},
		},
		{
			name:     "error with help commands",
			opts:     ErrorOptions{Problem: "bad", HelpCommands: []string{"Get help: mvvm --help"}},
			contains: []string{"   → Get help: mvvm --help\n"},
		},
		{
			name:     "consequence",
			opts:     ErrorOptions{Problem: "bad", Consequence: "Nothing was saved."},
			contains: []string{"\n   Nothing was saved.\n"},
		},
		{
			name:     "warning",
			opts:     ErrorOptions{Level: ErrorLevelWarning, Problem: "careful"},
			contains: []string{"⚠️ careful"},
			excludes: []string{"❌"},
		},
		{
			name:     "info",
			opts:     ErrorOptions{Level: ErrorLevelInfo, Problem: "fyi"},
			contains: []string{"ℹ️ fyi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			out := FormatError(tt.opts)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})
	assert.Equal(t, "❌ boom\n", buf.String())
}

func TestWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "Saved", true)
	assert.Equal(t, "✓ Saved\n", buf.String())
}

func TestUnknownTypeError(t *testing.T) {
	out := UnknownTypeError("creat", []string{"create", "listing", "save"}, true)

	assert.Contains(t, out, "TYPE NOT FOUND")
	assert.Contains(t, out, "Did you mean: create?")
	assert.Contains(t, out, "→ See all types: mvvm graph")
}

func TestUnknownDemoError(t *testing.T) {
	out := UnknownDemoError("cycel", []string{"person", "cycle", "save"}, true)

	assert.Contains(t, out, "DEMO NOT FOUND")
	assert.Contains(t, out, "Did you mean: cycle?")
}

func TestConfigError(t *testing.T) {
	out := ConfigError("log.level is invalid", true)

	assert.Contains(t, out, "CONFIGURATION ERROR")
	assert.Contains(t, out, "cat mvvm.yml")
}
