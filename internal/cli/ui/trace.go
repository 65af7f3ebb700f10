package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/capoala/mvvm/pkg/observable"
)

// Trace prints every signal an object raises, indented under a heading.
type Trace struct {
	writer  io.Writer
	noColor bool
	subs    []observable.Subscription
}

// NewTrace creates a trace writing to w.
func NewTrace(w io.Writer, noColor bool) *Trace {
	return &Trace{writer: w, noColor: noColor}
}

// Properties prints each property-changed signal of n, prefixed by label.
func (t *Trace) Properties(label string, n observable.Notifier) {
	green := color.New(color.FgGreen)
	if t.noColor {
		green.DisableColor()
	}
	t.subs = append(t.subs, n.OnPropertyChanged(func(e observable.PropertyChange) {
		green.Fprintf(t.writer, "    → %s.%s\n", label, e.Name)
	}))
}

// Command prints each enablement signal of cmd.
func (t *Trace) Command(label string, cmd observable.Executor) {
	yellow := color.New(color.FgYellow)
	if t.noColor {
		yellow.DisableColor()
	}
	t.subs = append(t.subs, cmd.OnCanExecuteChanged(func() {
		yellow.Fprintf(t.writer, "    ⟳ %s (can execute: %t)\n", label, cmd.CanExecute())
	}))
}

// Step prints an action heading.
func (t *Trace) Step(format string, args ...any) {
	bold := color.New(color.Bold)
	if t.noColor {
		bold.DisableColor()
	}
	bold.Fprintf(t.writer, "  %s\n", fmt.Sprintf(format, args...))
}

// Close stops tracing.
func (t *Trace) Close() {
	for _, s := range t.subs {
		s.Unsubscribe()
	}
	t.subs = nil
}
