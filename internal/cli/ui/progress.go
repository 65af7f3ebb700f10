package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/capoala/mvvm/pkg/observable"
)

// ProgressBar renders a percentage as a single-line bar
type ProgressBar struct {
	writer  io.Writer
	percent float64
	width   int
	message string
	noColor bool
}

// ProgressBarOptions configures progress bar behavior
type ProgressBarOptions struct {
	Width   int // Default: 40
	NoColor bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(w io.Writer, opts ProgressBarOptions) *ProgressBar {
	width := opts.Width
	if width == 0 {
		width = 40
	}
	return &ProgressBar{writer: w, width: width, noColor: opts.NoColor}
}

// Set moves the bar to percent, clamped to [0,100], and redraws it.
func (p *ProgressBar) Set(percent float64) {
	p.percent = min(max(percent, 0), 100)
	p.render()
}

// SetMessage changes the text after the bar and redraws it.
func (p *ProgressBar) SetMessage(message string) {
	p.message = message
	p.render()
}

// Finish ends the line
func (p *ProgressBar) Finish() {
	fmt.Fprintln(p.writer)
}

func (p *ProgressBar) render() {
	filled := int(float64(p.width) * p.percent / 100)

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if p.noColor {
		cyan.DisableColor()
		gray.DisableColor()
	}

	var bar strings.Builder
	bar.WriteString("[")
	cyan.Fprint(&bar, strings.Repeat("█", filled))
	gray.Fprint(&bar, strings.Repeat("░", p.width-filled))
	bar.WriteString("]")

	message := ""
	if p.message != "" {
		message = " " + p.message
	}

	fmt.Fprintf(p.writer, "\r\033[K%s %3d%%%s", bar.String(), int(p.percent), message)
}

// ProgressSource is an observable progress report.
type ProgressSource interface {
	observable.Notifier
	Status() string
	CurrentProgressComplete() float64
}

// WatchProgress redraws bar whenever src reports. The returned subscription
// stops the view.
func WatchProgress(bar *ProgressBar, src ProgressSource) observable.Subscription {
	return src.OnPropertyChanged(func(e observable.PropertyChange) {
		switch e.Name {
		case "CurrentProgressComplete":
			bar.Set(src.CurrentProgressComplete())
		case "Status":
			bar.SetMessage(src.Status())
		}
	})
}
