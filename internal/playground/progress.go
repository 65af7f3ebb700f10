package playground

import (
	"github.com/capoala/mvvm/pkg/observable"
)

var progressMetadata = observable.Declare(func(b *observable.Builder) {
	b.Property("Status")
	b.Property("CurrentProgressComplete")
})

// ProgressReporter publishes the status of a long-running operation.
// CurrentProgressComplete is a percentage.
type ProgressReporter struct {
	observable.Store
}

func NewProgressReporter(opts ...observable.Option) *ProgressReporter {
	p := &ProgressReporter{}
	p.Init(p, progressMetadata, opts...)
	return p
}

func (p *ProgressReporter) Title() string { return "Progress" }

func (p *ProgressReporter) Status() string { return observable.Get[string](&p.Store, "Status") }

func (p *ProgressReporter) CurrentProgressComplete() float64 {
	return observable.Get[float64](&p.Store, "CurrentProgressComplete")
}

func (p *ProgressReporter) SetStatus(v string) { observable.Set(&p.Store, "Status", v) }

func (p *ProgressReporter) SetCurrentProgressComplete(v float64) {
	observable.Set(&p.Store, "CurrentProgressComplete", v)
}

// Report sets the percentage and then the status.
func (p *ProgressReporter) Report(percent float64, status string) {
	p.SetCurrentProgressComplete(percent)
	p.SetStatus(status)
}

// Reset clears both values.
func (p *ProgressReporter) Reset() { p.Report(0, "") }

func (p *ProgressReporter) Properties() []string { return p.Metadata().Properties() }
func (p *ProgressReporter) Commands() []string   { return nil }

func (p *ProgressReporter) PropertyValue(name string) (any, bool) {
	switch name {
	case "Status":
		return p.Status(), true
	case "CurrentProgressComplete":
		return p.CurrentProgressComplete(), true
	}
	return nil, false
}

// SetProperty refuses writes; progress is reported by the operation itself.
func (p *ProgressReporter) SetProperty(name string, value any) error {
	switch name {
	case "Status", "CurrentProgressComplete":
		return readOnlyProperty(name)
	}
	return unknownProperty(name)
}

func (p *ProgressReporter) Command(string) (observable.Executor, bool) { return nil, false }
