package playground

import (
	"github.com/capoala/mvvm/pkg/observable"
)

type recorder struct {
	names []string
}

func record(n observable.Notifier) *recorder {
	r := &recorder{}
	n.OnPropertyChanged(func(e observable.PropertyChange) { r.names = append(r.names, e.Name) })
	return r
}

func (r *recorder) reset() { r.names = nil }

type commandCounter struct {
	count int
}

func countRequeries(cmd observable.Executor) *commandCounter {
	c := &commandCounter{}
	cmd.OnCanExecuteChanged(func() { c.count++ })
	return c
}
