// Package bridge exposes observable objects to observers outside the process:
// websocket clients, an HTTP API and Redis subscribers.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/capoala/mvvm/pkg/observable"
)

var (
	ErrUnknownProperty  = errors.New("unknown property")
	ErrReadOnlyProperty = errors.New("property is read-only")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownObject    = errors.New("unknown object")
	ErrCannotExecute    = errors.New("command cannot execute")
)

// Target is an observable object a binding layer can read, write and command
// by name. Every method must be called on the object's owner.
type Target interface {
	observable.Notifier
	Metadata() *observable.Metadata
	Properties() []string
	Commands() []string
	PropertyValue(name string) (any, bool)
	SetProperty(name string, value any) error
	Command(name string) (observable.Executor, bool)
}

// Invoker runs fn on the owner of the bridged objects and waits for it.
type Invoker interface {
	Invoke(ctx context.Context, fn func() error) error
}

// InlineInvoker runs fn on the calling goroutine. Only suitable when the
// caller already is the owner.
type InlineInvoker struct{}

func (InlineInvoker) Invoke(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

// Snapshot is the state of a Target at one point in time.
type Snapshot struct {
	Properties map[string]any  `json:"properties"`
	Commands   map[string]bool `json:"commands"`
}

// TakeSnapshot reads every property and command of t.
func TakeSnapshot(t Target) Snapshot {
	s := Snapshot{
		Properties: make(map[string]any),
		Commands:   make(map[string]bool),
	}
	for _, name := range t.Properties() {
		if v, ok := t.PropertyValue(name); ok {
			s.Properties[name] = v
		}
	}
	for _, name := range t.Commands() {
		if cmd, ok := t.Command(name); ok {
			s.Commands[name] = cmd.CanExecute()
		}
	}
	return s
}

// Execute runs the named command when it can execute.
func Execute(t Target, name string) error {
	cmd, ok := t.Command(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if !cmd.CanExecute() {
		return fmt.Errorf("%w: %s", ErrCannotExecute, name)
	}
	cmd.Execute()
	return nil
}

// ValueError reports a value of the wrong kind for a property.
type ValueError struct {
	Property string
	Want     string
	Got      any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("property %s expects a %s, got %T", e.Property, e.Want, e.Got)
}

// StringValue converts a decoded JSON value into a string property value.
func StringValue(name string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return "", &ValueError{Property: name, Want: "string", Got: v}
	}
}

// BoolValue converts a decoded JSON value into a bool property value.
func BoolValue(name string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &ValueError{Property: name, Want: "bool", Got: v}
	}
	return b, nil
}

// FloatValue converts a decoded JSON value into a float64 property value.
func FloatValue(name string, v any) (float64, error) {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) {
			return 0, &ValueError{Property: name, Want: "number", Got: v}
		}
		return f, nil
	case int:
		return float64(f), nil
	default:
		return 0, &ValueError{Property: name, Want: "number", Got: v}
	}
}

// Graph describes the dependency table of a Target.
type Graph struct {
	Properties []GraphProperty `json:"properties"`
	Commands   []GraphCommand  `json:"commands"`
}

type GraphProperty struct {
	Name         string   `json:"name"`
	CascadesFrom []string `json:"cascadesFrom,omitempty"`
	Notifies     []string `json:"notifies,omitempty"`
}

type GraphCommand struct {
	Name      string   `json:"name"`
	RequeryOn []string `json:"requeryOn,omitempty"`
}

// DescribeGraph returns the declared relationships of m. A nil table yields
// an empty graph.
func DescribeGraph(m *observable.Metadata) Graph {
	g := Graph{Properties: []GraphProperty{}, Commands: []GraphCommand{}}
	if m == nil {
		return g
	}
	for _, name := range m.Properties() {
		g.Properties = append(g.Properties, GraphProperty{
			Name:         name,
			CascadesFrom: m.CascadeSources(name),
			Notifies:     m.Forced(name),
		})
	}
	for _, name := range m.Commands() {
		g.Commands = append(g.Commands, GraphCommand{Name: name, RequeryOn: m.RequeryTriggers(name)})
	}
	return g
}
