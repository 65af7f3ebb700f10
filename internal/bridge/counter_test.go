package bridge

import (
	"fmt"

	"github.com/capoala/mvvm/pkg/observable"
)

// counter is a minimal Target used across the bridge tests.
type counter struct {
	observable.Store
	increment *observable.Command
}

var counterMetadata = observable.Declare(func(b *observable.Builder) {
	b.Property("Count")
	b.Property("Locked")
	b.Property("Label").CascadesFrom("Count")
	b.Command("IncrementCommand").RequeryOn("Locked")
})

func newCounter() *counter {
	c := &counter{}
	c.Init(c, counterMetadata)
	c.increment = observable.NewCommand(func() {
		observable.Set(&c.Store, "Count", c.count()+1)
	}, func() bool { return !c.locked() })
	c.AttachCommand("IncrementCommand", c.increment)
	return c
}

func (c *counter) count() float64 { return observable.Get[float64](&c.Store, "Count") }
func (c *counter) locked() bool   { return observable.Get[bool](&c.Store, "Locked") }

func (c *counter) Properties() []string { return c.Metadata().Properties() }
func (c *counter) Commands() []string   { return c.Metadata().Commands() }

func (c *counter) PropertyValue(name string) (any, bool) {
	switch name {
	case "Count":
		return c.count(), true
	case "Locked":
		return c.locked(), true
	case "Label":
		return fmt.Sprintf("count=%v", c.count()), true
	}
	return nil, false
}

func (c *counter) SetProperty(name string, value any) error {
	switch name {
	case "Count":
		v, err := FloatValue(name, value)
		if err != nil {
			return err
		}
		observable.Set(&c.Store, name, v)
		return nil
	case "Locked":
		v, err := BoolValue(name, value)
		if err != nil {
			return err
		}
		observable.Set(&c.Store, name, v)
		return nil
	case "Label":
		return fmt.Errorf("%w: %s", ErrReadOnlyProperty, name)
	}
	return fmt.Errorf("%w: %s", ErrUnknownProperty, name)
}

func (c *counter) Command(name string) (observable.Executor, bool) {
	if name == "IncrementCommand" {
		return c.increment, true
	}
	return nil, false
}
