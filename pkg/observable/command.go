package observable

// Requeryable is the sink the propagation engine signals when a command's
// enablement may have changed.
type Requeryable interface {
	NotifyCanExecuteDidChange()
}

// Executor is a parameterless command as seen by a binding layer.
type Executor interface {
	Requeryable
	CanExecute() bool
	Execute()
	OnCanExecuteChanged(fn func()) Subscription
}

// Command relays an action guarded by an optional predicate.
type Command struct {
	action    func()
	predicate func() bool
	changed   Event[struct{}]
}

// NewCommand creates a command. A nil predicate means always executable.
func NewCommand(action func(), predicate func() bool) *Command {
	return &Command{action: action, predicate: predicate}
}

// CanExecute reports the predicate's current result.
func (c *Command) CanExecute() bool {
	if c.predicate == nil {
		return true
	}
	return c.predicate()
}

// Execute runs the action without consulting CanExecute.
func (c *Command) Execute() {
	if c.action != nil {
		c.action()
	}
}

// TryExecute runs the action only when CanExecute holds.
func (c *Command) TryExecute() bool {
	if !c.CanExecute() {
		return false
	}
	c.Execute()
	return true
}

// NotifyCanExecuteDidChange tells observers to re-read CanExecute.
func (c *Command) NotifyCanExecuteDidChange() {
	if c == nil {
		return
	}
	c.changed.Emit(struct{}{})
}

// OnCanExecuteChanged registers fn to run on every enablement signal.
func (c *Command) OnCanExecuteChanged(fn func()) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return c.changed.Subscribe(func(struct{}) { fn() })
}

// CommandOf relays an action taking a parameter of type P.
type CommandOf[P any] struct {
	action    func(P)
	predicate func(P) bool
	changed   Event[struct{}]
}

// NewCommandOf creates a parameterized command. A nil predicate means always executable.
func NewCommandOf[P any](action func(P), predicate func(P) bool) *CommandOf[P] {
	return &CommandOf[P]{action: action, predicate: predicate}
}

func (c *CommandOf[P]) CanExecute(param P) bool {
	if c.predicate == nil {
		return true
	}
	return c.predicate(param)
}

func (c *CommandOf[P]) Execute(param P) {
	if c.action != nil {
		c.action(param)
	}
}

func (c *CommandOf[P]) TryExecute(param P) bool {
	if !c.CanExecute(param) {
		return false
	}
	c.Execute(param)
	return true
}

func (c *CommandOf[P]) NotifyCanExecuteDidChange() {
	if c == nil {
		return
	}
	c.changed.Emit(struct{}{})
}

func (c *CommandOf[P]) OnCanExecuteChanged(fn func()) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return c.changed.Subscribe(func(struct{}) { fn() })
}
