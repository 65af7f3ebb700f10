package observable

import (
	"go.uber.org/zap"
)

// Object is the embeddable base of an observable type. The zero value raises
// signals but propagates nothing until Init binds a dependency table.
type Object struct {
	sender         any
	meta           *Metadata
	commands       map[string]Requeryable
	changed        Event[PropertyChange]
	logger         *zap.Logger
	closureRequery bool
}

// Option configures an Object at Init.
type Option func(*Object)

// WithLogger sets the logger used for propagation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Object) {
		o.logger = logger
	}
}

// WithClosureRequery requeries commands declared against any property reached
// during a pass, not only the property that started it.
func WithClosureRequery() Option {
	return func(o *Object) {
		o.closureRequery = true
	}
}

// Init binds the object to its sender (the value observers see) and its
// dependency table. It must be called before the first Set or Notify.
func (o *Object) Init(sender any, meta *Metadata, opts ...Option) {
	o.sender = sender
	o.meta = meta
	for _, opt := range opts {
		opt(o)
	}
}

// Metadata returns the bound dependency table, or nil before Init.
func (o *Object) Metadata() *Metadata {
	return o.meta
}

// OnPropertyChanged registers fn to receive every property-changed signal.
func (o *Object) OnPropertyChanged(fn func(PropertyChange)) Subscription {
	return o.changed.Subscribe(fn)
}

// AttachCommand binds the relay instance behind a declared command property.
func (o *Object) AttachCommand(name string, cmd Requeryable) {
	if o.commands == nil {
		o.commands = make(map[string]Requeryable)
	}
	o.commands[name] = cmd
}

// AttachedCommand returns the relay bound to name.
func (o *Object) AttachedCommand(name string) (Requeryable, bool) {
	cmd, ok := o.commands[name]
	return cmd, ok
}

func (o *Object) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// SetField stores v into field and notifies name when it differs from the
// current value.
func SetField[T comparable](o *Object, field *T, v T, name string) bool {
	if *field == v {
		return false
	}
	*field = v
	o.Notify(name)
	return true
}

// SetFieldFunc is SetField with a caller-supplied equality.
func SetFieldFunc[T any](o *Object, field *T, v T, name string, eq func(a, b T) bool) bool {
	if eq(*field, v) {
		return false
	}
	*field = v
	o.Notify(name)
	return true
}
