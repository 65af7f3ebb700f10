// Package navigation provides back/forward navigation stacks for view models.
package navigation

import (
	"errors"

	"github.com/capoala/mvvm/pkg/observable"
)

// ErrNoHistory is returned by GoBack and GoForward when the stack is empty or
// the direction is not supported.
var ErrNoHistory = errors.New("navigation: no history in that direction")

// Options configures a Navigator.
type Options struct {
	SupportsBack     bool
	SupportsForward  bool
	AutoClearForward bool // clear the forward stack on NavigateTo
	MaxDepth         int  // bound on each stack, 0 = unbounded
}

// DefaultOptions supports both directions and clears forward history on direct navigation.
func DefaultOptions() Options {
	return Options{
		SupportsBack:     true,
		SupportsForward:  true,
		AutoClearForward: true,
	}
}

// Direction identifies how a navigation happened.
type Direction int

const (
	DirectionTo Direction = iota
	DirectionBack
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionBack:
		return "back"
	case DirectionForward:
		return "forward"
	default:
		return "to"
	}
}

// Navigated is raised after every navigation.
type Navigated[T any] struct {
	Item      T
	Direction Direction
}

// Navigator tracks a current item with back and forward history. Like the
// objects it navigates between, it is owned by a single goroutine.
type Navigator[T any] struct {
	opts       Options
	current    T
	hasCurrent bool
	back       stack[T]
	forward    stack[T]
	navigated  observable.Event[Navigated[T]]
}

// New creates a navigator.
func New[T any](opts Options) *Navigator[T] {
	return &Navigator[T]{
		opts:    opts,
		back:    stack[T]{max: opts.MaxDepth},
		forward: stack[T]{max: opts.MaxDepth},
	}
}

// Options returns the configuration the navigator was created with.
func (n *Navigator[T]) Options() Options { return n.opts }

// OnNavigated registers fn to run after every navigation.
func (n *Navigator[T]) OnNavigated(fn func(Navigated[T])) observable.Subscription {
	return n.navigated.Subscribe(fn)
}

// Current returns the current item and whether there is one.
func (n *Navigator[T]) Current() (T, bool) {
	return n.current, n.hasCurrent
}

func (n *Navigator[T]) CanGoBack() bool {
	return n.opts.SupportsBack && n.back.len() > 0
}

func (n *Navigator[T]) CanGoForward() bool {
	return n.opts.SupportsForward && n.forward.len() > 0
}

// BackStack returns the back history, most recent first.
func (n *Navigator[T]) BackStack() []T { return n.back.items() }

// ForwardStack returns the forward history, most recent first.
func (n *Navigator[T]) ForwardStack() []T { return n.forward.items() }

func (n *Navigator[T]) ClearBackStack()    { n.back.clear() }
func (n *Navigator[T]) ClearForwardStack() { n.forward.clear() }

// NavigateTo makes item current, pushing the previous item onto the back stack.
func (n *Navigator[T]) NavigateTo(item T) {
	if n.opts.SupportsBack && n.hasCurrent {
		n.back.push(n.current)
	}
	if n.opts.AutoClearForward {
		n.forward.clear()
	}
	n.setCurrent(item, DirectionTo)
}

// GoBack returns to the most recent item on the back stack.
func (n *Navigator[T]) GoBack() error {
	if !n.CanGoBack() {
		return ErrNoHistory
	}
	item := n.back.pop()
	if n.opts.SupportsForward && n.hasCurrent {
		n.forward.push(n.current)
	}
	n.setCurrent(item, DirectionBack)
	return nil
}

// GoForward returns to the item left by the most recent GoBack.
func (n *Navigator[T]) GoForward() error {
	if !n.CanGoForward() {
		return ErrNoHistory
	}
	item := n.forward.pop()
	if n.opts.SupportsBack && n.hasCurrent {
		n.back.push(n.current)
	}
	n.setCurrent(item, DirectionForward)
	return nil
}

// TryGoBack is GoBack reporting success instead of an error.
func (n *Navigator[T]) TryGoBack() bool { return n.GoBack() == nil }

// TryGoForward is GoForward reporting success instead of an error.
func (n *Navigator[T]) TryGoForward() bool { return n.GoForward() == nil }

func (n *Navigator[T]) setCurrent(item T, dir Direction) {
	n.current = item
	n.hasCurrent = true
	n.navigated.Emit(Navigated[T]{Item: item, Direction: dir})
}

// Simple tracks only the current item.
type Simple[T any] struct {
	current   T
	navigated observable.Event[Navigated[T]]
}

func (s *Simple[T]) Current() T { return s.current }

func (s *Simple[T]) NavigateTo(item T) {
	s.current = item
	s.navigated.Emit(Navigated[T]{Item: item, Direction: DirectionTo})
}

func (s *Simple[T]) OnNavigated(fn func(Navigated[T])) observable.Subscription {
	return s.navigated.Subscribe(fn)
}

// stack is a LIFO that drops its oldest entry once max is exceeded.
type stack[T any] struct {
	max  int
	data []T // oldest first
}

func (s *stack[T]) len() int { return len(s.data) }

func (s *stack[T]) push(v T) {
	s.data = append(s.data, v)
	if s.max > 0 && len(s.data) > s.max {
		var zero T
		s.data[0] = zero
		s.data = s.data[1:]
	}
}

func (s *stack[T]) pop() T {
	last := len(s.data) - 1
	v := s.data[last]
	var zero T
	s.data[last] = zero
	s.data = s.data[:last]
	return v
}

func (s *stack[T]) clear() { s.data = nil }

func (s *stack[T]) items() []T {
	out := make([]T, len(s.data))
	for i, v := range s.data {
		out[len(s.data)-1-i] = v
	}
	return out
}
