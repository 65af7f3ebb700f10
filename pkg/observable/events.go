package observable

// PropertyChange is delivered to property-changed observers.
type PropertyChange struct {
	Sender any
	Name   string
}

// Notifier is implemented by anything raising property-changed signals.
type Notifier interface {
	OnPropertyChanged(fn func(PropertyChange)) Subscription
}

// Subscription cancels an observer registration.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the observer. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Event is an ordered list of observers of E. Emit iterates over a snapshot,
// so observers may subscribe or unsubscribe while being called. The zero value
// is ready to use.
type Event[E any] struct {
	nextID  int
	entries []handlerEntry[E]
}

type handlerEntry[E any] struct {
	id int
	fn func(E)
}

// Subscribe registers fn. A nil fn yields an inert Subscription.
func (h *Event[E]) Subscribe(fn func(E)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	h.nextID++
	id := h.nextID
	h.entries = append(h.entries, handlerEntry[E]{id: id, fn: fn})
	return Subscription{cancel: func() { h.remove(id) }}
}

func (h *Event[E]) remove(id int) {
	for i, e := range h.entries {
		if e.id == id {
			h.entries = append(h.entries[:i:i], h.entries[i+1:]...)
			return
		}
	}
}

// Emit calls every observer with e, in registration order.
func (h *Event[E]) Emit(e E) {
	if len(h.entries) == 0 {
		return
	}
	snapshot := h.entries
	for _, entry := range snapshot {
		entry.fn(e)
	}
}

// Len returns the number of registered observers.
func (h *Event[E]) Len() int { return len(h.entries) }
