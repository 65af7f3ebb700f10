package observable

import "fmt"

// CollectionAction identifies the kind of collection change.
type CollectionAction int

const (
	CollectionAdd CollectionAction = iota
	CollectionRemove
	CollectionReset
)

func (a CollectionAction) String() string {
	switch a {
	case CollectionAdd:
		return "add"
	case CollectionRemove:
		return "remove"
	case CollectionReset:
		return "reset"
	default:
		return fmt.Sprintf("CollectionAction(%d)", int(a))
	}
}

// CollectionChange describes one mutation of a List.
type CollectionChange[T any] struct {
	Action CollectionAction
	Index  int
	Item   T // zero for CollectionReset
}

// List is an ordered collection that signals its mutations.
type List[T any] struct {
	items   []T
	changed Event[CollectionChange[T]]
}

// NewList creates a list holding items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// OnCollectionChanged registers fn to receive every mutation.
func (l *List[T]) OnCollectionChanged(fn func(CollectionChange[T])) Subscription {
	return l.changed.Subscribe(fn)
}

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) At(i int) T { return l.items[i] }

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
	l.changed.Emit(CollectionChange[T]{Action: CollectionAdd, Index: len(l.items) - 1, Item: item})
}

// Remove deletes the item at index i.
func (l *List[T]) Remove(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(l.items))
	}
	item := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.changed.Emit(CollectionChange[T]{Action: CollectionRemove, Index: i, Item: item})
	return nil
}

func (l *List[T]) Clear() {
	l.items = nil
	l.changed.Emit(CollectionChange[T]{Action: CollectionReset, Index: -1})
}
