package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_SignalsMutations(t *testing.T) {
	l := NewList("a")
	var changes []CollectionChange[string]
	l.OnCollectionChanged(func(c CollectionChange[string]) { changes = append(changes, c) })

	l.Add("b")
	require.NoError(t, l.Remove(0))
	l.Clear()

	assert.Equal(t, []CollectionChange[string]{
		{Action: CollectionAdd, Index: 1, Item: "b"},
		{Action: CollectionRemove, Index: 0, Item: "a"},
		{Action: CollectionReset, Index: -1},
	}, changes)
	assert.Equal(t, 0, l.Len())
}

func TestList_RemoveOutOfRange(t *testing.T) {
	l := NewList(1, 2)
	assert.Error(t, l.Remove(2))
	assert.Error(t, l.Remove(-1))
	assert.Equal(t, []int{1, 2}, l.Items())
}

func TestList_ItemsIsACopy(t *testing.T) {
	l := NewList(1, 2)
	items := l.Items()
	items[0] = 9
	assert.Equal(t, 1, l.At(0))
}

func TestList_DrivesPropertyNotification(t *testing.T) {
	p := newPerson()
	people := NewList[string]()
	people.OnCollectionChanged(func(CollectionChange[string]) { p.Notify("People") })
	rec := record(p)

	people.Add("Ada")

	assert.Equal(t, []string{"People"}, rec.names)
}

func TestCollectionAction_String(t *testing.T) {
	assert.Equal(t, "add", CollectionAdd.String())
	assert.Equal(t, "remove", CollectionRemove.String())
	assert.Equal(t, "reset", CollectionReset.String())
	assert.Equal(t, "CollectionAction(7)", CollectionAction(7).String())
}
