package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_NavigateTo(t *testing.T) {
	n := New[string](DefaultOptions())
	var events []Navigated[string]
	n.OnNavigated(func(e Navigated[string]) { events = append(events, e) })

	_, ok := n.Current()
	assert.False(t, ok)

	n.NavigateTo("listing")
	n.NavigateTo("create")

	cur, ok := n.Current()
	assert.True(t, ok)
	assert.Equal(t, "create", cur)
	assert.Equal(t, []string{"listing"}, n.BackStack())
	assert.True(t, n.CanGoBack())
	assert.False(t, n.CanGoForward())
	assert.Equal(t, []Navigated[string]{
		{Item: "listing", Direction: DirectionTo},
		{Item: "create", Direction: DirectionTo},
	}, events)
}

func TestNavigator_BackAndForward(t *testing.T) {
	n := New[string](DefaultOptions())
	n.NavigateTo("a")
	n.NavigateTo("b")
	n.NavigateTo("c")

	require.NoError(t, n.GoBack())
	require.NoError(t, n.GoBack())
	cur, _ := n.Current()
	assert.Equal(t, "a", cur)
	assert.Equal(t, []string{"b", "c"}, n.ForwardStack())

	require.NoError(t, n.GoForward())
	cur, _ = n.Current()
	assert.Equal(t, "b", cur)
	assert.Equal(t, []string{"a"}, n.BackStack())
	assert.Equal(t, []string{"c"}, n.ForwardStack())
}

func TestNavigator_EmptyHistory(t *testing.T) {
	n := New[int](DefaultOptions())

	assert.ErrorIs(t, n.GoBack(), ErrNoHistory)
	assert.ErrorIs(t, n.GoForward(), ErrNoHistory)
	assert.False(t, n.TryGoBack())
	assert.False(t, n.TryGoForward())
}

func TestNavigator_AutoClearForward(t *testing.T) {
	tests := []struct {
		name        string
		autoClear   bool
		wantForward []string
	}{
		{name: "cleared", autoClear: true, wantForward: []string{}},
		{name: "kept", autoClear: false, wantForward: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.AutoClearForward = tt.autoClear
			n := New[string](opts)
			n.NavigateTo("a")
			n.NavigateTo("b")
			require.True(t, n.TryGoBack())

			n.NavigateTo("c")

			assert.Equal(t, tt.wantForward, n.ForwardStack())
		})
	}
}

func TestNavigator_UnsupportedDirections(t *testing.T) {
	n := New[string](Options{SupportsBack: false, SupportsForward: false})
	n.NavigateTo("a")
	n.NavigateTo("b")

	assert.Empty(t, n.BackStack())
	assert.False(t, n.CanGoBack())
	assert.ErrorIs(t, n.GoBack(), ErrNoHistory)
}

func TestNavigator_BackOnlyDoesNotRecordForward(t *testing.T) {
	n := New[string](Options{SupportsBack: true})
	n.NavigateTo("a")
	n.NavigateTo("b")

	require.NoError(t, n.GoBack())

	assert.Empty(t, n.ForwardStack())
	assert.False(t, n.CanGoForward())
}

func TestNavigator_MaxDepthDropsOldest(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = 2
	n := New[int](opts)
	for i := 1; i <= 5; i++ {
		n.NavigateTo(i)
	}

	assert.Equal(t, []int{4, 3}, n.BackStack())
	require.True(t, n.TryGoBack())
	require.True(t, n.TryGoBack())
	assert.False(t, n.TryGoBack())
	cur, _ := n.Current()
	assert.Equal(t, 3, cur)
}

func TestNavigator_ClearStacks(t *testing.T) {
	n := New[string](DefaultOptions())
	n.NavigateTo("a")
	n.NavigateTo("b")
	n.NavigateTo("c")
	require.True(t, n.TryGoBack())

	n.ClearBackStack()
	n.ClearForwardStack()

	assert.False(t, n.CanGoBack())
	assert.False(t, n.CanGoForward())
}

func TestNavigator_EventDirection(t *testing.T) {
	n := New[string](DefaultOptions())
	var dirs []string
	n.OnNavigated(func(e Navigated[string]) { dirs = append(dirs, e.Direction.String()) })

	n.NavigateTo("a")
	n.NavigateTo("b")
	n.TryGoBack()
	n.TryGoForward()

	assert.Equal(t, []string{"to", "to", "back", "forward"}, dirs)
}

func TestSimple(t *testing.T) {
	var s Simple[string]
	var got []string
	sub := s.OnNavigated(func(e Navigated[string]) { got = append(got, e.Item) })

	s.NavigateTo("home")
	sub.Unsubscribe()
	s.NavigateTo("settings")

	assert.Equal(t, "settings", s.Current())
	assert.Equal(t, []string{"home"}, got)
}
