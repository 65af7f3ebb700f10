package observable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressReporter struct {
	Store
}

func newProgressReporter() *progressReporter {
	r := &progressReporter{}
	r.Init(r, Declare(func(b *Builder) {
		b.Property("Summary").CascadesFrom("Status", "Complete")
	}))
	return r
}

func TestStore_GetUnsetReturnsZero(t *testing.T) {
	r := newProgressReporter()

	assert.Equal(t, "", Get[string](&r.Store, "Status"))
	assert.Equal(t, 0.0, Get[float64](&r.Store, "Complete"))
	assert.Nil(t, Get[Notifier](&r.Store, "SubView"))

	_, ok := r.Value("Status")
	assert.False(t, ok)
}

func TestStore_SetStoresAndNotifies(t *testing.T) {
	r := newProgressReporter()
	rec := record(r)

	assert.True(t, Set(&r.Store, "Complete", 40.0))
	assert.True(t, Set(&r.Store, "Status", "Saving... 40%"))

	assert.Equal(t, 40.0, Get[float64](&r.Store, "Complete"))
	assert.Equal(t, "Saving... 40%", Get[string](&r.Store, "Status"))
	assert.Equal(t, []string{"Complete", "Summary", "Status", "Summary"}, rec.names)
	assert.Equal(t, []string{"Complete", "Status"}, r.Names())
}

func TestStore_SetEqualValueIsNoOp(t *testing.T) {
	r := newProgressReporter()
	Set(&r.Store, "Status", "idle")
	rec := record(r)

	assert.False(t, Set(&r.Store, "Status", "idle"))
	assert.Empty(t, rec.names)
}

func TestStore_SetZeroValueOnUnsetIsNoOp(t *testing.T) {
	r := newProgressReporter()
	rec := record(r)

	assert.False(t, Set(&r.Store, "Status", ""))
	assert.Empty(t, rec.names)
	assert.Empty(t, r.Names())
}

func TestStore_InterfaceValues(t *testing.T) {
	r := newProgressReporter()
	a, b := newPerson(), newPerson()

	assert.True(t, Set[Notifier](&r.Store, "SubView", a))
	assert.False(t, Set[Notifier](&r.Store, "SubView", a))
	assert.True(t, Set[Notifier](&r.Store, "SubView", b))
	assert.Same(t, b, Get[Notifier](&r.Store, "SubView"))
	assert.True(t, Set[Notifier](&r.Store, "SubView", nil))
	assert.Nil(t, Get[Notifier](&r.Store, "SubView"))
}

func TestStore_TypeMismatch(t *testing.T) {
	r := newProgressReporter()
	Set(&r.Store, "Status", "ready")

	_, err := Lookup[int](&r.Store, "Status")
	var mismatch *TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "Status", mismatch.Property)
	assert.Equal(t, "string", mismatch.Stored.String())
	assert.Equal(t, "int", mismatch.Requested.String())

	assert.PanicsWithError(t, `property "Status" holds string, requested as int`, func() {
		Get[int](&r.Store, "Status")
	})
	assert.Panics(t, func() {
		Set(&r.Store, "Status", 3)
	})
}

func TestStore_UncomparableDynamicValue(t *testing.T) {
	r := newProgressReporter()
	require.True(t, Set[any](&r.Store, "Tags", "none"))

	assert.PanicsWithError(t, `property "Tags": value of type []int is not comparable, use SetFunc`, func() {
		Set[any](&r.Store, "Tags", []int{1})
	})
	assert.Equal(t, "none", Get[any](&r.Store, "Tags"))

	require.True(t, SetFunc[any](&r.Store, "Tags", []int{1}, func(a, b any) bool { return false }))
	assert.Panics(t, func() {
		Set[any](&r.Store, "Tags", "again")
	})
}

func TestStore_SetFunc(t *testing.T) {
	r := newProgressReporter()
	rec := record(r)
	sameItems := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	assert.True(t, SetFunc(&r.Store, "Tags", []string{"a"}, sameItems))
	assert.False(t, SetFunc(&r.Store, "Tags", []string{"a"}, sameItems))
	assert.True(t, SetFunc(&r.Store, "Tags", []string{"a", "b"}, sameItems))
	assert.Equal(t, []string{"a", "b"}, Get[[]string](&r.Store, "Tags"))
	assert.Equal(t, []string{"Tags", "Tags"}, rec.names)
}
