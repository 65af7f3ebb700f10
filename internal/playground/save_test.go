package playground

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capoala/mvvm/internal/dispatch"
	"github.com/capoala/mvvm/pkg/observable"
)

func TestSaveViewModel_Initial(t *testing.T) {
	vm := NewSaveViewModel(SaveOptions{})

	assert.False(t, vm.IsWorkInProgress())
	assert.Same(t, vm.Message(), vm.SubView())
	assert.Equal(t, "Hello, World!", vm.Message().Message())
	assert.True(t, vm.SaveCommand().CanExecute())
}

func TestSaveViewModel_InlineSave(t *testing.T) {
	vm := NewSaveViewModel(SaveOptions{Steps: 2})
	saveRec := record(vm)
	var statuses []string
	var percents []float64
	progress := vm.Progress()
	progress.OnPropertyChanged(func(e observable.PropertyChange) {
		switch e.Name {
		case "Status":
			statuses = append(statuses, progress.Status())
		case "CurrentProgressComplete":
			percents = append(percents, progress.CurrentProgressComplete())
		}
	})
	requeries := countRequeries(vm.SaveCommand())

	require.True(t, vm.SaveCommand().TryExecute())

	assert.Equal(t, []string{"Saving... 50%", "Saving... 100%", "Complete!", ""}, statuses)
	assert.Equal(t, []float64{50, 100, 0}, percents)
	assert.Equal(t, []string{"IsWorkInProgress", "SubView", "SubView", "IsWorkInProgress"}, saveRec.names)
	assert.Equal(t, 2, requeries.count)
	assert.False(t, vm.IsWorkInProgress())
	assert.Same(t, vm.Message(), vm.SubView())
}

func startDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	d := dispatch.New(nil)
	d.Start()
	t.Cleanup(d.Shutdown)
	return d
}

func TestSaveViewModel_CommandRunsOnDispatcher(t *testing.T) {
	d := startDispatcher(t)
	var vm *SaveViewModel
	done := make(chan struct{})
	var statuses []string

	require.NoError(t, d.Invoke(context.Background(), func() error {
		vm = NewSaveViewModel(SaveOptions{Steps: 3, StepDelay: time.Millisecond, Invoker: d})
		vm.Progress().OnPropertyChanged(func(e observable.PropertyChange) {
			if e.Name == "Status" {
				statuses = append(statuses, vm.Progress().Status())
			}
		})
		vm.OnPropertyChanged(func(e observable.PropertyChange) {
			if e.Name == "IsWorkInProgress" && !vm.IsWorkInProgress() {
				close(done)
			}
		})
		if !vm.SaveCommand().TryExecute() {
			t.Error("save command should be executable")
		}
		return nil
	}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("save did not finish")
	}

	require.NoError(t, d.Invoke(context.Background(), func() error {
		assert.Equal(t, []string{"Saving... 33%", "Saving... 67%", "Saving... 100%", "Complete!", ""}, statuses)
		assert.Same(t, vm.Message(), vm.SubView())
		assert.True(t, vm.SaveCommand().CanExecute())
		return nil
	}))
}

func TestSaveViewModel_Cancel(t *testing.T) {
	d := startDispatcher(t)
	vm := NewSaveViewModel(SaveOptions{Steps: 10, StepDelay: time.Second, Invoker: d})
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() { result <- vm.Save(ctx) }()

	require.Eventually(t, func() bool {
		var busy bool
		_ = d.Invoke(context.Background(), func() error {
			busy = vm.IsWorkInProgress()
			return nil
		})
		return busy
	}, 2*time.Second, 5*time.Millisecond)

	// A second save while the first runs is refused.
	assert.ErrorIs(t, vm.Save(context.Background()), ErrSaveInProgress)

	cancel()
	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("save did not stop after cancel")
	}

	require.NoError(t, d.Invoke(context.Background(), func() error {
		assert.False(t, vm.IsWorkInProgress())
		assert.Same(t, vm.Message(), vm.SubView())
		assert.Equal(t, 0.0, vm.Progress().CurrentProgressComplete())
		assert.Equal(t, "", vm.Progress().Status())
		return nil
	}))
}

func TestSaveViewModel_CanceledWhileQueued(t *testing.T) {
	d := startDispatcher(t)
	vm := NewSaveViewModel(SaveOptions{Steps: 2, Invoker: d})

	release := make(chan struct{})
	require.NoError(t, d.Post(func() { <-release }))

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- vm.Save(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)
	close(release)

	require.NoError(t, d.Invoke(context.Background(), func() error {
		assert.False(t, vm.IsWorkInProgress())
		assert.Same(t, vm.Message(), vm.SubView())
		assert.True(t, vm.SaveCommand().CanExecute())
		return nil
	}))
}

func TestSaveViewModel_InlineCanceledContext(t *testing.T) {
	vm := NewSaveViewModel(SaveOptions{Steps: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, vm.Save(ctx), context.Canceled)
	assert.False(t, vm.IsWorkInProgress())
	assert.Same(t, vm.Message(), vm.SubView())
}

func TestProgressReporter_ReadOnlyOverBridge(t *testing.T) {
	p := NewProgressReporter()
	p.Report(40, "Saving... 40%")

	v, ok := p.PropertyValue("CurrentProgressComplete")
	assert.True(t, ok)
	assert.Equal(t, 40.0, v)
	assert.Error(t, p.SetProperty("Status", "x"))
}

func TestMessageModel_SetProperty(t *testing.T) {
	m := NewMessageModel("hi")
	rec := record(m)

	require.NoError(t, m.SetProperty("Message", "bye"))

	assert.Equal(t, "bye", m.Message())
	assert.Equal(t, []string{"Message"}, rec.names)
	assert.Error(t, m.SetProperty("Other", "x"))
}
