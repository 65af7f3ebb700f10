package playground

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/pkg/observable"
)

// ErrSaveInProgress is returned by Save while another save is running.
var ErrSaveInProgress = errors.New("save already in progress")

var saveMetadata = observable.Declare(func(b *observable.Builder) {
	b.Property("IsWorkInProgress")
	b.Property("SubView")
	b.Command("SaveCommand").RequeryOn("IsWorkInProgress")
})

// SaveOptions tunes the simulated save.
type SaveOptions struct {
	Steps     int
	StepDelay time.Duration
	// Invoker marshals updates onto the owner. When nil, Save runs its updates
	// inline and SaveCommand blocks until the save completes.
	Invoker bridge.Invoker
	Logger  *zap.Logger
}

// SaveViewModel swaps a message view for a progress view while a save runs.
type SaveViewModel struct {
	observable.Store

	message  *MessageModel
	progress *ProgressReporter
	save     *observable.Command

	steps   int
	delay   time.Duration
	invoker bridge.Invoker
	async   bool
	logger  *zap.Logger
}

func NewSaveViewModel(opts SaveOptions, objOpts ...observable.Option) *SaveViewModel {
	if opts.Steps <= 0 {
		opts.Steps = 10
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	vm := &SaveViewModel{
		message:  NewMessageModel("Hello, World!", objOpts...),
		progress: NewProgressReporter(objOpts...),
		steps:    opts.Steps,
		delay:    opts.StepDelay,
		invoker:  opts.Invoker,
		async:    opts.Invoker != nil,
		logger:   opts.Logger,
	}
	if vm.invoker == nil {
		vm.invoker = bridge.InlineInvoker{}
	}
	vm.Init(vm, saveMetadata, objOpts...)
	observable.Set[ViewModel](&vm.Store, "SubView", vm.message)

	vm.save = observable.NewCommand(vm.startSave, func() bool { return !vm.IsWorkInProgress() })
	vm.AttachCommand("SaveCommand", vm.save)
	return vm
}

func (vm *SaveViewModel) Title() string { return "Save" }

func (vm *SaveViewModel) IsWorkInProgress() bool {
	return observable.Get[bool](&vm.Store, "IsWorkInProgress")
}

func (vm *SaveViewModel) SubView() ViewModel {
	return observable.Get[ViewModel](&vm.Store, "SubView")
}

func (vm *SaveViewModel) Message() *MessageModel           { return vm.message }
func (vm *SaveViewModel) Progress() *ProgressReporter      { return vm.progress }
func (vm *SaveViewModel) SaveCommand() *observable.Command { return vm.save }

func (vm *SaveViewModel) startSave() {
	if !vm.async {
		if err := vm.Save(context.Background()); err != nil {
			vm.logger.Warn("save failed", zap.Error(err))
		}
		return
	}
	go func() {
		if err := vm.Save(context.Background()); err != nil {
			vm.logger.Warn("save failed", zap.Error(err))
		}
	}()
}

// Save runs the save workflow. With an Invoker it must be called off the
// owner; every property update is marshalled through the Invoker. Canceling
// ctx stops the save and restores the message view.
func (vm *SaveViewModel) Save(ctx context.Context) error {
	err := vm.invoker.Invoke(ctx, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if vm.IsWorkInProgress() {
			return ErrSaveInProgress
		}
		observable.Set(&vm.Store, "IsWorkInProgress", true)
		observable.Set[ViewModel](&vm.Store, "SubView", vm.progress)
		return nil
	})
	if err != nil {
		return err
	}
	defer vm.finish(ctx)

	for i := 1; i <= vm.steps; i++ {
		percent := float64(i*100) / float64(vm.steps)
		err := vm.invoker.Invoke(ctx, func() error {
			vm.progress.Report(percent, fmt.Sprintf("Saving... %.0f%%", percent))
			return nil
		})
		if err != nil {
			return err
		}
		if err := sleep(ctx, vm.delay); err != nil {
			return err
		}
	}

	err = vm.invoker.Invoke(ctx, func() error {
		vm.progress.Report(100, "Complete!")
		return nil
	})
	if err != nil {
		return err
	}
	return sleep(ctx, vm.delay)
}

func (vm *SaveViewModel) finish(ctx context.Context) {
	err := vm.invoker.Invoke(context.WithoutCancel(ctx), func() error {
		observable.Set[ViewModel](&vm.Store, "SubView", vm.message)
		vm.progress.Reset()
		observable.Set(&vm.Store, "IsWorkInProgress", false)
		return nil
	})
	if err != nil {
		vm.logger.Warn("failed to restore view after save", zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (vm *SaveViewModel) Properties() []string { return vm.Metadata().Properties() }
func (vm *SaveViewModel) Commands() []string   { return vm.Metadata().Commands() }

func (vm *SaveViewModel) PropertyValue(name string) (any, bool) {
	switch name {
	case "IsWorkInProgress":
		return vm.IsWorkInProgress(), true
	case "SubView":
		return titleOf(vm.SubView()), true
	}
	return nil, false
}

func (vm *SaveViewModel) SetProperty(name string, value any) error {
	switch name {
	case "IsWorkInProgress", "SubView":
		return readOnlyProperty(name)
	}
	return unknownProperty(name)
}

func (vm *SaveViewModel) Command(name string) (observable.Executor, bool) {
	if name == "SaveCommand" {
		return vm.save, true
	}
	return nil, false
}
