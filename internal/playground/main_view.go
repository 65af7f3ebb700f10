package playground

import (
	"github.com/capoala/mvvm/pkg/navigation"
	"github.com/capoala/mvvm/pkg/observable"
)

var mainMetadata = observable.Declare(func(b *observable.Builder) {
	b.Property("CurrentViewModel")
	b.Property("WindowTitle").CascadesFrom("CurrentViewModel")
})

// MainViewModel hosts whatever the navigator currently shows.
type MainViewModel struct {
	observable.Store
	sub observable.Subscription
}

// NewMainViewModel creates the view model and starts following nav.
func NewMainViewModel(nav *navigation.Navigator[ViewModel], opts ...observable.Option) *MainViewModel {
	vm := &MainViewModel{}
	vm.Init(vm, mainMetadata, opts...)
	if current, ok := nav.Current(); ok {
		observable.Set(&vm.Store, "CurrentViewModel", current)
	}
	vm.sub = nav.OnNavigated(func(e navigation.Navigated[ViewModel]) {
		observable.Set(&vm.Store, "CurrentViewModel", e.Item)
	})
	return vm
}

func (vm *MainViewModel) Title() string { return "Main" }

func (vm *MainViewModel) CurrentViewModel() ViewModel {
	return observable.Get[ViewModel](&vm.Store, "CurrentViewModel")
}

// WindowTitle is derived from the current view model.
func (vm *MainViewModel) WindowTitle() string {
	current := vm.CurrentViewModel()
	if current == nil {
		return "MVVM Playground"
	}
	return "MVVM Playground - " + current.Title()
}

// Close stops following the navigator.
func (vm *MainViewModel) Close() { vm.sub.Unsubscribe() }

func (vm *MainViewModel) Properties() []string { return vm.Metadata().Properties() }
func (vm *MainViewModel) Commands() []string   { return nil }

func (vm *MainViewModel) PropertyValue(name string) (any, bool) {
	switch name {
	case "CurrentViewModel":
		return titleOf(vm.CurrentViewModel()), true
	case "WindowTitle":
		return vm.WindowTitle(), true
	}
	return nil, false
}

func (vm *MainViewModel) SetProperty(name string, value any) error {
	switch name {
	case "CurrentViewModel", "WindowTitle":
		return readOnlyProperty(name)
	}
	return unknownProperty(name)
}

func (vm *MainViewModel) Command(string) (observable.Executor, bool) { return nil, false }
