package playground

import (
	"github.com/capoala/mvvm/pkg/navigation"
	"github.com/capoala/mvvm/pkg/observable"
)

// PersonListingViewModel shows the directory. It declares no relationships:
// People is raised by hand whenever the directory changes, and the forward
// command is requeried by hand after every navigation.
type PersonListingViewModel struct {
	observable.Object

	directory *Directory
	createNew *observable.Command
	goForward *observable.Command
	subs      []observable.Subscription
}

// NewPersonListingViewModel creates the listing. newCreate builds the view
// CreateNewPersonCommand navigates to.
func NewPersonListingViewModel(dir *Directory, nav *navigation.Navigator[ViewModel], newCreate func() ViewModel, opts ...observable.Option) *PersonListingViewModel {
	vm := &PersonListingViewModel{directory: dir}
	vm.Init(vm, nil, opts...)

	vm.createNew = observable.NewCommand(func() { nav.NavigateTo(newCreate()) }, nil)
	vm.goForward = observable.NewCommand(func() { nav.TryGoForward() }, nav.CanGoForward)

	vm.subs = append(vm.subs,
		dir.People.OnCollectionChanged(func(observable.CollectionChange[Person]) { vm.Notify("People") }),
		nav.OnNavigated(func(navigation.Navigated[ViewModel]) { vm.goForward.NotifyCanExecuteDidChange() }),
	)
	return vm
}

func (vm *PersonListingViewModel) Title() string { return "People" }

// People returns the directory contents.
func (vm *PersonListingViewModel) People() []Person { return vm.directory.People.Items() }

func (vm *PersonListingViewModel) CreateNewPersonCommand() *observable.Command { return vm.createNew }

// GoForwardCommand returns to the view left by the last back navigation,
// typically the person created last.
func (vm *PersonListingViewModel) GoForwardCommand() *observable.Command { return vm.goForward }

// Close detaches the view model from the directory and the navigator.
func (vm *PersonListingViewModel) Close() {
	for _, s := range vm.subs {
		s.Unsubscribe()
	}
	vm.subs = nil
}

func (vm *PersonListingViewModel) Properties() []string { return []string{"People"} }

func (vm *PersonListingViewModel) Commands() []string {
	return []string{"CreateNewPersonCommand", "GoForwardCommand"}
}

func (vm *PersonListingViewModel) PropertyValue(name string) (any, bool) {
	if name == "People" {
		return vm.People(), true
	}
	return nil, false
}

func (vm *PersonListingViewModel) SetProperty(name string, value any) error {
	if name == "People" {
		return readOnlyProperty(name)
	}
	return unknownProperty(name)
}

func (vm *PersonListingViewModel) Command(name string) (observable.Executor, bool) {
	switch name {
	case "CreateNewPersonCommand":
		return vm.createNew, true
	case "GoForwardCommand":
		return vm.goForward, true
	}
	return nil, false
}
