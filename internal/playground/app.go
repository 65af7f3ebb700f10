package playground

import (
	"go.uber.org/zap"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/pkg/navigation"
	"github.com/capoala/mvvm/pkg/observable"
)

// AppOptions configures an App.
type AppOptions struct {
	Navigation navigation.Options
	Save       SaveOptions
	Logger     *zap.Logger
	// ClosureRequery makes every view model requery commands declared
	// against any property reached during a pass.
	ClosureRequery bool
}

// App wires the playground view models around one directory and one navigator.
// Like the view models, it is owned by a single goroutine.
type App struct {
	Directory   *Directory
	Navigator   *navigation.Navigator[ViewModel]
	Main        *MainViewModel
	Listing     *PersonListingViewModel
	Save        *SaveViewModel
	Thermometer *ThermometerViewModel // standalone, never navigated to

	objOpts []observable.Option
}

// NewApp builds the view models and navigates to the listing.
func NewApp(opts AppOptions) *App {
	var objOpts []observable.Option
	if opts.Logger != nil {
		objOpts = append(objOpts, observable.WithLogger(opts.Logger))
		if opts.Save.Logger == nil {
			opts.Save.Logger = opts.Logger
		}
	}
	if opts.ClosureRequery {
		objOpts = append(objOpts, observable.WithClosureRequery())
	}

	a := &App{
		Directory: NewDirectory(),
		Navigator: navigation.New[ViewModel](opts.Navigation),
		objOpts:   objOpts,
	}
	a.Main = NewMainViewModel(a.Navigator, objOpts...)
	a.Listing = NewPersonListingViewModel(a.Directory, a.Navigator, func() ViewModel {
		return a.NewCreatePerson()
	}, objOpts...)
	a.Save = NewSaveViewModel(opts.Save, objOpts...)
	a.Thermometer = NewThermometerViewModel(objOpts...)

	a.Navigator.NavigateTo(a.Listing)
	return a
}

// NewCreatePerson builds a create view whose people land in the directory.
func (a *App) NewCreatePerson() *CreatePersonViewModel {
	return NewCreatePersonViewModel(a.personCreated, a.objOpts...)
}

func (a *App) personCreated(p Person) {
	a.Directory.People.Add(p)
	if !a.Navigator.TryGoBack() {
		a.Navigator.NavigateTo(a.Listing)
	}
}

// Current returns the view model the navigator shows.
func (a *App) Current() ViewModel {
	vm, _ := a.Navigator.Current()
	return vm
}

var targetNames = []string{"main", "listing", "save", "message", "progress", "thermometer"}

// TargetNames returns the names Targets uses, in registration order.
func TargetNames() []string { return append([]string(nil), targetNames...) }

// Targets returns the fixed bridgeable objects by name.
func (a *App) Targets() map[string]bridge.Target {
	return map[string]bridge.Target{
		"main":        a.Main,
		"listing":     a.Listing,
		"save":        a.Save,
		"message":     a.Save.Message(),
		"progress":    a.Save.Progress(),
		"thermometer": a.Thermometer,
	}
}

// Expose registers the app's objects with h, plus "current" following the
// navigator. Must be called on the owner.
func (a *App) Expose(h *bridge.Hub) observable.Subscription {
	targets := a.Targets()
	for _, name := range targetNames {
		h.Register(name, targets[name])
	}
	if current := a.Current(); current != nil {
		h.Register("current", current)
	}
	return a.Navigator.OnNavigated(func(e navigation.Navigated[ViewModel]) {
		h.Register("current", e.Item)
	})
}
