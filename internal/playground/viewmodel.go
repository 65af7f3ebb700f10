package playground

import (
	"fmt"

	"github.com/capoala/mvvm/internal/bridge"
)

// ViewModel is a bridgeable object the main navigator can show.
type ViewModel interface {
	bridge.Target
	Title() string
}

func unknownProperty(name string) error {
	return fmt.Errorf("%w: %s", bridge.ErrUnknownProperty, name)
}

func readOnlyProperty(name string) error {
	return fmt.Errorf("%w: %s", bridge.ErrReadOnlyProperty, name)
}

// titleOf is the bridged value of a nested view model.
func titleOf(vm ViewModel) any {
	if vm == nil {
		return nil
	}
	return vm.Title()
}
