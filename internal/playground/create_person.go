package playground

import (
	"strings"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/pkg/observable"
)

// CreatePersonViewModel edits a new person and adds it through CreateCommand.
type CreatePersonViewModel struct {
	observable.Object

	firstName             string
	middleName            string
	lastName              string
	isOperationInProgress bool

	create   *observable.Command
	onCreate func(Person)
	created  *Person
}

// DeclareProperties implements observable.Declarer.
func (vm *CreatePersonViewModel) DeclareProperties(b *observable.Builder) {
	b.Property("FirstName")
	b.Property("MiddleName")
	b.Property("LastName")
	b.Property("IsOperationInProgress")
	b.Property("DisplayName").CascadesFrom("FirstName", "MiddleName", "LastName")
	b.Command("CreateCommand").RequeryOn("FirstName", "LastName", "IsOperationInProgress")
}

// NewCreatePersonViewModel creates the view model. onCreate receives every
// person created through CreateCommand and may be nil.
func NewCreatePersonViewModel(onCreate func(Person), opts ...observable.Option) *CreatePersonViewModel {
	vm := &CreatePersonViewModel{onCreate: onCreate}
	vm.Init(vm, observable.For(vm), opts...)
	vm.create = observable.NewCommand(vm.createPerson, vm.canCreate)
	vm.AttachCommand("CreateCommand", vm.create)
	return vm
}

func (vm *CreatePersonViewModel) Title() string { return "Create Person" }

func (vm *CreatePersonViewModel) FirstName() string  { return vm.firstName }
func (vm *CreatePersonViewModel) MiddleName() string { return vm.middleName }
func (vm *CreatePersonViewModel) LastName() string   { return vm.lastName }

func (vm *CreatePersonViewModel) IsOperationInProgress() bool { return vm.isOperationInProgress }

func (vm *CreatePersonViewModel) SetFirstName(v string) {
	observable.SetField(&vm.Object, &vm.firstName, v, "FirstName")
}

func (vm *CreatePersonViewModel) SetMiddleName(v string) {
	observable.SetField(&vm.Object, &vm.middleName, v, "MiddleName")
}

func (vm *CreatePersonViewModel) SetLastName(v string) {
	observable.SetField(&vm.Object, &vm.lastName, v, "LastName")
}

func (vm *CreatePersonViewModel) SetIsOperationInProgress(v bool) {
	observable.SetField(&vm.Object, &vm.isOperationInProgress, v, "IsOperationInProgress")
}

// DisplayName is derived from the name fields.
func (vm *CreatePersonViewModel) DisplayName() string {
	return DisplayName(vm.firstName, vm.middleName, vm.lastName)
}

// CreateCommand adds the person being edited.
func (vm *CreatePersonViewModel) CreateCommand() *observable.Command { return vm.create }

// Created returns the person created last, if any.
func (vm *CreatePersonViewModel) Created() (Person, bool) {
	if vm.created == nil {
		return Person{}, false
	}
	return *vm.created, true
}

func (vm *CreatePersonViewModel) canCreate() bool {
	return !vm.isOperationInProgress &&
		strings.TrimSpace(vm.firstName) != "" &&
		strings.TrimSpace(vm.lastName) != ""
}

func (vm *CreatePersonViewModel) createPerson() {
	vm.SetIsOperationInProgress(true)
	defer vm.SetIsOperationInProgress(false)

	p := NewPerson(
		strings.TrimSpace(vm.firstName),
		strings.TrimSpace(vm.middleName),
		strings.TrimSpace(vm.lastName),
	)
	vm.created = &p
	if vm.onCreate != nil {
		vm.onCreate(p)
	}
}

func (vm *CreatePersonViewModel) Properties() []string { return vm.Metadata().Properties() }
func (vm *CreatePersonViewModel) Commands() []string   { return vm.Metadata().Commands() }

func (vm *CreatePersonViewModel) PropertyValue(name string) (any, bool) {
	switch name {
	case "FirstName":
		return vm.firstName, true
	case "MiddleName":
		return vm.middleName, true
	case "LastName":
		return vm.lastName, true
	case "IsOperationInProgress":
		return vm.isOperationInProgress, true
	case "DisplayName":
		return vm.DisplayName(), true
	}
	return nil, false
}

func (vm *CreatePersonViewModel) SetProperty(name string, value any) error {
	switch name {
	case "FirstName", "MiddleName", "LastName":
		s, err := bridge.StringValue(name, value)
		if err != nil {
			return err
		}
		switch name {
		case "FirstName":
			vm.SetFirstName(s)
		case "MiddleName":
			vm.SetMiddleName(s)
		default:
			vm.SetLastName(s)
		}
		return nil
	case "IsOperationInProgress", "DisplayName":
		return readOnlyProperty(name)
	}
	return unknownProperty(name)
}

func (vm *CreatePersonViewModel) Command(name string) (observable.Executor, bool) {
	if name == "CreateCommand" {
		return vm.create, true
	}
	return nil, false
}
