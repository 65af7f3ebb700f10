package playground

import (
	"fmt"
	"math"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/pkg/observable"
)

// ThermometerViewModel shows one temperature in two scales. Celsius and
// Fahrenheit cascade from each other, so writing either notifies both.
type ThermometerViewModel struct {
	observable.Object

	celsius float64
	reset   *observable.Command
}

// DeclareProperties implements observable.Declarer.
func (vm *ThermometerViewModel) DeclareProperties(b *observable.Builder) {
	b.Property("Celsius").CascadesFrom("Fahrenheit")
	b.Property("Fahrenheit").CascadesFrom("Celsius")
	b.Property("Summary").CascadesFrom("Celsius")
	b.Command("ResetCommand").RequeryOn("Celsius")
}

func NewThermometerViewModel(opts ...observable.Option) *ThermometerViewModel {
	vm := &ThermometerViewModel{}
	vm.Init(vm, observable.For(vm), opts...)
	vm.reset = observable.NewCommand(func() { vm.SetCelsius(0) }, func() bool { return vm.celsius != 0 })
	vm.AttachCommand("ResetCommand", vm.reset)
	return vm
}

func (vm *ThermometerViewModel) Title() string { return "Thermometer" }

func (vm *ThermometerViewModel) Celsius() float64    { return vm.celsius }
func (vm *ThermometerViewModel) Fahrenheit() float64 { return vm.celsius*9/5 + 32 }

func (vm *ThermometerViewModel) Summary() string {
	return fmt.Sprintf("%.1f°C / %.1f°F", vm.Celsius(), vm.Fahrenheit())
}

func (vm *ThermometerViewModel) ResetCommand() *observable.Command { return vm.reset }

func (vm *ThermometerViewModel) SetCelsius(v float64) {
	observable.SetField(&vm.Object, &vm.celsius, v, "Celsius")
}

// SetFahrenheit stores the converted value and notifies Fahrenheit; Celsius
// and Summary follow through the cascade.
func (vm *ThermometerViewModel) SetFahrenheit(v float64) {
	c := (v - 32) * 5 / 9
	if math.Abs(c-vm.celsius) < 1e-9 {
		return
	}
	vm.celsius = c
	vm.Notify("Fahrenheit")
}

func (vm *ThermometerViewModel) Properties() []string { return vm.Metadata().Properties() }
func (vm *ThermometerViewModel) Commands() []string   { return vm.Metadata().Commands() }

func (vm *ThermometerViewModel) PropertyValue(name string) (any, bool) {
	switch name {
	case "Celsius":
		return vm.Celsius(), true
	case "Fahrenheit":
		return vm.Fahrenheit(), true
	case "Summary":
		return vm.Summary(), true
	}
	return nil, false
}

func (vm *ThermometerViewModel) SetProperty(name string, value any) error {
	switch name {
	case "Celsius", "Fahrenheit":
		f, err := bridge.FloatValue(name, value)
		if err != nil {
			return err
		}
		if name == "Celsius" {
			vm.SetCelsius(f)
		} else {
			vm.SetFahrenheit(f)
		}
		return nil
	case "Summary":
		return readOnlyProperty(name)
	}
	return unknownProperty(name)
}

func (vm *ThermometerViewModel) Command(name string) (observable.Executor, bool) {
	if name == "ResetCommand" {
		return vm.reset, true
	}
	return nil, false
}
