package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capoala/mvvm/internal/cli/ui"
	"github.com/capoala/mvvm/internal/dispatch"
	"github.com/capoala/mvvm/internal/playground"
	"github.com/capoala/mvvm/pkg/observable"
)

// demo runs one scripted scenario against fresh view models.
type demo struct {
	name    string
	summary string
	run     func(ctx context.Context, d *demoRun) error
}

var demos = []demo{
	{name: "person", summary: "Create a person and navigate back to the listing", run: runPersonDemo},
	{name: "cycle", summary: "Two properties cascading from each other", run: runCycleDemo},
	{name: "save", summary: "A background save reporting progress through the owner", run: runSaveDemo},
}

func demoNames() []string {
	names := make([]string, 0, len(demos)+1)
	for _, d := range demos {
		names = append(names, d.name)
	}
	return append(names, "all")
}

// demoRun is the state shared by every demo in one invocation.
type demoRun struct {
	out            io.Writer
	env            *environment
	closureRequery bool
}

func (d *demoRun) appOptions() playground.AppOptions {
	cfg := d.env.config
	return playground.AppOptions{
		Navigation: cfg.Navigation.Options(),
		Save: playground.SaveOptions{
			Steps:     cfg.Save.Steps,
			StepDelay: cfg.Save.StepDelay,
		},
		Logger:         d.env.logger,
		ClosureRequery: d.closureRequery,
	}
}

func (d *demoRun) objectOptions() []observable.Option {
	opts := []observable.Option{observable.WithLogger(d.env.logger)}
	if d.closureRequery {
		opts = append(opts, observable.WithClosureRequery())
	}
	return opts
}

// NewDemoCommand creates the demo command
func NewDemoCommand() *cobra.Command {
	var closureRequery bool

	cmd := &cobra.Command{
		Use:   "demo [person|cycle|save|all]",
		Short: "Run a scripted view model scenario",
		Long: `Run a scripted scenario and print every signal it raises.

Each line starting with → is a property-changed signal; each line starting
with ⟳ is a command being asked to re-check whether it can execute.

Demos:
  person   Create a person and navigate back to the listing
  cycle    Two properties cascading from each other
  save     A background save reporting progress through the owner
  all      Run every demo (default)

Examples:
  # Run every demo
  mvvm demo

  # Requery commands across the whole cascade, not just the changed property
  mvvm demo cycle --closure-requery
`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return demoNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "all"
			if len(args) == 1 {
				name = args[0]
			}

			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			selected, err := selectDemos(name, env.noColor)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := &demoRun{out: cmd.OutOrStdout(), env: env, closureRequery: closureRequery}
			for i, d := range selected {
				if i > 0 {
					fmt.Fprintln(run.out)
				}
				ui.Header(run.out, d.summary, env.noColor)
				if err := d.run(ctx, run); err != nil {
					return fmt.Errorf("%s demo: %w", d.name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&closureRequery, "closure-requery", false, "Requery commands declared against any property reached by a change")

	return cmd
}

func selectDemos(name string, noColor bool) ([]demo, error) {
	if name == "all" {
		return demos, nil
	}
	for _, d := range demos {
		if d.name == name {
			return []demo{d}, nil
		}
	}
	return nil, &reportedError{
		message: ui.UnknownDemoError(name, demoNames(), noColor),
		err:     fmt.Errorf("unknown demo %q", name),
	}
}

func runPersonDemo(_ context.Context, d *demoRun) error {
	app := playground.NewApp(d.appOptions())
	defer app.Main.Close()
	defer app.Listing.Close()

	trace := ui.NewTrace(d.out, d.env.noColor)
	defer trace.Close()
	trace.Properties("main", app.Main)
	trace.Properties("listing", app.Listing)
	trace.Command("listing.GoForwardCommand", app.Listing.GoForwardCommand())

	trace.Step("Open the create view")
	app.Listing.CreateNewPersonCommand().Execute()
	create, ok := app.Current().(*playground.CreatePersonViewModel)
	if !ok {
		return fmt.Errorf("expected the create view, showing %T", app.Current())
	}
	trace.Properties("create", create)
	trace.Command("create.CreateCommand", create.CreateCommand())

	trace.Step("Type a first name")
	create.SetFirstName("Ada")
	trace.Step("Type a middle name")
	create.SetMiddleName("King")
	trace.Step("Type a last name")
	create.SetLastName("Lovelace")
	fmt.Fprintf(d.out, "  display name: %s\n", create.DisplayName())

	trace.Step("Create")
	if !create.CreateCommand().TryExecute() {
		return errors.New("create command refused to run")
	}

	ui.WriteSuccess(d.out, fmt.Sprintf("%d person in the directory, window title %q",
		app.Directory.People.Len(), app.Main.WindowTitle()), d.env.noColor)
	return nil
}

func runCycleDemo(_ context.Context, d *demoRun) error {
	vm := playground.NewThermometerViewModel(d.objectOptions()...)

	trace := ui.NewTrace(d.out, d.env.noColor)
	defer trace.Close()
	trace.Properties("thermometer", vm)
	trace.Command("thermometer.ResetCommand", vm.ResetCommand())

	trace.Step("Set Celsius to 100")
	vm.SetCelsius(100)
	fmt.Fprintf(d.out, "  %s\n", vm.Summary())

	trace.Step("Set Fahrenheit to 50")
	vm.SetFahrenheit(50)
	fmt.Fprintf(d.out, "  %s\n", vm.Summary())

	trace.Step("Reset")
	if !vm.ResetCommand().TryExecute() {
		return errors.New("reset command refused to run")
	}
	fmt.Fprintf(d.out, "  %s\n", vm.Summary())

	ui.WriteSuccess(d.out, "Each property was raised once per change despite the cycle", d.env.noColor)
	return nil
}

// runSaveDemo runs the save off the owner goroutine, the way a binding layer
// would, and draws the progress reporter as a bar.
func runSaveDemo(ctx context.Context, d *demoRun) error {
	owner := dispatch.New(d.env.logger)
	owner.Start()
	defer owner.Shutdown()

	bar := ui.NewProgressBar(d.out, ui.ProgressBarOptions{NoColor: d.env.noColor})
	opts := d.appOptions().Save
	opts.Invoker = owner
	opts.Logger = d.env.logger

	var vm *playground.SaveViewModel
	var subs []observable.Subscription
	err := owner.Invoke(ctx, func() error {
		vm = playground.NewSaveViewModel(opts, d.objectOptions()...)
		progress := ui.WatchProgress(bar, vm.Progress())
		subs = append(subs, progress, vm.OnPropertyChanged(func(e observable.PropertyChange) {
			if e.Name != "SubView" {
				return
			}
			if _, ok := vm.SubView().(*playground.ProgressReporter); !ok {
				progress.Unsubscribe()
				bar.Finish()
			}
		}))
		return nil
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = owner.Invoke(context.WithoutCancel(ctx), func() error {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil
		})
	}()

	if err := vm.Save(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			d.env.logger.Info("save canceled")
			return nil
		}
		return err
	}

	var message string
	var canSave bool
	err = owner.Invoke(ctx, func() error {
		message = vm.Message().Message()
		canSave = vm.SaveCommand().CanExecute()
		return nil
	})
	if err != nil {
		return err
	}
	d.env.logger.Debug("save finished", zap.Bool("can_save", canSave))
	ui.WriteSuccess(d.out, fmt.Sprintf("Saved; showing %q again", message), d.env.noColor)
	return nil
}
