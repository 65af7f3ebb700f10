package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/internal/cli/ui"
	"github.com/capoala/mvvm/internal/playground"
	"github.com/capoala/mvvm/pkg/navigation"
	"github.com/capoala/mvvm/pkg/observable"
)

// NewPlaygroundCommand creates the interactive playground command
func NewPlaygroundCommand() *cobra.Command {
	var closureRequery bool

	cmd := &cobra.Command{
		Use:   "playground",
		Short: "Drive the view models interactively",
		Long: `Drive the playground view models from the terminal.

Pick an object, set its properties and execute its commands; every signal
the change raises is printed as it happens. "current" always refers to the
view model the navigator shows.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			app := playground.NewApp(playground.AppOptions{
				Navigation: env.config.Navigation.Options(),
				Save: playground.SaveOptions{
					Steps:     env.config.Save.Steps,
					StepDelay: env.config.Save.StepDelay,
				},
				Logger:         env.logger,
				ClosureRequery: closureRequery,
			})
			defer app.Main.Close()
			defer app.Listing.Close()

			s := newSession(app, cmd.OutOrStdout(), surveyPrompter{}, env.noColor)
			defer s.close()
			return s.run()
		},
	}

	cmd.Flags().BoolVar(&closureRequery, "closure-requery", false, "Requery commands declared against any property reached by a change")

	return cmd
}

// prompter asks the user questions.
type prompter interface {
	Select(message string, options []string) (int, error)
	Input(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string) (int, error) {
	var idx int
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	err := survey.AskOne(prompt, &idx)
	return idx, err
}

func (surveyPrompter) Input(message, def string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	err := survey.AskOne(prompt, &answer)
	return answer, err
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	err := survey.AskOne(prompt, &answer)
	return answer, err
}

const (
	actionSet     = "Set a property"
	actionExecute = "Execute a command"
	actionBack    = "Go back"
	actionForward = "Go forward"
	actionSwitch  = "Switch object"
	actionQuit    = "Quit"
)

var sessionActions = []string{actionSet, actionExecute, actionBack, actionForward, actionSwitch, actionQuit}

// currentObject names whatever the navigator shows.
const currentObject = "current"

// session is one interactive run over an App.
type session struct {
	app     *playground.App
	out     io.Writer
	prompt  prompter
	noColor bool

	object string
	trace  *ui.Trace
	traced map[bridge.Target]bool
	nav    observable.Subscription
}

func newSession(app *playground.App, out io.Writer, p prompter, noColor bool) *session {
	s := &session{
		app:     app,
		out:     out,
		prompt:  p,
		noColor: noColor,
		object:  currentObject,
		trace:   ui.NewTrace(out, noColor),
		traced:  make(map[bridge.Target]bool),
	}
	targets := app.Targets()
	for _, name := range playground.TargetNames() {
		s.traceTarget(name, targets[name])
	}
	s.traceTarget("create", app.Current())
	s.nav = app.Navigator.OnNavigated(func(e navigation.Navigated[playground.ViewModel]) {
		s.traceTarget("create", e.Item)
	})
	return s
}

// traceTarget prints t's signals from now on. Targets are traced once.
func (s *session) traceTarget(label string, t bridge.Target) {
	if t == nil || s.traced[t] {
		return
	}
	s.traced[t] = true
	s.trace.Properties(label, t)
	for _, name := range t.Commands() {
		if cmd, ok := t.Command(name); ok {
			s.trace.Command(label+"."+name, cmd)
		}
	}
}

func (s *session) close() {
	s.nav.Unsubscribe()
	s.trace.Close()
}

func (s *session) target() bridge.Target {
	if s.object == currentObject {
		return s.app.Current()
	}
	return s.app.Targets()[s.object]
}

// run loops until the user quits or interrupts.
func (s *session) run() error {
	for {
		s.show()

		idx, err := s.prompt.Select("What next?", sessionActions)
		if err != nil {
			return quietInterrupt(err)
		}

		switch sessionActions[idx] {
		case actionSet:
			err = s.setProperty()
		case actionExecute:
			err = s.executeCommand()
		case actionBack:
			if !s.app.Navigator.TryGoBack() {
				s.warn("There is nothing to go back to.")
			}
		case actionForward:
			if !s.app.Navigator.TryGoForward() {
				s.warn("There is nothing to go forward to.")
			}
		case actionSwitch:
			err = s.switchObject()
		case actionQuit:
			return nil
		}
		if err != nil {
			return quietInterrupt(err)
		}
	}
}

func (s *session) show() {
	t := s.target()
	fmt.Fprintln(s.out)
	ui.Header(s.out, fmt.Sprintf("%s (%s)", s.app.Main.WindowTitle(), s.object), s.noColor)

	kv := ui.NewKeyValueTable(s.out, s.noColor)
	for _, name := range t.Properties() {
		v, _ := t.PropertyValue(name)
		kv.AddRow(name, formatValue(v))
	}
	for _, name := range t.Commands() {
		if cmd, ok := t.Command(name); ok {
			kv.AddRow(name, enabledLabel(cmd.CanExecute()))
		}
	}
	kv.Render()
}

func (s *session) setProperty() error {
	t := s.target()
	names := t.Properties()
	if len(names) == 0 {
		s.warn("This object has no properties.")
		return nil
	}
	idx, err := s.prompt.Select("Property:", names)
	if err != nil {
		return err
	}
	name := names[idx]

	current, _ := t.PropertyValue(name)
	value, err := s.askValue(name, current)
	if err != nil {
		return err
	}
	if err := t.SetProperty(name, value); err != nil {
		s.warn(err.Error())
	}
	return nil
}

// askValue prompts for a value of the same kind as current.
func (s *session) askValue(name string, current any) (any, error) {
	message := name + ":"
	switch v := current.(type) {
	case bool:
		return s.prompt.Confirm(message, v)
	case float64:
		answer, err := s.prompt.Input(message, strconv.FormatFloat(v, 'f', -1, 64))
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
		if err != nil {
			// Let the target report the bad value.
			return answer, nil
		}
		return f, nil
	case string:
		return s.prompt.Input(message, v)
	default:
		return s.prompt.Input(message, "")
	}
}

func (s *session) executeCommand() error {
	t := s.target()
	names := t.Commands()
	if len(names) == 0 {
		s.warn("This object has no commands.")
		return nil
	}
	options := make([]string, len(names))
	for i, name := range names {
		cmd, _ := t.Command(name)
		options[i] = fmt.Sprintf("%s (%s)", name, enabledLabel(cmd != nil && cmd.CanExecute()))
	}
	idx, err := s.prompt.Select("Command:", options)
	if err != nil {
		return err
	}
	if err := bridge.Execute(t, names[idx]); err != nil {
		s.warn(err.Error())
	}
	return nil
}

func (s *session) switchObject() error {
	options := append([]string{currentObject}, playground.TargetNames()...)
	idx, err := s.prompt.Select("Object:", options)
	if err != nil {
		return err
	}
	s.object = options[idx]
	return nil
}

func (s *session) warn(message string) {
	fmt.Fprint(s.out, ui.Warning(message, s.noColor))
}

func quietInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return err
}

func enabledLabel(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []playground.Person:
		if len(v) == 0 {
			return "(none)"
		}
		names := make([]string, len(v))
		for i, p := range v {
			names[i] = p.DisplayName()
		}
		return strings.Join(names, "; ")
	default:
		return fmt.Sprint(v)
	}
}
