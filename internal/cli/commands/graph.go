package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/internal/cli/ui"
	"github.com/capoala/mvvm/internal/playground"
)

// catalog is every view model the graph command can describe, by name.
type catalog struct {
	names   []string
	targets map[string]bridge.Target
}

func newCatalog(app *playground.App) *catalog {
	c := &catalog{names: playground.TargetNames(), targets: app.Targets()}
	c.names = append(c.names, "create")
	c.targets["create"] = app.NewCreatePerson()
	return c
}

// NewGraphCommand creates the graph command
func NewGraphCommand() *cobra.Command {
	var (
		closureOf      string
		closureRequery bool
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "graph [type]",
		Short: "Show the dependency tables of the playground view models",
		Long: `Show which properties cascade from, notify, or requery which.

Without arguments, lists every view model type. With a type, prints its
properties and commands, then any declared name that resolves to nothing.

Examples:
  # List view model types
  mvvm graph

  # Show the thermometer's tables
  mvvm graph thermometer

  # Show what setting Celsius raises and requeries
  mvvm graph thermometer --closure Celsius
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			app := playground.NewApp(playground.AppOptions{
				Navigation:     env.config.Navigation.Options(),
				ClosureRequery: closureRequery,
			})
			defer app.Main.Close()
			defer app.Listing.Close()
			c := newCatalog(app)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				renderCatalog(out, c, env.noColor)
				return nil
			}

			name := args[0]
			target, ok := c.targets[name]
			if !ok {
				return &reportedError{
					message: ui.UnknownTypeError(name, c.names, env.noColor),
					err:     fmt.Errorf("unknown view model type %q", name),
				}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bridge.DescribeGraph(target.Metadata()))
			}
			if closureOf != "" {
				return renderClosure(out, target, closureOf, closureRequery, env.noColor)
			}
			renderGraph(out, name, target, env.noColor)
			return nil
		},
	}

	cmd.Flags().StringVar(&closureOf, "closure", "", "Show what setting this property raises and requeries")
	cmd.Flags().BoolVar(&closureRequery, "closure-requery", false, "Requery commands declared against any property reached by a change")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tables as JSON")

	return cmd
}

func renderCatalog(w io.Writer, c *catalog, noColor bool) {
	table := ui.NewTable(w, noColor, "TYPE", "TITLE", "PROPERTIES", "COMMANDS")
	for _, name := range c.names {
		t := c.targets[name]
		title := ""
		if vm, ok := t.(playground.ViewModel); ok {
			title = vm.Title()
		}
		table.AddRow(name, title, fmt.Sprint(len(t.Properties())), fmt.Sprint(len(t.Commands())))
	}
	table.Render()
}

func renderGraph(w io.Writer, name string, t bridge.Target, noColor bool) {
	ui.Header(w, name, noColor)

	meta := t.Metadata()
	if meta == nil {
		fmt.Fprint(w, ui.Info("No dependency table; every change is raised on its own.", noColor))
		return
	}
	g := bridge.DescribeGraph(meta)

	props := ui.NewTable(w, noColor, "PROPERTY", "CASCADES FROM", "NOTIFIES")
	for _, p := range g.Properties {
		props.AddRow(p.Name, joinNames(p.CascadesFrom), joinNames(p.Notifies))
	}
	props.Render()

	if len(g.Commands) > 0 {
		fmt.Fprintln(w)
		cmds := ui.NewTable(w, noColor, "COMMAND", "REQUERY ON")
		for _, c := range g.Commands {
			cmds.AddRow(c.Name, joinNames(c.RequeryOn))
		}
		cmds.Render()
	}

	fmt.Fprintln(w)
	issues := meta.Lint()
	if len(issues) == 0 {
		ui.WriteSuccess(w, "Every declared name resolves", noColor)
		return
	}
	for _, issue := range issues {
		fmt.Fprint(w, ui.Warning(issue.String(), noColor))
	}
}

func renderClosure(w io.Writer, t bridge.Target, property string, closureRequery, noColor bool) error {
	if !slices.Contains(t.Properties(), property) {
		return fmt.Errorf("%w: %s", bridge.ErrUnknownProperty, property)
	}
	meta := t.Metadata()
	if meta == nil {
		fmt.Fprint(w, ui.Info(fmt.Sprintf("No dependency table; setting %s raises only itself.", property), noColor))
		return nil
	}

	raised, requeried := meta.Closure(property, closureRequery)
	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("Raises", strings.Join(raised, " → "))
	kv.AddRow("Requeries", joinNames(requeried))
	kv.Render()
	return nil
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
