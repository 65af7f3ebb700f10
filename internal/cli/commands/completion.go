package commands

import (
	"io"

	"github.com/spf13/cobra"
)

// completionWriters maps each supported shell to its cobra generator.
var completionWriters = map[string]func(root *cobra.Command, out io.Writer) error{
	"bash": func(root *cobra.Command, out io.Writer) error { return root.GenBashCompletionV2(out, true) },
	"zsh":  func(root *cobra.Command, out io.Writer) error { return root.GenZshCompletion(out) },
	"fish": func(root *cobra.Command, out io.Writer) error { return root.GenFishCompletion(out, true) },
	"powershell": func(root *cobra.Command, out io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(out)
	},
}

// NewCompletionCommand creates the completion command
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for mvvm to stdout.

Completions cover subcommands, flags and demo names, e.g. "mvvm demo <TAB>".

Examples:
  # Current bash session
  source <(mvvm completion bash)

  # Every zsh session (compinit must be enabled)
  mvvm completion zsh > "${fpath[1]}/_mvvm"

  # Every fish session
  mvvm completion fish > ~/.config/fish/completions/mvvm.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionWriters[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
