package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

func newCompletionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate a shell completion script",
		Long: `Generate a completion script for your shell.

  bash:       source <(mdsite completion bash)
  zsh:        mdsite completion zsh > "${fpath[1]}/_mdsite"
  fish:       mdsite completion fish > ~/.config/fish/completions/mdsite.fish
  powershell: mdsite completion powershell | Out-String | Invoke-Expression`,
		ValidArgs: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), Shell(args[0]), env)
		},
	}
}

// writeCompletion prints the completion script for shell to env.Stdout.
func writeCompletion(root *cobra.Command, shell Shell, env *Environment) error {
	switch shell {
	case ShellBash:
		return root.GenBashCompletionV2(env.Stdout, true)
	case ShellZsh:
		return root.GenZshCompletion(env.Stdout)
	case ShellFish:
		return root.GenFishCompletion(env.Stdout, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(env.Stdout)
	default:
		return fmt.Errorf("%w: %q (use bash, zsh, fish or powershell)", ErrUnsupportedShell, shell)
	}
}
