package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree around env.
func newRootCmd(env *Environment) *cobra.Command {
	root := &cobra.Command{
		Use:   "mdsite",
		Short: "Build a static site from Markdown documents",
		Long: `mdsite renders Markdown and HTML documents with YAML front-matter into
a static HTML site. Each published document is written to its permalink
through the layout it names.

Configuration is read from mdsite.yaml when present. Flags override
MDSITE_* environment variables, which override the config file.

Examples:
  mdsite build                     Build into the configured output directory
  mdsite build -o dist             Build into dist/
  mdsite check                     Validate and render without writing
  mdsite serve -p 4000             Serve and rebuild on changes`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath()))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	addCommonFlags(root.PersistentFlags())
	addSiteFlags(root.PersistentFlags())
	_ = root.MarkPersistentFlagFilename(flagConfig, "yaml", "yml")
	for _, name := range []string{flagContent, flagOutput, flagTheme, flagStatic} {
		_ = root.MarkPersistentFlagDirname(name)
	}

	root.AddCommand(
		newBuildCmd(env),
		newCheckCmd(env),
		newServeCmd(env),
		newCompletionCmd(env),
	)
	return root
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}
