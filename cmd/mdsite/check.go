package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate and render every page without writing",
		Long: `check runs a full build in memory: front-matter, permalinks, layouts and
sidenavs are validated and every page is rendered, but nothing is written.
Exits non-zero on the first build that would fail.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, env)
			if err != nil {
				return err
			}

			result, err := s.build(cmd.Context(), true)
			if err != nil {
				return err
			}
			if !s.quiet {
				fmt.Fprintf(env.Stdout, "OK: %d pages, %d index pages, %d unpublished\n",
					len(result.Pages), len(result.Indexes), len(result.Unpublished))
			}
			return nil
		},
	}
}
