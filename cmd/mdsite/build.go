package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBuildCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, env)
			if err != nil {
				return err
			}

			start := env.Now()
			result, err := s.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			if !s.quiet {
				fmt.Fprintf(env.Stdout, "Built %d pages and %d index pages into %s in %s",
					len(result.Pages), len(result.Indexes), s.cfg.OutputDir,
					env.Now().Sub(start).Round(time.Millisecond))
				if n := len(result.Unpublished); n > 0 {
					fmt.Fprintf(env.Stdout, " (%d unpublished skipped)", n)
				}
				fmt.Fprintln(env.Stdout)
			}
			return nil
		},
	}
}
