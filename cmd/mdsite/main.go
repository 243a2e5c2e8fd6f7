package main

import (
	"context"
	"fmt"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run executes the command line and returns the process exit code.
func run(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	root := newRootCmd(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}
