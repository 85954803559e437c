package cli

import (
	"bufio"
	"context"

	"github.com/spf13/cobra"

	"recipe-costing/internal/adapters/repl"
	"recipe-costing/internal/app"
)

func newShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "shell",
		Aliases: []string{"repl"},
		Short:   "Start the interactive shell",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

// runShell opens the service once and runs every shell line through a fresh
// command tree bound to it.
func runShell(cmd *cobra.Command, opts *RootOptions) error {
	svc, err := opts.service(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	exec := func(ctx context.Context, args []string) {
		root := NewRootCommand(Env{
			Service:     func(context.Context) (app.ApplicationService, error) { return svc, nil },
			ApplySchema: opts.env.ApplySchema,
		})
		root.SetArgs(append([]string{"--format", opts.Format}, args...))
		root.SetOut(out)
		root.SetErr(errOut)
		Execute(ctx, root)
	}
	repl.Run(cmd.Context(), svc, bufio.NewReader(cmd.InOrStdin()), out, exec)
	return nil
}
