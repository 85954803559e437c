package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"recipe-costing/internal/app"
)

// Env supplies what commands run against. Service is opened lazily so that
// help and schema printing work without a reachable store. ApplySchema may be
// nil when the configured store has no schema to apply.
type Env struct {
	Service     func(ctx context.Context) (app.ApplicationService, error)
	ApplySchema func(ctx context.Context) error
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	env Env
	svc app.ApplicationService
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// service opens the application service on first use.
func (o *RootOptions) service(ctx context.Context) (app.ApplicationService, error) {
	if o.svc != nil {
		return o.svc, nil
	}
	if o.env.Service == nil {
		return nil, errors.New("no store configured")
	}
	svc, err := o.env.Service(ctx)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "open store", Err: err}
	}
	o.svc = svc
	return svc, nil
}

func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
}

// NewRootCommand creates the root command. Run without a subcommand it
// starts the interactive shell.
func NewRootCommand(env Env) *cobra.Command {
	opts := &RootOptions{env: env}

	cmd := &cobra.Command{
		Use:           "recipe-costing",
		Short:         "Recipe costing and ingredient inventory",
		Long:          "Price recipes from ingredient costs, record sales against stock and report margins.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return usageError("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newIngredientsCommand(opts))
	cmd.AddCommand(newRecipesCommand(opts))
	cmd.AddCommand(newSalesCommand(opts))
	cmd.AddCommand(newDashboardCommand(opts))
	cmd.AddCommand(newSchemaCommand(opts))
	cmd.AddCommand(newShellCommand(opts))

	return cmd
}

// Execute runs root, reports any error in the selected format and returns
// the process exit code.
func Execute(ctx context.Context, root *cobra.Command) int {
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return ExitSuccess
	}
	format, _ := root.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = "text"
	}
	if cmd == nil {
		cmd = root
	}
	f := &OutputFormatter{Format: format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
	f.Error(err)
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// exactArgs is cobra.ExactArgs with an ExitError so the exit code is stable.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s: expected %d argument(s), got %d (usage: %s)", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return usageError("%s takes no arguments, got %q", cmd.Name(), args)
	}
	return nil
}
