package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recipe-costing/internal/db"
)

func newSchemaCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect or apply the PostgreSQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the schema SQL",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), db.Schema())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create any missing tables and indexes (idempotent)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.env.ApplySchema == nil {
				return usageError("schema apply requires STORE_DRIVER=postgres")
			}
			if err := opts.env.ApplySchema(cmd.Context()); err != nil {
				return &ExitError{Code: ExitFailure, Message: "apply schema", Err: err}
			}
			return opts.output(cmd).Success(map[string]string{"schema": "applied"}, func(w io.Writer) {
				fmt.Fprintln(w, "Schema applied.")
			})
		},
	})

	return cmd
}
