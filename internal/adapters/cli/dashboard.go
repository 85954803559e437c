package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show revenue, cost, margin and low-stock ingredients",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := svc.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(stats, func(w io.Writer) { printDashboard(w, stats) })
		},
	}
}
