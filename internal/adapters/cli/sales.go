package cli

import (
	"io"

	"github.com/spf13/cobra"

	"recipe-costing/internal/app"
)

func newSalesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Record, inspect and reverse sales",
	}
	cmd.AddCommand(
		newSalesListCommand(opts),
		newSalesGetCommand(opts),
		newSalesRecordCommand(opts),
		newSalesDeleteCommand(opts),
	)
	return cmd
}

func newSalesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sales, newest first",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.ListSales(cmd.Context())
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printSales(w, result) })
		},
	}
}

func newSalesGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one sale",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.GetSale(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printSale(w, result.Sale) })
		},
	}
}

func newSalesRecordCommand(opts *RootOptions) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "record <recipe-id> <amount>",
		Short: "Record a sale and deduct ingredient stock",
		Long: `Record a sale and deduct ingredient stock. Either every component has
enough stock and the sale is stored, or nothing changes.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimal("amount", args[1])
			if err != nil {
				return err
			}
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.RecordSale(cmd.Context(), app.RecordSaleRequest{
				RecipeID:     args[0],
				SaleAmount:   amount,
				QuantitySold: quantity,
			})
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printSale(w, result.Sale) })
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "units sold")

	return cmd
}

func newSalesDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a sale and restore its stock",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteSale(cmd.Context(), args[0]); err != nil {
				return err
			}
			return opts.output(cmd).Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				printDeleted(w, "Sale", args[0])
			})
		},
	}
}
