package cli

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"recipe-costing/internal/app"
)

func newIngredientsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingredients",
		Aliases: []string{"ing"},
		Short:   "Manage ingredients and stock",
	}
	cmd.AddCommand(
		newIngredientsListCommand(opts),
		newIngredientsAddCommand(opts),
		newIngredientsUpdateCommand(opts),
		newIngredientsRestockCommand(opts),
		newIngredientsDeleteCommand(opts),
	)
	return cmd
}

func newIngredientsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingredients, flagging low stock",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.ListIngredients(cmd.Context())
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printIngredients(w, result) })
		},
	}
}

func newIngredientsAddCommand(opts *RootOptions) *cobra.Command {
	var name, unit, price, stock, threshold string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an ingredient",
		Example: `  recipe-costing ingredients add --name Flour --unit kg --price 2.50 --stock 100 --threshold 10`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.AddIngredientRequest{Name: name, Unit: unit}
			var err error
			if req.UnitPrice, err = parseDecimal("price", price); err != nil {
				return err
			}
			if req.StockQuantity, err = parseDecimal("stock", stock); err != nil {
				return err
			}
			if req.RestockThreshold, err = parseDecimal("threshold", threshold); err != nil {
				return err
			}

			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.AddIngredient(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printIngredient(w, result) })
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ingredient name")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of measure (kg, l, pc, ...)")
	cmd.Flags().StringVar(&price, "price", "0", "price per unit")
	cmd.Flags().StringVar(&stock, "stock", "0", "initial stock")
	cmd.Flags().StringVar(&threshold, "threshold", "0", "restock threshold")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("unit")

	return cmd
}

func newIngredientsUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, unit, price, threshold string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an ingredient's name, unit, price or threshold",
		Long: `Change an ingredient's name, unit, price or threshold. Only the flags given
are changed. Stock is never changed here; use restock. Existing recipe costs
keep the price they were created with.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.UpdateIngredientRequest{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("unit") {
				req.Unit = &unit
			}
			if flags.Changed("price") {
				d, err := parseDecimal("price", price)
				if err != nil {
					return err
				}
				req.UnitPrice = &d
			}
			if flags.Changed("threshold") {
				d, err := parseDecimal("threshold", threshold)
				if err != nil {
					return err
				}
				req.RestockThreshold = &d
			}

			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.UpdateIngredient(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printIngredient(w, result) })
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&unit, "unit", "", "new unit")
	cmd.Flags().StringVar(&price, "price", "", "new price per unit")
	cmd.Flags().StringVar(&threshold, "threshold", "", "new restock threshold")

	return cmd
}

func newIngredientsRestockCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restock <id> <quantity>",
		Short: "Add stock to an ingredient",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseDecimal("quantity", args[1])
			if err != nil {
				return err
			}
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.RestockIngredient(cmd.Context(), app.RestockRequest{ID: args[0], Quantity: qty})
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printIngredient(w, result) })
		},
	}
}

func newIngredientsDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an ingredient from every recipe and delete it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteIngredient(cmd.Context(), args[0]); err != nil {
				return err
			}
			return opts.output(cmd).Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				printDeleted(w, "Ingredient", args[0])
			})
		},
	}
}

// parseDecimal parses a decimal flag or argument.
func parseDecimal(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, usageError("invalid %s %q: not a number", name, s)
	}
	return d, nil
}
