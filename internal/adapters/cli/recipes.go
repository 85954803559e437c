package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"recipe-costing/internal/app"
)

func newRecipesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"rec"},
		Short:   "Create, inspect and delete recipes",
	}
	cmd.AddCommand(
		newRecipesListCommand(opts),
		newRecipesGetCommand(opts),
		newRecipesCreateCommand(opts),
		newRecipesDeleteCommand(opts),
	)
	return cmd
}

func newRecipesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recipes with their cost and suggested price",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.ListRecipes(cmd.Context())
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printRecipes(w, result) })
		},
	}
}

func newRecipesGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a recipe and its components",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.GetRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printRecipeDetail(w, result.Recipe) })
		},
	}
}

func newRecipesCreateCommand(opts *RootOptions) *cobra.Command {
	var items []string
	var margin string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Price and store a recipe",
		Long: `Price and store a recipe. Each --item is <ingredient-id>=<quantity>.
The suggested price is cost / (1 - margin), or cost * 1.3 without --margin.`,
		Example: `  recipe-costing recipes create "Sponge cake" --item <flour-id>=2 --item <sugar-id>=3 --margin 0.2`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.CreateRecipeRequest{Name: args[0]}
			for _, item := range items {
				id, qty, ok := strings.Cut(item, "=")
				if !ok || id == "" {
					return usageError("invalid --item %q: want <ingredient-id>=<quantity>", item)
				}
				d, err := parseDecimal("quantity for "+id, qty)
				if err != nil {
					return err
				}
				req.IngredientIDs = append(req.IngredientIDs, id)
				req.Quantities = append(req.Quantities, d)
			}
			if cmd.Flags().Changed("margin") {
				m, err := parseDecimal("margin", margin)
				if err != nil {
					return err
				}
				req.TargetMargin = &m
			}

			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.CreateRecipe(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.output(cmd).Success(result, func(w io.Writer) { printRecipeDetail(w, result.Recipe) })
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "component as <ingredient-id>=<quantity> (repeatable)")
	cmd.Flags().StringVar(&margin, "margin", "", "target margin in [0, 1)")

	return cmd
}

func newRecipesDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe, reversing its sales",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			return opts.output(cmd).Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				printDeleted(w, "Recipe", args[0])
			})
		},
	}
}
