package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"recipe-costing/internal/app"

	"github.com/shopspring/decimal"
)

// handleNewRecipe runs an interactive recipe creation session.
func handleNewRecipe(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService, name string) {
	fmt.Fprintf(out, "Creating recipe: %s\n", name)
	if list, err := svc.ListIngredients(ctx); err == nil && len(list.Ingredients) > 0 {
		fmt.Fprintln(out, "Available ingredients:")
		for _, ing := range list.Ingredients {
			fmt.Fprintf(out, "  %-36s %-20s %s/%s\n", ing.ID, ing.Name, ing.UnitPrice.StringFixed(2), ing.Unit)
		}
	}
	fmt.Fprintln(out, "Enter components. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(out, "Format per line: <ingredient-id> <quantity>")

	req := app.CreateRecipeRequest{Name: name}
	lineNum := 1
	for {
		fmt.Fprintf(out, "  Component %d: ", lineNum)
		raw, err := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, "cancel") || (err != nil && raw == "") {
			fmt.Fprintln(out, "Recipe creation cancelled.")
			return
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) != 2 {
			fmt.Fprintln(out, "  Invalid format. Use: <ingredient-id> <quantity>")
			continue
		}
		qty, err := decimal.NewFromString(parts[1])
		if err != nil || !qty.IsPositive() {
			fmt.Fprintln(out, "  Invalid quantity.")
			continue
		}
		req.IngredientIDs = append(req.IngredientIDs, parts[0])
		req.Quantities = append(req.Quantities, qty)
		lineNum++
	}

	if len(req.IngredientIDs) == 0 {
		fmt.Fprintln(out, "No components entered. Recipe not created.")
		return
	}

	fmt.Fprint(out, "Target margin (0 to <1, blank for a 30% markup): ")
	marginInput, _ := reader.ReadString('\n')
	if marginInput = strings.TrimSpace(marginInput); marginInput != "" {
		m, err := decimal.NewFromString(marginInput)
		if err != nil {
			fmt.Fprintf(out, "Invalid margin %q. Recipe not created.\n", marginInput)
			return
		}
		req.TargetMargin = &m
	}

	result, err := svc.CreateRecipe(ctx, req)
	if err != nil {
		fmt.Fprintf(out, "Error creating recipe: %v\n", err)
		return
	}
	r := result.Recipe
	fmt.Fprintf(out, "\nRecipe created (ID: %s)\n", r.ID)
	fmt.Fprintf(out, "  Total cost:      %s\n", r.TotalCost.StringFixed(2))
	fmt.Fprintf(out, "  Suggested price: %s\n", r.SuggestedPrice.StringFixed(2))
}
