package cli

import (
	"fmt"
	"io"
	"strings"

	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
)

func banner(w io.Writer, width int, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func printIngredients(w io.Writer, result *app.IngredientListResult) {
	banner(w, 100, "INGREDIENTS")
	if len(result.Ingredients) == 0 {
		fmt.Fprintln(w, "  No ingredients found.")
		fmt.Fprintln(w, strings.Repeat("=", 100))
		return
	}
	fmt.Fprintf(w, "  %-36s %-20s %-6s %10s %10s %10s\n", "ID", "NAME", "UNIT", "PRICE", "STOCK", "THRESHOLD")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, ing := range result.Ingredients {
		flag := ""
		if ing.IsLowStock() {
			flag = "  LOW"
		}
		fmt.Fprintf(w, "  %-36s %-20s %-6s %10s %10s %10s%s\n",
			ing.ID, ing.Name, ing.Unit, ing.UnitPrice.StringFixed(2),
			ing.StockQuantity.String(), ing.RestockThreshold.String(), flag)
	}
	fmt.Fprintln(w, strings.Repeat("=", 100))
	if n := len(result.LowStockIDs); n > 0 {
		fmt.Fprintf(w, "  %d ingredient(s) at or below restock threshold.\n", n)
	}
}

func printIngredient(w io.Writer, result *app.IngredientResult) {
	ing := result.Ingredient
	fmt.Fprintf(w, "Ingredient %s (%s)\n", ing.Name, ing.ID)
	fmt.Fprintf(w, "  Price:     %s per %s\n", ing.UnitPrice.StringFixed(2), ing.Unit)
	fmt.Fprintf(w, "  Stock:     %s\n", ing.StockQuantity)
	fmt.Fprintf(w, "  Threshold: %s\n", ing.RestockThreshold)
	if result.LowStock {
		fmt.Fprintln(w, "  Stock is at or below the restock threshold.")
	}
}

func printRecipes(w io.Writer, result *app.RecipeListResult) {
	banner(w, 90, "RECIPES")
	if len(result.Recipes) == 0 {
		fmt.Fprintln(w, "  No recipes found.")
		fmt.Fprintln(w, strings.Repeat("=", 90))
		return
	}
	fmt.Fprintf(w, "  %-36s %-24s %10s %10s %5s\n", "ID", "NAME", "COST", "PRICE", "ITEMS")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range result.Recipes {
		fmt.Fprintf(w, "  %-36s %-24s %10s %10s %5d\n",
			r.ID, r.Name, r.TotalCost.StringFixed(2), r.SuggestedPrice.StringFixed(2), len(r.Components))
	}
	fmt.Fprintln(w, strings.Repeat("=", 90))
}

func printRecipeDetail(w io.Writer, r *core.Recipe) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "  Recipe:          %s\n", r.Name)
	fmt.Fprintf(w, "  ID:              %s\n", r.ID)
	fmt.Fprintf(w, "  Total cost:      %s\n", r.TotalCost.StringFixed(2))
	fmt.Fprintf(w, "  Suggested price: %s\n", r.SuggestedPrice.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "  %-24s %10s %-6s %12s %12s\n", "INGREDIENT", "QTY", "UNIT", "UNIT PRICE", "LINE COST")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, c := range r.Components {
		if c.Ingredient == nil {
			fmt.Fprintf(w, "  %-24s %10s %-6s %12s %12s\n", c.IngredientID+" (missing)", c.Quantity, "", "-", "-")
			continue
		}
		fmt.Fprintf(w, "  %-24s %10s %-6s %12s %12s\n",
			c.Ingredient.Name, c.Quantity, c.Ingredient.Unit,
			c.Ingredient.UnitPrice.StringFixed(2), c.Ingredient.UnitPrice.Mul(c.Quantity).StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("-", 70))
}

func printSales(w io.Writer, result *app.SaleListResult) {
	banner(w, 100, "SALES")
	if len(result.Sales) == 0 {
		fmt.Fprintln(w, "  No sales found.")
		fmt.Fprintln(w, strings.Repeat("=", 100))
		return
	}
	fmt.Fprintf(w, "  %-36s %-24s %10s %5s  %s\n", "ID", "RECIPE", "AMOUNT", "QTY", "DATE")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, s := range result.Sales {
		fmt.Fprintf(w, "  %-36s %-24s %10s %5d  %s\n",
			s.ID, recipeName(s), s.SaleAmount.StringFixed(2), s.QuantitySold, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w, strings.Repeat("=", 100))
}

func printSale(w io.Writer, s *core.Sale) {
	fmt.Fprintf(w, "Sale %s\n", s.ID)
	fmt.Fprintf(w, "  Recipe:   %s\n", recipeName(*s))
	fmt.Fprintf(w, "  Amount:   %s\n", s.SaleAmount.StringFixed(2))
	fmt.Fprintf(w, "  Quantity: %d\n", s.QuantitySold)
	fmt.Fprintf(w, "  Date:     %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
}

func recipeName(s core.Sale) string {
	if s.Recipe != nil {
		return s.Recipe.Name
	}
	return s.RecipeID
}

func printDashboard(w io.Writer, stats *core.DashboardStats) {
	banner(w, 62, "DASHBOARD")
	fmt.Fprintf(w, "  %-30s %28s\n", "Total sales", stats.TotalSales.StringFixed(2))
	fmt.Fprintf(w, "  %-30s %28s\n", "Total costs (current prices)", stats.TotalCosts.StringFixed(2))
	fmt.Fprintf(w, "  %-30s %28s\n", "Total margin", stats.TotalMargin.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 62))
	if len(stats.LowStockIngredients) == 0 {
		fmt.Fprintln(w, "  No ingredients below restock threshold.")
	} else {
		fmt.Fprintln(w, "  LOW STOCK")
		for _, ing := range stats.LowStockIngredients {
			fmt.Fprintf(w, "  %-30s %12s / %-12s\n", ing.Name, ing.StockQuantity, ing.RestockThreshold)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printDeleted(w io.Writer, entity, id string) {
	fmt.Fprintf(w, "%s %s deleted.\n", entity, id)
}
