package app

import "recipe-costing/internal/core"

// IngredientResult is returned by ingredient writes.
type IngredientResult struct {
	Ingredient *core.Ingredient `json:"ingredient"`
	LowStock   bool             `json:"low_stock"`
}

// IngredientListResult is returned by ListIngredients.
type IngredientListResult struct {
	Ingredients []core.Ingredient `json:"ingredients"`
	LowStockIDs []string          `json:"low_stock_ids"`
}

// RecipeResult is returned by CreateRecipe and GetRecipe.
type RecipeResult struct {
	Recipe *core.Recipe `json:"recipe"`
}

// RecipeListResult is returned by ListRecipes.
type RecipeListResult struct {
	Recipes []core.Recipe `json:"recipes"`
}

// SaleResult is returned by RecordSale and GetSale.
type SaleResult struct {
	Sale *core.Sale `json:"sale"`
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale `json:"sales"`
}
