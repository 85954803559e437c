package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a purchasable input with a unit price and a tracked stock level.
type Ingredient struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Unit             string          `json:"unit"`
	StockQuantity    decimal.Decimal `json:"stock_quantity"`
	RestockThreshold decimal.Decimal `json:"restock_threshold"`
}

// IsLowStock reports whether stock is at or below the restock threshold.
func (i Ingredient) IsLowStock() bool {
	return i.StockQuantity.LessThanOrEqual(i.RestockThreshold)
}

// Recipe is a named list of weighted ingredients.
// TotalCost and SuggestedPrice are snapshots taken when the recipe was created;
// they are not refreshed when ingredient prices change afterwards.
type Recipe struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	TotalCost      decimal.Decimal   `json:"total_cost"`
	SuggestedPrice decimal.Decimal   `json:"suggested_price"`
	Components     []RecipeComponent `json:"components"`
}

// RecipeComponent is the (ingredient, quantity) pairing owned by a recipe.
// Quantity is the number of ingredient units one batch of the recipe consumes.
type RecipeComponent struct {
	ID           int64           `json:"id"`
	RecipeID     string          `json:"recipe_id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Ingredient   *Ingredient     `json:"ingredient,omitempty"` // joined for display
}

// Sale records revenue against a recipe. Sales are immutable once created;
// the only permitted change is deletion, which restores stock.
type Sale struct {
	ID           string          `json:"id"`
	RecipeID     string          `json:"recipe_id"`
	SaleAmount   decimal.Decimal `json:"sale_amount"`
	QuantitySold int             `json:"quantity_sold"`
	CreatedAt    time.Time       `json:"created_at"`
	Recipe       *Recipe         `json:"recipe,omitempty"` // joined for display
}

// DashboardStats is the read-only summary shown on the dashboard.
// TotalCosts is computed from current ingredient prices, so it can disagree
// with the TotalCost snapshots stored on recipes.
type DashboardStats struct {
	TotalSales          decimal.Decimal `json:"total_sales"`
	TotalCosts          decimal.Decimal `json:"total_costs"`
	TotalMargin         decimal.Decimal `json:"total_margin"`
	LowStockIngredients []Ingredient    `json:"low_stock_ingredients"`
}

// IngredientPatch carries the optional fields of an ingredient update.
// Nil fields are left unchanged. Stock is changed only through sales,
// compensation, and RestockIngredient.
type IngredientPatch struct {
	Name             *string
	UnitPrice        *decimal.Decimal
	Unit             *string
	RestockThreshold *decimal.Decimal
}
