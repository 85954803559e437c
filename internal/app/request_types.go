package app

import "github.com/shopspring/decimal"

// AddIngredientRequest is the input for creating an ingredient.
type AddIngredientRequest struct {
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Unit             string          `json:"unit"`
	StockQuantity    decimal.Decimal `json:"stock_quantity"`
	RestockThreshold decimal.Decimal `json:"restock_threshold"`
}

// UpdateIngredientRequest is the input for changing an ingredient. Nil fields
// are left as they are.
type UpdateIngredientRequest struct {
	ID               string           `json:"-"`
	Name             *string          `json:"name"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
	Unit             *string          `json:"unit"`
	RestockThreshold *decimal.Decimal `json:"restock_threshold"`
}

// RestockRequest is the input for adding stock to an ingredient.
type RestockRequest struct {
	ID       string          `json:"-"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateRecipeRequest is the input for creating a recipe. IngredientIDs and
// Quantities are parallel.
type CreateRecipeRequest struct {
	Name          string            `json:"name"`
	IngredientIDs []string          `json:"ingredient_ids"`
	Quantities    []decimal.Decimal `json:"quantities"`
	TargetMargin  *decimal.Decimal  `json:"target_margin,omitempty"`
}

// RecordSaleRequest is the input for recording a sale.
type RecordSaleRequest struct {
	RecipeID     string          `json:"recipe_id"`
	SaleAmount   decimal.Decimal `json:"sale_amount"`
	QuantitySold int             `json:"quantity_sold"`
}
