package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultMarkup is applied to total cost when no target margin is given.
var DefaultMarkup = decimal.RequireFromString("1.3")

// CostLine is one priced component of a recipe.
type CostLine struct {
	IngredientID string
	UnitPrice    decimal.Decimal
	Quantity     decimal.Decimal
}

// TotalCost returns Σ(quantity × unitPrice) over lines.
// It fails with ErrInvalidInput on a non-positive quantity or a negative price.
func TotalCost(lines []CostLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, l := range lines {
		if !l.Quantity.IsPositive() {
			return decimal.Zero, invalidInput("TotalCost", fmt.Sprintf("quantities[%d]", i),
				"quantity for ingredient %s must be positive, got %s", l.IngredientID, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return decimal.Zero, invalidInput("TotalCost", fmt.Sprintf("unitPrice[%d]", i),
				"unit price for ingredient %s cannot be negative, got %s", l.IngredientID, l.UnitPrice)
		}
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total, nil
}

// SuggestedPrice back-calculates a selling price from cost.
//
//	margin given: totalCost / (1 - margin), margin in [0, 1)
//	no margin:    totalCost * DefaultMarkup
func SuggestedPrice(totalCost decimal.Decimal, targetMargin *decimal.Decimal) (decimal.Decimal, error) {
	if targetMargin == nil {
		return totalCost.Mul(DefaultMarkup), nil
	}
	if err := ValidateMargin(*targetMargin); err != nil {
		return decimal.Zero, withOp("SuggestedPrice", err)
	}
	return totalCost.Div(decimal.NewFromInt(1).Sub(*targetMargin)), nil
}

// ValidateMargin rejects margins outside [0, 1). The error carries no
// operation; callers add their own.
func ValidateMargin(m decimal.Decimal) error {
	if m.IsNegative() {
		return invalidInput("", "targetMargin", "target margin cannot be negative, got %s", m)
	}
	if m.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return invalidInput("", "targetMargin", "target margin must be below 1, got %s", m)
	}
	return nil
}

// ComponentCost prices components at the unit prices in prices, keyed by
// ingredient id. A component whose ingredient has no price fails with
// ErrNotFound.
func ComponentCost(components []RecipeComponent, prices map[string]decimal.Decimal) (decimal.Decimal, error) {
	lines := make([]CostLine, 0, len(components))
	for _, c := range components {
		p, ok := prices[c.IngredientID]
		if !ok {
			return decimal.Zero, NotFoundError("ingredient", c.IngredientID)
		}
		lines = append(lines, CostLine{IngredientID: c.IngredientID, UnitPrice: p, Quantity: c.Quantity})
	}
	return TotalCost(lines)
}
