package core_test

import (
	"errors"
	"testing"

	"recipe-costing/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestTotalCost(t *testing.T) {
	tests := []struct {
		name    string
		lines   []core.CostLine
		want    string
		wantErr bool
	}{
		{
			name: "two ingredients",
			lines: []core.CostLine{
				{IngredientID: "A", UnitPrice: dec("2.5"), Quantity: dec("2")},
				{IngredientID: "B", UnitPrice: dec("1.0"), Quantity: dec("3")},
			},
			want: "8",
		},
		{
			name:  "free ingredient",
			lines: []core.CostLine{{IngredientID: "water", UnitPrice: dec("0"), Quantity: dec("5")}},
			want:  "0",
		},
		{
			name:  "fractional quantity",
			lines: []core.CostLine{{IngredientID: "salt", UnitPrice: dec("0.4"), Quantity: dec("0.125")}},
			want:  "0.05",
		},
		{
			name:    "zero quantity",
			lines:   []core.CostLine{{IngredientID: "A", UnitPrice: dec("1"), Quantity: dec("0")}},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			lines:   []core.CostLine{{IngredientID: "A", UnitPrice: dec("1"), Quantity: dec("-1")}},
			wantErr: true,
		},
		{
			name:    "negative price",
			lines:   []core.CostLine{{IngredientID: "A", UnitPrice: dec("-0.01"), Quantity: dec("1")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.TotalCost(tt.lines)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				var ce *core.Error
				if !errors.As(err, &ce) || ce.Op != "TotalCost" {
					t.Errorf("error %q should name TotalCost", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("TotalCost = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSuggestedPrice(t *testing.T) {
	tests := []struct {
		name    string
		cost    string
		margin  *decimal.Decimal
		want    string
		wantErr bool
	}{
		{name: "default markup", cost: "8", want: "10.4"},
		{name: "twenty percent margin", cost: "8", margin: decPtr("0.2"), want: "10"},
		{name: "zero margin", cost: "8", margin: decPtr("0"), want: "8"},
		{name: "margin of one", cost: "8", margin: decPtr("1"), wantErr: true},
		{name: "margin above one", cost: "8", margin: decPtr("1.5"), wantErr: true},
		{name: "negative margin", cost: "8", margin: decPtr("-0.1"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.SuggestedPrice(dec(tt.cost), tt.margin)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				var ce *core.Error
				if !errors.As(err, &ce) || ce.Op != "SuggestedPrice" || ce.Field != "targetMargin" {
					t.Errorf("error %q should name SuggestedPrice and targetMargin", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("SuggestedPrice = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComponentCost_MissingPrice(t *testing.T) {
	comps := []core.RecipeComponent{{IngredientID: "A", Quantity: dec("1")}}
	_, err := core.ComponentCost(comps, map[string]decimal.Decimal{})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIngredient_IsLowStock(t *testing.T) {
	tests := []struct {
		stock, threshold string
		want             bool
	}{
		{"5", "10", true},
		{"10", "10", true},
		{"10.01", "10", false},
		{"0", "0", true},
	}
	for _, tt := range tests {
		ing := core.Ingredient{StockQuantity: dec(tt.stock), RestockThreshold: dec(tt.threshold)}
		if got := ing.IsLowStock(); got != tt.want {
			t.Errorf("IsLowStock(stock=%s, threshold=%s) = %v, want %v", tt.stock, tt.threshold, got, tt.want)
		}
	}
}
