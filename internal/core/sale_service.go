package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleService records sales. Recording a sale deducts the stock of every
// ingredient the recipe uses; sale deletion is in CompensationService.
type SaleService interface {
	// RecordSale deducts component.quantity × quantitySold from each ingredient
	// and inserts the sale, all in one transaction. Either every deduction and
	// the sale row are committed, or nothing is.
	RecordSale(ctx context.Context, recipeID string, saleAmount decimal.Decimal, quantitySold int) (*Sale, error)
	GetSale(ctx context.Context, id string) (*Sale, error)
	// ListSales returns sales with their recipe attached. Sales whose recipe
	// no longer exists are skipped.
	ListSales(ctx context.Context) ([]Sale, error)
}

type saleService struct {
	store  EntityStore
	logger *slog.Logger
	now    func() time.Time
}

func NewSaleService(store EntityStore, logger *slog.Logger) SaleService {
	return &saleService{store: store, logger: logger, now: time.Now}
}

// deduction is the stock a sale takes from one ingredient.
type deduction struct {
	ingredient *Ingredient
	qty        decimal.Decimal
}

func (s *saleService) RecordSale(ctx context.Context, recipeID string, saleAmount decimal.Decimal, quantitySold int) (*Sale, error) {
	const op = "RecordSale"

	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, invalidInput(op, "recipeId", "recipe id is required")
	}
	if !saleAmount.IsPositive() {
		return nil, invalidInput(op, "saleAmount", "sale amount must be positive, got %s", saleAmount)
	}
	if quantitySold <= 0 {
		return nil, invalidInput(op, "quantitySold", "quantity sold must be a positive integer, got %d", quantitySold)
	}

	sale := Sale{
		ID:           uuid.NewString(),
		RecipeID:     recipeID,
		SaleAmount:   saleAmount,
		QuantitySold: quantitySold,
		CreatedAt:    s.now().UTC(),
	}
	sold := decimal.NewFromInt(int64(quantitySold))

	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		recipe, err := loadRecipe(ctx, q, recipeID, false)
		if err != nil {
			return err
		}
		if len(recipe.Components) == 0 {
			return &Error{Kind: ErrNotFound, Entity: "recipe", ID: recipeID, Msg: "recipe has no components"}
		}

		// Resolve every ingredient before touching stock. A recipe may list the
		// same ingredient twice; those deductions are merged.
		byIngredient := make(map[string]*deduction, len(recipe.Components))
		for i, c := range recipe.Components {
			d, ok := byIngredient[c.IngredientID]
			if !ok {
				ing, err := q.GetIngredient(ctx, c.IngredientID)
				if err != nil {
					return err
				}
				d = &deduction{ingredient: ing}
				byIngredient[c.IngredientID] = d
			}
			d.qty = d.qty.Add(c.Quantity.Mul(sold))
			recipe.Components[i].Ingredient = d.ingredient
		}

		// Deduct in id order so concurrent sales lock shared rows consistently.
		ids := make([]string, 0, len(byIngredient))
		for id := range byIngredient {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			d := byIngredient[id]
			ok, err := q.DeductStock(ctx, id, d.qty)
			if err != nil {
				return err
			}
			if !ok {
				return &Error{
					Kind:   ErrInsufficientStock,
					Entity: "ingredient",
					ID:     id,
					Msg: fmt.Sprintf("not enough %s: required %s, available %s",
						d.ingredient.Name, d.qty, d.ingredient.StockQuantity),
				}
			}
			d.ingredient.StockQuantity = d.ingredient.StockQuantity.Sub(d.qty)
		}

		if err := q.InsertSale(ctx, sale); err != nil {
			return err
		}
		sale.Recipe = recipe
		return nil
	})
	if err != nil {
		err = withOp(op, err)
		s.logger.Warn("sale rejected", "recipe_id", recipeID, "quantity_sold", quantitySold, "error", err)
		return nil, err
	}

	s.logger.Info("sale recorded", "sale_id", sale.ID, "recipe_id", recipeID,
		"sale_amount", saleAmount.String(), "quantity_sold", quantitySold)
	return &sale, nil
}

func (s *saleService) GetSale(ctx context.Context, id string) (*Sale, error) {
	const op = "GetSale"
	if id == "" {
		return nil, invalidInput(op, "id", "sale id is required")
	}
	sale, err := s.store.GetSale(ctx, id)
	if err != nil {
		return nil, withOp(op, err)
	}
	recipe, err := loadRecipe(ctx, s.store, sale.RecipeID, true)
	if err != nil {
		return nil, withOp(op, err)
	}
	sale.Recipe = recipe
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]Sale, error) {
	const op = "ListSales"
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, withOp(op, err)
	}
	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, withOp(op, err)
	}
	byID := make(map[string]*Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	out := make([]Sale, 0, len(sales))
	for _, sale := range sales {
		r, ok := byID[sale.RecipeID]
		if !ok {
			s.logger.Warn("sale has no recipe, skipping", "sale_id", sale.ID, "recipe_id", sale.RecipeID)
			continue
		}
		sale.Recipe = r
		out = append(out, sale)
	}
	return out, nil
}
