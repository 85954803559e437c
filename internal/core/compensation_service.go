package core

import (
	"context"
	"log/slog"
	"strings"
)

// CompensationService reverses the stock effects of sales and cascades
// deletions. Each operation runs in a single transaction, so a failed attempt
// leaves nothing behind and may simply be retried; retrying after success
// reports ErrNotFound.
//
// Stock is restored using the recipe's current component quantities, one batch
// per sale, not component.quantity × sale.QuantitySold. If a recipe's
// components change between a sale and its deletion, the restored amount will
// not match what was deducted.
type CompensationService interface {
	DeleteSale(ctx context.Context, saleID string) error
	// DeleteRecipe restores stock for every sale of the recipe, then removes
	// those sales, the recipe's components, and the recipe.
	DeleteRecipe(ctx context.Context, recipeID string) error
	// DeleteIngredient removes the ingredient from every recipe that uses it,
	// then deletes it. Recipe cost snapshots are left as they were.
	DeleteIngredient(ctx context.Context, ingredientID string) error
}

type compensationService struct {
	store  EntityStore
	logger *slog.Logger
}

func NewCompensationService(store EntityStore, logger *slog.Logger) CompensationService {
	return &compensationService{store: store, logger: logger}
}

func (s *compensationService) DeleteSale(ctx context.Context, saleID string) error {
	const op = "DeleteSale"
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return invalidInput(op, "saleId", "sale id is required")
	}

	var skipped int
	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		sale, err := q.GetSale(ctx, saleID)
		if err != nil {
			return err
		}
		if _, err := q.GetRecipe(ctx, sale.RecipeID); err != nil {
			return err
		}
		comps, err := q.ListComponents(ctx, sale.RecipeID)
		if err != nil {
			return err
		}
		skipped, err = s.restore(ctx, q, sale, comps)
		if err != nil {
			return err
		}
		return q.DeleteSale(ctx, saleID)
	})
	if err != nil {
		return withOp(op, err)
	}

	s.logger.Info("sale deleted", "sale_id", saleID, "skipped_ingredients", skipped)
	return nil
}

func (s *compensationService) DeleteRecipe(ctx context.Context, recipeID string) error {
	const op = "DeleteRecipe"
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return invalidInput(op, "recipeId", "recipe id is required")
	}

	var salesDeleted, componentsDeleted int64
	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		if _, err := q.GetRecipe(ctx, recipeID); err != nil {
			return err
		}
		comps, err := q.ListComponents(ctx, recipeID)
		if err != nil {
			return err
		}
		sales, err := q.ListSalesByRecipe(ctx, recipeID)
		if err != nil {
			return err
		}
		for i := range sales {
			if _, err := s.restore(ctx, q, &sales[i], comps); err != nil {
				return err
			}
			if err := q.DeleteSale(ctx, sales[i].ID); err != nil {
				return err
			}
			salesDeleted++
		}
		if componentsDeleted, err = q.DeleteComponentsByRecipe(ctx, recipeID); err != nil {
			return err
		}
		return q.DeleteRecipe(ctx, recipeID)
	})
	if err != nil {
		return withOp(op, err)
	}

	s.logger.Info("recipe deleted", "recipe_id", recipeID,
		"sales_deleted", salesDeleted, "components_deleted", componentsDeleted)
	return nil
}

func (s *compensationService) DeleteIngredient(ctx context.Context, ingredientID string) error {
	const op = "DeleteIngredient"
	ingredientID = strings.TrimSpace(ingredientID)
	if ingredientID == "" {
		return invalidInput(op, "ingredientId", "ingredient id is required")
	}

	var componentsDeleted int64
	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		if _, err := q.GetIngredient(ctx, ingredientID); err != nil {
			return err
		}
		var err error
		if componentsDeleted, err = q.DeleteComponentsByIngredient(ctx, ingredientID); err != nil {
			return err
		}
		return q.DeleteIngredient(ctx, ingredientID)
	})
	if err != nil {
		return withOp(op, err)
	}

	s.logger.Info("ingredient deleted", "ingredient_id", ingredientID, "components_deleted", componentsDeleted)
	return nil
}

// restore puts back one batch of each component's ingredient for sale.
// Ingredients that no longer exist are logged and skipped; skipped is their count.
func (s *compensationService) restore(ctx context.Context, q Queries, sale *Sale, comps []RecipeComponent) (skipped int, err error) {
	for _, c := range comps {
		found, err := q.RestoreStock(ctx, c.IngredientID, c.Quantity)
		if err != nil {
			return skipped, err
		}
		if !found {
			skipped++
			s.logger.Warn("ingredient missing during stock restoration, skipping",
				"sale_id", sale.ID, "recipe_id", sale.RecipeID, "ingredient_id", c.IngredientID,
				"quantity", c.Quantity.String())
		}
	}
	return skipped, nil
}
