package core

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService manages ingredients and their stock levels outside of sales.
// Sale-driven deductions live in SaleService; deletions live in
// CompensationService.
type InventoryService interface {
	// AddIngredient creates an ingredient with an initial stock level.
	AddIngredient(ctx context.Context, in IngredientInput) (*Ingredient, error)
	// UpdateIngredient changes descriptive fields and pricing. Existing recipe
	// cost snapshots are not recomputed.
	UpdateIngredient(ctx context.Context, id string, patch IngredientPatch) (*Ingredient, error)
	// RestockIngredient increases stock by qty (qty > 0).
	RestockIngredient(ctx context.Context, id string, qty decimal.Decimal) (*Ingredient, error)

	GetIngredient(ctx context.Context, id string) (*Ingredient, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
}

// IngredientInput is the input for AddIngredient.
type IngredientInput struct {
	Name             string
	UnitPrice        decimal.Decimal
	Unit             string
	StockQuantity    decimal.Decimal
	RestockThreshold decimal.Decimal
}

type inventoryService struct {
	store  EntityStore
	logger *slog.Logger
}

func NewInventoryService(store EntityStore, logger *slog.Logger) InventoryService {
	return &inventoryService{store: store, logger: logger}
}

func (s *inventoryService) AddIngredient(ctx context.Context, in IngredientInput) (*Ingredient, error) {
	const op = "AddIngredient"
	ing := Ingredient{
		ID:               "ing-" + uuid.NewString(),
		Name:             strings.TrimSpace(in.Name),
		UnitPrice:        in.UnitPrice,
		Unit:             strings.TrimSpace(in.Unit),
		StockQuantity:    in.StockQuantity,
		RestockThreshold: in.RestockThreshold,
	}
	if err := validateIngredient(op, ing); err != nil {
		return nil, err
	}

	if err := s.store.InsertIngredient(ctx, ing); err != nil {
		return nil, withOp(op, err)
	}
	s.logger.Info("ingredient added", "ingredient_id", ing.ID, "name", ing.Name)
	return &ing, nil
}

func (s *inventoryService) UpdateIngredient(ctx context.Context, id string, patch IngredientPatch) (*Ingredient, error) {
	const op = "UpdateIngredient"
	if id == "" {
		return nil, invalidInput(op, "id", "ingredient id is required")
	}

	var updated *Ingredient
	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		ing, err := q.GetIngredient(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			ing.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.UnitPrice != nil {
			ing.UnitPrice = *patch.UnitPrice
		}
		if patch.Unit != nil {
			ing.Unit = strings.TrimSpace(*patch.Unit)
		}
		if patch.RestockThreshold != nil {
			ing.RestockThreshold = *patch.RestockThreshold
		}
		if err := validateIngredient(op, *ing); err != nil {
			return err
		}
		if err := q.UpdateIngredient(ctx, *ing); err != nil {
			return err
		}
		updated = ing
		return nil
	})
	if err != nil {
		return nil, withOp(op, err)
	}
	return updated, nil
}

func (s *inventoryService) RestockIngredient(ctx context.Context, id string, qty decimal.Decimal) (*Ingredient, error) {
	const op = "RestockIngredient"
	if id == "" {
		return nil, invalidInput(op, "id", "ingredient id is required")
	}
	if !qty.IsPositive() {
		return nil, invalidInput(op, "quantity", "restock quantity must be positive, got %s", qty)
	}

	var restocked *Ingredient
	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		found, err := q.RestoreStock(ctx, id, qty)
		if err != nil {
			return err
		}
		if !found {
			return NotFoundError("ingredient", id)
		}
		restocked, err = q.GetIngredient(ctx, id)
		return err
	})
	if err != nil {
		return nil, withOp(op, err)
	}
	s.logger.Info("ingredient restocked", "ingredient_id", id, "quantity", qty.String(),
		"stock_quantity", restocked.StockQuantity.String())
	return restocked, nil
}

func (s *inventoryService) GetIngredient(ctx context.Context, id string) (*Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, withOp("GetIngredient", err)
	}
	return ing, nil
}

func (s *inventoryService) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	ings, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, withOp("ListIngredients", err)
	}
	return ings, nil
}

func validateIngredient(op string, ing Ingredient) error {
	switch {
	case ing.Name == "":
		return invalidInput(op, "name", "name is required")
	case ing.Unit == "":
		return invalidInput(op, "unit", "unit is required")
	case ing.UnitPrice.IsNegative():
		return invalidInput(op, "unitPrice", "unit price cannot be negative, got %s", ing.UnitPrice)
	case ing.StockQuantity.IsNegative():
		return invalidInput(op, "stockQuantity", "stock quantity cannot be negative, got %s", ing.StockQuantity)
	case ing.RestockThreshold.IsNegative():
		return invalidInput(op, "restockThreshold", "restock threshold cannot be negative, got %s", ing.RestockThreshold)
	}
	return nil
}
