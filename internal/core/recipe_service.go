package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeService creates and reads recipes. Recipe deletion is a compensating
// operation and lives in CompensationService.
type RecipeService interface {
	// CreateRecipe prices the components at current ingredient prices and
	// persists the recipe together with its components in one transaction.
	// ingredientIDs and quantities are parallel slices.
	CreateRecipe(ctx context.Context, name string, ingredientIDs []string, quantities []decimal.Decimal, targetMargin *decimal.Decimal) (*Recipe, error)
	// GetRecipe returns the recipe with components annotated with ingredient detail.
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
}

type recipeService struct {
	store  EntityStore
	logger *slog.Logger
}

func NewRecipeService(store EntityStore, logger *slog.Logger) RecipeService {
	return &recipeService{store: store, logger: logger}
}

func (s *recipeService) CreateRecipe(ctx context.Context, name string, ingredientIDs []string, quantities []decimal.Decimal, targetMargin *decimal.Decimal) (*Recipe, error) {
	const op = "CreateRecipe"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput(op, "name", "name is required")
	}
	if len(ingredientIDs) == 0 {
		return nil, invalidInput(op, "ingredientIds", "at least one ingredient is required")
	}
	if len(ingredientIDs) != len(quantities) {
		return nil, invalidInput(op, "quantities", "got %d ingredient ids but %d quantities", len(ingredientIDs), len(quantities))
	}
	for i, qty := range quantities {
		if !qty.IsPositive() {
			return nil, invalidInput(op, fmt.Sprintf("quantities[%d]", i),
				"quantity for ingredient %s must be positive, got %s", ingredientIDs[i], qty)
		}
	}
	if targetMargin != nil {
		if err := ValidateMargin(*targetMargin); err != nil {
			return nil, withOp(op, err)
		}
	}

	recipe := Recipe{ID: "rec-" + uuid.NewString(), Name: name}

	err := s.store.WithTx(ctx, func(ctx context.Context, q Queries) error {
		// Resolve every ingredient first so the caller learns about all missing ids at once.
		lines := make([]CostLine, len(ingredientIDs))
		ings := make([]*Ingredient, len(ingredientIDs))
		var missing []string
		for i, id := range ingredientIDs {
			ing, err := q.GetIngredient(ctx, id)
			if KindOf(err) == ErrNotFound {
				missing = append(missing, id)
				continue
			}
			if err != nil {
				return err
			}
			ings[i] = ing
			lines[i] = CostLine{IngredientID: id, UnitPrice: ing.UnitPrice, Quantity: quantities[i]}
		}
		if len(missing) > 0 {
			return &Error{Kind: ErrNotFound, Op: op, Entity: "ingredient", ID: strings.Join(missing, ","),
				Msg: fmt.Sprintf("%d of %d ingredients do not exist", len(missing), len(ingredientIDs))}
		}

		total, err := TotalCost(lines)
		if err != nil {
			return err
		}
		price, err := SuggestedPrice(total, targetMargin)
		if err != nil {
			return err
		}
		recipe.TotalCost = total
		recipe.SuggestedPrice = price

		if err := q.InsertRecipe(ctx, recipe); err != nil {
			return err
		}
		for i, id := range ingredientIDs {
			c := RecipeComponent{RecipeID: recipe.ID, IngredientID: id, Quantity: quantities[i]}
			cid, err := q.InsertComponent(ctx, c)
			if err != nil {
				return err
			}
			c.ID = cid
			c.Ingredient = ings[i]
			recipe.Components = append(recipe.Components, c)
		}
		return nil
	})
	if err != nil {
		return nil, withOp(op, err)
	}

	s.logger.Info("recipe created", "recipe_id", recipe.ID, "name", recipe.Name,
		"components", len(recipe.Components), "total_cost", recipe.TotalCost.String(),
		"suggested_price", recipe.SuggestedPrice.String())
	return &recipe, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	const op = "GetRecipe"
	if id == "" {
		return nil, invalidInput(op, "id", "recipe id is required")
	}
	r, err := loadRecipe(ctx, s.store, id, true)
	if err != nil {
		return nil, withOp(op, err)
	}
	return r, nil
}

func (s *recipeService) ListRecipes(ctx context.Context) ([]Recipe, error) {
	const op = "ListRecipes"
	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, withOp(op, err)
	}
	ings, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, withOp(op, err)
	}
	byID := indexIngredients(ings)

	for i := range recipes {
		comps, err := s.store.ListComponents(ctx, recipes[i].ID)
		if err != nil {
			return nil, withOp(op, err)
		}
		recipes[i].Components = annotate(comps, byID)
	}
	return recipes, nil
}

// loadRecipe reads a recipe and its components through q. With detail set,
// components whose ingredient still exists are annotated with it.
func loadRecipe(ctx context.Context, q Queries, id string, detail bool) (*Recipe, error) {
	r, err := q.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	comps, err := q.ListComponents(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail {
		for i := range comps {
			ing, err := q.GetIngredient(ctx, comps[i].IngredientID)
			if KindOf(err) == ErrNotFound {
				continue
			}
			if err != nil {
				return nil, err
			}
			comps[i].Ingredient = ing
		}
	}
	r.Components = comps
	return r, nil
}

func indexIngredients(ings []Ingredient) map[string]*Ingredient {
	m := make(map[string]*Ingredient, len(ings))
	for i := range ings {
		m[ings[i].ID] = &ings[i]
	}
	return m
}

func annotate(comps []RecipeComponent, byID map[string]*Ingredient) []RecipeComponent {
	for i := range comps {
		if ing, ok := byID[comps[i].IngredientID]; ok {
			cp := *ing
			comps[i].Ingredient = &cp
		}
	}
	return comps
}
