package app

import (
	"context"

	"recipe-costing/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// AddIngredient creates an ingredient with an initial stock level.
	AddIngredient(ctx context.Context, req AddIngredientRequest) (*IngredientResult, error)

	// UpdateIngredient changes name, unit, price or restock threshold. Stock is
	// only changed by sales, deletions and RestockIngredient.
	UpdateIngredient(ctx context.Context, req UpdateIngredientRequest) (*IngredientResult, error)

	// RestockIngredient adds quantity units to an ingredient's stock.
	RestockIngredient(ctx context.Context, req RestockRequest) (*IngredientResult, error)

	// ListIngredients returns every ingredient, flagging those at or below threshold.
	ListIngredients(ctx context.Context) (*IngredientListResult, error)

	// DeleteIngredient removes the ingredient from every recipe, then deletes it.
	DeleteIngredient(ctx context.Context, id string) error

	// CreateRecipe prices and stores a recipe with its components.
	CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*RecipeResult, error)

	// GetRecipe returns one recipe with component detail.
	GetRecipe(ctx context.Context, id string) (*RecipeResult, error)

	// ListRecipes returns every recipe with component detail.
	ListRecipes(ctx context.Context) (*RecipeListResult, error)

	// DeleteRecipe restores stock for the recipe's sales, then removes the
	// sales, the components and the recipe.
	DeleteRecipe(ctx context.Context, id string) error

	// RecordSale deducts stock for every component and records the sale atomically.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error)

	// GetSale returns one sale with its recipe.
	GetSale(ctx context.Context, id string) (*SaleResult, error)

	// ListSales returns all sales, newest first, with their recipes.
	ListSales(ctx context.Context) (*SaleListResult, error)

	// DeleteSale restores one batch of each component's stock and deletes the sale.
	DeleteSale(ctx context.Context, id string) error

	// DashboardStats returns revenue, cost at current prices, margin and
	// low-stock ingredients.
	DashboardStats(ctx context.Context) (*core.DashboardStats, error)
}
