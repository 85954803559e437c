package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Queries is the record-level access the services need. It is satisfied both by
// an EntityStore (each call auto-commits) and by the transaction handle passed
// to EntityStore.WithTx.
//
// Point lookups return an error matching ErrNotFound when the row is absent.
type Queries interface {
	GetIngredient(ctx context.Context, id string) (*Ingredient, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	InsertIngredient(ctx context.Context, ing Ingredient) error
	UpdateIngredient(ctx context.Context, ing Ingredient) error
	DeleteIngredient(ctx context.Context, id string) error

	// DeductStock subtracts qty from the ingredient's stock only if the result
	// stays non-negative. ok is false when the stock was insufficient; the row
	// is left untouched in that case.
	DeductStock(ctx context.Context, ingredientID string, qty decimal.Decimal) (ok bool, err error)
	// RestoreStock adds qty to the ingredient's stock. found is false when the
	// ingredient no longer exists.
	RestoreStock(ctx context.Context, ingredientID string, qty decimal.Decimal) (found bool, err error)

	// GetRecipe returns the recipe header without components.
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
	InsertRecipe(ctx context.Context, r Recipe) error
	DeleteRecipe(ctx context.Context, id string) error

	ListComponents(ctx context.Context, recipeID string) ([]RecipeComponent, error)
	ListComponentsByIngredient(ctx context.Context, ingredientID string) ([]RecipeComponent, error)
	// InsertComponent stores c and returns the store-assigned component id.
	InsertComponent(ctx context.Context, c RecipeComponent) (int64, error)
	DeleteComponentsByRecipe(ctx context.Context, recipeID string) (int64, error)
	DeleteComponentsByIngredient(ctx context.Context, ingredientID string) (int64, error)

	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSales(ctx context.Context) ([]Sale, error)
	ListSalesByRecipe(ctx context.Context, recipeID string) ([]Sale, error)
	InsertSale(ctx context.Context, s Sale) error
	DeleteSale(ctx context.Context, id string) error
}

// EntityStore owns all persisted entities.
//
// WithTx runs fn inside one atomic transaction: if fn returns an error, or the
// commit fails or times out, none of fn's writes become visible. fn must use
// the context it is given for every query; that context carries the store's
// transaction deadline. Commit failures and timeouts are reported as
// ErrTransactionFailure; other errors returned by fn are passed through
// unchanged.
type EntityStore interface {
	Queries
	WithTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error
}
