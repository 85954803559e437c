package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "costing.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.InsertIngredient(ctx, core.Ingredient{
		ID: "ing-flour", Name: "Flour", Unit: "kg",
		UnitPrice: decimal.RequireFromString("2.5"), StockQuantity: decimal.NewFromInt(10),
	}))
	require.NoError(t, s.InsertRecipe(ctx, core.Recipe{ID: "rec-bread", Name: "Bread", TotalCost: decimal.NewFromInt(5)}))
	_, err = s.InsertComponent(ctx, core.RecipeComponent{RecipeID: "rec-bread", IngredientID: "ing-flour", Quantity: decimal.NewFromInt(2)})
	require.NoError(t, err)
	require.NoError(t, s.InsertSale(ctx, core.Sale{
		ID: "sale-1", RecipeID: "rec-bread", SaleAmount: decimal.NewFromInt(7), QuantitySold: 1,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}))
	ok, err := s.DeductStock(ctx, "ing-flour", decimal.NewFromInt(2))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	ing, err := reopened.GetIngredient(ctx, "ing-flour")
	require.NoError(t, err)
	assert.True(t, ing.StockQuantity.Equal(decimal.NewFromInt(8)), "stock = %s", ing.StockQuantity)

	comps, err := reopened.ListComponents(ctx, "rec-bread")
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.EqualValues(t, 1, comps[0].ID)

	sale, err := reopened.GetSale(ctx, "sale-1")
	require.NoError(t, err)
	assert.True(t, sale.CreatedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))

	id, err := reopened.InsertComponent(ctx, core.RecipeComponent{RecipeID: "rec-bread", IngredientID: "ing-flour", Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, id)
}

func TestStore_AbortedTxNotPersisted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "costing.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.InsertIngredient(ctx, core.Ingredient{ID: "ing-a", Name: "A", Unit: "g", StockQuantity: decimal.NewFromInt(1)}))

	err = s.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
		if _, err := q.DeductStock(ctx, "ing-a", decimal.NewFromInt(1)); err != nil {
			return err
		}
		return core.NotFoundError("recipe", "rec-x")
	})
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	ing, err := reopened.GetIngredient(ctx, "ing-a")
	require.NoError(t, err)
	assert.True(t, ing.StockQuantity.Equal(decimal.NewFromInt(1)))
}

func TestOpen_EmptyDatabase(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ings, err := s.ListIngredients(ctx)
	require.NoError(t, err)
	assert.Empty(t, ings)
}
