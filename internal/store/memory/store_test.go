package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.InsertIngredient(ctx, core.Ingredient{ID: "ing-flour", Name: "Flour", Unit: "kg", UnitPrice: d("2.5"), StockQuantity: d("10")}))
	require.NoError(t, s.InsertIngredient(ctx, core.Ingredient{ID: "ing-sugar", Name: "Sugar", Unit: "kg", UnitPrice: d("1"), StockQuantity: d("4")}))
	require.NoError(t, s.InsertRecipe(ctx, core.Recipe{ID: "rec-cake", Name: "Cake"}))
	_, err := s.InsertComponent(ctx, core.RecipeComponent{RecipeID: "rec-cake", IngredientID: "ing-flour", Quantity: d("2")})
	require.NoError(t, err)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
		ok, err := q.DeductStock(ctx, "ing-flour", d("3"))
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	ing, err := s.GetIngredient(ctx, "ing-flour")
	require.NoError(t, err)
	assert.True(t, ing.StockQuantity.Equal(d("10")), "stock changed by aborted tx: %s", ing.StockQuantity)
}

func TestWithTx_WritesVisibleInsideTx(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
		if _, err := q.DeductStock(ctx, "ing-sugar", d("1.5")); err != nil {
			return err
		}
		ing, err := q.GetIngredient(ctx, "ing-sugar")
		require.NoError(t, err)
		assert.True(t, ing.StockQuantity.Equal(d("2.5")))
		return nil
	})
	require.NoError(t, err)
}

func TestDeductStock_Conditional(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	ok, err := s.DeductStock(ctx, "ing-sugar", d("4.01"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeductStock(ctx, "ing-sugar", d("4"))
	require.NoError(t, err)
	assert.True(t, ok)

	ing, err := s.GetIngredient(ctx, "ing-sugar")
	require.NoError(t, err)
	assert.True(t, ing.StockQuantity.IsZero())
}

func TestRestoreStock_MissingIngredient(t *testing.T) {
	s := New()
	found, err := s.RestoreStock(context.Background(), "ing-ghost", d("1"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCommitHook(t *testing.T) {
	ctx := context.Background()

	var seen []Snapshot
	s := New(WithCommitHook(func(_ context.Context, snap Snapshot) error {
		seen = append(seen, snap)
		return nil
	}))
	seed(t, s)
	require.Len(t, seen, 4)
	assert.Len(t, seen[3].Components, 1)

	failing := New(WithCommitHook(func(context.Context, Snapshot) error { return errors.New("disk full") }))
	err := failing.InsertIngredient(ctx, core.Ingredient{ID: "ing-x", Name: "X", Unit: "g"})
	require.ErrorIs(t, err, core.ErrTransactionFailure)
	_, err = failing.GetIngredient(ctx, "ing-x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestWithTx_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WithTx(ctx, func(context.Context, core.Queries) error { return nil })
	assert.ErrorIs(t, err, core.ErrTransactionFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithTx_Timeout(t *testing.T) {
	s := New(WithTxTimeout(20 * time.Millisecond))
	seed(t, s)
	ctx := context.Background()

	t.Run("overrun discards writes", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
			if _, err := q.DeductStock(ctx, "ing-flour", d("4")); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		})
		require.ErrorIs(t, err, core.ErrTransactionFailure)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		ing, err := s.GetIngredient(ctx, "ing-flour")
		require.NoError(t, err)
		assert.True(t, ing.StockQuantity.Equal(d("10")), "stock = %s", ing.StockQuantity)
	})

	t.Run("context error from fn", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, _ core.Queries) error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, core.ErrTransactionFailure)
	})

	t.Run("fast transaction commits", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
			_, err := q.RestoreStock(ctx, "ing-sugar", d("1"))
			return err
		})
		require.NoError(t, err)
		ing, err := s.GetIngredient(ctx, "ing-sugar")
		require.NoError(t, err)
		assert.True(t, ing.StockQuantity.Equal(d("5")))
	})
}

func TestReferentialChecks(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	err := s.DeleteIngredient(ctx, "ing-flour")
	require.Error(t, err)
	assert.ErrorIs(t, err, errReferenced)

	_, err = s.InsertComponent(ctx, core.RecipeComponent{RecipeID: "rec-cake", IngredientID: "ing-nope", Quantity: d("1")})
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = s.InsertSale(ctx, core.Sale{ID: "s1", RecipeID: "rec-nope", SaleAmount: d("1"), QuantitySold: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)

	n, err := s.DeleteComponentsByIngredient(ctx, "ing-flour")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, s.DeleteIngredient(ctx, "ing-flour"))
}

func TestUpdateIngredient_KeepsStock(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.UpdateIngredient(ctx, core.Ingredient{ID: "ing-sugar", Name: "Cane sugar", Unit: "kg", UnitPrice: d("1.2"), StockQuantity: d("999")}))
	ing, err := s.GetIngredient(ctx, "ing-sugar")
	require.NoError(t, err)
	assert.Equal(t, "Cane sugar", ing.Name)
	assert.True(t, ing.StockQuantity.Equal(d("4")))
}

func TestListSales_NewestFirst(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertSale(ctx, core.Sale{ID: "old", RecipeID: "rec-cake", SaleAmount: d("5"), QuantitySold: 1, CreatedAt: t0}))
	require.NoError(t, s.InsertSale(ctx, core.Sale{ID: "new", RecipeID: "rec-cake", SaleAmount: d("5"), QuantitySold: 1, CreatedAt: t0.Add(time.Hour)}))

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "new", sales[0].ID)
	assert.Equal(t, "old", sales[1].ID)
}

func TestExportImport(t *testing.T) {
	s := New()
	seed(t, s)
	snap := s.Export()

	other := New()
	other.Import(snap)
	assert.Equal(t, snap, other.Export())

	// Component ids keep increasing after an import.
	id, err := other.InsertComponent(context.Background(), core.RecipeComponent{RecipeID: "rec-cake", IngredientID: "ing-sugar", Quantity: d("1")})
	require.NoError(t, err)
	assert.EqualValues(t, 2, id)
}
