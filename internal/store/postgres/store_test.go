package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
	"recipe-costing/internal/db"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, core.ErrInvalidInput},
		{"foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), core.ErrNotFound},
		{"check constraint", &pgconn.PgError{Code: "23514"}, core.ErrInvalidInput},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, core.ErrTransactionFailure},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, core.ErrTransactionFailure},
		{"deadline", context.DeadlineExceeded, core.ErrTransactionFailure},
		{"anything else", errors.New("connection reset"), core.ErrTransactionFailure},
		{"already classified", core.NotFoundError("sale", "x"), core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify(%v) = %v, want kind %v", tt.err, got, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classify(%v) lost the original error", tt.err)
			}
		})
	}
}

func TestClassifyDelete(t *testing.T) {
	fk := fmt.Errorf("delete recipe: %w", &pgconn.PgError{Code: "23503", ConstraintName: "sales_recipe_id_fkey"})
	got := classifyDelete(fk)
	if !errors.Is(got, core.ErrTransactionFailure) {
		t.Errorf("classifyDelete(fk violation) = %v, want transaction failure", got)
	}
	if !errors.Is(got, fk) {
		t.Errorf("classifyDelete lost the original error")
	}
	if got := classifyDelete(&pgconn.PgError{Code: "40P01"}); !errors.Is(got, core.ErrTransactionFailure) {
		t.Errorf("classifyDelete(deadlock) = %v, want transaction failure", got)
	}
	if got := classifyDelete(core.NotFoundError("recipe", "x")); !errors.Is(got, core.ErrNotFound) {
		t.Errorf("classifyDelete(not found) = %v, want not found", got)
	}
}

func TestSaleIDsMustBeUUIDs(t *testing.T) {
	// A malformed id never reaches the database.
	s := New(nil, 0)
	ctx := context.Background()
	if _, err := s.GetSale(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetSale(missing) = %v, want not found", err)
	}
	if err := s.DeleteSale(ctx, "sale-1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteSale(sale-1) = %v, want not found", err)
	}
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// setupTestStore connects to TEST_DATABASE_URL, applies the schema and clears
// all tables. Tests are skipped when the variable is unset.
func setupTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.ApplySchema(ctx, pool); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE sales, recipe_components, recipes, ingredients RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return New(pool, 5*time.Second), ctx
}

func TestStore_DeductStockIsConditional(t *testing.T) {
	s, ctx := setupTestStore(t)

	if err := s.InsertIngredient(ctx, core.Ingredient{
		ID: "ing-milk", Name: "Milk", Unit: "l",
		UnitPrice: decimal.RequireFromString("0.9"), StockQuantity: decimal.NewFromInt(3),
	}); err != nil {
		t.Fatalf("InsertIngredient failed: %v", err)
	}

	ok, err := s.DeductStock(ctx, "ing-milk", decimal.NewFromInt(4))
	if err != nil || ok {
		t.Fatalf("DeductStock(4) = %v, %v; want false, nil", ok, err)
	}
	ok, err = s.DeductStock(ctx, "ing-milk", decimal.NewFromInt(3))
	if err != nil || !ok {
		t.Fatalf("DeductStock(3) = %v, %v; want true, nil", ok, err)
	}
	ing, err := s.GetIngredient(ctx, "ing-milk")
	if err != nil {
		t.Fatalf("GetIngredient failed: %v", err)
	}
	if !ing.StockQuantity.IsZero() {
		t.Errorf("stock = %s, want 0", ing.StockQuantity)
	}
}

func TestStore_WithTxRollsBack(t *testing.T) {
	s, ctx := setupTestStore(t)

	if err := s.InsertIngredient(ctx, core.Ingredient{ID: "ing-egg", Name: "Egg", Unit: "pc", StockQuantity: decimal.NewFromInt(12)}); err != nil {
		t.Fatalf("InsertIngredient failed: %v", err)
	}
	if err := s.InsertRecipe(ctx, core.Recipe{ID: "rec-omelette", Name: "Omelette"}); err != nil {
		t.Fatalf("InsertRecipe failed: %v", err)
	}

	err := s.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
		if _, err := q.DeductStock(ctx, "ing-egg", decimal.NewFromInt(2)); err != nil {
			return err
		}
		if err := q.InsertSale(ctx, core.Sale{
			ID: uuid.NewString(), RecipeID: "rec-omelette", SaleAmount: decimal.NewFromInt(6),
			QuantitySold: 1, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return &core.Error{Kind: core.ErrInsufficientStock, Entity: "ingredient", ID: "ing-other"}
	})
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("WithTx error = %v, want insufficient stock", err)
	}

	ing, _ := s.GetIngredient(ctx, "ing-egg")
	if !ing.StockQuantity.Equal(decimal.NewFromInt(12)) {
		t.Errorf("stock = %s after rollback, want 12", ing.StockQuantity)
	}
	sales, _ := s.ListSales(ctx)
	if len(sales) != 0 {
		t.Errorf("got %d sales after rollback, want 0", len(sales))
	}
}

func TestStore_WithTxTimesOutOnLockedRow(t *testing.T) {
	s, ctx := setupTestStore(t)
	if err := s.InsertIngredient(ctx, core.Ingredient{ID: "ing-butter", Name: "Butter", Unit: "kg", StockQuantity: decimal.NewFromInt(5)}); err != nil {
		t.Fatalf("InsertIngredient failed: %v", err)
	}

	// Hold the row lock from another transaction for the whole test.
	holder, err := s.pool.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer holder.Rollback(ctx)
	if _, err := holder.Exec(ctx, `SELECT 1 FROM ingredients WHERE id = $1 FOR UPDATE`, "ing-butter"); err != nil {
		t.Fatalf("lock failed: %v", err)
	}

	short := New(s.pool, 200*time.Millisecond)
	start := time.Now()
	err = short.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
		_, err := q.DeductStock(ctx, "ing-butter", decimal.NewFromInt(1))
		return err
	})
	if !errors.Is(err, core.ErrTransactionFailure) {
		t.Fatalf("WithTx error = %v, want transaction failure", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("WithTx returned after %s, want it bounded by the 200ms timeout", elapsed)
	}
}

func TestStore_KeepsDecimalPrecision(t *testing.T) {
	s, ctx := setupTestStore(t)
	third := decimal.RequireFromString("0.33333")
	if err := s.InsertIngredient(ctx, core.Ingredient{ID: "ing-salt", Name: "Salt", Unit: "kg", UnitPrice: decimal.RequireFromString("0.12345"), StockQuantity: third}); err != nil {
		t.Fatalf("InsertIngredient failed: %v", err)
	}
	if err := s.InsertRecipe(ctx, core.Recipe{ID: "rec-brine", Name: "Brine"}); err != nil {
		t.Fatalf("InsertRecipe failed: %v", err)
	}
	sale := core.Sale{ID: uuid.NewString(), RecipeID: "rec-brine", SaleAmount: decimal.RequireFromString("1.005"), QuantitySold: 1, CreatedAt: time.Now().UTC()}
	if err := s.InsertSale(ctx, sale); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}

	ing, err := s.GetIngredient(ctx, "ing-salt")
	if err != nil {
		t.Fatalf("GetIngredient failed: %v", err)
	}
	if !ing.StockQuantity.Equal(third) || !ing.UnitPrice.Equal(decimal.RequireFromString("0.12345")) {
		t.Errorf("ingredient = %s @ %s, want 0.33333 @ 0.12345", ing.StockQuantity, ing.UnitPrice)
	}
	got, err := s.GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSale failed: %v", err)
	}
	if !got.SaleAmount.Equal(sale.SaleAmount) {
		t.Errorf("sale amount = %s, want 1.005", got.SaleAmount)
	}
}

func TestStore_ServicesEndToEnd(t *testing.T) {
	s, ctx := setupTestStore(t)
	log := testLogger()

	inv := core.NewInventoryService(s, log)
	recipes := core.NewRecipeService(s, log)
	sales := core.NewSaleService(s, log)
	comp := core.NewCompensationService(s, log)

	flour, err := inv.AddIngredient(ctx, core.IngredientInput{Name: "Flour", Unit: "kg", UnitPrice: decimal.RequireFromString("2.5"), StockQuantity: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("AddIngredient failed: %v", err)
	}
	rec, err := recipes.CreateRecipe(ctx, "Bread", []string{flour.ID}, []decimal.Decimal{decimal.NewFromInt(2)}, nil)
	if err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}
	sale, err := sales.RecordSale(ctx, rec.ID, decimal.NewFromInt(9), 2)
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	got, _ := inv.GetIngredient(ctx, flour.ID)
	if !got.StockQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("stock after sale = %s, want 6", got.StockQuantity)
	}

	if _, err := sales.RecordSale(ctx, rec.ID, decimal.NewFromInt(9), 4); !errors.Is(err, core.ErrInsufficientStock) {
		t.Errorf("oversell error = %v, want insufficient stock", err)
	}

	if err := comp.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("DeleteSale failed: %v", err)
	}
	if err := comp.DeleteRecipe(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if err := comp.DeleteIngredient(ctx, flour.ID); err != nil {
		t.Fatalf("DeleteIngredient failed: %v", err)
	}
}
