// Package postgres implements core.EntityStore on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
)

// DefaultTxTimeout bounds a WithTx call when the caller's context has no
// earlier deadline.
const DefaultTxTimeout = 5 * time.Second

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods serve auto-commit and transactional access.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	*queries
	pool      *pgxpool.Pool
	txTimeout time.Duration
}

var _ core.EntityStore = (*Store)(nil)

// New returns a store on pool. A zero txTimeout means DefaultTxTimeout.
func New(pool *pgxpool.Pool, txTimeout time.Duration) *Store {
	if txTimeout <= 0 {
		txTimeout = DefaultTxTimeout
	}
	return &Store{queries: &queries{q: pool}, pool: pool, txTimeout: txTimeout}
}

// WithTx runs fn in a READ COMMITTED transaction. Stock deductions rely on
// conditional updates rather than isolation level, so no serializable retry
// loop is needed. fn receives the deadline-bound context, so a statement stuck
// on a row lock is cancelled once the transaction times out.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, q core.Queries) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return core.TransactionError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &queries{q: tx}); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return core.TransactionError("failed to commit transaction", err)
	}
	return nil
}

// classify maps driver errors onto core error kinds. Errors that already carry
// a kind are returned unchanged.
func classify(err error) error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &core.Error{Kind: core.ErrInvalidInput, Msg: "duplicate key: " + pgErr.ConstraintName, Err: err}
		case "23503":
			return &core.Error{Kind: core.ErrNotFound, Msg: "referenced row does not exist: " + pgErr.ConstraintName, Err: err}
		case "23514":
			return &core.Error{Kind: core.ErrInvalidInput, Msg: "check constraint violated: " + pgErr.ConstraintName, Err: err}
		case "40001", "40P01":
			return core.TransactionError("concurrent update conflict", err)
		}
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.TransactionError("transaction timed out", err)
	}
	return core.TransactionError("query failed", err)
}

// classifyDelete is classify for DELETE statements. A foreign-key violation
// there means another transaction attached a row to the one being deleted,
// which is a conflict to retry rather than a missing entity.
func classifyDelete(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return core.TransactionError("row became referenced concurrently: "+pgErr.ConstraintName, err)
	}
	return classify(err)
}

type queries struct {
	q querier
}

// ── Ingredients ──────────────────────────────────────────────────────────────

const ingredientColumns = `id, name, unit_price, unit, stock_quantity, restock_threshold`

func scanIngredient(row pgx.Row) (*core.Ingredient, error) {
	var ing core.Ingredient
	if err := row.Scan(&ing.ID, &ing.Name, &ing.UnitPrice, &ing.Unit, &ing.StockQuantity, &ing.RestockThreshold); err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *queries) GetIngredient(ctx context.Context, id string) (*core.Ingredient, error) {
	ing, err := scanIngredient(r.q.QueryRow(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NotFoundError("ingredient", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %s: %w", id, err)
	}
	return ing, nil
}

func (r *queries) ListIngredients(ctx context.Context) ([]core.Ingredient, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	out := make([]core.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, *ing)
	}
	return out, rows.Err()
}

func (r *queries) InsertIngredient(ctx context.Context, ing core.Ingredient) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingredients (id, name, unit_price, unit, stock_quantity, restock_threshold)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ing.ID, ing.Name, ing.UnitPrice, ing.Unit, ing.StockQuantity, ing.RestockThreshold)
	if err != nil {
		return classify(fmt.Errorf("failed to insert ingredient %s: %w", ing.ID, err))
	}
	return nil
}

// UpdateIngredient writes descriptive fields and price. Stock is not touched.
func (r *queries) UpdateIngredient(ctx context.Context, ing core.Ingredient) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE ingredients SET name = $2, unit_price = $3, unit = $4, restock_threshold = $5
		WHERE id = $1`,
		ing.ID, ing.Name, ing.UnitPrice, ing.Unit, ing.RestockThreshold)
	if err != nil {
		return classify(fmt.Errorf("failed to update ingredient %s: %w", ing.ID, err))
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundError("ingredient", ing.ID)
	}
	return nil
}

func (r *queries) DeleteIngredient(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return classifyDelete(fmt.Errorf("failed to delete ingredient %s: %w", id, err))
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundError("ingredient", id)
	}
	return nil
}

// DeductStock is a single conditional UPDATE, so two concurrent sales can
// never both take the last units of an ingredient.
func (r *queries) DeductStock(ctx context.Context, id string, qty decimal.Decimal) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE ingredients SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2`, id, qty)
	if err != nil {
		return false, fmt.Errorf("failed to deduct stock for %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *queries) RestoreStock(ctx context.Context, id string, qty decimal.Decimal) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE ingredients SET stock_quantity = stock_quantity + $2 WHERE id = $1`, id, qty)
	if err != nil {
		return false, fmt.Errorf("failed to restore stock for %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ── Recipes and components ───────────────────────────────────────────────────

func (r *queries) GetRecipe(ctx context.Context, id string) (*core.Recipe, error) {
	var rec core.Recipe
	err := r.q.QueryRow(ctx, `
		SELECT id, name, total_cost, suggested_price FROM recipes WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Name, &rec.TotalCost, &rec.SuggestedPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NotFoundError("recipe", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	return &rec, nil
}

func (r *queries) ListRecipes(ctx context.Context) ([]core.Recipe, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, total_cost, suggested_price FROM recipes ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	out := make([]core.Recipe, 0)
	for rows.Next() {
		var rec core.Recipe
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.TotalCost, &rec.SuggestedPrice); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *queries) InsertRecipe(ctx context.Context, rec core.Recipe) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO recipes (id, name, total_cost, suggested_price) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Name, rec.TotalCost, rec.SuggestedPrice)
	if err != nil {
		return classify(fmt.Errorf("failed to insert recipe %s: %w", rec.ID, err))
	}
	return nil
}

func (r *queries) DeleteRecipe(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return classifyDelete(fmt.Errorf("failed to delete recipe %s: %w", id, err))
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundError("recipe", id)
	}
	return nil
}

func (r *queries) listComponents(ctx context.Context, where string, arg string) ([]core.RecipeComponent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, recipe_id, ingredient_id, quantity FROM recipe_components
		WHERE `+where+` = $1 ORDER BY id`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer rows.Close()

	out := make([]core.RecipeComponent, 0)
	for rows.Next() {
		var c core.RecipeComponent
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.IngredientID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *queries) ListComponents(ctx context.Context, recipeID string) ([]core.RecipeComponent, error) {
	return r.listComponents(ctx, "recipe_id", recipeID)
}

func (r *queries) ListComponentsByIngredient(ctx context.Context, ingredientID string) ([]core.RecipeComponent, error) {
	return r.listComponents(ctx, "ingredient_id", ingredientID)
}

func (r *queries) InsertComponent(ctx context.Context, c core.RecipeComponent) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO recipe_components (recipe_id, ingredient_id, quantity)
		VALUES ($1, $2, $3) RETURNING id`,
		c.RecipeID, c.IngredientID, c.Quantity).Scan(&id)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to insert component for recipe %s: %w", c.RecipeID, err))
	}
	return id, nil
}

func (r *queries) DeleteComponentsByRecipe(ctx context.Context, recipeID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipe_components WHERE recipe_id = $1`, recipeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete components of recipe %s: %w", recipeID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *queries) DeleteComponentsByIngredient(ctx context.Context, ingredientID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipe_components WHERE ingredient_id = $1`, ingredientID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete components using ingredient %s: %w", ingredientID, err)
	}
	return tag.RowsAffected(), nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

const saleColumns = `id::text, recipe_id, sale_amount, quantity_sold, created_at`

func scanSale(row pgx.Row) (*core.Sale, error) {
	var s core.Sale
	if err := row.Scan(&s.ID, &s.RecipeID, &s.SaleAmount, &s.QuantitySold, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func (r *queries) GetSale(ctx context.Context, id string) (*core.Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, core.NotFoundError("sale", id)
	}
	sale, err := scanSale(r.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NotFoundError("sale", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale %s: %w", id, err)
	}
	return sale, nil
}

func (r *queries) listSales(ctx context.Context, where string, args ...any) ([]core.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales `+where+` ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	out := make([]core.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *queries) ListSales(ctx context.Context) ([]core.Sale, error) {
	return r.listSales(ctx, "")
}

func (r *queries) ListSalesByRecipe(ctx context.Context, recipeID string) ([]core.Sale, error) {
	return r.listSales(ctx, "WHERE recipe_id = $1", recipeID)
}

func (r *queries) InsertSale(ctx context.Context, s core.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, recipe_id, sale_amount, quantity_sold, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.RecipeID, s.SaleAmount, s.QuantitySold, s.CreatedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to insert sale: %w", err))
	}
	return nil
}

// DeleteSale treats an id that is not a UUID as absent; sale ids are always
// UUIDs.
func (r *queries) DeleteSale(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return core.NotFoundError("sale", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, uid)
	if err != nil {
		return classifyDelete(fmt.Errorf("failed to delete sale %s: %w", id, err))
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundError("sale", id)
	}
	return nil
}
