package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
)

// CommitHook is called with the state a transaction is about to commit, while
// the store is still locked. A non-nil error aborts the commit.
type CommitHook func(ctx context.Context, snap Snapshot) error

// Store is a core.EntityStore held in memory. Writers are serialised; readers
// see the last committed state.
type Store struct {
	mu        sync.RWMutex
	state     state
	onCommit  CommitHook
	txTimeout time.Duration
}

var _ core.EntityStore = (*Store)(nil)

type Option func(*Store)

// WithCommitHook installs hook to run before every commit.
func WithCommitHook(hook CommitHook) Option {
	return func(s *Store) { s.onCommit = hook }
}

// WithTxTimeout bounds every WithTx call, lock wait excluded. Zero means no
// bound beyond the caller's context.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) { s.txTimeout = d }
}

func New(opts ...Option) *Store {
	s := &Store{state: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export returns a copy of the committed state.
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// Import replaces the whole state with snap. It does not run the commit hook.
func (s *Store) Import(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snap)
}

// WithTx runs fn against a private copy of the state and swaps it in only if
// fn, the context and the commit hook all succeed. A transaction that outlives
// its deadline is discarded even when fn returned nil.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, q core.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return core.TransactionError("transaction not started", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	work := s.state.clone()
	if err := fn(ctx, &txn{st: &work}); err != nil {
		if ctx.Err() != nil && core.KindOf(err) == nil {
			return core.TransactionError("transaction timed out", err)
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return core.TransactionError("transaction aborted before commit", err)
	}
	if s.onCommit != nil {
		if err := s.onCommit(ctx, work.snapshot()); err != nil {
			return core.TransactionError("commit failed", err)
		}
	}
	s.state = work
	return nil
}

func (s *Store) read(fn func(t *txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&txn{st: &s.state})
}

func (s *Store) write(ctx context.Context, fn func(t *txn) error) error {
	return s.WithTx(ctx, func(_ context.Context, q core.Queries) error { return fn(q.(*txn)) })
}

// ── Auto-commit access ───────────────────────────────────────────────────────

func (s *Store) GetIngredient(ctx context.Context, id string) (out *core.Ingredient, err error) {
	err = s.read(func(t *txn) error { out, err = t.GetIngredient(ctx, id); return err })
	return out, err
}

func (s *Store) ListIngredients(ctx context.Context) (out []core.Ingredient, err error) {
	err = s.read(func(t *txn) error { out, err = t.ListIngredients(ctx); return err })
	return out, err
}

func (s *Store) InsertIngredient(ctx context.Context, ing core.Ingredient) error {
	return s.write(ctx, func(t *txn) error { return t.InsertIngredient(ctx, ing) })
}

func (s *Store) UpdateIngredient(ctx context.Context, ing core.Ingredient) error {
	return s.write(ctx, func(t *txn) error { return t.UpdateIngredient(ctx, ing) })
}

func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	return s.write(ctx, func(t *txn) error { return t.DeleteIngredient(ctx, id) })
}

func (s *Store) DeductStock(ctx context.Context, id string, qty decimal.Decimal) (ok bool, err error) {
	err = s.write(ctx, func(t *txn) error { ok, err = t.DeductStock(ctx, id, qty); return err })
	return ok, err
}

func (s *Store) RestoreStock(ctx context.Context, id string, qty decimal.Decimal) (found bool, err error) {
	err = s.write(ctx, func(t *txn) error { found, err = t.RestoreStock(ctx, id, qty); return err })
	return found, err
}

func (s *Store) GetRecipe(ctx context.Context, id string) (out *core.Recipe, err error) {
	err = s.read(func(t *txn) error { out, err = t.GetRecipe(ctx, id); return err })
	return out, err
}

func (s *Store) ListRecipes(ctx context.Context) (out []core.Recipe, err error) {
	err = s.read(func(t *txn) error { out, err = t.ListRecipes(ctx); return err })
	return out, err
}

func (s *Store) InsertRecipe(ctx context.Context, r core.Recipe) error {
	return s.write(ctx, func(t *txn) error { return t.InsertRecipe(ctx, r) })
}

func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	return s.write(ctx, func(t *txn) error { return t.DeleteRecipe(ctx, id) })
}

func (s *Store) ListComponents(ctx context.Context, recipeID string) (out []core.RecipeComponent, err error) {
	err = s.read(func(t *txn) error { out, err = t.ListComponents(ctx, recipeID); return err })
	return out, err
}

func (s *Store) ListComponentsByIngredient(ctx context.Context, ingredientID string) (out []core.RecipeComponent, err error) {
	err = s.read(func(t *txn) error { out, err = t.ListComponentsByIngredient(ctx, ingredientID); return err })
	return out, err
}

func (s *Store) InsertComponent(ctx context.Context, c core.RecipeComponent) (id int64, err error) {
	err = s.write(ctx, func(t *txn) error { id, err = t.InsertComponent(ctx, c); return err })
	return id, err
}

func (s *Store) DeleteComponentsByRecipe(ctx context.Context, recipeID string) (n int64, err error) {
	err = s.write(ctx, func(t *txn) error { n, err = t.DeleteComponentsByRecipe(ctx, recipeID); return err })
	return n, err
}

func (s *Store) DeleteComponentsByIngredient(ctx context.Context, ingredientID string) (n int64, err error) {
	err = s.write(ctx, func(t *txn) error { n, err = t.DeleteComponentsByIngredient(ctx, ingredientID); return err })
	return n, err
}

func (s *Store) GetSale(ctx context.Context, id string) (out *core.Sale, err error) {
	err = s.read(func(t *txn) error { out, err = t.GetSale(ctx, id); return err })
	return out, err
}

func (s *Store) ListSales(ctx context.Context) (out []core.Sale, err error) {
	err = s.read(func(t *txn) error { out, err = t.ListSales(ctx); return err })
	return out, err
}

func (s *Store) ListSalesByRecipe(ctx context.Context, recipeID string) (out []core.Sale, err error) {
	err = s.read(func(t *txn) error { out, err = t.ListSalesByRecipe(ctx, recipeID); return err })
	return out, err
}

func (s *Store) InsertSale(ctx context.Context, sale core.Sale) error {
	return s.write(ctx, func(t *txn) error { return t.InsertSale(ctx, sale) })
}

func (s *Store) DeleteSale(ctx context.Context, id string) error {
	return s.write(ctx, func(t *txn) error { return t.DeleteSale(ctx, id) })
}
