package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
)

var errReferenced = errors.New("row is still referenced")

// txn implements core.Queries over one state value. It holds no lock itself:
// Store guarantees exclusive access for writes and shared access for reads.
type txn struct {
	st *state
}

var _ core.Queries = (*txn)(nil)

func duplicate(entity, id string) error {
	return &core.Error{Kind: core.ErrInvalidInput, Entity: entity, ID: id, Msg: "already exists"}
}

// ── Ingredients ──────────────────────────────────────────────────────────────

func (t *txn) GetIngredient(_ context.Context, id string) (*core.Ingredient, error) {
	ing, ok := t.st.ingredients[id]
	if !ok {
		return nil, core.NotFoundError("ingredient", id)
	}
	return &ing, nil
}

func (t *txn) ListIngredients(_ context.Context) ([]core.Ingredient, error) {
	out := make([]core.Ingredient, 0, len(t.st.ingredients))
	for _, ing := range t.st.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *txn) InsertIngredient(_ context.Context, ing core.Ingredient) error {
	if _, ok := t.st.ingredients[ing.ID]; ok {
		return duplicate("ingredient", ing.ID)
	}
	t.st.ingredients[ing.ID] = ing
	return nil
}

func (t *txn) UpdateIngredient(_ context.Context, ing core.Ingredient) error {
	cur, ok := t.st.ingredients[ing.ID]
	if !ok {
		return core.NotFoundError("ingredient", ing.ID)
	}
	// Stock moves only through DeductStock and RestoreStock.
	ing.StockQuantity = cur.StockQuantity
	t.st.ingredients[ing.ID] = ing
	return nil
}

func (t *txn) DeleteIngredient(_ context.Context, id string) error {
	if _, ok := t.st.ingredients[id]; !ok {
		return core.NotFoundError("ingredient", id)
	}
	for _, c := range t.st.components {
		if c.IngredientID == id {
			return fmt.Errorf("delete ingredient %s: %w by recipe %s", id, errReferenced, c.RecipeID)
		}
	}
	delete(t.st.ingredients, id)
	return nil
}

func (t *txn) DeductStock(_ context.Context, id string, qty decimal.Decimal) (bool, error) {
	ing, ok := t.st.ingredients[id]
	if !ok {
		return false, core.NotFoundError("ingredient", id)
	}
	if ing.StockQuantity.LessThan(qty) {
		return false, nil
	}
	ing.StockQuantity = ing.StockQuantity.Sub(qty)
	t.st.ingredients[id] = ing
	return true, nil
}

func (t *txn) RestoreStock(_ context.Context, id string, qty decimal.Decimal) (bool, error) {
	ing, ok := t.st.ingredients[id]
	if !ok {
		return false, nil
	}
	ing.StockQuantity = ing.StockQuantity.Add(qty)
	t.st.ingredients[id] = ing
	return true, nil
}

// ── Recipes and components ───────────────────────────────────────────────────

func (t *txn) GetRecipe(_ context.Context, id string) (*core.Recipe, error) {
	r, ok := t.st.recipes[id]
	if !ok {
		return nil, core.NotFoundError("recipe", id)
	}
	return &r, nil
}

func (t *txn) ListRecipes(_ context.Context) ([]core.Recipe, error) {
	out := make([]core.Recipe, 0, len(t.st.recipes))
	for _, r := range t.st.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *txn) InsertRecipe(_ context.Context, r core.Recipe) error {
	if _, ok := t.st.recipes[r.ID]; ok {
		return duplicate("recipe", r.ID)
	}
	t.st.recipes[r.ID] = stripRecipe(r)
	return nil
}

func (t *txn) DeleteRecipe(_ context.Context, id string) error {
	if _, ok := t.st.recipes[id]; !ok {
		return core.NotFoundError("recipe", id)
	}
	for _, c := range t.st.components {
		if c.RecipeID == id {
			return fmt.Errorf("delete recipe %s: %w by component %d", id, errReferenced, c.ID)
		}
	}
	for _, s := range t.st.sales {
		if s.RecipeID == id {
			return fmt.Errorf("delete recipe %s: %w by sale %s", id, errReferenced, s.ID)
		}
	}
	delete(t.st.recipes, id)
	return nil
}

func (t *txn) componentsWhere(match func(core.RecipeComponent) bool) []core.RecipeComponent {
	out := make([]core.RecipeComponent, 0)
	for _, c := range t.st.components {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t *txn) ListComponents(_ context.Context, recipeID string) ([]core.RecipeComponent, error) {
	return t.componentsWhere(func(c core.RecipeComponent) bool { return c.RecipeID == recipeID }), nil
}

func (t *txn) ListComponentsByIngredient(_ context.Context, ingredientID string) ([]core.RecipeComponent, error) {
	return t.componentsWhere(func(c core.RecipeComponent) bool { return c.IngredientID == ingredientID }), nil
}

func (t *txn) InsertComponent(_ context.Context, c core.RecipeComponent) (int64, error) {
	if _, ok := t.st.recipes[c.RecipeID]; !ok {
		return 0, core.NotFoundError("recipe", c.RecipeID)
	}
	if _, ok := t.st.ingredients[c.IngredientID]; !ok {
		return 0, core.NotFoundError("ingredient", c.IngredientID)
	}
	t.st.lastCompID++
	c.ID = t.st.lastCompID
	t.st.components[c.ID] = stripComponent(c)
	return c.ID, nil
}

func (t *txn) deleteComponentsWhere(match func(core.RecipeComponent) bool) int64 {
	var n int64
	for id, c := range t.st.components {
		if match(c) {
			delete(t.st.components, id)
			n++
		}
	}
	return n
}

func (t *txn) DeleteComponentsByRecipe(_ context.Context, recipeID string) (int64, error) {
	return t.deleteComponentsWhere(func(c core.RecipeComponent) bool { return c.RecipeID == recipeID }), nil
}

func (t *txn) DeleteComponentsByIngredient(_ context.Context, ingredientID string) (int64, error) {
	return t.deleteComponentsWhere(func(c core.RecipeComponent) bool { return c.IngredientID == ingredientID }), nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

func (t *txn) GetSale(_ context.Context, id string) (*core.Sale, error) {
	s, ok := t.st.sales[id]
	if !ok {
		return nil, core.NotFoundError("sale", id)
	}
	return &s, nil
}

func (t *txn) salesWhere(match func(core.Sale) bool) []core.Sale {
	out := make([]core.Sale, 0)
	for _, s := range t.st.sales {
		if match(s) {
			out = append(out, s)
		}
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (t *txn) ListSales(_ context.Context) ([]core.Sale, error) {
	return t.salesWhere(func(core.Sale) bool { return true }), nil
}

func (t *txn) ListSalesByRecipe(_ context.Context, recipeID string) ([]core.Sale, error) {
	return t.salesWhere(func(s core.Sale) bool { return s.RecipeID == recipeID }), nil
}

func (t *txn) InsertSale(_ context.Context, s core.Sale) error {
	if _, ok := t.st.sales[s.ID]; ok {
		return duplicate("sale", s.ID)
	}
	if _, ok := t.st.recipes[s.RecipeID]; !ok {
		return core.NotFoundError("recipe", s.RecipeID)
	}
	t.st.sales[s.ID] = stripSale(s)
	return nil
}

func (t *txn) DeleteSale(_ context.Context, id string) error {
	if _, ok := t.st.sales[id]; !ok {
		return core.NotFoundError("sale", id)
	}
	delete(t.st.sales, id)
	return nil
}
