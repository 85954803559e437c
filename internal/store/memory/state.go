// Package memory provides an in-process core.EntityStore. Transactions work on
// a cloned copy of the state which replaces the live state only on commit, so
// an aborted transaction leaves no trace. The SQLite store builds on it.
package memory

import (
	"sort"

	"recipe-costing/internal/core"
)

type state struct {
	ingredients map[string]core.Ingredient
	recipes     map[string]core.Recipe
	components  map[int64]core.RecipeComponent
	sales       map[string]core.Sale
	lastCompID  int64
}

// Snapshot is the serialisable form of the store's state.
type Snapshot struct {
	Ingredients     []core.Ingredient      `json:"ingredients"`
	Recipes         []core.Recipe          `json:"recipes"`
	Components      []core.RecipeComponent `json:"components"`
	Sales           []core.Sale            `json:"sales"`
	LastComponentID int64                  `json:"last_component_id"`
}

func newState() state {
	return state{
		ingredients: make(map[string]core.Ingredient),
		recipes:     make(map[string]core.Recipe),
		components:  make(map[int64]core.RecipeComponent),
		sales:       make(map[string]core.Sale),
	}
}

// Joined fields are display-only and never stored.
func stripRecipe(r core.Recipe) core.Recipe {
	r.Components = nil
	return r
}

func stripComponent(c core.RecipeComponent) core.RecipeComponent {
	c.Ingredient = nil
	return c
}

func stripSale(s core.Sale) core.Sale {
	s.Recipe = nil
	return s
}

// All stored values are flat structs, so copying the maps is a deep copy.
func (s state) clone() state {
	cp := state{
		ingredients: make(map[string]core.Ingredient, len(s.ingredients)),
		recipes:     make(map[string]core.Recipe, len(s.recipes)),
		components:  make(map[int64]core.RecipeComponent, len(s.components)),
		sales:       make(map[string]core.Sale, len(s.sales)),
		lastCompID:  s.lastCompID,
	}
	for k, v := range s.ingredients {
		cp.ingredients[k] = v
	}
	for k, v := range s.recipes {
		cp.recipes[k] = v
	}
	for k, v := range s.components {
		cp.components[k] = v
	}
	for k, v := range s.sales {
		cp.sales[k] = v
	}
	return cp
}

func (s state) snapshot() Snapshot {
	snap := Snapshot{
		Ingredients:     make([]core.Ingredient, 0, len(s.ingredients)),
		Recipes:         make([]core.Recipe, 0, len(s.recipes)),
		Components:      make([]core.RecipeComponent, 0, len(s.components)),
		Sales:           make([]core.Sale, 0, len(s.sales)),
		LastComponentID: s.lastCompID,
	}
	for _, v := range s.ingredients {
		snap.Ingredients = append(snap.Ingredients, v)
	}
	for _, v := range s.recipes {
		snap.Recipes = append(snap.Recipes, v)
	}
	for _, v := range s.components {
		snap.Components = append(snap.Components, v)
	}
	for _, v := range s.sales {
		snap.Sales = append(snap.Sales, v)
	}
	sort.Slice(snap.Ingredients, func(i, j int) bool { return snap.Ingredients[i].ID < snap.Ingredients[j].ID })
	sort.Slice(snap.Recipes, func(i, j int) bool { return snap.Recipes[i].ID < snap.Recipes[j].ID })
	sort.Slice(snap.Components, func(i, j int) bool { return snap.Components[i].ID < snap.Components[j].ID })
	sort.Slice(snap.Sales, func(i, j int) bool { return snap.Sales[i].ID < snap.Sales[j].ID })
	return snap
}

// stateFromSnapshot rebuilds state without checking references, so a snapshot
// may hold sales or components whose targets are gone.
func stateFromSnapshot(snap Snapshot) state {
	st := newState()
	for _, v := range snap.Ingredients {
		st.ingredients[v.ID] = v
	}
	for _, v := range snap.Recipes {
		st.recipes[v.ID] = stripRecipe(v)
	}
	for _, v := range snap.Components {
		st.components[v.ID] = stripComponent(v)
		if v.ID > st.lastCompID {
			st.lastCompID = v.ID
		}
	}
	for _, v := range snap.Sales {
		st.sales[v.ID] = stripSale(v)
	}
	if snap.LastComponentID > st.lastCompID {
		st.lastCompID = snap.LastComponentID
	}
	return st
}
