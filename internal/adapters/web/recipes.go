package web

import (
	"net/http"

	"recipe-costing/internal/app"
)

// listRecipes handles GET /api/recipes.
func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListRecipes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createRecipe handles POST /api/recipes.
func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req app.CreateRecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateRecipe(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// getRecipe handles GET /api/recipes/{id}.
func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetRecipe(r.Context(), idParam(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteRecipe handles DELETE /api/recipes/{id}. Sales of the recipe are
// reversed first.
func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecipe(r.Context(), idParam(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
