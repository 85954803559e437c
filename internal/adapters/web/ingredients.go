package web

import (
	"net/http"

	"recipe-costing/internal/app"
)

// listIngredients handles GET /api/ingredients.
func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListIngredients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// addIngredient handles POST /api/ingredients.
func (h *Handler) addIngredient(w http.ResponseWriter, r *http.Request) {
	var req app.AddIngredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.AddIngredient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// updateIngredient handles PATCH /api/ingredients/{id}.
func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	var req app.UpdateIngredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = idParam(r)
	result, err := h.svc.UpdateIngredient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// restockIngredient handles POST /api/ingredients/{id}/restock.
func (h *Handler) restockIngredient(w http.ResponseWriter, r *http.Request) {
	var req app.RestockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = idParam(r)
	result, err := h.svc.RestockIngredient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteIngredient handles DELETE /api/ingredients/{id}.
func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIngredient(r.Context(), idParam(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
