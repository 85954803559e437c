package web

import (
	"net/http"

	"recipe-costing/internal/app"
)

// listSales handles GET /api/sales.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// recordSale handles POST /api/sales.
func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req app.RecordSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordSale(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// getSale handles GET /api/sales/{id}.
func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSale(r.Context(), idParam(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteSale handles DELETE /api/sales/{id}.
func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSale(r.Context(), idParam(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
