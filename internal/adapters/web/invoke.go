package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"recipe-costing/internal/app"
)

// invokeRequest is the body of POST /api/invoke.
type invokeRequest struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

type invokeFunc func(ctx context.Context, svc app.ApplicationService, payload json.RawMessage) (any, error)

// invokeOps lists the operations reachable through /api/invoke.
var invokeOps = map[string]invokeFunc{
	"getRecipes": func(ctx context.Context, svc app.ApplicationService, _ json.RawMessage) (any, error) {
		return svc.ListRecipes(ctx)
	},
	"getSales": func(ctx context.Context, svc app.ApplicationService, _ json.RawMessage) (any, error) {
		return svc.ListSales(ctx)
	},
	"getIngredients": func(ctx context.Context, svc app.ApplicationService, _ json.RawMessage) (any, error) {
		return svc.ListIngredients(ctx)
	},
	"dashboardStats": func(ctx context.Context, svc app.ApplicationService, _ json.RawMessage) (any, error) {
		return svc.DashboardStats(ctx)
	},
	"createRecipe": func(ctx context.Context, svc app.ApplicationService, payload json.RawMessage) (any, error) {
		var req app.CreateRecipeRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return svc.CreateRecipe(ctx, req)
	},
	"recordSale": func(ctx context.Context, svc app.ApplicationService, payload json.RawMessage) (any, error) {
		var req app.RecordSaleRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return svc.RecordSale(ctx, req)
	},
}

// payloadError marks a payload that could not be decoded.
type payloadError struct{ err error }

func (e payloadError) Error() string { return "invalid payload: " + e.err.Error() }

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return payloadError{err: errEmptyPayload}
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return payloadError{err: err}
	}
	return nil
}

var errEmptyPayload = errors.New("payload is required")

// invoke handles POST /api/invoke: a single entry point that dispatches
// {operation, payload} to the matching service call.
func (h *Handler) invoke(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	op, ok := invokeOps[req.Operation]
	if !ok {
		writeError(w, r, "unknown operation: "+req.Operation, "UNKNOWN_OPERATION", http.StatusBadRequest)
		return
	}
	result, err := op(r.Context(), h.svc, req.Payload)
	if err != nil {
		var pe payloadError
		if errors.As(err, &pe) {
			writeError(w, r, pe.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
