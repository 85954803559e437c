package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"recipe-costing/internal/app"
	"recipe-costing/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
// rec may be nil, in which case /metrics answers 404.
func NewHandler(svc app.ApplicationService, rec *metrics.Recorder, logger *slog.Logger, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger, rec))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	// ── Health and metrics ────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Method(http.MethodGet, "/metrics", rec.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(maxBodyBytes))

		// ── Ingredients ───────────────────────────────────────────────────────
		r.Get("/api/ingredients", h.listIngredients)
		r.Post("/api/ingredients", h.addIngredient)
		r.Patch("/api/ingredients/{id}", h.updateIngredient)
		r.Delete("/api/ingredients/{id}", h.deleteIngredient)
		r.Post("/api/ingredients/{id}/restock", h.restockIngredient)

		// ── Recipes ───────────────────────────────────────────────────────────
		r.Get("/api/recipes", h.listRecipes)
		r.Post("/api/recipes", h.createRecipe)
		r.Get("/api/recipes/{id}", h.getRecipe)
		r.Delete("/api/recipes/{id}", h.deleteRecipe)

		// ── Sales ─────────────────────────────────────────────────────────────
		r.Get("/api/sales", h.listSales)
		r.Post("/api/sales", h.recordSale)
		r.Get("/api/sales/{id}", h.getSale)
		r.Delete("/api/sales/{id}", h.deleteSale)

		r.Get("/api/dashboard", h.dashboard)
		r.Post("/api/invoke", h.invoke)
	})

	h.router = r
	return r
}

// health reports that the process is serving.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// dashboard handles GET /api/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// idParam extracts the {id} URL parameter.
func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
