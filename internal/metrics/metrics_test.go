package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "not_found", Result(core.NotFoundError("recipe", "r")))
	assert.Equal(t, "insufficient_stock", Result(&core.Error{Kind: core.ErrInsufficientStock}))
	assert.Equal(t, "transaction_failure", Result(core.TransactionError("commit", errors.New("x"))))
	assert.Equal(t, "error", Result(errors.New("plain")))
}

func TestRecorder_Counts(t *testing.T) {
	r := New()
	r.ObserveOperation("RecordSale", nil, 3*time.Millisecond)
	r.ObserveOperation("RecordSale", &core.Error{Kind: core.ErrInsufficientStock}, time.Millisecond)
	r.ObserveStockRejection("ing-flour")
	r.ObserveRequest(http.MethodPost, "/api/sales", 201)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("RecordSale", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("RecordSale", "insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("ing-flour")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("POST", "/api/sales", "201")))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.ObserveOperation("DashboardStats", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `recipe_costing_operations_total{operation="DashboardStats",result="ok"} 1`))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveOperation("x", nil, 0)
	r.ObserveRequest("GET", "/", 200)
	r.ObserveStockRejection("ing")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
