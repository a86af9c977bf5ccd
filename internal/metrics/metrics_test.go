package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.RelationReconciled("shop_menus", 2, 1)
	m.RelationReconciled("shop_menus", 1, 0)
	m.LinesReconciled(3, 1, 0)
	m.PurchasesSynced(4, 2)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.relations.WithLabelValues("shop_menus", "connect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relations.WithLabelValues("shop_menus", "disconnect")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.lines.WithLabelValues("create")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.purchases.WithLabelValues("create")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.purchases.WithLabelValues("delete")))
}

func TestMiddlewareLabelsRouteTemplate(t *testing.T) {
	t.Parallel()

	m := New()
	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/app/api/recipes/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, path := range []string{"/app/api/recipes/1", "/app/api/recipes/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/app/api/recipes/{id:[0-9]+}", http.MethodGet, "404")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	m := New()
	m.PurchasesSynced(1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `larder_purchase_changes_total{op="create"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
