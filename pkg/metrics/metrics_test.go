package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCounters(t *testing.T) {
	r := New("test")

	r.OrderCreated()
	r.OrderCreated()
	r.OrderTransitioned("pending", "cancelled")
	r.CodeCollision()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OrdersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.StatusTransitions.WithLabelValues("pending", "cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CodeCollisions))
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.OrderCreated()
		r.OrderTransitioned("pending", "completed")
		r.CodeCollision()
	})
}

func TestIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("a")
		New("a")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New("shop")
	r.OrderCreated()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "shop_orders_created_total 1"))
}

func TestGathererIncludesRuntimeCollectors(t *testing.T) {
	r := New("shop")
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["shop_orders_created_total"])
	t.Log("✓ registry gathers business and runtime metrics")
}
