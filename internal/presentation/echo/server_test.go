package echo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mirola777/idempotent-charges/internal/application/use_cases"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/gateway"
	gormdb "github.com/mirola777/idempotent-charges/internal/infrastructure/gorm"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/metrics"
	"github.com/mirola777/idempotent-charges/internal/retry"
	"github.com/mirola777/idempotent-charges/internal/utils/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, failTimes int) *Server {
	t.Helper()
	db, err := gormdb.NewTestConnection()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{AppPort: "0", RetryMaxAttempts: 3, RetryBackoffFactor: 2}
	reg := prometheus.NewRegistry()
	container := use_cases.NewContainer(ctx, db, cfg, zap.NewNop(), metrics.New(reg),
		use_cases.WithGateway(gateway.NewFlakyGateway(failTimes)),
		use_cases.WithRetryWaiter(&retry.NoopWaiter{}),
	)
	return NewServer(cfg, container, reg, zap.NewNop())
}

func do(s *Server, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const body = `{"amount_cents":1000,"currency":"USD","customer_id":"cus_001"}`

func TestServer_ChargeLifecycle(t *testing.T) {
	s := newTestServer(t, 2)

	rec := do(s, http.MethodPost, "/v1/charges", "order-1", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ch_2001", created["charge_id"])
	assert.Equal(t, 3.0, created["attempts"])

	rec = do(s, http.MethodPost, "/charge", "order-1", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Idempotent-Replayed"))

	rec = do(s, http.MethodGet, "/v1/charges/ch_2001", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/v1/idempotency/order-1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ExhaustedReturns503(t *testing.T) {
	s := newTestServer(t, 3)

	rec := do(s, http.MethodPost, "/v1/charges", "order-1", body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "GATEWAY_UNAVAILABLE")

	rec = do(s, http.MethodGet, "/v1/idempotency/order-1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 0)

	rec := do(s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	do(s, http.MethodPost, "/v1/charges", "order-1", body)

	rec = do(s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `charges_total{outcome="succeeded"} 1`)
	assert.Contains(t, rec.Body.String(), "charges_idempotency_records 1")
}
