package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/testutil"
)

func TestSetupRoutes(t *testing.T) {
	clock := testutil.NewClock(testutil.Epoch)
	cfg := &config.Config{JSONDataPath: t.TempDir(), AdminRateLimit: 1}
	h := SetupRoutes(app.Wire(cfg, testutil.NewDB(t), nil, clock.Now))

	do := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	rec := do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/workouts").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/admin/export").Code)

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/admin/export").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/admin/import").Code)
}
