package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/config"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeRecorder answers every helper route with the route name
type routeRecorder struct{}

func (routeRecorder) reply(name string) fiber.Handler {
	return func(c fiber.Ctx) error { return c.SendString(name) }
}

func (r routeRecorder) Create(c fiber.Ctx) error          { return r.reply("create")(c) }
func (r routeRecorder) List(c fiber.Ctx) error            { return r.reply("list")(c) }
func (r routeRecorder) GetByEmployeeID(c fiber.Ctx) error { return r.reply("get:" + c.Params("employeeId"))(c) }
func (r routeRecorder) Search(c fiber.Ctx) error          { return r.reply("search")(c) }
func (r routeRecorder) Export(c fiber.Ctx) error          { return r.reply("export")(c) }
func (r routeRecorder) Update(c fiber.Ctx) error          { return r.reply("update")(c) }
func (r routeRecorder) Delete(c fiber.Ctx) error          { return r.reply("delete")(c) }
func (r routeRecorder) Reconcile(c fiber.Ctx) error       { return r.reply("reconcile")(c) }
func (r routeRecorder) AuditTrail(c fiber.Ctx) error      { return r.reply("audit:" + c.Params("employeeId"))(c) }

func testConfig(t *testing.T) *config.ProductionConfig {
	t.Helper()
	return &config.ProductionConfig{
		Server: config.ServerConfig{
			BodyLimit:    1024 * 1024,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		Security: config.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			XFrameOptions:  "DENY",
			ReferrerPolicy: "no-referrer",
		},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Storage:    config.StorageConfig{Provider: "local", LocalDir: t.TempDir()},
		Deployment: config.DeploymentConfig{Environment: "development", Version: "test"},
	}
}

func newTestRouter(t *testing.T, cfg *config.ProductionConfig) *fiber.App {
	t.Helper()
	r := NewFiberRouter(cfg, routeRecorder{})
	r.SetupRoutes()
	return r.GetApp()
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHelperRoutes(t *testing.T) {
	app := newTestRouter(t, testConfig(t))

	tests := []struct {
		method, target, want string
	}{
		{http.MethodPost, "/api/v1/helpers", "create"},
		{http.MethodGet, "/api/v1/helpers", "list"},
		{http.MethodGet, "/api/v1/helpers/search/filter", "search"},
		{http.MethodGet, "/api/v1/helpers/search/export", "export"},
		{http.MethodPost, "/api/v1/helpers/reconcile", "reconcile"},
		{http.MethodGet, "/api/v1/helpers/EMP10001", "get:EMP10001"},
		{http.MethodGet, "/api/v1/helpers/EMP10001/audit", "audit:EMP10001"},
		{http.MethodPatch, "/api/v1/helpers/EMP10001", "update"},
		{http.MethodDelete, "/api/v1/helpers/EMP10001", "delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, body(t, resp))
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestHealthAndNotFound(t *testing.T) {
	app := newTestRouter(t, testConfig(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	req.Header.Set("X-Request-ID", "req-404")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var payload dto.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "req-404", resp.Header.Get("X-Request-ID"))
}

func TestSwaggerAndMetrics(t *testing.T) {
	app := newTestRouter(t, testConfig(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/swagger.json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	doc := body(t, resp)
	assert.Contains(t, doc, "/api/v1/helpers/search/filter")
	assert.Contains(t, doc, "/api/v1/helpers/{employeeId}/audit")
	// every sortable field is documented
	assert.Equal(t, 3, strings.Count(doc, "employeeId, fullName, services, organization, photo or phoneNumber"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "helper_registry_http_requests_total")
}

func TestSwaggerHiddenInProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Deployment.Environment = "production"
	app := newTestRouter(t, cfg)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/swagger.json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeUpload(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Join(cfg.Storage.LocalDir, "photo", "2026-01-01")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))
	app := newTestRouter(t, cfg)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/photo/2026-01-01/a.png", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png", body(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/uploads/photo/missing.png", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
