package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serex/internal/config"
	"serex/internal/infrastructure"
	"serex/internal/shared/testutil"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.ReportsDir = t.TempDir()
	cfg.Security.RateLimit.Enabled = false

	logger, _ := testutil.NewTestLogger(t)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: &infrastructure.OTelProviders{Logger: logger},
	}
	require.NoError(t, app.initializeServices())
	app.setupRouter()

	return app
}

func TestApplication_InitializeServices(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Store)
	assert.NotNil(t, app.ExportService)
	assert.NotNil(t, app.HealthService)
	assert.NotNil(t, app.WebSocketHub)
	assert.NotNil(t, app.PlotRegistry)
	assert.NotNil(t, app.Router)
	assert.Nil(t, app.Scheduler)
}

func TestApplication_SchedulerEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ReportsDir = t.TempDir()
	cfg.Schedule.Enabled = true
	cfg.Schedule.Spec = "*/5 * * * *"

	logger, _ := testutil.NewTestLogger(t)
	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: &infrastructure.OTelProviders{Logger: logger},
	}

	require.NoError(t, app.initializeServices())
	assert.NotNil(t, app.Scheduler)
	assert.False(t, app.Scheduler.Running())
}

func TestApplication_SchedulerBadSpecFailsStartup(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ReportsDir = t.TempDir()
	cfg.Schedule.Enabled = true
	cfg.Schedule.Spec = "not-a-schedule"

	logger, _ := testutil.NewTestLogger(t)
	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: &infrastructure.OTelProviders{Logger: logger},
	}

	err := app.initializeServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
}

func TestApplication_SeriesLifecycleOverHTTP(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	// Register
	resp, err := http.Post(srv.URL+"/api/series", "application/json",
		strings.NewReader(`{"name":"prices","dtype":"int64","values":[1,2,3]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// List
	resp, err = http.Get(srv.URL + "/api/series")
	require.NoError(t, err)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, 1, list.Count)

	// Render
	resp, err = http.Get(srv.URL + "/api/series/prices/render?format=csv")
	require.NoError(t, err)
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "prices\n1\n2\n3", body.String())

	// Export to reports
	resp, err = http.Get(srv.URL + "/api/series/prices/export?format=csv")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Mount a plot and fetch the chart
	resp, err = http.Post(srv.URL+"/api/series/prices/plot", "application/json",
		strings.NewReader(`{"mount_id":"main","kind":"line"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/charts/main")
	require.NoError(t, err)
	png := make([]byte, 4)
	_, err = io.ReadFull(resp.Body, png)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png)

	// Delete
	req, err := http.NewRequest("DELETE", srv.URL+"/api/series/prices", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestApplication_HealthAndVersion(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Status)

	resp, err = http.Get(srv.URL + "/api/version")
	require.NoError(t, err)
	var version struct {
		Version    string `json:"version"`
		APIVersion string `json:"api_version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&version))
	resp.Body.Close()
	assert.NotEmpty(t, version.Version)
	assert.Equal(t, "v1", version.APIVersion)
}

func TestApplication_NotFoundRoute(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body.String(), "The requested resource was not found")
}

func TestApplication_SecurityHeaders(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestApplication_WebSocketReceivesExportEvents(t *testing.T) {
	app := newTestApplication(t)
	app.WebSocketHub.Start()
	t.Cleanup(app.WebSocketHub.Stop)

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	// First frame is the connect acknowledgement
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, ack, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(ack), `"type":"connect"`)

	// An export publishes a completion event to connected clients
	httpResp, err := http.Post(srv.URL+"/api/series", "application/json",
		strings.NewReader(`{"name":"prices","dtype":"int64","values":[1,2]}`))
	require.NoError(t, err)
	httpResp.Body.Close()
	require.Equal(t, http.StatusCreated, httpResp.StatusCode)

	httpResp, err = http.Get(srv.URL + "/api/series/prices/export?format=csv")
	require.NoError(t, err)
	httpResp.Body.Close()
	require.Equal(t, http.StatusOK, httpResp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, event, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(event), `"type":"export:complete"`)
	assert.Contains(t, string(event), `"series":"prices"`)
}
