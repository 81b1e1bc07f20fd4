package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povdash/internal/cache"
	"povdash/internal/config"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/exporter"
	"povdash/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	loader := datasource.NewLoader(logger, datasource.LoaderConfig{StartYear: 2015, EndYear: 2024, Seed: 42})
	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig())
	resultCache := cache.New(time.Minute, 64)
	t.Cleanup(resultCache.Stop)

	data := services.NewDataService(loader, cleaner, resultCache, nil, logger)
	analysis := services.NewAnalysisService(data, resultCache, nil, logger)
	models := services.NewModelService(data, resultCache, nil, logger, config.MLConfig{Estimators: 10})

	exportDir := t.TempDir()
	csvWriter := exporter.NewCSVWriter(exportDir, logger)
	excelWriter := exporter.NewExcelWriter(exportDir, logger)

	serverCfg := config.Default().Server
	router := NewRouter(serverCfg, logger, nil, Handlers{
		Analysis: NewAnalysisHandler(analysis, logger),
		Models:   NewModelHandler(models, logger),
		Data:     NewDataHandler(data, analysis, models, csvWriter, excelWriter, logger),
		Health:   NewHealthHandler(data, "test"),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, server *httptest.Server, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func indiaBody() map[string]any {
	return map[string]any{
		"source": map[string]any{
			"kind":   "india-poverty",
			"states": []string{"Bihar", "Kerala"},
		},
	}
}

func TestSummaryEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server, "/api/analysis/summary", indiaBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Positive(t, data["count"].(float64))
}

func TestSummaryEndpointEmptyFilter(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["filter"] = map[string]any{"states": []string{"Atlantis"}}

	resp, body := postJSON(t, server, "/api/analysis/summary", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Zero(t, data["count"].(float64))
}

func TestSummaryEndpointUnknownKind(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server, "/api/analysis/summary", map[string]any{
		"source": map[string]any{"kind": "imf"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestSummaryEndpointMissingSource(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server, "/api/analysis/summary", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["error_code"])
}

func TestCorrelationEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := map[string]any{
		"source": map[string]any{
			"kind":   "india-multi-indicator",
			"states": []string{"Bihar", "Kerala", "Punjab"},
		},
		"method": "pearson",
	}
	resp, body := postJSON(t, server, "/api/analysis/correlation", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	columns := data["columns"].([]any)
	values := data["values"].([]any)
	assert.Equal(t, len(columns), len(values))
}

func TestCorrelationEndpointRejectsMethod(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["method"] = "cosine"
	resp, _ := postJSON(t, server, "/api/analysis/correlation", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["model"] = "linear"
	req["years_ahead"] = 3

	resp, body := postJSON(t, server, "/api/models/forecast", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	forecast := data["forecast"].([]any)
	require.Len(t, forecast, 3)
	first := forecast[0].(map[string]any)
	// Data ends in 2024.
	assert.Equal(t, float64(2025), first["year"].(float64))
}

func TestCrossValidateEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["model"] = "linear"
	resp, body := postJSON(t, server, "/api/models/crossval", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(5), data["folds"].(float64))
	assert.NotEmpty(t, data["scores"])
}

func TestCrossValidateEndpointRejectsSingleFold(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["model"] = "linear"
	req["folds"] = 1
	resp, _ := postJSON(t, server, "/api/models/crossval", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTrainEndpointEnsemble(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["model"] = "ensemble"
	resp, body := postJSON(t, server, "/api/models/train", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "ensemble", data["model"])
}

func TestTrainEndpointRejectsUnknownModel(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["model"] = "svm"
	resp, _ := postJSON(t, server, "/api/models/train", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDatasetEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server, "/api/data/dataset", indiaBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	rows := body["data"].([]any)
	assert.NotEmpty(t, rows)
}

func TestFilterOptionsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server, "/api/data/options", indiaBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["states"])
}

func TestCountriesEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/data/countries")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExportEndpointRejectsPathTraversal(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["format"] = "csv"
	req["filename"] = "../escape.csv"
	resp, _ := postJSON(t, server, "/api/data/export", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportEndpointCSV(t *testing.T) {
	server := newTestServer(t)

	req := indiaBody()
	req["format"] = "csv"
	req["filename"] = "panel.csv"
	resp, body := postJSON(t, server, "/api/data/export", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Contains(t, data["path"].(string), "panel.csv")
	assert.Positive(t, data["rows"].(float64))
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "test", data["version"])
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
