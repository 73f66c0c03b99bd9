package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-archive-storage/internal/store"
	"github.com/i474232898/weather-archive-storage/internal/weather"
	"github.com/i474232898/weather-archive-storage/internal/weather/providers"
)

const validBody = `{"latitude": 52.52, "longitude": 13.41, "start_date": "2024-01-01", "end_date": "2024-01-01"}`

type testEnv struct {
	app     *fiber.App
	objects *store.MemoryStore
	hits    *atomic.Int32
}

// newTestEnv wires the routes to an archive stub answering with status and
// body, backed by an in-memory object store.
func newTestEnv(t *testing.T, status int, body string) *testEnv {
	t.Helper()

	hits := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)

	objects := store.NewMemoryStore()
	archive := providers.NewOpenMeteoArchive(upstream.Client(), upstream.URL)
	svc := weather.NewService(archive, objects, "weather-data", t.TempDir())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)

	return &testEnv{app: app, objects: objects, hits: hits}
}

func archiveBody() string {
	daily := []string{`"time": ["2024-01-01"]`}
	units := make([]string, 0, len(weather.DailyVariables))
	for _, v := range weather.DailyVariables {
		daily = append(daily, fmt.Sprintf(`%q: [5.2]`, v))
		units = append(units, fmt.Sprintf(`%q: "°C"`, v))
	}
	return fmt.Sprintf(`{"daily": {%s}, "daily_units": {%s}}`, strings.Join(daily, ","), strings.Join(units, ","))
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func variableFiles() []any {
	files := make([]any, 0, len(weather.DailyVariables))
	for _, v := range weather.DailyVariables {
		files = append(files, v+".json")
	}
	return files
}

func TestHome(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	status, body := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Everything looks healthy!", body["msg"])
}

func TestStoreWeatherDataCreatesSixFiles(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	status, body := env.do(t, http.MethodPost, "/store-weather-data", validBody)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Fetched and stored weather data successfully", body["msg"])
	assert.Equal(t, variableFiles(), body["created_files"])
	assert.Equal(t, int32(1), env.hits.Load())
}

// TestStoreWeatherDataRequiredFields verifies that each missing field is
// reported by name and that nothing reaches upstream or storage.
func TestStoreWeatherDataRequiredFields(t *testing.T) {
	cases := map[string]string{
		"latitude":   `{"longitude": 13.41, "start_date": "2024-01-01", "end_date": "2024-01-01"}`,
		"longitude":  `{"latitude": 52.52, "start_date": "2024-01-01", "end_date": "2024-01-01"}`,
		"start_date": `{"latitude": 52.52, "longitude": 13.41, "end_date": "2024-01-01"}`,
		"end_date":   `{"latitude": 52.52, "longitude": 13.41, "start_date": "2024-01-01"}`,
	}

	for field, reqBody := range cases {
		t.Run(field, func(t *testing.T) {
			env := newTestEnv(t, http.StatusOK, archiveBody())

			status, body := env.do(t, http.MethodPost, "/store-weather-data", reqBody)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, field+" is required", body["error"])
			assert.Zero(t, env.hits.Load())

			names, err := env.objects.List(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestStoreWeatherDataZeroCoordinateIsPresent(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	status, _ := env.do(t, http.MethodPost, "/store-weather-data",
		`{"latitude": 0, "longitude": 0, "start_date": "2024-01-01", "end_date": "2024-01-01"}`)
	assert.Equal(t, http.StatusCreated, status)
}

func TestStoreWeatherDataInvalidBody(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	status, body := env.do(t, http.MethodPost, "/store-weather-data", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", body["error"])
	assert.Zero(t, env.hits.Load())
}

func TestStoreWeatherDataUpstreamError(t *testing.T) {
	env := newTestEnv(t, http.StatusBadRequest, `{"error": true, "reason": "Invalid date"}`)

	status, body := env.do(t, http.MethodPost, "/store-weather-data", validBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Weather API error:")
	assert.Contains(t, body["error"], "Invalid date")
}

func TestStoreWeatherDataSchemaError(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"daily": {"time": []}}`)

	status, body := env.do(t, http.MethodPost, "/store-weather-data", validBody)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Unexpected weather API response format, daily_units field not present", body["error"])
}

func TestListAfterTwoIngestions(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	for i := 0; i < 2; i++ {
		status, _ := env.do(t, http.MethodPost, "/store-weather-data", validBody)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := env.do(t, http.MethodGet, "/list-weather-files", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Listed files successfully", body["msg"])
	assert.ElementsMatch(t, variableFiles(), body["file_list"])
}

func TestWeatherFileContentRoundTrip(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	status, _ := env.do(t, http.MethodPost, "/store-weather-data", validBody)
	require.Equal(t, http.StatusCreated, status)

	status, body := env.do(t, http.MethodGet, "/weather-file-content/temperature_2m_mean.json", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Content fetched successfully", body["msg"])
	assert.Equal(t, "temperature_2m_mean.json", body["filename"])
	assert.Equal(t, map[string]any{"2024-01-01": "5.2°C"}, body["content"])
}

func TestWeatherFileContentNotFound(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, archiveBody())

	status, body := env.do(t, http.MethodGet, "/weather-file-content/never.json", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "never.json does not exist", body["error"])
}
