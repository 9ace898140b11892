package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/care-planner/internal/config"
	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
	"github.com/vladimiradmaev/care-planner/internal/repository"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	readings := repository.NewReadingRepository(db, time.UTC)
	meds := repository.NewMedicationRepository(db)
	users := repository.NewUserRepository(db)
	m := metrics.New()

	return New(config.HTTPConfig{Address: ":0", JWTSecret: testSecret}, Services{
		Readings:    services.NewReadingService(readings, time.UTC, m),
		Trends:      services.NewTrendService(readings, meds, users),
		Food:        services.NewFoodAnalysisService(nil, readings, time.UTC, m),
		Medications: services.NewMedicationService(meds, readings, time.UTC, m),
		Users:       services.NewUserService(users),
	}, m)
}

func do(t *testing.T, s *Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func register(t *testing.T, s *Server, diseases ...string) string {
	t.Helper()
	resp, body := do(t, s, http.MethodPost, "/api/v1/users", "", map[string]any{"name": "Asha", "diseases": diseases})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestAPI_Health(t *testing.T) {
	s := newTestServer(t)
	resp, body := do(t, s, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAPI_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s, http.MethodGet, "/api/v1/trends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, s, http.MethodGet, "/api/v1/trends", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	forged, err := IssueToken("other-secret", 1, time.Hour)
	require.NoError(t, err)
	resp, _ = do(t, s, http.MethodGet, "/api/v1/trends", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LogReadingAndTrends(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "diabetes")

	resp, body := do(t, s, http.MethodPost, "/api/v1/readings", token, map[string]any{
		"metric_type":   "glucose",
		"primary_value": 300,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, body["alert"], "CRITICAL")
	classification, ok := body["classification"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, classification["status"])

	resp, body = do(t, s, http.MethodGet, "/api/v1/summaries/glucose", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, "insufficient_data", body["trend"])

	resp, body = do(t, s, http.MethodGet, "/api/v1/trends", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "adjustments")

	for _, path := range []string{"/api/v1/reports/weekly", "/api/v1/adjustments", "/api/v1/hba1c", "/api/v1/water/today", "/api/v1/care-plan", "/api/v1/me"} {
		resp, _ := do(t, s, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAPI_ValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s)

	resp, body := do(t, s, http.MethodPost, "/api/v1/readings", token, map[string]any{"metric_type": "steps", "primary_value": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "unknown metric type", body["error"])

	resp, _ = do(t, s, http.MethodPut, "/api/v1/me/conditions", token, map[string]any{"diseases": []string{"asthma"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodDelete, "/api/v1/medications/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodDelete, "/api/v1/medications/99", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	raw, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestAPI_FoodAnalysisFallsBackWithoutAI(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "hypertension")

	resp, body := do(t, s, http.MethodPost, "/api/v1/food/analyze", token, map[string]any{
		"food_description": "2 idly",
		"condition":        "hypertension",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rule_based", body["source"])
	assert.Contains(t, body, "sodium")
}

func TestAPI_MedicationLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "diabetes")

	resp, body := do(t, s, http.MethodPost, "/api/v1/medications", token, map[string]any{
		"name": "Metformin", "dosage": "500mg", "frequency": "daily", "times": []string{"08:00"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int(body["id"].(float64))
	path := "/api/v1/medications/" + strconv.Itoa(id)

	resp, body = do(t, s, http.MethodPost, path+"/intake", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "medication_intake", body["metric_type"])

	resp, _ = do(t, s, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, path+"/intake", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Metrics(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "care_planner_http_requests_total")
}
