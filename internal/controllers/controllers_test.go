package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/repositories"
	"github.com/spinonoir/housing-map-project/internal/routes"
	"github.com/spinonoir/housing-map-project/internal/services"
)

type testHarness struct {
	router *mux.Router
	units  *repositories.MemoryUnitRepository
}

func newTestHarness() *testHarness {
	units := repositories.NewMemoryUnitRepository()
	failures := repositories.NewMemoryFailureRepository()

	uploadService := services.NewUploadService(units)
	unitService := services.NewUnitService(units, failures)
	pipelineService := services.NewPipelineService(units, failures, nil, nil, 0, 0)

	uploadController := NewUploadController(uploadService)
	unitsController := NewUnitsController(unitService)
	pipelineController := NewPipelineController(pipelineService)
	failuresController := NewFailuresController(unitService)

	router := mux.NewRouter()
	router.HandleFunc(routes.Health, NewHealthController().HealthCheck).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitsUpload, uploadController.UploadCSV).Methods(http.MethodPost)
	router.HandleFunc(routes.Units, unitsController.ListUnits).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitsFavorites, unitsController.ListFavorites).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitByID, unitsController.GetUnit).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitByID, unitsController.UpdateUnit).Methods(http.MethodPatch)
	router.HandleFunc(routes.UnitFavorite, unitsController.SetFavorite).Methods(http.MethodPut)
	router.HandleFunc(routes.UnitStatus, unitsController.SetStatus).Methods(http.MethodPut)
	router.HandleFunc(routes.PipelineRun, pipelineController.Run).Methods(http.MethodPost)
	router.HandleFunc(routes.GeocodingFailures, failuresController.ListFailures).Methods(http.MethodGet)

	return &testHarness{router: router, units: units}
}

func (h *testHarness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHarness()
	rec := h.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadThenListUnits(t *testing.T) {
	h := newTestHarness()

	csvBody := "property_address,unit,zip_code,rent\n123 Main St,4,90001,$1500\n"
	rec := h.do(http.MethodPost, "/api/v1/units/upload", csvBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary services.UploadSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.Inserted)

	rec = h.do(http.MethodGet, "/api/v1/units", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var units []models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &units))
	require.Len(t, units, 1)
	require.Equal(t, "123-main-st_4_90001", units[0].ID())
}

func TestGetUnitNotFound(t *testing.T) {
	h := newTestHarness()
	rec := h.do(http.MethodGet, "/api/v1/units/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUnitStripsReservedFields(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	require.NoError(t, h.units.Set(ctx, "u1", models.Document{
		models.FieldID:            "u1",
		models.FieldFirstSeenDate: "2026-01-01T00:00:00Z",
	}))

	rec := h.do(http.MethodPatch, "/api/v1/units/u1",
		`{"id":"hijacked","first_seen_date":"1999-01-01","notes":"call agent"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := h.units.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", doc.ID())
	require.Equal(t, "2026-01-01T00:00:00Z", doc[models.FieldFirstSeenDate])
	require.Equal(t, "call agent", doc["notes"])
}

func TestUpdateUnitEmptyBodyRejected(t *testing.T) {
	h := newTestHarness()
	rec := h.do(http.MethodPatch, "/api/v1/units/u1", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetFavoriteValidation(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	require.NoError(t, h.units.Set(ctx, "u1", models.Document{models.FieldID: "u1"}))

	rec := h.do(http.MethodPut, "/api/v1/units/u1/favorite", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPut, "/api/v1/units/u1/favorite", `{"favorite":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/units/favorites", "")
	var favorites []models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favorites))
	require.Len(t, favorites, 1)
}

func TestSetStatusValidation(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	require.NoError(t, h.units.Set(ctx, "u1", models.Document{models.FieldID: "u1"}))

	rec := h.do(http.MethodPut, "/api/v1/units/u1/status", `{"status":"sold"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPut, "/api/v1/units/u1/status", `{"status":"off_market"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPut, "/api/v1/units/missing/status", `{"status":"off_market"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPipelineRunWithNothingPending(t *testing.T) {
	h := newTestHarness()
	rec := h.do(http.MethodPost, "/api/v1/pipeline/run", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results services.PipelineResults
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Equal(t, services.PipelineResults{}, results)
}

func TestListFailuresEmptyIsJSONArray(t *testing.T) {
	h := newTestHarness()
	rec := h.do(http.MethodGet, "/api/v1/geocoding-failures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
