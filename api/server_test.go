package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooling-sim/pooling-sim/sim"
	"github.com/pooling-sim/pooling-sim/sim/scenario"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.ErrorLevel)
	os.Exit(m.Run())
}

func newTestServer() (*Server, *scenario.Engine) {
	engine := scenario.NewEngine()
	staff := sim.NewStaffRoster(3, 8, rand.New(rand.NewSource(1)))
	return NewServer(engine, staff), engine
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "pooling-sim", body["service"])
}

func TestBaselineEndpoint(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/baseline", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decodeBody[scenario.Outcome](t, rec)
	assert.Equal(t, "Baseline", outcome.ScenarioName)
	assert.Positive(t, outcome.ThroughputProductsPerDay)
	assert.True(t, outcome.IsFeasible)
}

func TestScenarioCRUD(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()

	// create
	createBody := map[string]any{
		"name":        "Second centrifuge",
		"description": "doubles separation capacity",
		"devices": []map[string]any{
			{"device_type": "centrifuge", "count": 2, "processing_time_minutes": 15, "failure_rate": 0.01, "cost_per_unit": 50000, "floor_space_sqft": 25},
		},
		"staff":  map[string]any{"technician_count": 3, "efficiency_factor": 0.85, "cost_per_hour": 35, "shift_hours": 8},
		"supply": map[string]any{"donations_per_day": 100, "units_per_donation": 1, "pooling_ratio": 4},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/scenarios", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[scenario.Scenario](t, rec)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.IsBaseline)

	// list shows baseline plus the new scenario
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decodeBody[map[string][]scenario.ScenarioListing](t, rec)
	require.Len(t, listing["scenarios"], 2)

	// get
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[scenario.Scenario](t, rec)
	assert.Equal(t, created.ID, fetched.ID)

	// calculate
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/scenarios/%s/calculate", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decodeBody[scenario.Outcome](t, rec)
	assert.Equal(t, created.ID, outcome.ScenarioID)

	// delete
	rec = doJSON(t, router, http.MethodDelete, "/api/scenarios/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, engine.Get(created.ID))
}

func TestScenarioEndpoints_Errors(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()

	// creation without a name or devices
	rec := doJSON(t, router, http.MethodPost, "/api/scenarios", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/scenarios", bytes.NewBufferString("{broken"))
	raw := httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	// unknown scenario
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/no-such-id/calculate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// baseline cannot be deleted
	rec = doJSON(t, router, http.MethodDelete, "/api/scenarios/"+engine.BaselineID(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()
	other := engine.Create("Expanded", "", engine.Get(engine.BaselineID()).Devices,
		scenario.StaffConfiguration{TechnicianCount: 5, EfficiencyFactor: 0.9, CostPerHour: 35, ShiftHours: 8},
		scenario.SupplyConfiguration{DonationsPerDay: 100, UnitsPerDonation: 1, PoolingRatio: 4}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/compare",
		map[string]any{"scenario_ids": []string{engine.BaselineID(), other.ID}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string][]scenario.ComparedScenario](t, rec)
	rows := body["scenarios"]
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsBaseline)
	assert.Nil(t, rows[0].Improvements)
	assert.NotNil(t, rows[1].Improvements)

	// an empty ID list is rejected
	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/compare", map[string]any{"scenario_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeStaffEndpoint(t *testing.T) {
	s, _ := newTestServer()
	router := s.Router()

	// an explicit target: 25 products/day at 60 minutes each, 3 technicians
	rec := doJSON(t, router, http.MethodPost, "/api/staff/optimize",
		map[string]any{"target_throughput": 25, "avg_process_time_minutes": 60})
	require.Equal(t, http.StatusOK, rec.Code)
	opt := decodeBody[sim.StaffOptimization](t, rec)
	assert.Equal(t, 3, opt.CurrentStaff)
	assert.Equal(t, 4, opt.OptimalStaff)
	assert.Equal(t, "Add 1 technician(s)", opt.Recommendation)
	assert.Positive(t, opt.DailyLaborCost)

	// an empty body falls back to the reference defaults (25 @ 60 min)
	req := httptest.NewRequest(http.MethodPost, "/api/staff/optimize", nil)
	raw := httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	require.Equal(t, http.StatusOK, raw.Code)
	defaulted := decodeBody[sim.StaffOptimization](t, raw)
	assert.Equal(t, opt, defaulted)

	// malformed body is a client error
	req = httptest.NewRequest(http.MethodPost, "/api/staff/optimize", bytes.NewBufferString("{broken"))
	raw = httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestRunSimulationEndpoint(t *testing.T) {
	s, _ := newTestServer()
	router := s.Router()

	// a short configured run
	cfg := sim.DefaultConfig()
	cfg.HorizonSeconds = 600
	cfg.MeanInterArrivalSeconds = 60
	rec := doJSON(t, router, http.MethodPost, "/api/simulations/run", map[string]any{"config": cfg})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Snapshot  sim.Snapshot          `json:"snapshot"`
		Telemetry []sim.DeviceTelemetry `json:"telemetry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 600.0, resp.Snapshot.ElapsedSeconds)
	assert.GreaterOrEqual(t, resp.Snapshot.BatchesCreated, 1)
	assert.Len(t, resp.Telemetry, 13) // 12 stages, two centrifuges

	// invalid configuration is a client error
	bad := sim.DefaultConfig()
	bad.HorizonSeconds = -5
	rec = doJSON(t, router, http.MethodPost, "/api/simulations/run", map[string]any{"config": bad})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
