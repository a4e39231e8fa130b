// Package api exposes the simulation and scenario engines over HTTP. The
// kernel owns no transport; this layer only marshals its snapshots.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/pooling-sim/pooling-sim/sim"
	"github.com/pooling-sim/pooling-sim/sim/scenario"
)

// Server wires the scenario engine and on-demand simulation runs into a chi
// router.
type Server struct {
	engine *scenario.Engine
	staff  *sim.StaffRoster
}

// NewServer creates a server with a fresh scenario engine and staff roster.
func NewServer(engine *scenario.Engine, staff *sim.StaffRoster) *Server {
	return &Server{engine: engine, staff: staff}
}

// Router builds the route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/baseline", s.handleBaseline)
	r.Post("/api/simulations/run", s.handleRunSimulation)

	r.Route("/api/scenarios", func(r chi.Router) {
		r.Get("/", s.handleListScenarios)
		r.Post("/", s.handleCreateScenario)
		r.Post("/compare", s.handleCompareScenarios)
		r.Get("/{scenarioID}", s.handleGetScenario)
		r.Delete("/{scenarioID}", s.handleDeleteScenario)
		r.Post("/{scenarioID}/calculate", s.handleCalculateScenario)
	})

	r.Get("/api/staff/summary", s.handleStaffSummary)
	r.Post("/api/staff/optimize", s.handleOptimizeStaffing)
	return r
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pooling-sim",
	})
}

// handleBaseline calculates and returns the baseline scenario outcome.
func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	id := s.engine.BaselineID()
	outcome, err := s.engine.Calculate(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// runRequest is the body of POST /api/simulations/run. Absent fields fall
// back to the reference configuration.
type runRequest struct {
	Config *sim.Config `json:"config"`
}

type runResponse struct {
	Snapshot  sim.Snapshot          `json:"snapshot"`
	Telemetry []sim.DeviceTelemetry `json:"telemetry"`
}

// handleRunSimulation executes one discrete-event run and returns its
// snapshot. Runs are independent; each request gets its own simulator.
func (s *Server) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	cfg := sim.DefaultConfig()
	if r.ContentLength != 0 {
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, err)
			return
		}
		if req.Config != nil {
			cfg = req.Config
		}
	}

	simulator, err := sim.NewSimulator(cfg)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	simulator.Run()

	logrus.Infof("API run finished: %d batches created", simulator.Metrics.BatchesCreated)
	writeJSON(w, http.StatusOK, runResponse{
		Snapshot:  simulator.Snapshot(),
		Telemetry: simulator.AllTelemetry(),
	})
}

func (s *Server) handleStaffSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.staff.Summary())
}

// optimizeStaffRequest is the body of POST /api/staff/optimize. Absent fields
// default to 25 products/day at 60 minutes per batch.
type optimizeStaffRequest struct {
	TargetThroughput      *float64 `json:"target_throughput"`
	AvgProcessTimeMinutes *float64 `json:"avg_process_time_minutes"`
}

func (s *Server) handleOptimizeStaffing(w http.ResponseWriter, r *http.Request) {
	target, avgMinutes := 25.0, 60.0
	if r.ContentLength != 0 {
		var req optimizeStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, err)
			return
		}
		if req.TargetThroughput != nil {
			target = *req.TargetThroughput
		}
		if req.AvgProcessTimeMinutes != nil {
			avgMinutes = *req.AvgProcessTimeMinutes
		}
	}
	writeJSON(w, http.StatusOK, s.staff.Optimize(target, avgMinutes))
}
