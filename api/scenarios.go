package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pooling-sim/pooling-sim/sim/scenario"
)

// createScenarioRequest is the body of POST /api/scenarios.
type createScenarioRequest struct {
	Name        string                            `json:"name"`
	Description string                            `json:"description"`
	Devices     []scenario.DeviceConfiguration    `json:"devices"`
	Staff       scenario.StaffConfiguration       `json:"staff"`
	Supply      scenario.SupplyConfiguration      `json:"supply"`
	Constraints *scenario.ConstraintConfiguration `json:"constraints,omitempty"`
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": s.engine.List()})
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req createScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.Name == "" || len(req.Devices) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "name and devices are required",
		})
		return
	}
	sc := s.engine.Create(req.Name, req.Description, req.Devices, req.Staff, req.Supply, req.Constraints)
	writeJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc := s.engine.Get(chi.URLParam(r, "scenarioID"))
	if sc == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Delete(chi.URLParam(r, "scenarioID")); err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCalculateScenario(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.engine.Calculate(chi.URLParam(r, "scenarioID"))
	if err != nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// compareRequest is the body of POST /api/scenarios/compare.
type compareRequest struct {
	ScenarioIDs []string `json:"scenario_ids"`
}

func (s *Server) handleCompareScenarios(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	rows, err := s.engine.Compare(req.ScenarioIDs)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": rows})
}
