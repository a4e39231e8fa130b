// Package scenario implements the analytical what-if calculator: closed-form
// capacity-planning arithmetic over a proposed line configuration, with no
// discrete-event execution. It complements the simulator for quick
// comparisons where queueing detail is not needed.
package scenario

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DeviceConfiguration describes one device type in a scenario.
type DeviceConfiguration struct {
	DeviceType            string  `json:"device_type"`
	Count                 int     `json:"count"`
	ProcessingTimeMinutes float64 `json:"processing_time_minutes"`
	FailureRate           float64 `json:"failure_rate"`
	CostPerUnit           float64 `json:"cost_per_unit"`
	FloorSpaceSqft        float64 `json:"floor_space_sqft"`
}

// StaffConfiguration describes the technician allocation.
type StaffConfiguration struct {
	TechnicianCount  int     `json:"technician_count"`
	EfficiencyFactor float64 `json:"efficiency_factor"` // 0.5 = 50% efficient
	CostPerHour      float64 `json:"cost_per_hour"`
	ShiftHours       int     `json:"shift_hours"`
}

// SupplyConfiguration describes incoming donations.
type SupplyConfiguration struct {
	DonationsPerDay  int `json:"donations_per_day"`
	UnitsPerDonation int `json:"units_per_donation"`
	PoolingRatio     int `json:"pooling_ratio"` // units per pooled product
}

// ConstraintConfiguration bounds the feasible region.
type ConstraintConfiguration struct {
	MaxFloorSpaceSqft float64 `json:"max_floor_space_sqft"`
	MaxTotalBudget    float64 `json:"max_total_budget"`
	MaxDevicesTotal   int     `json:"max_devices_total"`
	MaxStaff          int     `json:"max_staff"`
}

// DefaultConstraints returns the reference facility limits.
func DefaultConstraints() ConstraintConfiguration {
	return ConstraintConfiguration{
		MaxFloorSpaceSqft: 500,
		MaxTotalBudget:    500000,
		MaxDevicesTotal:   20,
		MaxStaff:          10,
	}
}

// Scenario is one complete what-if configuration.
type Scenario struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	CreatedAt   string                  `json:"created_at"`
	Devices     []DeviceConfiguration   `json:"devices"`
	Staff       StaffConfiguration      `json:"staff"`
	Supply      SupplyConfiguration     `json:"supply"`
	Constraints ConstraintConfiguration `json:"constraints"`
	IsBaseline  bool                    `json:"is_baseline"`
}

// Outcome holds the calculated metrics for a scenario.
type Outcome struct {
	ScenarioID   string `json:"scenario_id"`
	ScenarioName string `json:"scenario_name"`

	TotalProcessTimeMinutes  float64 `json:"total_process_time_minutes"`
	ThroughputProductsPerDay float64 `json:"throughput_products_per_day"`
	CycleTimeMinutes         float64 `json:"cycle_time_minutes"`

	DeviceUtilization       map[string]float64 `json:"device_utilization"`
	StaffUtilizationPercent float64            `json:"staff_utilization_percent"`
	BottleneckDevice        string             `json:"bottleneck_device"`

	TotalFloorSpaceSqft float64 `json:"total_floor_space_sqft"`
	TotalDeviceCost     float64 `json:"total_device_cost"`
	TotalDailyStaffCost float64 `json:"total_daily_staff_cost"`
	CostPerProduct      float64 `json:"cost_per_product"`

	DailyCapacity            int     `json:"daily_capacity"`
	SupplyUtilizationPercent float64 `json:"supply_utilization_percent"`

	ConstraintsViolated []string `json:"constraints_violated"`
	IsFeasible          bool     `json:"is_feasible"`
}

// Engine manages scenarios and their calculated outcomes.
type Engine struct {
	scenarios map[string]*Scenario
	outcomes  map[string]*Outcome
	order     []string // insertion order for stable listings
}

// NewEngine creates an engine pre-populated with the baseline scenario.
func NewEngine() *Engine {
	e := &Engine{
		scenarios: make(map[string]*Scenario),
		outcomes:  make(map[string]*Outcome),
	}
	e.initBaseline()
	return e
}

func (e *Engine) initBaseline() {
	baseline := &Scenario{
		ID:          uuid.NewString(),
		Name:        "Baseline",
		Description: "Current production configuration",
		CreatedAt:   time.Now().Format(time.RFC3339),
		Devices: []DeviceConfiguration{
			{DeviceType: "centrifuge", Count: 1, ProcessingTimeMinutes: 15, FailureRate: 0.01, CostPerUnit: 50000, FloorSpaceSqft: 25},
			{DeviceType: "plasma_extractor", Count: 1, ProcessingTimeMinutes: 8, FailureRate: 0.01, CostPerUnit: 30000, FloorSpaceSqft: 15},
			{DeviceType: "macopress", Count: 1, ProcessingTimeMinutes: 10, FailureRate: 0.01, CostPerUnit: 40000, FloorSpaceSqft: 20},
			{DeviceType: "sterile_connector", Count: 1, ProcessingTimeMinutes: 0.5, FailureRate: 0.005, CostPerUnit: 15000, FloorSpaceSqft: 5},
			{DeviceType: "pooling_station", Count: 1, ProcessingTimeMinutes: 12, FailureRate: 0.01, CostPerUnit: 35000, FloorSpaceSqft: 20},
			{DeviceType: "quality_control", Count: 1, ProcessingTimeMinutes: 10, FailureRate: 0.02, CostPerUnit: 60000, FloorSpaceSqft: 30},
			{DeviceType: "labeling_station", Count: 1, ProcessingTimeMinutes: 0.25, FailureRate: 0.003, CostPerUnit: 10000, FloorSpaceSqft: 5},
			{DeviceType: "storage_refrigerator", Count: 1, ProcessingTimeMinutes: 0, FailureRate: 0.001, CostPerUnit: 25000, FloorSpaceSqft: 40},
		},
		Staff: StaffConfiguration{
			TechnicianCount:  3,
			EfficiencyFactor: 0.85,
			CostPerHour:      35,
			ShiftHours:       8,
		},
		Supply: SupplyConfiguration{
			DonationsPerDay:  100,
			UnitsPerDonation: 1,
			PoolingRatio:     4,
		},
		Constraints: DefaultConstraints(),
		IsBaseline:  true,
	}
	e.scenarios[baseline.ID] = baseline
	e.order = append(e.order, baseline.ID)
	logrus.Infof("Created baseline scenario: %s", baseline.ID)
}

// Create registers a new scenario. Zero-valued constraints are replaced with
// the facility defaults.
func (e *Engine) Create(name, description string, devices []DeviceConfiguration,
	staff StaffConfiguration, supply SupplyConfiguration, constraints *ConstraintConfiguration) *Scenario {

	c := DefaultConstraints()
	if constraints != nil {
		c = *constraints
	}
	s := &Scenario{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().Format(time.RFC3339),
		Devices:     devices,
		Staff:       staff,
		Supply:      supply,
		Constraints: c,
	}
	e.scenarios[s.ID] = s
	e.order = append(e.order, s.ID)
	logrus.Infof("Created scenario: %s (%s)", name, s.ID)
	return s
}

// Get returns a scenario, or nil if unknown.
func (e *Engine) Get(id string) *Scenario {
	return e.scenarios[id]
}

// ScenarioListing is the compact listing row for one scenario.
type ScenarioListing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	IsBaseline  bool   `json:"is_baseline"`
	HasOutcome  bool   `json:"has_outcome"`
}

// List returns all scenarios in creation order.
func (e *Engine) List() []ScenarioListing {
	out := make([]ScenarioListing, 0, len(e.order))
	for _, id := range e.order {
		s := e.scenarios[id]
		if s == nil {
			continue
		}
		_, hasOutcome := e.outcomes[id]
		out = append(out, ScenarioListing{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
			IsBaseline:  s.IsBaseline,
			HasOutcome:  hasOutcome,
		})
	}
	return out
}

// Delete removes a scenario. The baseline cannot be deleted.
func (e *Engine) Delete(id string) error {
	s, ok := e.scenarios[id]
	if !ok {
		return fmt.Errorf("scenario %s not found", id)
	}
	if s.IsBaseline {
		return fmt.Errorf("cannot delete baseline scenario")
	}
	delete(e.scenarios, id)
	delete(e.outcomes, id)
	logrus.Infof("Deleted scenario: %s", id)
	return nil
}

// BaselineID returns the baseline scenario's ID.
func (e *Engine) BaselineID() string {
	for _, id := range e.order {
		if s := e.scenarios[id]; s != nil && s.IsBaseline {
			return id
		}
	}
	return ""
}
