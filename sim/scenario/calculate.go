// Closed-form outcome calculation and scenario comparison. These formulas
// trade queueing fidelity for instant answers; the discrete-event simulator
// is the source of truth when wait times matter.

package scenario

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Calculate computes (and caches) the outcome for a scenario.
func (e *Engine) Calculate(id string) (*Outcome, error) {
	s, ok := e.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("scenario %s not found", id)
	}

	processTime := processTimeMinutes(s)
	throughput := throughputPerDay(s, processTime)
	deviceUtil, bottleneck := deviceUtilization(s, throughput)
	staffUtil := staffUtilization(s, processTime)
	floorSpace, deviceCost, staffCost := costs(s)
	capacity, supplyUtil := capacity(s, throughput)
	violations := checkConstraints(s, floorSpace, deviceCost)

	var costPerProduct float64
	if throughput > 0 {
		costPerProduct = (deviceCost/365 + staffCost) / throughput
	}

	o := &Outcome{
		ScenarioID:               s.ID,
		ScenarioName:             s.Name,
		TotalProcessTimeMinutes:  processTime,
		ThroughputProductsPerDay: throughput,
		CycleTimeMinutes:         processTime / float64(s.Staff.TechnicianCount),
		DeviceUtilization:        deviceUtil,
		StaffUtilizationPercent:  staffUtil,
		BottleneckDevice:         bottleneck,
		TotalFloorSpaceSqft:      floorSpace,
		TotalDeviceCost:          deviceCost,
		TotalDailyStaffCost:      staffCost,
		CostPerProduct:           costPerProduct,
		DailyCapacity:            capacity,
		SupplyUtilizationPercent: supplyUtil,
		ConstraintsViolated:      violations,
		IsFeasible:               len(violations) == 0,
	}
	e.outcomes[id] = o
	logrus.Infof("Calculated outcomes for %s: %.1f products/day", s.Name, throughput)
	return o, nil
}

// processTimeMinutes sums device processing times, adjusted for staff
// efficiency, plus a failure overhead term.
func processTimeMinutes(s *Scenario) float64 {
	var total, overhead float64
	for _, d := range s.Devices {
		total += d.ProcessingTimeMinutes
		overhead += d.ProcessingTimeMinutes * d.FailureRate
	}
	if s.Staff.EfficiencyFactor > 0 {
		total /= s.Staff.EfficiencyFactor
	}
	return total + overhead
}

// throughputPerDay is the labor-limited batch rate, capped by supply.
func throughputPerDay(s *Scenario, processTime float64) float64 {
	minutesPerDay := float64(s.Staff.ShiftHours) * 60 * float64(s.Staff.TechnicianCount)
	var batches float64
	if processTime > 0 {
		batches = minutesPerDay / processTime
	}
	maxFromSupply := float64(s.Supply.DonationsPerDay) / float64(s.Supply.PoolingRatio)
	return math.Min(batches, maxFromSupply)
}

// deviceUtilization returns per-type utilization and the busiest type.
func deviceUtilization(s *Scenario, throughput float64) (map[string]float64, string) {
	util := make(map[string]float64, len(s.Devices))
	var maxUtil float64
	var bottleneck string
	shiftMinutes := float64(s.Staff.ShiftHours) * 60

	for _, d := range s.Devices {
		available := shiftMinutes * float64(d.Count)
		var u float64
		if available > 0 {
			u = d.ProcessingTimeMinutes * throughput / available * 100
		}
		util[d.DeviceType] = math.Min(u, 100)
		if u > maxUtil {
			maxUtil = u
			bottleneck = d.DeviceType
		}
	}
	return util, bottleneck
}

func staffUtilization(s *Scenario, processTime float64) float64 {
	available := float64(s.Staff.ShiftHours) * 60 * float64(s.Staff.TechnicianCount)
	if available <= 0 {
		return 0
	}
	return math.Min(processTime/available*100, 100)
}

func costs(s *Scenario) (floorSpace, deviceCost, staffCost float64) {
	for _, d := range s.Devices {
		floorSpace += d.FloorSpaceSqft * float64(d.Count)
		deviceCost += d.CostPerUnit * float64(d.Count)
	}
	staffCost = float64(s.Staff.TechnicianCount) * s.Staff.CostPerHour * float64(s.Staff.ShiftHours)
	return
}

func capacity(s *Scenario, throughput float64) (int, float64) {
	maxFromSupply := float64(s.Supply.DonationsPerDay) / float64(s.Supply.PoolingRatio)
	var supplyUtil float64
	if maxFromSupply > 0 {
		supplyUtil = throughput / maxFromSupply * 100
	}
	return int(maxFromSupply), supplyUtil
}

func checkConstraints(s *Scenario, floorSpace, deviceCost float64) []string {
	violations := []string{}
	if floorSpace > s.Constraints.MaxFloorSpaceSqft {
		violations = append(violations, fmt.Sprintf(
			"Floor space (%.0f sqft) exceeds limit (%.0f sqft)",
			floorSpace, s.Constraints.MaxFloorSpaceSqft))
	}
	if deviceCost > s.Constraints.MaxTotalBudget {
		violations = append(violations, fmt.Sprintf(
			"Device cost ($%.0f) exceeds budget ($%.0f)",
			deviceCost, s.Constraints.MaxTotalBudget))
	}
	totalDevices := 0
	for _, d := range s.Devices {
		totalDevices += d.Count
	}
	if totalDevices > s.Constraints.MaxDevicesTotal {
		violations = append(violations, fmt.Sprintf(
			"Total devices (%d) exceeds limit (%d)",
			totalDevices, s.Constraints.MaxDevicesTotal))
	}
	if s.Staff.TechnicianCount > s.Constraints.MaxStaff {
		violations = append(violations, fmt.Sprintf(
			"Staff count (%d) exceeds limit (%d)",
			s.Staff.TechnicianCount, s.Constraints.MaxStaff))
	}
	return violations
}

// ComparedScenario is one row of a comparison.
type ComparedScenario struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	IsBaseline   bool          `json:"is_baseline"`
	Outcome      *Outcome      `json:"outcome"`
	Improvements *Improvements `json:"improvements,omitempty"`
}

// Improvements quantifies a scenario against the baseline.
type Improvements struct {
	ThroughputImprovementPercent float64 `json:"throughput_improvement_percent"`
	CostReductionPercent         float64 `json:"cost_reduction_percent"`
	StaffUtilizationImprovement  float64 `json:"staff_utilization_improvement"`
}

// Compare calculates (if needed) and juxtaposes the named scenarios, with
// baseline-relative improvements for non-baseline entries.
func (e *Engine) Compare(ids []string) ([]ComparedScenario, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("must provide at least one scenario ID")
	}

	var rows []ComparedScenario
	for _, id := range ids {
		s, ok := e.scenarios[id]
		if !ok {
			continue
		}
		o := e.outcomes[id]
		if o == nil {
			var err error
			if o, err = e.Calculate(id); err != nil {
				return nil, err
			}
		}
		rows = append(rows, ComparedScenario{ID: s.ID, Name: s.Name, IsBaseline: s.IsBaseline, Outcome: o})
	}

	baselineID := e.BaselineID()
	base := e.outcomes[baselineID]
	if base == nil {
		return rows, nil
	}
	for i := range rows {
		if rows[i].ID == baselineID {
			continue
		}
		o := rows[i].Outcome
		imp := &Improvements{
			StaffUtilizationImprovement: o.StaffUtilizationPercent - base.StaffUtilizationPercent,
		}
		if base.ThroughputProductsPerDay > 0 {
			imp.ThroughputImprovementPercent = (o.ThroughputProductsPerDay - base.ThroughputProductsPerDay) /
				base.ThroughputProductsPerDay * 100
		}
		if base.CostPerProduct > 0 {
			imp.CostReductionPercent = (base.CostPerProduct - o.CostPerProduct) / base.CostPerProduct * 100
		}
		rows[i].Improvements = imp
	}
	return rows, nil
}
