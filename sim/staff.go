// Staff allocation bookkeeping: technician roster, device assignments, labor
// hours and cost. Pure accounting over explicit timestamps; it never touches
// the event timeline.

package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Technician is one member of the roster.
type Technician struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	SkillLevel float64 `json:"skill_level"` // 0.5 junior .. 1.0 senior
	HourlyRate float64 `json:"hourly_rate"`
	ShiftHours int     `json:"shift_hours"`
}

// StaffAssignment binds a technician to a device task for one batch.
type StaffAssignment struct {
	TechnicianID string
	DeviceID     string
	BatchID      string
	TaskType     string
	StartSeconds float64
	EndSeconds   float64
	Completed    bool
}

// StaffRoster tracks technicians and their assignments.
type StaffRoster struct {
	Technicians []*Technician
	Assignments []*StaffAssignment
	ShiftHours  int
}

// NewStaffRoster builds a roster of count technicians with a mix of skill
// levels drawn from rng.
func NewStaffRoster(count, shiftHours int, rng *rand.Rand) *StaffRoster {
	r := &StaffRoster{ShiftHours: shiftHours}
	skills := []float64{0.7, 0.85, 1.0}
	for i := 0; i < count; i++ {
		skill := skills[rng.Intn(len(skills))]
		tech := &Technician{
			ID:         fmt.Sprintf("TECH-%03d", i+1),
			Name:       fmt.Sprintf("Technician %d", i+1),
			SkillLevel: skill,
			HourlyRate: 30 + skill*20, // $30-$50/hr based on skill
			ShiftHours: shiftHours,
		}
		r.Technicians = append(r.Technicians, tech)
		logrus.Debugf("Initialized %s (skill %.0f%%, $%.0f/hr)", tech.Name, skill*100, tech.HourlyRate)
	}
	return r
}

// Assign books the highest-skilled idle technician onto a device task at the
// given simulated time. Returns the technician ID, or "" if everyone is busy.
func (r *StaffRoster) Assign(deviceID, batchID, taskType string, startSeconds float64) string {
	tech := r.availableTechnician()
	if tech == nil {
		logrus.Warnf("No available technician for %s", deviceID)
		return ""
	}
	r.Assignments = append(r.Assignments, &StaffAssignment{
		TechnicianID: tech.ID,
		DeviceID:     deviceID,
		BatchID:      batchID,
		TaskType:     taskType,
		StartSeconds: startSeconds,
	})
	return tech.ID
}

// Complete closes the active assignment of a technician on a batch.
func (r *StaffRoster) Complete(technicianID, batchID string, endSeconds float64) {
	for _, a := range r.Assignments {
		if a.TechnicianID == technicianID && a.BatchID == batchID && !a.Completed {
			a.EndSeconds = endSeconds
			a.Completed = true
			return
		}
	}
}

// availableTechnician returns the highest-skilled technician with no active
// assignment.
func (r *StaffRoster) availableTechnician() *Technician {
	busy := map[string]bool{}
	for _, a := range r.Assignments {
		if !a.Completed {
			busy[a.TechnicianID] = true
		}
	}
	var best *Technician
	for _, t := range r.Technicians {
		if busy[t.ID] {
			continue
		}
		if best == nil || t.SkillLevel > best.SkillLevel {
			best = t
		}
	}
	return best
}

// Utilization returns each technician's completed-assignment time as a
// percentage of the shift, capped at 100.
func (r *StaffRoster) Utilization() map[string]float64 {
	out := map[string]float64{}
	shiftSeconds := float64(r.ShiftHours) * 3600
	for _, t := range r.Technicians {
		var active float64
		for _, a := range r.Assignments {
			if a.TechnicianID == t.ID && a.Completed {
				active += a.EndSeconds - a.StartSeconds
			}
		}
		out[t.ID] = math.Min(active/shiftSeconds*100, 100)
	}
	return out
}

// LaborCost sums completed-assignment hours times hourly rates.
func (r *StaffRoster) LaborCost() float64 {
	var total float64
	for _, t := range r.Technicians {
		var hours float64
		for _, a := range r.Assignments {
			if a.TechnicianID == t.ID && a.Completed {
				hours += (a.EndSeconds - a.StartSeconds) / 3600
			}
		}
		total += hours * t.HourlyRate
	}
	return total
}

// StaffOptimization is the staffing recommendation for a target throughput.
type StaffOptimization struct {
	CurrentStaff               int     `json:"current_staff"`
	OptimalStaff               int     `json:"optimal_staff"`
	Recommendation             string  `json:"recommendation"`
	ExpectedUtilizationPercent float64 `json:"expected_utilization_percent"`
	DailyLaborCost             float64 `json:"daily_labor_cost"`
}

// Optimize calculates the technician count needed to hit a daily throughput
// target, sizing for an 85% utilization target at the $35/hr average rate.
func (r *StaffRoster) Optimize(targetThroughput, avgProcessTimeMinutes float64) StaffOptimization {
	requiredMinutesPerDay := targetThroughput * avgProcessTimeMinutes
	minutesPerTech := float64(r.ShiftHours) * 60

	var optimal float64
	if minutesPerTech > 0 {
		optimal = requiredMinutesPerDay / (minutesPerTech * 0.85)
	}
	current := len(r.Technicians)

	recommendation := "Current staffing is optimal"
	switch {
	case optimal > float64(current):
		recommendation = fmt.Sprintf("Add %d technician(s)", int(math.Round(optimal-float64(current))))
	case optimal < float64(current):
		recommendation = fmt.Sprintf("Reduce by %d technician(s)", int(math.Round(float64(current)-optimal)))
	}

	expected := 100.0
	if optimal > 0 {
		expected = math.Min(float64(current)/optimal*85, 100)
	}

	return StaffOptimization{
		CurrentStaff:               current,
		OptimalStaff:               int(math.Round(optimal)),
		Recommendation:             recommendation,
		ExpectedUtilizationPercent: expected,
		DailyLaborCost:             math.Round(optimal*float64(r.ShiftHours)*35*100) / 100,
	}
}

// StaffSummary is the reporting view of the roster.
type StaffSummary struct {
	TotalStaff           int           `json:"total_staff"`
	ActiveAssignments    int           `json:"active_assignments"`
	AvailableStaff       int           `json:"available_staff"`
	AverageUtilization   float64       `json:"average_utilization_percent"`
	AssignmentsCompleted int           `json:"total_assignments_completed"`
	TotalLaborCost       float64       `json:"total_labor_cost"`
	Technicians          []*Technician `json:"technicians"`
}

// Summary computes the roster's current state.
func (r *StaffRoster) Summary() StaffSummary {
	active := map[string]bool{}
	completed := 0
	for _, a := range r.Assignments {
		if a.Completed {
			completed++
		} else {
			active[a.TechnicianID] = true
		}
	}
	util := r.Utilization()
	var avg float64
	for _, u := range util {
		avg += u
	}
	if len(util) > 0 {
		avg /= float64(len(util))
	}
	return StaffSummary{
		TotalStaff:           len(r.Technicians),
		ActiveAssignments:    len(active),
		AvailableStaff:       len(r.Technicians) - len(active),
		AverageUtilization:   avg,
		AssignmentsCompleted: completed,
		TotalLaborCost:       r.LaborCost(),
		Technicians:          r.Technicians,
	}
}
