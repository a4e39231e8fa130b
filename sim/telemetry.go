// Device telemetry snapshots for the reporting layer. Sensor fields are
// synthesized per call and have no effect on the event timeline; consumers
// treat them as opaque readings.

package sim

// DeviceTelemetry is one device's instantaneous reading set.
type DeviceTelemetry struct {
	DeviceID       string             `json:"device_id"`
	Stage          Stage              `json:"stage"`
	Timestamp      float64            `json:"timestamp"` // simulated seconds
	State          string             `json:"state"`
	ProcessedCount int                `json:"total_processed"`
	Utilization    float64            `json:"utilization"`
	FailureCount   int                `json:"failure_count"`
	DowntimeSec    float64            `json:"total_downtime_seconds"`
	QueueLength    int                `json:"queue_length"`
	Sensors        map[string]float64 `json:"sensors"`
}

// Telemetry synthesizes a reading for one device at the current clock.
func (sim *Simulator) Telemetry(d *Device) DeviceTelemetry {
	state := "idle"
	switch {
	case d.UnderRepair:
		state = "error"
	case d.Pool.Held() > 0:
		state = "processing"
	}

	// Sensor noise draws from its own subsystem so that reading telemetry
	// mid-run cannot perturb service-time or outcome sequences.
	rng := sim.RNG.ForSubsystem(SubsystemTelemetry)

	sensors := map[string]float64{}
	switch d.Stage {
	case StageSeparate:
		sensors["vibration_level"] = uniform(rng, 0.5, 2.0)
		sensors["temperature_celsius"] = uniform(rng, 20, 25)
	case StageAgitate:
		sensors["agitation_speed_rpm"] = 60
		sensors["temperature_celsius"] = 22 + uniform(rng, -0.5, 0.5)
	case StageStore:
		sensors["temperature_celsius"] = 22 + uniform(rng, -0.5, 0.5)
		sensors["humidity_percent"] = 60
	case StageExpress:
		sensors["pressure_psi"] = uniform(rng, 8, 12)
	}

	return DeviceTelemetry{
		DeviceID:       d.ID,
		Stage:          d.Stage,
		Timestamp:      ToSeconds(sim.Clock),
		State:          state,
		ProcessedCount: d.ProcessedCount,
		Utilization:    d.Utilization(sim.Clock),
		FailureCount:   d.FailureCount,
		DowntimeSec:    ToSeconds(d.Downtime),
		QueueLength:    d.Pool.QueueLen(),
		Sensors:        sensors,
	}
}

// AllTelemetry returns readings for every device in stage order.
func (sim *Simulator) AllTelemetry() []DeviceTelemetry {
	var out []DeviceTelemetry
	for _, stage := range Stages() {
		for _, d := range sim.Devices[stage] {
			out = append(out, sim.Telemetry(d))
		}
	}
	return out
}
