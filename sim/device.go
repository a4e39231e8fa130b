// Device binds one physical unit's resource pool to its stage profile and
// cumulative counters. Devices are created at simulation start and never
// destroyed.

package sim

import "math/rand"

// Device is a single physical unit of a stage kind.
type Device struct {
	ID      string
	Stage   Stage
	Pool    *ResourcePool
	Profile StageProfile

	// Cumulative counters, mutated only from scheduler-dispatched code.
	ProcessedCount int
	BusyTime       int64
	FailureCount   int
	Downtime       int64
	UnderRepair    bool

	// WaitSamples holds, per visiting batch, the ticks spent queued before
	// the grant. The metrics aggregator folds these into the per-stage
	// bottleneck view.
	WaitSamples []int64

	serviceRNG *rand.Rand
	failureRNG *rand.Rand
}

// NewDevice creates a device with its own pool and derived RNG streams.
func NewDevice(id string, stage Stage, profile StageProfile, rng *PartitionedRNG) *Device {
	return &Device{
		ID:         id,
		Stage:      stage,
		Pool:       NewResourcePool(profile.UnitCapacity),
		Profile:    profile,
		serviceRNG: rng.ForSubsystem(SubsystemDevice(id)),
		failureRNG: rng.ForSubsystem(SubsystemFailure(id)),
	}
}

// SampleServiceTime draws one service duration from the device's stream.
func (d *Device) SampleServiceTime() int64 {
	return d.Profile.ServiceTime.Sample(d.serviceRNG)
}

// SynthesizeOutcome produces the stage outcome for a batch this device just
// processed.
func (d *Device) SynthesizeOutcome(b *Batch) Outcome {
	return d.Profile.Synthesize(d.serviceRNG, b)
}

// RecordService folds one completed service into the cumulative counters.
func (d *Device) RecordService(duration, waited int64) {
	d.ProcessedCount++
	d.BusyTime += duration
	d.WaitSamples = append(d.WaitSamples, waited)
}

// Utilization returns busy time over elapsed time.
func (d *Device) Utilization(elapsed int64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(d.BusyTime) / float64(elapsed)
}

// Throughput returns completed services per second of simulated time.
func (d *Device) Throughput(elapsed int64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(d.ProcessedCount) / ToSeconds(elapsed)
}

// FailureRate returns failures per second of simulated time.
func (d *Device) FailureRate(elapsed int64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(d.FailureCount) / ToSeconds(elapsed)
}
