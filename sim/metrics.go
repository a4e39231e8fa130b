// Aggregates run-wide statistics: per-device utilization and throughput,
// per-stage queueing, bottleneck identification, and batch accounting.
// Snapshot computation is read-only; it never mutates simulation state.

package sim

import "fmt"

// Metrics holds the batch accounting for one run. Device counters live on
// the devices themselves; Metrics tracks the batch populations.
type Metrics struct {
	BatchesCreated   int
	ActiveBatches    []*Batch
	CompletedBatches []*Batch
	FailedBatches    []*Batch
	SimEndedTime     int64
}

// NewMetrics creates an empty aggregate.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// retire moves a batch from the active population to its terminal list.
func (m *Metrics) retire(b *Batch) {
	for i, a := range m.ActiveBatches {
		if a == b {
			m.ActiveBatches = append(m.ActiveBatches[:i], m.ActiveBatches[i+1:]...)
			break
		}
	}
	switch b.State {
	case Completed:
		m.CompletedBatches = append(m.CompletedBatches, b)
	case Failed:
		m.FailedBatches = append(m.FailedBatches, b)
	}
}

// DeviceSnapshot is the reporting view of one physical unit.
type DeviceSnapshot struct {
	DeviceID       string  `json:"device_id"`
	Stage          Stage   `json:"stage"`
	Utilization    float64 `json:"utilization"`
	Throughput     float64 `json:"throughput"` // services per simulated second
	ProcessedCount int     `json:"processed_count"`
	FailureCount   int     `json:"failure_count"`
	FailureRate    float64 `json:"failure_rate"`
	QueueLength    int     `json:"queue_length"`
}

// StageWait is the queueing view of one stage across all its units.
type StageWait struct {
	Stage          Stage   `json:"stage"`
	AvgWaitSeconds float64 `json:"avg_wait_seconds"`
	Samples        int     `json:"samples"`
}

// Snapshot is the full reporting surface of a run, derivable at any
// simulation time without re-running.
type Snapshot struct {
	ElapsedSeconds   float64          `json:"elapsed_seconds"`
	BatchesCreated   int              `json:"batches_created"`
	BatchesCompleted int              `json:"batches_completed"`
	BatchesFailed    int              `json:"batches_failed"`
	BatchesInFlight  int              `json:"batches_in_progress"`
	CompletionRate   float64          `json:"completion_rate"`
	AvgCycleSeconds  float64          `json:"average_cycle_time_seconds"`
	Devices          []DeviceSnapshot `json:"devices"`
	StageWaits       []StageWait      `json:"stage_waits"`
	BottleneckStage  Stage            `json:"bottleneck_stage"`
}

// Snapshot computes the reporting view at the current clock.
func (sim *Simulator) Snapshot() Snapshot {
	elapsed := sim.Clock
	m := sim.Metrics

	snap := Snapshot{
		ElapsedSeconds:   ToSeconds(elapsed),
		BatchesCreated:   m.BatchesCreated,
		BatchesCompleted: len(m.CompletedBatches),
		BatchesFailed:    len(m.FailedBatches),
		BatchesInFlight:  len(m.ActiveBatches),
	}
	if m.BatchesCreated > 0 {
		snap.CompletionRate = float64(len(m.CompletedBatches)) / float64(m.BatchesCreated)
	}
	if n := len(m.CompletedBatches); n > 0 {
		var total int64
		for _, b := range m.CompletedBatches {
			total += b.CycleTime()
		}
		snap.AvgCycleSeconds = ToSeconds(total) / float64(n)
	}

	for _, stage := range Stages() {
		var waitSum int64
		var samples int
		for _, d := range sim.Devices[stage] {
			snap.Devices = append(snap.Devices, DeviceSnapshot{
				DeviceID:       d.ID,
				Stage:          stage,
				Utilization:    d.Utilization(elapsed),
				Throughput:     d.Throughput(elapsed),
				ProcessedCount: d.ProcessedCount,
				FailureCount:   d.FailureCount,
				FailureRate:    d.FailureRate(elapsed),
				QueueLength:    d.Pool.QueueLen(),
			})
			for _, w := range d.WaitSamples {
				waitSum += w
			}
			samples += len(d.WaitSamples)
		}
		sw := StageWait{Stage: stage, Samples: samples}
		if samples > 0 {
			sw.AvgWaitSeconds = ToSeconds(waitSum) / float64(samples)
		}
		snap.StageWaits = append(snap.StageWaits, sw)
	}

	snap.BottleneckStage = bottleneck(snap.StageWaits)
	return snap
}

// bottleneck returns the stage with the maximum average wait. Ties resolve
// to the earlier stage in declaration order.
func bottleneck(waits []StageWait) Stage {
	if len(waits) == 0 {
		return ""
	}
	best := waits[0]
	for _, w := range waits[1:] {
		if w.AvgWaitSeconds > best.AvgWaitSeconds {
			best = w
		}
	}
	return best.Stage
}

// Print displays the run summary at the end of the simulation.
func (snap Snapshot) Print() {
	fmt.Println("================================================================================")
	fmt.Println("SIMULATION SUMMARY")
	fmt.Println("================================================================================")
	fmt.Printf("Simulation Time      : %.2fs (%.2f hours)\n", snap.ElapsedSeconds, snap.ElapsedSeconds/3600)
	fmt.Printf("Batches Created      : %d\n", snap.BatchesCreated)
	fmt.Printf("Batches Completed    : %d\n", snap.BatchesCompleted)
	fmt.Printf("Batches Failed       : %d\n", snap.BatchesFailed)
	fmt.Printf("Completion Rate      : %.1f%%\n", snap.CompletionRate*100)
	if snap.BatchesCompleted > 0 {
		fmt.Printf("Average Cycle Time   : %.2fs (%.2f min)\n", snap.AvgCycleSeconds, snap.AvgCycleSeconds/60)
	}
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Println("DEVICE UTILIZATION")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, d := range snap.Devices {
		fmt.Printf("%-30s - Util: %5.1f%% | Processed: %4d | Failures: %2d\n",
			d.DeviceID, d.Utilization*100, d.ProcessedCount, d.FailureCount)
	}
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("Bottleneck Stage     : %s\n", snap.BottleneckStage)
	for _, w := range snap.StageWaits {
		fmt.Printf("  %-18s avg wait %8.2fs over %d visits\n", w.Stage, w.AvgWaitSeconds, w.Samples)
	}
	fmt.Println("================================================================================")
}
