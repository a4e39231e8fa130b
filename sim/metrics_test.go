package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDevice_UtilizationAndThroughput(t *testing.T) {
	// GIVEN a device that served two batches for 300 ticks of a 1000-tick run
	d := NewDevice("scan_1", StageScan, DefaultProfile(StageScan), NewPartitionedRNG(1))
	d.RecordService(100, 0)
	d.RecordService(200, 50)

	// THEN utilization is busy/elapsed and throughput is services per second
	require.InDelta(t, 0.3, d.Utilization(1000), 1e-9)
	require.InDelta(t, 2/ToSeconds(1000), d.Throughput(1000), 1e-9)
	require.Equal(t, 2, d.ProcessedCount)
	require.Equal(t, []int64{0, 50}, d.WaitSamples)

	// zero elapsed never divides
	require.Zero(t, d.Utilization(0))
	require.Zero(t, d.Throughput(0))
	require.Zero(t, d.FailureRate(0))
}

func TestBottleneck_TieResolvesToEarlierStage(t *testing.T) {
	// GIVEN two stages tied for the maximum wait
	waits := []StageWait{
		{Stage: StageScan, AvgWaitSeconds: 5},
		{Stage: StageExtract, AvgWaitSeconds: 12},
		{Stage: StagePool, AvgWaitSeconds: 12},
		{Stage: StageShip, AvgWaitSeconds: 3},
	}

	// THEN the earlier stage in routing order wins
	require.Equal(t, StageExtract, bottleneck(waits))
}

func TestBottleneck_EmptyWaits(t *testing.T) {
	require.Equal(t, Stage(""), bottleneck(nil))
}

func TestMetrics_RetireMovesBatchOnce(t *testing.T) {
	// GIVEN one active batch
	m := NewMetrics()
	b := NewBatch(1, 0)
	m.BatchesCreated = 1
	m.ActiveBatches = append(m.ActiveBatches, b)

	// WHEN it completes
	b.State = Completed
	b.CompletedAt = 500
	m.retire(b)

	// THEN it lives only in the completed population
	require.Empty(t, m.ActiveBatches)
	require.Len(t, m.CompletedBatches, 1)
	require.Empty(t, m.FailedBatches)
	require.EqualValues(t, 500, b.CycleTime())
}

func TestSnapshot_CountsAndRates(t *testing.T) {
	// GIVEN a finished run
	s := mustRun(t, fastConfig(10))
	snap := s.Snapshot()
	m := s.Metrics

	// THEN the snapshot mirrors the batch populations
	require.Equal(t, m.BatchesCreated, snap.BatchesCreated)
	require.Equal(t, len(m.CompletedBatches), snap.BatchesCompleted)
	require.Equal(t, len(m.FailedBatches), snap.BatchesFailed)
	require.Equal(t, len(m.ActiveBatches), snap.BatchesInFlight)
	require.InDelta(t, float64(snap.BatchesCompleted)/float64(snap.BatchesCreated), snap.CompletionRate, 1e-9)
	require.Equal(t, ToSeconds(s.Clock), snap.ElapsedSeconds)

	// one snapshot row per device, one wait row per stage
	var units int
	for _, stage := range Stages() {
		units += len(s.Devices[stage])
	}
	require.Len(t, snap.Devices, units)
	require.Len(t, snap.StageWaits, len(Stages()))

	if snap.BatchesCompleted > 0 {
		require.Positive(t, snap.AvgCycleSeconds)
	}
}

func TestSnapshot_IsReadOnly(t *testing.T) {
	// GIVEN a finished run
	s := mustRun(t, fastConfig(10))

	// WHEN the snapshot is computed twice
	first := s.Snapshot()
	second := s.Snapshot()

	// THEN nothing moved
	require.Equal(t, first, second)
}
