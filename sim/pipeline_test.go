package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// fastConfig returns a configuration where every stage takes roughly
// serviceSeconds, so full journeys complete well inside short horizons.
func fastConfig(serviceSeconds float64) *Config {
	means := make(map[Stage]float64, len(Stages()))
	for _, stage := range Stages() {
		means[stage] = serviceSeconds
	}
	cfg := DefaultConfig()
	cfg.HorizonSeconds = 3600
	cfg.MeanInterArrivalSeconds = 60
	cfg.ServiceTimeMeans = means
	return cfg
}

func mustRun(t *testing.T, cfg *Config) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	s.Run()
	return s
}

func allBatches(m *Metrics) []*Batch {
	var out []*Batch
	out = append(out, m.CompletedBatches...)
	out = append(out, m.FailedBatches...)
	out = append(out, m.ActiveBatches...)
	return out
}

// historyFingerprint serializes every batch's full stage history so two runs
// can be compared record for record.
func historyFingerprint(s *Simulator) []string {
	var lines []string
	for _, b := range allBatches(s.Metrics) {
		for _, rec := range b.StageHistory {
			lines = append(lines, fmt.Sprintf("%s|%s|%s|%d|%d|%d|%v",
				b.ID, rec.Stage, rec.DeviceID, rec.StartTime, rec.EndTime, rec.WaitTime, rec.Outcome.Success))
		}
		lines = append(lines, fmt.Sprintf("%s|state=%s|completed_at=%d", b.ID, b.State, b.CompletedAt))
	}
	return lines
}

func TestJourney_Determinism_IdenticalRunsMatch(t *testing.T) {
	// GIVEN two simulators built from the same configuration and seed
	first := mustRun(t, fastConfig(20))
	second := mustRun(t, fastConfig(20))

	// THEN stage histories and final counters are identical
	require.Equal(t, historyFingerprint(first), historyFingerprint(second))
	require.Equal(t, first.Metrics.BatchesCreated, second.Metrics.BatchesCreated)
	require.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestJourney_DifferentSeeds_Diverge(t *testing.T) {
	// GIVEN the same configuration under two different seeds
	a := fastConfig(20)
	b := fastConfig(20)
	b.Seed = 1337

	// THEN the runs produce different event histories
	require.NotEqual(t, historyFingerprint(mustRun(t, a)), historyFingerprint(mustRun(t, b)))
}

func TestJourney_StageTimesAreMonotonic(t *testing.T) {
	// GIVEN a completed run
	s := mustRun(t, fastConfig(20))
	require.NotZero(t, s.Metrics.BatchesCreated)

	// THEN every batch's history moves strictly forward in time
	for _, b := range allBatches(s.Metrics) {
		prevEnd := b.ArrivalTime
		for i, rec := range b.StageHistory {
			if rec.StartTime < prevEnd {
				t.Errorf("%s record %d (%s): start %d before previous end %d",
					b.ID, i, rec.Stage, rec.StartTime, prevEnd)
			}
			if rec.EndTime < rec.StartTime {
				t.Errorf("%s record %d (%s): end %d before start %d",
					b.ID, i, rec.Stage, rec.EndTime, rec.StartTime)
			}
			if rec.WaitTime < 0 {
				t.Errorf("%s record %d (%s): negative wait %d", b.ID, i, rec.Stage, rec.WaitTime)
			}
			prevEnd = rec.EndTime
		}
	}
}

func TestJourney_StagesVisitedInRoutingOrder(t *testing.T) {
	// GIVEN a completed run
	s := mustRun(t, fastConfig(10))

	// THEN each batch's recorded stages are a prefix of the routing order,
	// and completed batches visited all twelve
	for _, b := range allBatches(s.Metrics) {
		for i, rec := range b.StageHistory {
			require.Equal(t, stageOrder[i], rec.Stage, "%s record %d out of order", b.ID, i)
		}
		if b.State == Completed {
			require.Len(t, b.StageHistory, len(stageOrder), "%s completed without visiting all stages", b.ID)
		}
	}
}

func TestJourney_Conservation(t *testing.T) {
	// GIVEN runs across load regimes, with and without failures
	configs := map[string]*Config{
		"light":    fastConfig(10),
		"loaded":   fastConfig(90),
		"failures": fastConfig(20),
	}
	configs["failures"].EnableFailures = true
	configs["failures"].MTBFSeconds = 600
	configs["failures"].MTTRSeconds = 120

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			s := mustRun(t, cfg)
			m := s.Metrics

			// THEN every created batch is in exactly one population
			require.Equal(t, m.BatchesCreated,
				len(m.CompletedBatches)+len(m.FailedBatches)+len(m.ActiveBatches))
		})
	}
}

func TestJourney_QualityGateShortCircuits(t *testing.T) {
	// GIVEN a line whose quality control always rejects
	cfg := fastConfig(10)
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	for _, d := range s.Devices[StageQC] {
		d.Profile.Synthesize = func(rng *rand.Rand, b *Batch) Outcome {
			b.QualityMetrics["qc_passed"] = 0
			return Outcome{Success: false}
		}
	}

	// WHEN the simulation runs
	s.Run()

	// THEN no batch completes and every rejected batch stops exactly at the
	// gate, with no downstream stage records
	require.Empty(t, s.Metrics.CompletedBatches)
	require.NotEmpty(t, s.Metrics.FailedBatches)
	for _, b := range s.Metrics.FailedBatches {
		last := b.StageHistory[len(b.StageHistory)-1]
		require.Equal(t, StageQC, last.Stage, "%s did not stop at the gate", b.ID)
		require.False(t, last.Outcome.Success)
		require.False(t, b.QCPassed())
		require.Equal(t, Failed, b.State)
	}
	// downstream devices never saw a batch
	for _, stage := range []Stage{StageLabel, StageStore, StageVerify, StageShip} {
		for _, d := range s.Devices[stage] {
			require.Zero(t, d.ProcessedCount, "%s processed a rejected batch", d.ID)
		}
	}
}

func TestJourney_NonGateFailureDoesNotStopLine(t *testing.T) {
	// GIVEN a line where scanning always reports a read error
	cfg := fastConfig(10)
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	for _, d := range s.Devices[StageScan] {
		d.Profile.Synthesize = func(rng *rand.Rand, b *Batch) Outcome {
			return Outcome{Success: false}
		}
	}

	// WHEN the simulation runs
	s.Run()

	// THEN batches still progress past the scanner
	require.NotZero(t, s.Metrics.BatchesCreated)
	for _, d := range s.Devices[StageSeparate] {
		if d.ProcessedCount > 0 {
			return
		}
	}
	t.Fatal("no batch reached the separation stage despite scan being non-gating")
}

func TestScenario_Concrete_ShortRunWithUnitCapacities(t *testing.T) {
	// GIVEN a 600s run, one unit everywhere, arrivals every 120s, seed 42
	build := func() *Config {
		cfg := DefaultConfig()
		cfg.HorizonSeconds = 600
		cfg.MeanInterArrivalSeconds = 120
		cfg.Seed = 42
		cfg.DeviceCounts = make(map[Stage]int)
		for _, stage := range Stages() {
			cfg.DeviceCounts[stage] = 1
		}
		return cfg
	}

	// WHEN it runs to completion
	first := mustRun(t, build())

	// THEN at least one batch entered the line
	require.GreaterOrEqual(t, first.Metrics.BatchesCreated, 1)

	// AND a replay is record-for-record identical
	second := mustRun(t, build())
	require.Equal(t, historyFingerprint(first), historyFingerprint(second))
}

func TestScenario_Bottleneck_UnderprovisionedStageHasMaxWait(t *testing.T) {
	// GIVEN uniform stage work, three units everywhere except expression
	cfg := fastConfig(60)
	cfg.HorizonSeconds = 7200
	cfg.MeanInterArrivalSeconds = 30
	cfg.DeviceCounts = make(map[Stage]int)
	for _, stage := range Stages() {
		cfg.DeviceCounts[stage] = 3
	}
	cfg.DeviceCounts[StageExpress] = 1

	// WHEN the line runs under sustained load
	s := mustRun(t, cfg)
	snap := s.Snapshot()

	// THEN expression is reported as the bottleneck, with the strictly
	// largest average wait
	require.Equal(t, StageExpress, snap.BottleneckStage)
	var starvedWait float64
	for _, w := range snap.StageWaits {
		if w.Stage == StageExpress {
			starvedWait = w.AvgWaitSeconds
		}
	}
	for _, w := range snap.StageWaits {
		if w.Stage == StageExpress {
			continue
		}
		require.Less(t, w.AvgWaitSeconds, starvedWait,
			"stage %s waits at least as long as the starved stage", w.Stage)
	}
}
