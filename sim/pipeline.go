// Pipeline orchestration: routes each batch through the twelve stages in
// order, selecting one physical unit per stage visit before the acquire, and
// terminating the batch at the quality gate or after shipping.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Pipeline owns stage routing for one simulator.
type Pipeline struct {
	sim        *Simulator
	routingRNG *rand.Rand
}

// NewPipeline creates the orchestrator for sim.
func NewPipeline(sim *Simulator) *Pipeline {
	return &Pipeline{
		sim:        sim,
		routingRNG: sim.RNG.ForSubsystem(SubsystemRouting),
	}
}

// selectUnit picks one physical unit of a stage, uniformly at random. The
// pick happens once per stage visit, before the acquire, so queueing is local
// to the chosen unit.
func (pl *Pipeline) selectUnit(stage Stage) *Device {
	units := pl.sim.Devices[stage]
	return units[pl.routingRNG.Intn(len(units))]
}

type journeyPhase int

const (
	// phaseSelect: pick a unit and request its pool.
	phaseSelect journeyPhase = iota
	// phaseGranted: the slot was granted; start service.
	phaseGranted
	// phaseServiceDone: service elapsed; record the outcome and route on.
	phaseServiceDone
)

// Journey is the process carrying one batch through the pipeline. The batch
// is owned by its journey: nothing else writes to it while the journey runs.
type Journey struct {
	pipeline *Pipeline
	batch    *Batch

	stageIdx    int
	phase       journeyPhase
	device      *Device
	requestTime int64
	startTime   int64
	serviceTime int64
}

// NewJourney creates the journey for a freshly arrived batch.
func NewJourney(pl *Pipeline, b *Batch) *Journey {
	return &Journey{pipeline: pl, batch: b}
}

func (j *Journey) Resume(sim *Simulator) Suspension {
	for {
		switch j.phase {
		case phaseSelect:
			stage := stageOrder[j.stageIdx]
			j.batch.CurrentStage = stage
			j.device = j.pipeline.selectUnit(stage)
			j.requestTime = sim.Clock
			j.phase = phaseGranted
			return Await(j.device.Pool)

		case phaseGranted:
			j.startTime = sim.Clock
			j.serviceTime = j.device.SampleServiceTime()
			logrus.Debugf("[tick %07d] %s started %s on %s (waited %d ticks)",
				sim.Clock, j.batch.ID, j.device.Stage, j.device.ID, sim.Clock-j.requestTime)
			j.phase = phaseServiceDone
			return Timed(j.serviceTime)

		case phaseServiceDone:
			if done := j.finishStage(sim); done {
				return Done()
			}
			j.phase = phaseSelect
		}
	}
}

// finishStage records the completed stage and advances routing. Returns true
// when the batch reached a terminal state.
func (j *Journey) finishStage(sim *Simulator) bool {
	stage := j.device.Stage
	outcome := j.device.SynthesizeOutcome(j.batch)
	waited := j.startTime - j.requestTime

	rec := StageRecord{
		Stage:     stage,
		DeviceID:  j.device.ID,
		StartTime: j.startTime,
		EndTime:   sim.Clock,
		WaitTime:  waited,
		Outcome:   outcome,
	}
	j.batch.AddStageRecord(rec)
	j.device.RecordService(j.serviceTime, waited)
	j.device.Pool.Release(sim, j)

	if sim.OnStageComplete != nil {
		sim.OnStageComplete(j.batch, rec)
	}

	// Only the quality gate stops the line; other stage failures are data.
	if stage.IsGate() && !outcome.Success {
		logrus.Warnf("[tick %07d] %s failed QC - discarded", sim.Clock, j.batch.ID)
		j.terminate(sim, Failed)
		return true
	}

	j.stageIdx++
	if j.stageIdx >= len(stageOrder) {
		j.terminate(sim, Completed)
		logrus.Infof("[tick %07d] %s completed (cycle time %d ticks)",
			sim.Clock, j.batch.ID, j.batch.CycleTime())
		return true
	}
	return false
}

func (j *Journey) terminate(sim *Simulator, state TerminalState) {
	j.batch.State = state
	j.batch.CompletedAt = sim.Clock
	sim.Metrics.retire(j.batch)
}
