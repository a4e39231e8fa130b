// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// eventEntry pairs an Event with its dispatch key. seq is a monotonically
// increasing insertion counter so that two events scheduled for the same tick
// are dispatched in the order they were scheduled. This is what makes replay
// under a fixed seed byte-identical.
type eventEntry struct {
	time int64
	seq  uint64
	ev   Event
}

// EventQueue implements heap.Interface and orders events by (time, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []*eventEntry

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].time != eq[j].time {
		return eq[i].time < eq[j].time
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(*eventEntry))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, system state, and
// the event loop. All mutable simulation state hangs off this struct so that
// multiple simulations can run side by side in one process.
type Simulator struct {
	Clock   int64
	Horizon int64
	// EventQueue has all pending events: process resumptions and arrivals
	EventQueue EventQueue
	// Devices indexed by stage, units in creation order
	Devices map[Stage][]*Device
	// Pipeline routes batches through the stages
	Pipeline *Pipeline
	// Metrics accumulates the read-side view of the run
	Metrics *Metrics
	// RNG hands out deterministically-derived random streams per subsystem
	RNG *PartitionedRNG

	// OnStageComplete, when non-nil, is invoked after every stage record is
	// appended to a batch. This is the boundary for telemetry forwarding;
	// the kernel knows nothing about transports.
	OnStageComplete func(b *Batch, rec StageRecord)

	seq uint64
}

// NewSimulator builds a simulator from a validated configuration.
// Construction creates all devices, their failure processes, and the arrival
// generator, but does not advance time; call Run to execute.
func NewSimulator(cfg *Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sim := &Simulator{
		Clock:      0,
		Horizon:    cfg.HorizonTicks(),
		EventQueue: make(EventQueue, 0),
		Devices:    make(map[Stage][]*Device),
		Metrics:    NewMetrics(),
		RNG:        NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}

	for _, stage := range Stages() {
		profile := cfg.profileFor(stage)
		for i := 0; i < cfg.unitsFor(stage); i++ {
			d := NewDevice(fmt.Sprintf("%s_%d", stage, i+1), stage, profile, sim.RNG)
			sim.Devices[stage] = append(sim.Devices[stage], d)
			if cfg.EnableFailures {
				d.Pool.blockDuringRepair = cfg.RepairBlocksAcquire
				sim.StartProcess(NewFailureProcess(d, cfg.MTBFTicks(), cfg.MTTRTicks()))
			}
		}
	}

	sim.Pipeline = NewPipeline(sim)
	sim.StartProcess(NewArrivalProcess(sim, cfg.MeanInterArrivalTicks()))

	logrus.Infof("Simulator initialized: horizon=%d ticks, seed=%d, failures=%v",
		sim.Horizon, cfg.Seed, cfg.EnableFailures)
	return sim, nil
}

// Schedule inserts ev at Clock+delay and returns immediately.
// A negative delay is a programming error, not a recoverable condition.
func (sim *Simulator) Schedule(delay int64, ev Event) {
	if delay < 0 {
		panic(fmt.Sprintf("Schedule: negative delay %d at tick %d", delay, sim.Clock))
	}
	sim.seq++
	heap.Push(&sim.EventQueue, &eventEntry{time: sim.Clock + delay, seq: sim.seq, ev: ev})
}

// Run executes events in (time, insertion) order until the queue drains or
// the horizon is reached. Dispatch is synchronous: an event runs to its next
// suspension point before the next event is popped, so no process ever
// observes a half-updated pool or batch.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		entry := heap.Pop(&sim.EventQueue).(*eventEntry)
		if entry.time >= sim.Horizon {
			// cut off by the horizon: the run ends exactly there, and
			// events at the horizon tick itself are not dispatched
			sim.Clock = sim.Horizon
			break
		}
		// advance the clock
		sim.Clock = entry.time
		logrus.Debugf("[tick %07d] Executing %T", sim.Clock, entry.ev)
		entry.ev.Execute(sim)
	}
	sim.Metrics.SimEndedTime = sim.Clock
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
}

// StartProcess drives p from its initial state at the current instant.
func (sim *Simulator) StartProcess(p Process) {
	sim.runProcess(p)
}

// runProcess advances p until it suspends or terminates. A resource request
// that is grantable immediately continues within the same instant; a queued
// request parks p on the pool's wait queue, which owns it until the grant.
func (sim *Simulator) runProcess(p Process) {
	for {
		s := p.Resume(sim)
		switch s.Kind {
		case SuspendTimed:
			sim.Schedule(s.Delay, &resumeEvent{proc: p})
			return
		case SuspendResource:
			if s.Pool.Acquire(p) {
				continue
			}
			return
		case SuspendDone:
			return
		default:
			panic(fmt.Sprintf("runProcess: unknown suspension kind %d", s.Kind))
		}
	}
}
