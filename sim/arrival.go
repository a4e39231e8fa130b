// Arrival generator: a background process spawning batches at exponentially
// distributed intervals for the whole run. The generator waits one interval
// before the first batch.

package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ArrivalProcess generates Poisson batch arrivals.
type ArrivalProcess struct {
	meanInterArrival int64 // mean ticks between arrivals
	rng              *rand.Rand
	started          bool
}

// NewArrivalProcess creates the generator. It draws from the arrivals RNG
// subsystem so the arrival pattern depends only on the master seed.
func NewArrivalProcess(sim *Simulator, meanInterArrival int64) *ArrivalProcess {
	return &ArrivalProcess{
		meanInterArrival: meanInterArrival,
		rng:              sim.RNG.ForSubsystem(SubsystemArrivals),
	}
}

func (p *ArrivalProcess) Resume(sim *Simulator) Suspension {
	if p.started {
		// an inter-arrival wait just elapsed: a new batch enters the line
		sim.Metrics.BatchesCreated++
		b := NewBatch(sim.Metrics.BatchesCreated, sim.Clock)
		logrus.Infof("<< Arrival: %s at %d ticks", b.ID, sim.Clock)
		sim.Metrics.ActiveBatches = append(sim.Metrics.ActiveBatches, b)
		sim.StartProcess(NewJourney(sim.Pipeline, b))
	}
	p.started = true
	return Timed(p.sampleIAT())
}

// sampleIAT returns the next inter-arrival time in ticks (>= 1).
func (p *ArrivalProcess) sampleIAT() int64 {
	iat := int64(math.Round(p.rng.ExpFloat64() * float64(p.meanInterArrival)))
	if iat < 1 {
		return 1
	}
	return iat
}
