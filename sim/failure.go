// Background failure/repair cycle for a device: run for an exponentially
// distributed up-time with mean MTBF, go under repair for an exponentially
// distributed down-time with mean MTTR, repeat forever.

package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

type failurePhase int

const (
	// phaseFail: the up-time wait just elapsed; the device breaks now.
	phaseFail failurePhase = iota
	// phaseRepaired: the repair wait just elapsed; the device comes back.
	phaseRepaired
)

// FailureProcess is the per-device background process driving the failure
// state. It never terminates; it runs for the lifetime of the simulation.
type FailureProcess struct {
	device      *Device
	mtbf        int64 // mean ticks between failures
	mttr        int64 // mean ticks to repair
	phase       failurePhase
	started     bool
	repairStart int64
}

// NewFailureProcess creates the failure cycle for a device.
func NewFailureProcess(d *Device, mtbf, mttr int64) *FailureProcess {
	return &FailureProcess{device: d, mtbf: mtbf, mttr: mttr}
}

func (p *FailureProcess) Resume(sim *Simulator) Suspension {
	if !p.started {
		p.started = true
		p.phase = phaseFail
		return Timed(p.expTicks(p.mtbf))
	}

	switch p.phase {
	case phaseFail:
		logrus.Warnf("[tick %07d] Device %s has failed", sim.Clock, p.device.ID)
		p.device.UnderRepair = true
		p.device.FailureCount++
		p.device.Pool.setUnderRepair(sim, true)
		p.repairStart = sim.Clock
		p.phase = phaseRepaired
		return Timed(p.expTicks(p.mttr))

	case phaseRepaired:
		p.device.Downtime += sim.Clock - p.repairStart
		p.device.UnderRepair = false
		p.device.Pool.setUnderRepair(sim, false)
		logrus.Infof("[tick %07d] Device %s repaired", sim.Clock, p.device.ID)
		p.phase = phaseFail
		return Timed(p.expTicks(p.mtbf))
	}
	return Done()
}

// expTicks samples an exponential duration with the given mean, never
// shorter than one tick.
func (p *FailureProcess) expTicks(mean int64) int64 {
	v := int64(math.Round(p.device.failureRNG.ExpFloat64() * float64(mean)))
	if v < 1 {
		return 1
	}
	return v
}
