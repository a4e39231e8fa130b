// The twelve processing stages of the platelet pooling line, in routing
// order, together with their default device profiles. The stage set is closed
// and known at compile time; adding a stage means editing this file.

package sim

import "github.com/pooling-sim/pooling-sim/sim/dist"

// Stage identifies one of the twelve fixed processing steps.
type Stage string

const (
	StageScan     Stage = "scan"            // blood bag barcode scanning
	StageSeparate Stage = "separate"        // centrifuge component separation
	StageExtract  Stage = "extract"         // plasma extraction
	StageExpress  Stage = "express"         // macopress platelet expression
	StageAgitate  Stage = "agitate"         // platelet agitation
	StageConnect  Stage = "connect"         // sterile tube connection
	StagePool     Stage = "pool"            // pooling station
	StageQC       Stage = "quality_control" // quality control testing (the gate)
	StageLabel    Stage = "label"           // product labeling
	StageStore    Stage = "store"           // refrigerated storage
	StageVerify   Stage = "verify"          // barcode verification
	StageShip     Stage = "ship"            // shipping preparation
)

var stageOrder = []Stage{
	StageScan,
	StageSeparate,
	StageExtract,
	StageExpress,
	StageAgitate,
	StageConnect,
	StagePool,
	StageQC,
	StageLabel,
	StageStore,
	StageVerify,
	StageShip,
}

// Stages returns the stages in routing order. Callers must not mutate the
// returned slice.
func Stages() []Stage {
	return stageOrder
}

// IsGate reports whether a failing outcome at this stage terminates the
// batch. Only quality control gates routing; other stages record their
// success flag but do not stop the line.
func (s Stage) IsGate() bool {
	return s == StageQC
}

// StageProfile describes one stage's device kind: per-unit slot capacity,
// service-time distribution, and outcome synthesis.
type StageProfile struct {
	Stage        Stage
	UnitCapacity int
	ServiceTime  dist.DurationSampler
	Synthesize   OutcomeFunc
}

// DefaultProfile returns the reference profile for a stage. Timing
// parameters and capacities mirror the production line's measured values
// (seconds, scaled to ticks).
func DefaultProfile(stage Stage) StageProfile {
	switch stage {
	case StageScan:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 1,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(5), StdDev: SecondsF(0.5), Min: Seconds(1), Max: Seconds(15)},
			Synthesize:   synthesizeScan,
		}
	case StageSeparate:
		// spin-up, centrifugation, spin-down
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 4,
			ServiceTime: &dist.CompositeSampler{Phases: []dist.DurationSampler{
				&dist.UniformSampler{Lo: SecondsF(15), Hi: SecondsF(25)},
				&dist.GaussianSampler{Mean: SecondsF(180), StdDev: SecondsF(10), Min: Seconds(120), Max: Seconds(240)},
				&dist.UniformSampler{Lo: SecondsF(20), Hi: SecondsF(30)},
			}},
			Synthesize: synthesizeSeparate,
		}
	case StageExtract:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 2,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(90), StdDev: SecondsF(5), Min: Seconds(60), Max: Seconds(150)},
			Synthesize:   synthesizeExtract,
		}
	case StageExpress:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 1,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(120), StdDev: SecondsF(8), Min: Seconds(90), Max: Seconds(180)},
			Synthesize:   synthesizeExpress,
		}
	case StageAgitate:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 8,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(3600), StdDev: SecondsF(180), Min: Seconds(3000), Max: Seconds(4500)},
			Synthesize:   synthesizeAgitate,
		}
	case StageConnect:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 1,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(45), StdDev: SecondsF(5), Min: Seconds(30), Max: Seconds(90)},
			Synthesize:   synthesizeConnect,
		}
	case StagePool:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 1,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(300), StdDev: SecondsF(20), Min: Seconds(240), Max: Seconds(420)},
			Synthesize:   synthesizePool,
		}
	case StageQC:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 2,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(240), StdDev: SecondsF(15), Min: Seconds(180), Max: Seconds(360)},
			Synthesize:   synthesizeQC,
		}
	case StageLabel:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 1,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(60), StdDev: SecondsF(5), Min: Seconds(45), Max: Seconds(120)},
			Synthesize:   synthesizeLabel,
		}
	case StageStore:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 20,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(7200), StdDev: SecondsF(600), Min: Seconds(3600), Max: Seconds(10800)},
			Synthesize:   synthesizeStore,
		}
	case StageVerify:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 1,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(8), StdDev: SecondsF(1), Min: Seconds(5), Max: Seconds(20)},
			Synthesize:   synthesizeVerify,
		}
	case StageShip:
		return StageProfile{
			Stage:        stage,
			UnitCapacity: 2,
			ServiceTime:  &dist.GaussianSampler{Mean: SecondsF(180), StdDev: SecondsF(15), Min: Seconds(120), Max: Seconds(300)},
			Synthesize:   synthesizeShip,
		}
	default:
		panic("DefaultProfile: unknown stage " + string(stage))
	}
}
