package sim

import (
	"fmt"

	"github.com/pooling-sim/pooling-sim/sim/dist"
)

// Config is the structured configuration for one simulation run. All
// durations are in seconds; the simulator converts to ticks internally.
type Config struct {
	HorizonSeconds          float64 `yaml:"horizon_seconds" json:"horizon_seconds"`
	MeanInterArrivalSeconds float64 `yaml:"mean_inter_arrival_seconds" json:"mean_inter_arrival_seconds"`
	Seed                    int64   `yaml:"seed" json:"seed"`

	// DeviceCounts sets the number of parallel physical units per stage.
	// Stages absent from the map use the reference line's defaults.
	DeviceCounts map[Stage]int `yaml:"device_counts" json:"device_counts,omitempty"`

	// ServiceTimeMeans overrides a stage's mean service time (seconds).
	// An override replaces the stage's distribution with a Gaussian at the
	// new mean, stddev mean/10, clipped to [mean/2, mean*2].
	ServiceTimeMeans map[Stage]float64 `yaml:"service_time_means" json:"service_time_means,omitempty"`

	EnableFailures bool    `yaml:"enable_failures" json:"enable_failures"`
	MTBFSeconds    float64 `yaml:"mtbf_seconds" json:"mtbf_seconds"`
	MTTRSeconds    float64 `yaml:"mttr_seconds" json:"mttr_seconds"`

	// RepairBlocksAcquire selects the stricter repair interpretation: a pool
	// under repair stops granting slots until the repair completes. The
	// reference behavior is false (repair state is observational only).
	RepairBlocksAcquire bool `yaml:"repair_blocks_acquire" json:"repair_blocks_acquire"`
}

// defaultDeviceCounts mirrors the reference line: two centrifuges, one of
// everything else.
var defaultDeviceCounts = map[Stage]int{
	StageSeparate: 2,
}

// DefaultConfig returns the reference line configuration: an 8-hour shift
// with a batch arriving every 5 minutes on average.
func DefaultConfig() *Config {
	return &Config{
		HorizonSeconds:          28800,
		MeanInterArrivalSeconds: 300,
		Seed:                    42,
		MTBFSeconds:             14400, // 4 hours
		MTTRSeconds:             1800,  // 30 minutes
	}
}

// Validate fails fast on configuration errors, before any event is
// scheduled.
func (c *Config) Validate() error {
	if c.HorizonSeconds <= 0 {
		return fmt.Errorf("config: horizon_seconds must be > 0, got %v", c.HorizonSeconds)
	}
	if c.MeanInterArrivalSeconds <= 0 {
		return fmt.Errorf("config: mean_inter_arrival_seconds must be > 0, got %v", c.MeanInterArrivalSeconds)
	}
	for stage, n := range c.DeviceCounts {
		if !validStage(stage) {
			return fmt.Errorf("config: unknown stage %q in device_counts", stage)
		}
		if n < 1 {
			return fmt.Errorf("config: device count for %s must be >= 1, got %d", stage, n)
		}
	}
	for stage, mean := range c.ServiceTimeMeans {
		if !validStage(stage) {
			return fmt.Errorf("config: unknown stage %q in service_time_means", stage)
		}
		if mean <= 0 {
			return fmt.Errorf("config: service time mean for %s must be > 0, got %v", stage, mean)
		}
	}
	if c.EnableFailures {
		if c.MTBFSeconds <= 0 {
			return fmt.Errorf("config: mtbf_seconds must be > 0 when failures are enabled, got %v", c.MTBFSeconds)
		}
		if c.MTTRSeconds <= 0 {
			return fmt.Errorf("config: mttr_seconds must be > 0 when failures are enabled, got %v", c.MTTRSeconds)
		}
	}
	return nil
}

func validStage(s Stage) bool {
	for _, known := range stageOrder {
		if s == known {
			return true
		}
	}
	return false
}

// HorizonTicks returns the simulation horizon in ticks.
func (c *Config) HorizonTicks() int64 { return Seconds(c.HorizonSeconds) }

// MeanInterArrivalTicks returns the mean batch inter-arrival time in ticks.
func (c *Config) MeanInterArrivalTicks() int64 { return Seconds(c.MeanInterArrivalSeconds) }

// MTBFTicks returns the mean time between failures in ticks.
func (c *Config) MTBFTicks() int64 { return Seconds(c.MTBFSeconds) }

// MTTRTicks returns the mean time to repair in ticks.
func (c *Config) MTTRTicks() int64 { return Seconds(c.MTTRSeconds) }

// unitsFor returns the configured unit count for a stage.
func (c *Config) unitsFor(stage Stage) int {
	if n, ok := c.DeviceCounts[stage]; ok {
		return n
	}
	if n, ok := defaultDeviceCounts[stage]; ok {
		return n
	}
	return 1
}

// profileFor returns the stage profile, applying any service-time override.
func (c *Config) profileFor(stage Stage) StageProfile {
	p := DefaultProfile(stage)
	if mean, ok := c.ServiceTimeMeans[stage]; ok {
		p.ServiceTime = &dist.GaussianSampler{
			Mean:   SecondsF(mean),
			StdDev: SecondsF(mean / 10),
			Min:    Seconds(mean / 2),
			Max:    Seconds(mean * 2),
		}
	}
	return p
}
