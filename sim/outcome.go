// Per-stage outcome synthesis. Each stage produces a success flag plus named
// quality measurements; measurement ranges and pass rules mirror the
// production line's reference values. Measurements are independent per call.

package sim

import "math/rand"

// Outcome is the result of one stage visit. Success gates routing only at
// the quality-control stage; elsewhere it is recorded and carried along.
type Outcome struct {
	Success      bool
	Measurements map[string]float64
}

// OutcomeFunc synthesizes a stage outcome. Implementations may write
// stage-level quality metrics onto the batch; they must not touch any other
// simulation state.
type OutcomeFunc func(rng *rand.Rand, b *Batch) Outcome

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func synthesizeScan(rng *rand.Rand, b *Batch) Outcome {
	// 1% barcode read errors
	success := rng.Float64() > 0.01
	m := map[string]float64{
		"scan_quality": uniform(rng, 0.85, 1.0),
	}
	if !success {
		m["retry_required"] = 1
	}
	return Outcome{Success: success, Measurements: m}
}

func synthesizeSeparate(rng *rand.Rand, b *Batch) Outcome {
	separation := uniform(rng, 0.90, 0.99)
	yield := uniform(rng, 0.85, 0.95)
	b.QualityMetrics["separation_quality"] = separation
	b.QualityMetrics["platelet_yield"] = yield
	return Outcome{Success: true, Measurements: map[string]float64{
		"separation_quality": separation,
		"platelet_yield":     yield,
		"final_temperature":  20.0 + uniform(rng, 2, 5),
	}}
}

func synthesizeExtract(rng *rand.Rand, b *Batch) Outcome {
	volume := uniform(rng, 200, 280) // mL
	b.QualityMetrics["plasma_volume"] = volume
	return Outcome{Success: true, Measurements: map[string]float64{
		"plasma_extracted_ml":   volume,
		"extraction_efficiency": uniform(rng, 0.88, 0.96),
	}}
}

func synthesizeExpress(rng *rand.Rand, b *Batch) Outcome {
	volume := uniform(rng, 45, 65) // mL
	b.QualityMetrics["platelet_volume"] = volume
	return Outcome{Success: true, Measurements: map[string]float64{
		"platelet_volume_ml":      volume,
		"expression_pressure_psi": uniform(rng, 8, 12),
		"expression_efficiency":   uniform(rng, 0.90, 0.98),
	}}
}

func synthesizeAgitate(rng *rand.Rand, b *Batch) Outcome {
	viability := uniform(rng, 0.92, 0.99)
	b.QualityMetrics["platelet_viability"] = viability
	return Outcome{Success: true, Measurements: map[string]float64{
		"platelet_viability":  viability,
		"temperature_celsius": 22.0 + uniform(rng, -0.5, 0.5),
	}}
}

func synthesizeConnect(rng *rand.Rand, b *Batch) Outcome {
	// 99% success rate for sterile connections
	success := rng.Float64() > 0.01
	m := map[string]float64{}
	if success {
		m["connection_quality"] = uniform(rng, 0.95, 1.0)
		m["sterility_verified"] = 1
	}
	return Outcome{Success: success, Measurements: m}
}

func synthesizePool(rng *rand.Rand, b *Batch) Outcome {
	volume := uniform(rng, 200, 250) // mL per pool
	b.QualityMetrics["pooled_volume"] = volume
	b.QualityMetrics["units_pooled"] = 4
	return Outcome{Success: true, Measurements: map[string]float64{
		"total_volume_ml":    volume,
		"units_pooled":       4,
		"pooling_efficiency": uniform(rng, 0.92, 0.98),
	}}
}

func synthesizeQC(rng *rand.Rand, b *Batch) Outcome {
	plateletCount := uniform(rng, 2.5e11, 4.0e11)
	ph := uniform(rng, 6.8, 7.4)
	bacterialOK := rng.Float64() > 0.001 // 99.9% pass rate

	passed := plateletCount >= 3.0e11 && ph >= 6.9 && ph <= 7.3 && bacterialOK

	var score float64
	if passed {
		score = uniform(rng, 0.85, 0.99)
	} else {
		score = uniform(rng, 0.50, 0.84)
	}

	b.QualityMetrics["qc_passed"] = boolMetric(passed)
	b.QualityMetrics["quality_score"] = score

	m := map[string]float64{
		"platelet_count":        plateletCount,
		"ph_level":              ph,
		"overall_quality_score": score,
	}
	if bacterialOK {
		m["bacterial_test_passed"] = 1
	}
	return Outcome{Success: passed, Measurements: m}
}

func synthesizeLabel(rng *rand.Rand, b *Batch) Outcome {
	return Outcome{Success: true, Measurements: map[string]float64{
		"label_quality": uniform(rng, 0.95, 1.0),
	}}
}

func synthesizeStore(rng *rand.Rand, b *Batch) Outcome {
	avgTemp := 22.0 + uniform(rng, -0.5, 0.5)
	b.QualityMetrics["storage_temperature"] = avgTemp
	return Outcome{Success: true, Measurements: map[string]float64{
		"avg_temperature":  avgTemp,
		"humidity_percent": 60.0,
	}}
}

func synthesizeVerify(rng *rand.Rand, b *Batch) Outcome {
	// 99.5% read success rate
	success := rng.Float64() > 0.005
	m := map[string]float64{}
	if success {
		m["read_quality"] = uniform(rng, 0.90, 1.0)
	} else {
		m["retry_required"] = 1
	}
	return Outcome{Success: success, Measurements: m}
}

func synthesizeShip(rng *rand.Rand, b *Batch) Outcome {
	// 98% of shipments have complete documentation
	documented := rng.Float64() > 0.02
	m := map[string]float64{"packaging_complete": 1}
	if documented {
		m["ready_for_dispatch"] = 1
	}
	return Outcome{Success: documented, Measurements: m}
}

func boolMetric(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
