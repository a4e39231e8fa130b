package sim

import "fmt"

// TerminalState tracks where a batch is in its lifecycle.
type TerminalState int

const (
	InProgress TerminalState = iota
	Completed
	Failed
)

func (s TerminalState) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("TerminalState(%d)", int(s))
}

// StageRecord is one entry of a batch's processing history.
type StageRecord struct {
	Stage     Stage
	DeviceID  string
	StartTime int64 // tick the device slot was granted
	EndTime   int64 // tick the service completed
	WaitTime  int64 // ticks spent queued before the grant
	Outcome   Outcome
}

// Batch is the unit of production flowing through the pipeline. A batch is
// mutated only by the journey process that owns it; the pipeline is strictly
// sequential per batch, so there is never a second writer.
type Batch struct {
	ID           string
	ArrivalTime  int64
	CurrentStage Stage
	StageHistory []StageRecord
	// QualityMetrics accumulates named measurements across stages
	// (separation quality, plasma volume, qc_passed, ...).
	QualityMetrics map[string]float64
	State          TerminalState
	// CompletedAt is the tick the batch reached a terminal state.
	CompletedAt int64
}

// NewBatch creates a batch arriving at the given tick. IDs follow the
// production convention BATCH-00001, BATCH-00002, ...
func NewBatch(n int, arrival int64) *Batch {
	return &Batch{
		ID:             fmt.Sprintf("BATCH-%05d", n),
		ArrivalTime:    arrival,
		CurrentStage:   StageScan,
		QualityMetrics: make(map[string]float64),
		State:          InProgress,
	}
}

// AddStageRecord appends one processing step to the batch history.
func (b *Batch) AddStageRecord(rec StageRecord) {
	b.StageHistory = append(b.StageHistory, rec)
}

// QCPassed reports the quality-control verdict recorded on the batch.
// False until the QC stage has run.
func (b *Batch) QCPassed() bool {
	return b.QualityMetrics["qc_passed"] == 1
}

// CycleTime returns completion time minus arrival time, or 0 if the batch is
// still in progress.
func (b *Batch) CycleTime() int64 {
	if b.State == InProgress {
		return 0
	}
	return b.CompletedAt - b.ArrivalTime
}
