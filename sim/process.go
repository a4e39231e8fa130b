package sim

// SuspendKind tags the three ways a process hands control back to the
// scheduler.
type SuspendKind int

const (
	// SuspendTimed resumes the process after Delay ticks.
	SuspendTimed SuspendKind = iota
	// SuspendResource resumes the process when Pool grants it a slot.
	SuspendResource
	// SuspendDone terminates the process.
	SuspendDone
)

// Suspension is the result of advancing a process to its next suspension
// point. Exactly one of Delay/Pool is meaningful, selected by Kind.
type Suspension struct {
	Kind  SuspendKind
	Delay int64
	Pool  *ResourcePool
}

// Timed suspends the calling process for delay ticks.
func Timed(delay int64) Suspension {
	return Suspension{Kind: SuspendTimed, Delay: delay}
}

// Await suspends the calling process until pool grants it a slot.
func Await(pool *ResourcePool) Suspension {
	return Suspension{Kind: SuspendResource, Pool: pool}
}

// Done terminates the calling process.
func Done() Suspension {
	return Suspension{Kind: SuspendDone}
}

// Process is a suspendable unit of control, modeled as an explicit state
// machine rather than a goroutine: Resume runs the process from its current
// state to its next suspension point and reports how it suspended. A process
// has exactly one pending suspension at any time and is owned either by the
// event queue (timed wait) or by a pool's wait queue (resource wait), never
// both.
type Process interface {
	Resume(sim *Simulator) Suspension
}
