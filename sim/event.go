package sim

// Event is a unit of work dispatched by the simulator's event loop.
// Execute runs synchronously and may schedule further events; it must not
// block.
type Event interface {
	Execute(sim *Simulator)
}

// resumeEvent resumes a suspended process after a timed wait or a resource
// grant. Ownership of the process transfers from the event queue back to the
// driver loop at dispatch.
type resumeEvent struct {
	proc Process
}

func (e *resumeEvent) Execute(sim *Simulator) {
	sim.runProcess(e.proc)
}
