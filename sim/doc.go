// Package sim provides the discrete-event simulation kernel for the platelet
// pooling line.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - simulator.go: the virtual clock, the (time, insertion)-ordered event
//     heap, and the process driver loop
//   - process.go: the explicit resumable state machine that replaces
//     language-level coroutines
//   - resource.go: the capacity-limited FIFO pool in front of each device
//
// # Architecture
//
// One Simulator owns all mutable state for a run: the clock, the devices
// with their pools, the pipeline, and the metrics. Concurrency among batches
// and failure cycles is virtual, realized through event-time ordering on a
// single thread; dispatch is atomic, so no process observes a half-updated
// pool or batch. Determinism under a fixed seed comes from the insertion-seq
// tie-break in the event heap plus PartitionedRNG's per-subsystem streams.
//
// Routing is fixed topology: a Journey carries its batch through the twelve
// stages in order (stage.go), picking one physical unit per visit before the
// acquire, and ends early only at the quality-control gate.
//
// Sub-packages:
//   - sim/dist/: stochastic duration samplers
//   - sim/scenario/: the analytical what-if calculator (no event execution)
package sim
