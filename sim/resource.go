// Implements the ResourcePool, the capacity-limited gate in front of one
// physical device unit. Waiters are granted slots in strict FIFO order.

package sim

import "fmt"

// ResourcePool models 1..N identical slots shared by suspended processes.
// Capacity 1 degenerates to a mutex. The pipeline creates one pool per
// physical unit, so queue lengths reflect per-unit contention. Holders are
// tracked by identity: a process re-acquiring a slot it already holds is a
// programming error, not a queueable request.
type ResourcePool struct {
	capacity int
	holders  map[Process]struct{}
	waiters  []Process

	// blockDuringRepair, when set, stops grants while the owning device is
	// marked under repair. The reference behavior is false: repair state is
	// observational only.
	blockDuringRepair bool
	underRepair       bool
}

// NewResourcePool creates a pool with the given slot count.
func NewResourcePool(capacity int) *ResourcePool {
	if capacity < 1 {
		panic(fmt.Sprintf("NewResourcePool: capacity must be >= 1, got %d", capacity))
	}
	return &ResourcePool{
		capacity: capacity,
		holders:  make(map[Process]struct{}),
	}
}

// Capacity returns the pool's slot count.
func (rp *ResourcePool) Capacity() int { return rp.capacity }

// Held returns the number of slots currently granted.
func (rp *ResourcePool) Held() int { return len(rp.holders) }

// QueueLen returns the number of processes waiting for a slot.
func (rp *ResourcePool) QueueLen() int { return len(rp.waiters) }

// grantable reports whether a slot can be handed out right now.
func (rp *ResourcePool) grantable() bool {
	if rp.blockDuringRepair && rp.underRepair {
		return false
	}
	return len(rp.holders) < rp.capacity
}

// Acquire grants p a slot immediately and returns true, or appends p to the
// tail of the wait queue and returns false. A queued process is owned by the
// pool until Release hands it a slot. Acquiring while already holding a slot
// panics; queueing behind oneself can never be granted.
func (rp *ResourcePool) Acquire(p Process) bool {
	if _, held := rp.holders[p]; held {
		panic(fmt.Sprintf("Acquire: process %T already holds a slot", p))
	}
	if rp.grantable() && len(rp.waiters) == 0 {
		rp.holders[p] = struct{}{}
		return true
	}
	rp.waiters = append(rp.waiters, p)
	return false
}

// Release returns p's slot to the pool and, if a process is waiting, grants
// the head of the queue and schedules its resumption at the current instant.
// The grant happens here, not in the resumed process, so the held count never
// dips in a way another same-instant process could observe. Releasing a slot
// p does not hold panics.
func (rp *ResourcePool) Release(sim *Simulator, p Process) {
	if _, held := rp.holders[p]; !held {
		panic(fmt.Sprintf("Release: process %T holds no slot", p))
	}
	delete(rp.holders, p)
	rp.grantNext(sim)
}

// grantNext pops the head waiter if a slot is available.
func (rp *ResourcePool) grantNext(sim *Simulator) {
	if len(rp.waiters) == 0 || !rp.grantable() {
		return
	}
	next := rp.waiters[0]
	rp.waiters = rp.waiters[1:]
	rp.holders[next] = struct{}{}
	sim.Schedule(0, &resumeEvent{proc: next})
}

// setUnderRepair flips the repair flag. When repair ends on a blocking pool,
// any free slots are handed to queued waiters FIFO.
func (rp *ResourcePool) setUnderRepair(sim *Simulator, down bool) {
	rp.underRepair = down
	if down || !rp.blockDuringRepair {
		return
	}
	for len(rp.waiters) > 0 && rp.grantable() {
		rp.grantNext(sim)
	}
}
