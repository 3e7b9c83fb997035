// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Priority bounds, matching the distilled kernel's PRI_MIN/PRI_DEFAULT/PRI_MAX.
const (
	PriMin     = 0
	PriDefault = 31
	PriMax     = 63

	NiceMin     = -20
	NiceDefault = 0
	NiceMax     = 20

	// TimeSlice is the number of ticks a running thread is allowed
	// before the preemption decision is re-run.
	TimeSlice = 4
)

// State is a thread's position in the scheduler's state machine.
type State int

const (
	StateBlocked State = iota
	StateReady
	StateRunning
	StateDying
)

func (s State) String() string {
	switch s {
	case StateBlocked:
		return "blocked"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateDying:
		return "dying"
	default:
		return "unknown"
	}
}

// Thread is a kernel thread's control block. A Thread's user code runs
// on its own goroutine, cooperating with the owning Kernel's scheduler
// through resume: a thread's goroutine only ever executes while holding
// the CPU permit, handed over by a send on resume and surrendered by a
// receive on it.
type Thread struct {
	kernel *Kernel
	tid    int64
	name   string
	seq    int64 // monotonic creation sequence number

	state State

	basePriority int
	nice         int
	recentCPU    fixedPoint
	mlfqPriority int

	heldLocks  []*Lock
	waitingFor *Lock

	sliceTicks int

	resume chan struct{}
}

// Tid returns the thread's identifier, stable for its lifetime.
func (t *Thread) Tid() int64 { return t.tid }

// Name returns the thread's human-readable name.
func (t *Thread) Name() string { return t.name }

// State returns the thread's current scheduler state. Callers that need
// a consistent snapshot should read it while holding no assumption
// about ordering with respect to concurrent scheduling decisions; it is
// intended for diagnostics, not control flow.
func (t *Thread) State() State { return t.state }

// BasePriority returns the thread's own priority, ignoring any donation
// and ignoring the MLFQ-computed priority when MLFQ is enabled.
func (t *Thread) BasePriority() int { return t.basePriority }

// priorityKey returns the priority this thread competes on: the MLFQ
// advanced priority when the owning kernel runs MLFQ, else the thread's
// own base priority.
func (t *Thread) priorityKey() int {
	if t.kernel.mlfqEnabled {
		return t.mlfqPriority
	}
	return t.basePriority
}

// EffectivePriority is max(priorityKey, donated priority of every lock
// currently held). Priority donation is disabled under MLFQ (4.8).
func (t *Thread) EffectivePriority() int {
	p := t.priorityKey()
	if t.kernel.mlfqEnabled {
		return p
	}
	for _, l := range t.heldLocks {
		if l.donatedPriority > p {
			p = l.donatedPriority
		}
	}
	return p
}

// Nice returns the thread's MLFQ niceness.
func (t *Thread) Nice() int { return t.nice }
