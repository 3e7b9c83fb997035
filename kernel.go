// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"sync"

	"code.hybscloud.com/sched/fixedpoint"

	"code.hybscloud.com/atomix"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// fixedPoint is the 17.14 fixed-point representation MLFQ computes
// load_avg and recent_cpu in.
type fixedPoint = fixedpoint.Value

// Stats reports cumulative per-bucket tick counts, the Go-realization
// analogue of the original kernel's thread_print_stats output (minus
// the user-mode bucket: this library has no user/kernel boundary).
type Stats struct {
	IdleTicks   int64
	KernelTicks int64
}

// Kernel is a single uniprocessor scheduling domain: one ready queue,
// one sleep queue, one current thread, guarded by a single mutex that
// stands in for the original's "interrupts disabled" discipline. The
// internal *Locked helpers require mu to already be held by the caller
// (mirroring the original's own precondition comments); exported
// methods take mu themselves.
type Kernel struct {
	mu sync.Mutex

	mlfqEnabled bool
	timerFreq   int
	maxThreads  int
	logger      *logiface.Logger[*stumpy.Event]

	roster      map[int64]*Thread
	threadCount int
	nextTid     int64
	nextSeq     int64

	readyQ *orderedList[*Thread]
	sleepQ *orderedList[*sleepRecord]

	idle    *Thread
	current *Thread

	// switching is true for the span between scheduleLocked releasing
	// mu to perform the channel hand-off and re-acquiring it once the
	// outgoing thread has parked. The tick handler consults it to skip
	// its own preemption decision while a hand-off is already in
	// flight — the Go analogue of the original timer interrupt
	// deferring thread_yield() until interrupt return (intr_yield_on_return)
	// rather than calling it from interrupt context.
	switching bool

	idleCond *sync.Cond

	ticks           atomix.Int64
	loadAvg         fixedPoint
	calibratedLoops int64

	stats Stats

	tickerStop chan struct{}
	tickerDone chan struct{}
}

// Stats returns a snapshot of cumulative per-bucket tick counts.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.stats
}

// Shutdown stops the periodic tick source. It does not tear down any
// live thread goroutines; callers are expected to have driven every
// created thread to Exit first.
func (k *Kernel) Shutdown() {
	close(k.tickerStop)
	<-k.tickerDone
}

func (k *Kernel) newThreadLocked(name string, priority int) *Thread {
	k.nextTid++
	k.nextSeq++
	return &Thread{
		kernel:       k,
		tid:          k.nextTid,
		name:         name,
		seq:          k.nextSeq,
		state:        StateBlocked,
		basePriority: priority,
		mlfqPriority: priority,
		nice:         NiceDefault,
		resume:       make(chan struct{}),
	}
}

// threadLess orders the ready queue by descending effective priority.
// Equal-priority threads compare equal, so orderedList.insert places a
// newcomer after them and ties keep insertion order.
func threadLess(a, b *Thread) bool {
	return a.EffectivePriority() > b.EffectivePriority()
}
