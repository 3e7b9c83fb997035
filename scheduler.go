// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"runtime"
)

// Create allocates a new thread, spawns its backing goroutine (blocked
// until the scheduler hands it the CPU for the first time), places it
// on the ready queue, and — if its effective priority exceeds the
// caller's — yields before returning, matching 4.2/4.3's preemption
// contract for newly created threads.
func (k *Kernel) Create(name string, priority int, fn func(arg any), arg any) (int64, error) {
	assert(priority >= PriMin && priority <= PriMax, "invalid priority")

	k.mu.Lock()
	if k.threadCount >= k.maxThreads {
		k.mu.Unlock()
		k.logger.Warning().Str("name", name).Log("thread creation refused: at capacity")
		return 0, ErrTooManyThreads
	}
	t := k.newThreadLocked(name, priority)
	k.roster[t.tid] = t
	k.threadCount++
	k.mu.Unlock()

	go func() {
		<-t.resume
		defer func() {
			if r := recover(); r != nil {
				k.logger.Err().Any("panic", r).Str("name", t.name).Log("thread panicked")
			}
			k.Exit()
		}()
		fn(arg)
	}()

	k.mu.Lock()
	k.unblockLocked(t)
	k.yieldIfHigherLocked()
	k.mu.Unlock()

	k.logger.Debug().Int64("tid", t.tid).Str("name", name).Log("thread created")
	return t.tid, nil
}

// Current returns the thread running on the caller's goroutine.
//
// Go has no native thread-local storage; this package uses the
// scheduler mutex itself as the correlation point instead of a
// goroutine-local lookup: Current is only ever meaningful when called
// from a thread's own goroutine, and every such goroutine is, by
// construction, the one most recently handed the CPU permit, i.e.
// k.current at any instant it is not itself inside a schedule() call.
func (k *Kernel) Current() *Thread {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current
}

// Foreach calls fn once for every thread on the roster, including the
// idle thread. Must not call back into a blocking primitive.
func (k *Kernel) Foreach(fn func(*Thread)) {
	k.mu.Lock()
	threads := make([]*Thread, 0, len(k.roster))
	for _, t := range k.roster {
		threads = append(threads, t)
	}
	k.mu.Unlock()
	for _, t := range threads {
		fn(t)
	}
}

// Exit marks the calling thread Dying and transfers the CPU to the
// next runnable thread. It never returns to its caller: the calling
// goroutine is terminated via runtime.Goexit once the hand-off to its
// successor has been made under the scheduler mutex, mirroring the
// original's contract that thread_exit "does not return".
func (k *Kernel) Exit() {
	k.mu.Lock()
	cur := k.current
	assert(len(cur.heldLocks) == 0, "thread exiting while still holding locks")
	cur.state = StateDying
	k.logger.Debug().Int64("tid", cur.tid).Str("name", cur.name).Log("thread exiting")
	k.scheduleLocked()
	k.mu.Unlock()
	runtime.Goexit()
}

// Yield voluntarily surrenders the CPU, making the calling thread Ready
// and letting the scheduler pick whichever thread now has the highest
// effective priority (which may be the caller itself).
func (k *Kernel) Yield() {
	k.mu.Lock()
	k.yieldLocked()
	k.mu.Unlock()
}

// SetPriority changes the calling thread's base priority. Under MLFQ
// this is a programming error (4.8: MLFQ's computed priority is the
// sole key). May cause the caller to yield if the change drops it
// below the ready queue's head.
func (k *Kernel) SetPriority(priority int) {
	assert(priority >= PriMin && priority <= PriMax, "invalid priority")
	k.mu.Lock()
	assert(!k.mlfqEnabled, "SetPriority is invalid while MLFQS is enabled")
	k.current.basePriority = priority
	k.yieldIfHigherLocked()
	k.mu.Unlock()
}

// GetPriority returns the calling thread's effective priority.
func (k *Kernel) GetPriority() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current.EffectivePriority()
}

// SetNice sets the calling thread's MLFQ niceness, immediately
// recomputes its priority, and yields if that drops it below the ready
// queue's head.
func (k *Kernel) SetNice(nice int) {
	assert(nice >= NiceMin && nice <= NiceMax, "invalid nice value")
	k.mu.Lock()
	k.current.nice = nice
	k.recomputePriorityLocked(k.current)
	k.yieldIfHigherLocked()
	k.mu.Unlock()
}

// GetNice returns the calling thread's niceness.
func (k *Kernel) GetNice() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current.nice
}

// GetLoadAvg returns the system load average, scaled by 100 and
// rounded to the nearest integer (the conventional MLFQ reporting
// convention, carried over unchanged from the distilled spec).
func (k *Kernel) GetLoadAvg() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.loadAvg.MulInt(100).Round()
}

// GetRecentCPU returns the calling thread's recent_cpu, scaled by 100
// and rounded to the nearest integer.
func (k *Kernel) GetRecentCPU() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current.recentCPU.MulInt(100).Round()
}

// idleLoop is the idle thread's body: it is handed the CPU whenever the
// ready queue is empty, and immediately parks on idleCond — the Go
// stand-in for "enable interrupts, halt" — until woken by Unblock or a
// sleeper wake-up, at which point it yields so the scheduler can
// reconsider nextToRun.
func (k *Kernel) idleLoop(self *Thread) {
	<-self.resume
	k.mu.Lock()
	for {
		for k.readyQ.len() == 0 {
			k.idleCond.Wait()
		}
		k.yieldLocked()
	}
}

// yieldLocked requires mu held. See Yield.
func (k *Kernel) yieldLocked() {
	cur := k.current
	cur.state = StateReady
	if cur != k.idle {
		k.readyQ.insert(cur)
	}
	k.scheduleLocked()
}

// blockLocked requires mu held. Marks the current thread Blocked and
// schedules; callers (Semaphore.Down, which Lock.Acquire and Cond.Wait
// block through, and Kernel.Sleep) are responsible for having already recorded wherever
// this thread needs to be found again (a waiter list or the sleep
// queue) before calling this.
func (k *Kernel) blockLocked() {
	k.current.state = StateBlocked
	k.scheduleLocked()
}

// unblockLocked requires mu held and t.state == StateBlocked. Moves t
// to the ready queue; does not itself preempt the caller.
func (k *Kernel) unblockLocked(t *Thread) {
	assert(t.state == StateBlocked, "unblock of a thread that is not blocked")
	t.state = StateReady
	k.readyQ.insert(t)
	k.idleCond.Broadcast()
}

// yieldIfHigherLocked requires mu held. Runs the preemption decision:
// if the ready queue's head now strictly outranks the current thread,
// yield.
func (k *Kernel) yieldIfHigherLocked() {
	top, ok := k.readyQ.peekFront()
	if ok && top.EffectivePriority() > k.current.EffectivePriority() {
		k.yieldLocked()
	}
}

// nextToRunLocked requires mu held. Pops the ready queue's head, or
// returns the idle thread if it is empty.
func (k *Kernel) nextToRunLocked() *Thread {
	if t, ok := k.readyQ.popFront(); ok {
		return t
	}
	return k.idle
}

// scheduleLocked requires mu held and current.state already changed
// away from Running. Performs the context switch: if the chosen
// successor is the same thread already running (the idle thread
// rescheduling itself when the ready queue is empty, or a lone thread
// yielding to itself), it is a no-op state flip with no channel
// traffic. Otherwise, the tail work — marking the incoming thread
// Running, resetting its time-slice counter, and unlinking a Dying
// predecessor from the roster — runs here, on the outgoing thread's own
// goroutine, while mu is still held; only then is mu released and the
// CPU permit hand-off performed over the two threads' resume channels.
func (k *Kernel) scheduleLocked() {
	prev := k.current
	next := k.nextToRunLocked()
	if next == prev {
		prev.state = StateRunning
		return
	}

	dyingPrev := prev.state == StateDying
	next.state = StateRunning
	next.sliceTicks = 0
	k.current = next
	if dyingPrev {
		delete(k.roster, prev.tid)
		k.threadCount--
	}

	nextResume := next.resume
	prevResume := prev.resume
	k.switching = true
	k.mu.Unlock()
	nextResume <- struct{}{}
	if !dyingPrev {
		<-prevResume
	}
	k.mu.Lock()
	k.switching = false
}

func assert(cond bool, msg string) {
	if !cond {
		panic(&KernelError{Msg: msg})
	}
}
