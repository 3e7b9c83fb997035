// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Cond is a Mesa-style condition variable: Signal only wakes a waiter,
// it does not guarantee that waiter runs immediately, or that the
// condition still holds by the time it does. Every Wait call site must
// re-test its predicate in a loop.
type Cond struct {
	k       *Kernel
	waiters *orderedList[*condWaiter]
}

// condWaiter is a private per-call waiter record, the Go analogue of
// the original's stack-local semaphore_elem: each Wait call creates its
// own record and the Cond's waiter list holds a pointer to it until a
// Signal or Broadcast removes it.
type condWaiter struct {
	thread *Thread
	sem    *Semaphore
}

// NewCond creates an empty condition variable.
func NewCond(k *Kernel) *Cond {
	return &Cond{
		k:       k,
		waiters: newOrderedList((*condWaiter).less),
	}
}

func (w *condWaiter) less(other *condWaiter) bool {
	return threadLess(w.thread, other.thread)
}

// Wait releases lock, blocks until signaled, then reacquires lock
// before returning. The caller must hold lock and must re-check its
// condition after Wait returns (Mesa semantics: a Signal wakes the
// waiter without re-verifying the predicate on its behalf).
func (c *Cond) Wait(lock *Lock) {
	assert(lock.HeldByCurrent(), "Cond.Wait called without holding lock")

	c.k.mu.Lock()
	w := &condWaiter{thread: c.k.current, sem: NewSemaphore(c.k, 0)}
	c.waiters.insert(w)
	c.k.mu.Unlock()

	lock.Release()
	w.sem.Down()
	lock.Acquire()
}

// Signal wakes the waiter with the highest effective priority, if any.
// The caller must hold lock.
func (c *Cond) Signal(lock *Lock) {
	assert(lock.HeldByCurrent(), "Cond.Signal called without holding lock")
	c.k.mu.Lock()
	w, ok := c.waiters.popArgmax(func(w *condWaiter) int { return w.thread.EffectivePriority() })
	c.k.mu.Unlock()
	if ok {
		w.sem.Up()
	}
}

// Broadcast wakes every current waiter. The caller must hold lock.
func (c *Cond) Broadcast(lock *Lock) {
	assert(lock.HeldByCurrent(), "Cond.Broadcast called without holding lock")
	for {
		c.k.mu.Lock()
		w, ok := c.waiters.popArgmax(func(w *condWaiter) int { return w.thread.EffectivePriority() })
		c.k.mu.Unlock()
		if !ok {
			return
		}
		w.sem.Up()
	}
}
