// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Lock is a non-recursive mutual-exclusion primitive that donates the
// effective priority of a blocked acquirer to the current holder,
// transitively along the waits-for chain, for as long as priority
// donation is in effect (it is disabled under MLFQ; see 4.8). The
// donation algorithm is grounded directly on the original kernel's
// fu_donate_priority / lock_acquire / lock_release (synch.c).
type Lock struct {
	k               *Kernel
	holder          *Thread
	donatedPriority int
	sem             *Semaphore
}

// NewLock creates an unheld Lock.
func NewLock(k *Kernel) *Lock {
	return &Lock{k: k, sem: NewSemaphore(k, 1)}
}

// Acquire blocks until the lock is free, donating the caller's
// effective priority to the current holder (and transitively further,
// if that holder is itself waiting on another lock) for the duration
// of the wait.
func (l *Lock) Acquire() {
	l.k.mu.Lock()
	cur := l.k.current
	assert(l.holder != cur, "lock is not recursive")
	if l.holder != nil && !l.k.mlfqEnabled {
		cur.waitingFor = l
		l.donateLocked(cur.EffectivePriority())
	}
	l.k.mu.Unlock()

	l.sem.Down()

	l.k.mu.Lock()
	l.holder = cur
	cur.waitingFor = nil
	cur.heldLocks = append(cur.heldLocks, l)
	if cur.basePriority > l.donatedPriority {
		l.donatedPriority = cur.basePriority
	}
	l.k.mu.Unlock()
}

// TryAcquire attempts to acquire the lock without blocking. No
// donation occurs, since no wait happened.
func (l *Lock) TryAcquire() bool {
	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	if !l.sem.tryDownLocked() {
		return false
	}
	cur := l.k.current
	l.holder = cur
	cur.heldLocks = append(cur.heldLocks, l)
	if cur.basePriority > l.donatedPriority {
		l.donatedPriority = cur.basePriority
	}
	return true
}

// Release gives up the lock. Any thread parked in Acquire is woken in
// priority order by the underlying semaphore; the preemption decision
// then runs against the (now lower) effective priority of the releaser.
func (l *Lock) Release() {
	l.k.mu.Lock()
	cur := l.k.current
	assert(l.holder == cur, "release of a lock not held by the caller")
	idx := -1
	for i, hl := range cur.heldLocks {
		if hl == l {
			idx = i
			break
		}
	}
	assert(idx >= 0, "lock missing from holder's held-lock list")
	cur.heldLocks = append(cur.heldLocks[:idx], cur.heldLocks[idx+1:]...)
	l.holder = nil
	l.donatedPriority = 0
	l.k.mu.Unlock()

	l.sem.Up()
}

// HeldByCurrent reports whether the calling thread holds this lock.
func (l *Lock) HeldByCurrent() bool {
	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	return l.holder == l.k.current
}

// donateLocked requires k.mu held. Raises the lock's donated priority
// to at least p and, if the lock is currently held, recurses along the
// holder's own waitingFor chain so donation threads transitively
// through nested lock dependencies (4.5, invariant 2).
func (l *Lock) donateLocked(p int) {
	if p <= l.donatedPriority {
		return
	}
	l.donatedPriority = p
	h := l.holder
	if h == nil {
		return
	}
	if wf := h.waitingFor; wf != nil {
		wf.donateLocked(h.EffectivePriority())
	}
}
