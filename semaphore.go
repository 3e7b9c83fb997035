// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Semaphore is a counting semaphore whose waiters are woken in order
// of effective priority, not arrival order (4.4). A Semaphore is only
// ever used together with the Kernel it was created from.
type Semaphore struct {
	k       *Kernel
	value   int
	waiters *orderedList[*Thread]
}

// NewSemaphore creates a Semaphore with the given initial value.
func NewSemaphore(k *Kernel, value int) *Semaphore {
	assert(value >= 0, "semaphore initial value must be non-negative")
	return &Semaphore{
		k:       k,
		value:   value,
		waiters: newOrderedList(threadLess),
	}
}

// Down decrements the semaphore, blocking the calling thread (on this
// semaphore's waiter queue) while the value is zero. Must be called
// from a thread's own goroutine, never from the tick handler.
func (s *Semaphore) Down() {
	s.k.mu.Lock()
	for s.value == 0 {
		cur := s.k.current
		s.waiters.insert(cur)
		s.k.blockLocked()
	}
	s.value--
	s.k.mu.Unlock()
}

// TryDown attempts to decrement the semaphore without blocking. Safe
// to call from any goroutine, including the tick handler.
func (s *Semaphore) TryDown() error {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	if !s.tryDownLocked() {
		return ErrWouldBlock
	}
	return nil
}

// tryDownLocked requires k.mu held. Used directly by Lock.TryAcquire,
// which already holds the scheduler mutex and cannot re-enter TryDown
// without deadlocking on the non-reentrant mutex.
func (s *Semaphore) tryDownLocked() bool {
	if s.value == 0 {
		return false
	}
	s.value--
	return true
}

// Up increments the semaphore. If a waiter is present, the one with
// the currently highest effective priority is woken — selected by
// scanning rather than trusting insertion order, since a waiter's
// priority can have risen (donation) since it was inserted — and the
// preemption decision runs so a just-woken higher-priority thread can
// preempt the caller immediately.
func (s *Semaphore) Up() {
	s.k.mu.Lock()
	if t, ok := s.waiters.popArgmax((*Thread).EffectivePriority); ok {
		s.k.unblockLocked(t)
	}
	s.value++
	s.k.yieldIfHigherLocked()
	s.k.mu.Unlock()
}

// Value returns the current semaphore value. Intended for diagnostics;
// the value can change the instant after this returns.
func (s *Semaphore) Value() int {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	return s.value
}
