// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched implements the thread and synchronization core of a
// small instructional multitasking kernel: a preemptive scheduler,
// priority donation across locks, Mesa-style condition variables, a
// tickless sleep queue, and an MLFQ scheduling policy — expressed as a
// Go library in which a kernel thread is a goroutine cooperating with
// a single scheduler mutex standing in for "interrupts disabled".
//
// # Quick Start
//
//	k := sched.New().Build()
//	defer k.Shutdown()
//
//	lock := sched.NewLock(k)
//	tid, err := k.Create("worker", sched.PriDefault, func(arg any) {
//	    lock.Acquire()
//	    defer lock.Release()
//	    // critical section
//	}, nil)
//
// # Basic Usage
//
// Threads are created with Kernel.Create, which returns as soon as the
// new thread is on the ready queue (yielding first if the new thread
// now outranks the caller):
//
//	k.Create("producer", sched.PriDefault, produce, nil)
//	k.Create("consumer", sched.PriDefault, consume, nil)
//
// Semaphores, locks, and condition variables are constructed against a
// specific Kernel and shared by reference between threads:
//
//	sem := sched.NewSemaphore(k, 0)
//	go_producer_side: sem.Up()
//	go_consumer_side: sem.Down()
//
// # Priority Donation
//
// Lock.Acquire donates the calling thread's effective priority to the
// current holder, transitively across nested lock dependencies, for as
// long as the caller waits — resolved the instant the lock is released:
//
//	// low holds lock; high blocks on Acquire; low's effective
//	// priority rises to high's for the duration of the donation.
//	lock.Acquire()   // low, first
//	...
//	lock.Acquire()   // high, blocks; donates to low
//	...
//	lock.Release()   // low; high (highest priority waiter) is woken
//
// Donation does not apply under MLFQ (Builder.WithMLFQS): MLFQ's
// computed priority is the sole scheduling key.
//
// # Condition Variables
//
// Cond follows Mesa semantics: Signal wakes a waiter but does not
// guarantee the condition still holds by the time it runs, so callers
// must always re-check in a loop:
//
//	lock.Acquire()
//	for !ready {
//	    cond.Wait(lock)
//	}
//	lock.Release()
//
// # Timer and Sleep
//
// Kernel.Sleep blocks the calling thread for at least n ticks, ordered
// by the tick-counting timer driven internally by a periodic source.
// Kernel.Ticks reads the tick counter lock-free and is safe to call
// from any goroutine:
//
//	k.Sleep(10) // block for at least 10 ticks
//
// # MLFQ
//
// WithMLFQS replaces base priority with a periodically recomputed
// priority derived from recent_cpu and load_avg (4.8):
//
//	k := sched.New().WithMLFQS().WithTimerFreq(100).Build()
//	k.SetNice(10) // lower scheduling priority
//
// # Error Handling
//
// Two error shapes: *KernelError panics indicate a programming error
// (reacquiring a non-recursive lock, waiting on a condition variable
// without holding its lock), never a runtime condition to recover
// from. ErrTooManyThreads is a plain, retryable error returned by
// Create when the configured thread ceiling is reached:
//
//	if _, err := k.Create(name, pri, fn, nil); err != nil {
//	    if errors.Is(err, sched.ErrTooManyThreads) {
//	        // shed load, retry later
//	    }
//	}
//
// Semaphore.TryDown returns [ErrWouldBlock] (sourced from
// [code.hybscloud.com/iox] for ecosystem consistency) rather than
// blocking; Lock.TryAcquire reports the same outcome by returning false.
//
// # Diagnostics
//
// A Kernel logs thread lifecycle events (creation, capacity refusal,
// panics, exit) through an injectable structured logger
// (github.com/joeycumines/logiface fronting github.com/joeycumines/stumpy);
// Builder.WithLogger overrides the default discarding logger.
//
// # Concurrency Model
//
// A Kernel is a single scheduling domain: exactly one thread is
// Running at any instant, matching the original's uniprocessor,
// interrupt-masking model. Suspension points (Semaphore.Down,
// Lock.Acquire, Cond.Wait, Kernel.Sleep, Kernel.Yield) must run on a
// thread's own goroutine; Semaphore.Up, Kernel.Ticks, and the internal
// tick handler are safe to call from any goroutine.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the lock-free tick
// counter, [code.hybscloud.com/iox] for semantic would-block errors,
// [code.hybscloud.com/spin] for calibrated busy-wait loops below one
// tick, and [github.com/joeycumines/logiface]/[github.com/joeycumines/stumpy]
// for structured diagnostics.
package sched
