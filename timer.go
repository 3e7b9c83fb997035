// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	"code.hybscloud.com/spin"
)

// sleepRecord is a pending Sleep: thread wakes once deadline <= Ticks().
// Unlike the original kernel's wake_up struct, which is never freed,
// this record becomes unreachable (and eligible for garbage collection)
// as soon as the tick handler unlinks it from the sleep queue — there
// is no separate free step because nothing else holds a reference.
type sleepRecord struct {
	thread   *Thread
	deadline int64
	seq      int64
}

func sleepRecordLess(a, b *sleepRecord) bool {
	if a.deadline != b.deadline {
		return a.deadline < b.deadline
	}
	return a.seq < b.seq
}

// Ticks returns the number of timer ticks since the kernel started.
// Lock-free: safe to call from any goroutine, including the tick
// handler itself, matching the original's timer_ticks being callable
// from within an interrupt handler.
func (k *Kernel) Ticks() int64 {
	return k.ticks.LoadAcquire()
}

// Sleep blocks the calling thread until at least n ticks have elapsed.
// Must be called from a thread's own goroutine.
func (k *Kernel) Sleep(n int64) {
	if n <= 0 {
		return
	}
	k.mu.Lock()
	k.nextSeq++
	rec := &sleepRecord{
		thread:   k.current,
		deadline: k.ticks.LoadAcquire() + n,
		seq:      k.nextSeq,
	}
	k.sleepQ.insert(rec)
	k.blockLocked()
	k.mu.Unlock()
}

// Msleep sleeps for at least the given number of milliseconds,
// Usleep microseconds, Nsleep nanoseconds. Durations of less than one
// tick busy-wait using the calibrated loop count rather than blocking,
// the same real_time_sleep/real_time_delay split the original timer
// implements.
func (k *Kernel) Msleep(ms int64) { k.realTimeSleep(ms, 1000) }
func (k *Kernel) Usleep(us int64) { k.realTimeSleep(us, 1000000) }
func (k *Kernel) Nsleep(ns int64) { k.realTimeSleep(ns, 1000000000) }

func (k *Kernel) realTimeSleep(num, denom int64) {
	ticksPerSec := int64(k.timerFreq)
	if ticks := num * ticksPerSec / denom; ticks > 0 {
		k.Sleep(ticks)
		return
	}
	k.busyWait(k.loopsPerTick() * num * ticksPerSec / denom)
}

func (k *Kernel) busyWait(loops int64) {
	var sw spin.Wait
	for i := int64(0); i < loops; i++ {
		sw.Once()
	}
}

// loopsPerTick returns the calibrated spin-loop count for one tick,
// calibrating on first use. See Calibrate for the algorithm.
func (k *Kernel) loopsPerTick() int64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.calibratedLoops == 0 {
		k.calibratedLoops = k.calibrateLocked()
	}
	return k.calibratedLoops
}

// Calibrate measures loopsPerTick explicitly; Build does not call this
// automatically (calibration runs one probe per doubling step and one
// per refined bit, each spinning for up to about one tick, so it costs
// several ticks of wall-clock time, which a caller may prefer to pay
// eagerly at startup instead of on the first sub-tick sleep). Safe to
// call multiple times; each call re-measures.
func (k *Kernel) Calibrate() int64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calibratedLoops = k.calibrateLocked()
	return k.calibratedLoops
}

// calibrateLocked requires k.mu held. Finds the largest loop count
// that completes within one tick by doubling until it overshoots, then
// trying each lower bit from the top down, mirroring the original timer's
// binary-refinement calibration in timer_calibrate.
func (k *Kernel) calibrateLocked() int64 {
	loops := int64(1 << 10)
	for !k.tooManyLoopsLocked(loops * 2) {
		loops *= 2
		if loops < 0 { // overflow guard; unreachable at realistic tick rates
			break
		}
	}
	highBit := loops
	for bit := highBit >> 1; bit > 0; bit >>= 1 {
		if !k.tooManyLoopsLocked(highBit | bit) {
			highBit |= bit
		}
	}
	return highBit
}

// tooManyLoopsLocked reports whether `loops` iterations of a spin wait
// take at least one tick. Deliberately runs the busy loop while k.mu is
// held: calibration runs only on the first sub-tick sleep or on an
// explicit Calibrate call, and other threads cannot be scheduled while
// it runs.
func (k *Kernel) tooManyLoopsLocked(loops int64) bool {
	start := k.ticks.LoadAcquire()
	var sw spin.Wait
	for i := int64(0); i < loops; i++ {
		sw.Once()
	}
	return k.ticks.LoadAcquire() != start
}

// tickLoop runs on its own goroutine for the lifetime of the Kernel,
// driving onTick at timerFreq Hz. It is the Go stand-in for the
// original's timer_interrupt, fired by the PIT/PIC hardware.
func (k *Kernel) tickLoop() {
	defer close(k.tickerDone)
	ticker := time.NewTicker(time.Second / time.Duration(k.timerFreq))
	defer ticker.Stop()
	for {
		select {
		case <-k.tickerStop:
			return
		case <-ticker.C:
			k.onTick()
		}
	}
}

// onTick is the tick handler: advances the tick counter, charges the
// running thread's stats bucket, runs MLFQ's per-tick/per-second
// bookkeeping, wakes due sleepers, and (at time-slice expiry) runs the
// preemption decision — in that order, matching 4.7.
func (k *Kernel) onTick() {
	tick := k.ticks.LoadAcquire() + 1
	k.ticks.StoreRelease(tick)

	k.mu.Lock()
	defer k.mu.Unlock()

	cur := k.current
	if cur == k.idle {
		k.stats.IdleTicks++
	} else {
		k.stats.KernelTicks++
	}

	if k.mlfqEnabled {
		if cur != k.idle {
			cur.recentCPU = cur.recentCPU.AddInt(1)
		}
		if tick%int64(k.timerFreq) == 0 {
			k.recomputeLoadAvgLocked()
			for _, t := range k.roster {
				k.recomputeRecentCPULocked(t)
			}
		}
	}

	for {
		rec, ok := k.sleepQ.peekFront()
		if !ok || rec.deadline > tick {
			break
		}
		k.sleepQ.popFront()
		k.unblockLocked(rec.thread)
	}

	cur.sliceTicks++
	if cur.sliceTicks >= TimeSlice {
		if k.mlfqEnabled {
			for _, t := range k.roster {
				k.recomputePriorityLocked(t)
			}
			k.readyQ.resort()
		}
		// If a hand-off initiated by some other thread is already in
		// flight, k.current has been provisionally advanced to the
		// incoming thread but that thread's goroutine has not actually
		// resumed yet. Triggering a second, nested schedule decision
		// against it here would race the in-flight hand-off's own
		// channel rendezvous. Skip this tick's preemption check; the
		// next tick re-evaluates once the hand-off has settled.
		if !k.switching {
			k.yieldIfHigherLocked()
		}
	}
}
