// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Options holds Kernel boot configuration, assembled by a Builder's
// chained With* calls.
type Options struct {
	mlfqEnabled bool
	timerFreq   int
	maxThreads  int
	logger      *logiface.Logger[*stumpy.Event]
}

// Builder configures and constructs a Kernel with fluent chaining, the
// same shape as the pack's own queue Builder (options.go): New returns
// a Builder pre-loaded with defaults, each With* call mutates it and
// returns it for further chaining, and a terminal Build call produces
// the configured product.
//
// Example:
//
//	k := sched.New().WithMLFQS().WithTimerFreq(1000).Build()
type Builder struct {
	opts Options
}

// New creates a kernel Builder with default configuration: priority
// donation (not MLFQ), a 100Hz timer, a 4096-thread ceiling, and a
// discarding logger.
func New() *Builder {
	return &Builder{opts: Options{
		timerFreq:  100,
		maxThreads: 4096,
		logger:     newDefaultLogger(),
	}}
}

// WithMLFQS enables the multi-level feedback queue scheduler (4.8) in
// place of priority donation. Mutually exclusive in effect with
// donation: Lock.Acquire skips donation entirely once this is set, as
// MLFQ's computed priority is the sole scheduling key (External
// Interfaces, distilled spec).
func (b *Builder) WithMLFQS() *Builder {
	b.opts.mlfqEnabled = true
	return b
}

// WithTimerFreq sets the tick rate in Hz. Must be in [19, 1000]; it
// panics outside that range (mirroring TIMER_FREQ's documented bounds
// in the original timer.h).
func (b *Builder) WithTimerFreq(hz int) *Builder {
	assert(hz >= 19 && hz <= 1000, "timer frequency out of range [19, 1000]")
	b.opts.timerFreq = hz
	return b
}

// WithMaxThreads bounds the number of simultaneously live threads
// (including the initial and idle threads). Create returns
// ErrTooManyThreads once this ceiling is reached.
func (b *Builder) WithMaxThreads(n int) *Builder {
	assert(n >= 2, "maxThreads must allow at least the initial and idle threads")
	b.opts.maxThreads = n
	return b
}

// WithLogger overrides the default (discarding) diagnostic logger.
func (b *Builder) WithLogger(l *logiface.Logger[*stumpy.Event]) *Builder {
	b.opts.logger = l
	return b
}

// Build constructs the Kernel from the Builder's configured Options,
// registers the calling goroutine as the kernel's initial thread (the
// analogue of Pintos's statically allocated `initial_thread`, which
// thread_init repurposes from whatever stack the loader handed it),
// starts the idle thread, and starts the periodic tick source. The
// calling goroutine becomes the Running thread and may immediately use
// the Kernel's blocking primitives.
func (b *Builder) Build() *Kernel {
	o := b.opts
	k := &Kernel{
		mlfqEnabled: o.mlfqEnabled,
		timerFreq:   o.timerFreq,
		maxThreads:  o.maxThreads,
		logger:      o.logger,
		roster:      make(map[int64]*Thread),
	}
	k.readyQ = newOrderedList(threadLess)
	k.sleepQ = newOrderedList(sleepRecordLess)
	k.idleCond = sync.NewCond(&k.mu)

	initial := k.newThreadLocked("main", PriDefault)
	initial.state = StateRunning
	k.roster[initial.tid] = initial
	k.threadCount++
	k.current = initial

	idle := k.newThreadLocked("idle", PriMin)
	idle.state = StateBlocked
	k.roster[idle.tid] = idle
	k.threadCount++
	k.idle = idle

	go k.idleLoop(idle)

	k.tickerStop = make(chan struct{})
	k.tickerDone = make(chan struct{})
	go k.tickLoop()

	k.logger.Info().Str("name", initial.name).Log("kernel started")
	return k
}
