// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// KernelError reports a programming error: a violated invariant that,
// in the original kernel, would have been an ASSERT() backed by a
// kernel panic. It is always a bug in the caller — reacquiring a
// non-recursive lock, releasing a lock you do not hold, waiting on a
// condition variable without holding its lock, an out-of-range
// priority or nice value — never a runtime condition to recover from.
type KernelError struct {
	Msg string
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("sched: %s", e.Msg)
}

// ErrTooManyThreads is returned by Create when the kernel's configured
// thread ceiling (WithMaxThreads) would be exceeded. Unlike KernelError,
// this is a resource-exhaustion condition a caller may reasonably
// handle (retry later, shed load), the Go realization of the original's
// "no stack page available" allocation failure — so it is returned as
// a plain error rather than raised via assert.
var ErrTooManyThreads = errors.New("sched: thread limit reached")

// ErrWouldBlock is returned by Semaphore.TryDown when the operation
// cannot complete without blocking (Lock.TryAcquire returns false
// instead). It is an alias for
// [iox.ErrWouldBlock], the same sentinel the pack's lock-free queue
// package returns for a full/empty queue, kept for classification
// consistency across the ecosystem.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates a non-blocking call would
// have had to block. Delegates to [iox.IsWouldBlock].
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
