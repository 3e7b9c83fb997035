// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package sched

// RaceEnabled is true when the race detector is active.
// Used by tests to relax real-time assertions (the race detector's
// instrumentation slows goroutine scheduling enough that tick-count-based
// timing expectations need wider tolerances).
const RaceEnabled = true
