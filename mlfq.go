// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/sched/fixedpoint"

var (
	fp59Over60 = fixedpoint.FromInt(59).Div(fixedpoint.FromInt(60))
	fp1Over60  = fixedpoint.FromInt(1).Div(fixedpoint.FromInt(60))
)

// recomputeLoadAvgLocked requires k.mu held. load_avg decays over a
// one-second window: loadAvg = 59/60*loadAvg + 1/60*readyCount, where
// readyCount is the number of Ready threads plus one if the running
// thread is not idle (4.8).
func (k *Kernel) recomputeLoadAvgLocked() {
	readyCount := k.readyQ.len()
	if k.current != k.idle {
		readyCount++
	}
	k.loadAvg = fp59Over60.Mul(k.loadAvg).Add(fp1Over60.MulInt(readyCount))
}

// recomputeRecentCPULocked requires k.mu held. recent_cpu decays
// toward nice once a second: recentCPU = (2*loadAvg)/(2*loadAvg+1) *
// recentCPU + nice.
func (k *Kernel) recomputeRecentCPULocked(t *Thread) {
	twoLoadAvg := k.loadAvg.MulInt(2)
	coeff := twoLoadAvg.Div(twoLoadAvg.AddInt(1))
	t.recentCPU = coeff.Mul(t.recentCPU).AddInt(t.nice)
}

// recomputePriorityLocked requires k.mu held. priority = PriMax -
// (recent_cpu/4) - (nice*2), floored (rounded toward negative infinity,
// not truncated toward zero) and then clamped to [PriMin, PriMax] (4.8).
func (k *Kernel) recomputePriorityLocked(t *Thread) {
	p := fixedpoint.FromInt(PriMax).Sub(t.recentCPU.DivInt(4)).SubInt(t.nice * 2).Floor()
	switch {
	case p < PriMin:
		p = PriMin
	case p > PriMax:
		p = PriMax
	}
	t.mlfqPriority = p
}
