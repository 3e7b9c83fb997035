// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command schedsim boots a sched.Kernel, runs a small priority-donation
// scenario to completion, and prints the resulting tick stats. It exists
// to demonstrate wiring a boot-time flag to a Builder call; it is not
// itself part of the library, so it reaches for the standard flag
// package rather than pulling a CLI-parsing dependency into core.
package main

import (
	"flag"
	"fmt"
	"time"

	"code.hybscloud.com/sched"
)

func main() {
	mlfqs := flag.Bool("mlfqs", false, "enable the multi-level feedback queue scheduler")
	timerHz := flag.Int("timer-hz", 100, "timer tick rate in Hz, [19,1000]")
	flag.Parse()

	b := sched.New().WithTimerFreq(*timerHz)
	if *mlfqs {
		b = b.WithMLFQS()
	}
	k := b.Build()
	defer k.Shutdown()

	lock := sched.NewLock(k)
	done := make(chan struct{})

	lock.Acquire()
	fmt.Println("low-priority thread acquired the lock")

	k.Create("high", sched.PriDefault+10, func(any) {
		fmt.Println("high-priority thread blocking on the lock")
		lock.Acquire()
		fmt.Println("high-priority thread acquired the lock")
		lock.Release()
		close(done)
	}, nil)

	time.Sleep(50 * time.Millisecond)
	fmt.Printf("low-priority thread effective priority while donated to: %d\n", k.GetPriority())
	lock.Release()

	<-done
	fmt.Printf("final stats: %+v\n", k.Stats())
}
