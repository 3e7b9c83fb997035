package sched_test

import (
	"testing"
	"time"

	"code.hybscloud.com/sched"
)

func TestMLFQNiceLowersPriority(t *testing.T) {
	k := sched.New().WithMLFQS().WithTimerFreq(200).Build()
	defer k.Shutdown()

	results := make(chan [2]int, 1)

	k.Create("t", sched.PriDefault, func(any) {
		before := k.GetPriority()
		k.SetNice(sched.NiceMax)
		// let the recompute window pass
		k.Sleep(1)
		after := k.GetPriority()
		results <- [2]int{before, after}
	}, nil)

	select {
	case r := <-results:
		if r[1] >= r[0] {
			t.Fatalf("expected priority to drop after raising nice: before=%d after=%d", r[0], r[1])
		}
	case <-time.After(testTimeout(2 * time.Second)):
		t.Fatal("timed out")
	}
}

func TestMLFQLoadAvgNonNegative(t *testing.T) {
	k := sched.New().WithMLFQS().WithTimerFreq(200).Build()
	defer k.Shutdown()

	for i := 0; i < 5; i++ {
		k.Create("busy", sched.PriDefault, func(any) {
			for j := 0; j < 100; j++ {
				k.Yield()
			}
		}, nil)
	}

	time.Sleep(100 * time.Millisecond)
	if k.GetLoadAvg() < 0 {
		t.Fatalf("load average should never be negative, got %d", k.GetLoadAvg())
	}
}

func TestMLFQDisablesDonation(t *testing.T) {
	k := sched.New().WithMLFQS().Build()
	defer k.Shutdown()

	lock := sched.NewLock(k)
	lowHeld := make(chan struct{})
	priAfterContention := make(chan int, 1)

	k.Create("low", sched.PriDefault, func(any) {
		lock.Acquire()
		close(lowHeld)
		time.Sleep(30 * time.Millisecond)
		priAfterContention <- k.GetPriority()
		lock.Release()
	}, nil)

	<-lowHeld
	k.Create("high", sched.PriDefault+10, func(any) {
		lock.Acquire()
		lock.Release()
	}, nil)

	select {
	case p := <-priAfterContention:
		if p > sched.PriDefault {
			t.Fatalf("priority donation should be disabled under MLFQ, got boosted priority %d", p)
		}
	case <-time.After(testTimeout(2 * time.Second)):
		t.Fatal("timed out")
	}
}
