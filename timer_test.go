package sched_test

import (
	"testing"
	"time"

	"code.hybscloud.com/sched"
)

// testTimeout widens a wait bound under the race detector, whose
// instrumentation overhead slows goroutine scheduling enough that
// tick-count-based timing expectations need more slack.
func testTimeout(base time.Duration) time.Duration {
	if sched.RaceEnabled {
		return base * 3
	}
	return base
}

func TestSleepOrdersByDeadline(t *testing.T) {
	k := sched.New().WithTimerFreq(200).Build()
	defer k.Shutdown()

	order := make(chan string, 3)

	k.Create("long", sched.PriDefault, func(any) {
		k.Sleep(15)
		order <- "long"
	}, nil)
	k.Create("short", sched.PriDefault, func(any) {
		k.Sleep(3)
		order <- "short"
	}, nil)
	k.Create("medium", sched.PriDefault, func(any) {
		k.Sleep(8)
		order <- "medium"
	}, nil)

	want := []string{"short", "medium", "long"}
	for _, w := range want {
		select {
		case got := <-order:
			if got != w {
				t.Fatalf("wake order mismatch: want %q next, got %q", w, got)
			}
		case <-time.After(testTimeout(3 * time.Second)):
			t.Fatalf("timed out waiting for %q to wake", w)
		}
	}
}

func TestTicksMonotonic(t *testing.T) {
	k := sched.New().WithTimerFreq(200).Build()
	defer k.Shutdown()

	first := k.Ticks()
	time.Sleep(50 * time.Millisecond)
	second := k.Ticks()
	if second <= first {
		t.Fatalf("expected ticks to advance, got %d then %d", first, second)
	}
}

func TestSleepZeroReturnsImmediately(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	done := make(chan struct{})
	k.Create("t", sched.PriDefault, func(any) {
		k.Sleep(0)
		close(done)
	}, nil)

	select {
	case <-done:
	case <-time.After(testTimeout(1 * time.Second)):
		t.Fatal("Sleep(0) should return without blocking")
	}
}
