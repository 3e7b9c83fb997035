package sched_test

import (
	"testing"
	"time"

	"code.hybscloud.com/sched"
)

func TestSemaphoreUpWakesHighestPriorityWaiter(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	sem := sched.NewSemaphore(k, 0)
	order := make(chan string, 2)
	enteredLow := make(chan struct{})
	enteredHigh := make(chan struct{})

	k.Create("low", sched.PriDefault, func(any) {
		close(enteredLow)
		sem.Down()
		order <- "low"
	}, nil)

	k.Create("high", sched.PriDefault+10, func(any) {
		<-enteredLow
		close(enteredHigh)
		sem.Down()
		order <- "high"
	}, nil)

	<-enteredHigh
	time.Sleep(20 * time.Millisecond) // let both threads reach Down

	sem.Up()

	select {
	case first := <-order:
		if first != "high" {
			t.Fatalf("expected higher priority waiter to wake first, got %q", first)
		}
	case <-time.After(testTimeout(2 * time.Second)):
		t.Fatal("timed out waiting for first waiter to wake")
	}

	sem.Up()
	select {
	case second := <-order:
		if second != "low" {
			t.Fatalf("expected low priority waiter second, got %q", second)
		}
	case <-time.After(testTimeout(2 * time.Second)):
		t.Fatal("timed out waiting for second waiter to wake")
	}
}

func TestSemaphoreTryDownWouldBlock(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	sem := sched.NewSemaphore(k, 0)
	if err := sem.TryDown(); !sched.IsWouldBlock(err) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	sem.Up()
	if err := sem.TryDown(); err != nil {
		t.Fatalf("expected success after Up, got %v", err)
	}
}

func TestSemaphoreMutualExclusion(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	sem := sched.NewSemaphore(k, 1)
	counter := 0
	const n = 5
	done := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		k.Create("worker", sched.PriDefault, func(any) {
			sem.Down()
			counter++
			sem.Up()
			done <- struct{}{}
		}, nil)
	}

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(testTimeout(2 * time.Second)):
			t.Fatal("timed out")
		}
	}
	if counter != n {
		t.Fatalf("expected counter == %d, got %d", n, counter)
	}
}
