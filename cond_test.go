package sched_test

import (
	"testing"
	"time"

	"code.hybscloud.com/sched"
)

func TestCondSignalWakesHighestPriorityWaiter(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	lock := sched.NewLock(k)
	cond := sched.NewCond(k)
	ready := false

	order := make(chan string, 2)
	waitCount := make(chan struct{}, 2)

	wait := func(name string, pri int) {
		k.Create(name, pri, func(any) {
			lock.Acquire()
			waitCount <- struct{}{}
			for !ready {
				cond.Wait(lock)
			}
			order <- name
			lock.Release()
		}, nil)
	}

	wait("low", sched.PriDefault)
	wait("high", sched.PriDefault+10)

	<-waitCount
	<-waitCount

	k.Create("signaler", sched.PriDefault+20, func(any) {
		lock.Acquire()
		ready = true
		cond.Signal(lock)
		lock.Release()
	}, nil)

	select {
	case first := <-order:
		if first != "high" {
			t.Fatalf("expected high priority waiter to wake first, got %q", first)
		}
	case <-time.After(testTimeout(2 * time.Second)):
		t.Fatal("timed out waiting for signal")
	}
}

func TestCondBroadcastWakesAll(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	lock := sched.NewLock(k)
	cond := sched.NewCond(k)
	ready := false
	woken := make(chan struct{}, 3)

	for i := 0; i < 3; i++ {
		k.Create("waiter", sched.PriDefault, func(any) {
			lock.Acquire()
			for !ready {
				cond.Wait(lock)
			}
			lock.Release()
			woken <- struct{}{}
		}, nil)
	}

	time.Sleep(50 * time.Millisecond)

	k.Create("broadcaster", sched.PriDefault, func(any) {
		lock.Acquire()
		ready = true
		cond.Broadcast(lock)
		lock.Release()
	}, nil)

	for i := 0; i < 3; i++ {
		select {
		case <-woken:
		case <-time.After(testTimeout(2 * time.Second)):
			t.Fatal("timed out waiting for broadcast to wake all waiters")
		}
	}
}
