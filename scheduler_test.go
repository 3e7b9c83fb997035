package sched_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/sched"
)

func TestCreatePreemptsOnHigherPriority(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	var order []string
	var mu sync.Mutex
	done := make(chan struct{})

	k.Create("low", sched.PriDefault, func(any) {
		mu.Lock()
		order = append(order, "low-start")
		mu.Unlock()

		k.Create("high", sched.PriDefault+10, func(any) {
			mu.Lock()
			order = append(order, "high")
			mu.Unlock()
			close(done)
		}, nil)

		mu.Lock()
		order = append(order, "low-resumed")
		mu.Unlock()
	}, nil)

	select {
	case <-done:
	case <-time.After(testTimeout(2 * time.Second)):
		t.Fatal("timed out waiting for high priority thread")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) < 2 || order[0] != "low-start" || order[1] != "high" {
		t.Fatalf("expected high priority thread to preempt immediately, got %v", order)
	}
}

func TestYieldRoundRobinsEqualPriority(t *testing.T) {
	k := sched.New().Build()
	defer k.Shutdown()

	const n = 3
	var mu sync.Mutex
	counts := make(map[string]int)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		name := "t"
		k.Create(name, sched.PriDefault, func(any) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				mu.Lock()
				counts[name]++
				mu.Unlock()
				k.Yield()
			}
		}, nil)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != n*5 {
		t.Fatalf("expected %d total iterations, got %d", n*5, total)
	}
}

func TestMaxThreadsEnforced(t *testing.T) {
	k := sched.New().WithMaxThreads(2).Build() // main + idle already consume the budget
	defer k.Shutdown()

	_, err := k.Create("extra", sched.PriDefault, func(any) {}, nil)
	if err == nil {
		t.Fatal("expected ErrTooManyThreads")
	}
}
