// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "sort"

// orderedList is a generic priority-ordered slice. It replaces the
// intrusive linked lists the original kernel threads this data through;
// insertion keeps items ordered by less, and resort re-establishes that
// order when items' keys (e.g. a thread's effective priority) change
// after insertion.
type orderedList[T any] struct {
	items []T
	less  func(a, b T) bool
}

func newOrderedList[T any](less func(a, b T) bool) *orderedList[T] {
	return &orderedList[T]{less: less}
}

// insert places item in its sorted position.
func (q *orderedList[T]) insert(item T) {
	i := sort.Search(len(q.items), func(i int) bool { return q.less(item, q.items[i]) })
	q.items = append(q.items, item)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = item
}

// popFront removes and returns the head item.
func (q *orderedList[T]) popFront() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	copy(q.items, q.items[1:])
	q.items = q.items[:len(q.items)-1]
	return item, true
}

// peekFront returns the head item without removing it.
func (q *orderedList[T]) peekFront() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// len returns the number of items.
func (q *orderedList[T]) len() int {
	return len(q.items)
}

// resort re-sorts all items by less, preserving relative order among
// equal-key items. Used after a batch priority recomputation (MLFQ).
func (q *orderedList[T]) resort() {
	sort.SliceStable(q.items, func(i, j int) bool { return q.less(q.items[i], q.items[j]) })
}

// removeMatch removes and returns the first item for which match
// returns true.
func (q *orderedList[T]) removeMatch(match func(T) bool) (T, bool) {
	var zero T
	for i, item := range q.items {
		if match(item) {
			copy(q.items[i:], q.items[i+1:])
			q.items = q.items[:len(q.items)-1]
			return item, true
		}
	}
	return zero, false
}

// popArgmax removes and returns the item with the greatest key,
// breaking ties in favor of the earliest (lowest index) match. This is
// used by waiter queues whose members' effective priority can rise
// after insertion (priority donation): rather than trust a possibly
// stale sort position, the waker scans for the true maximum.
func (q *orderedList[T]) popArgmax(key func(T) int) (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	best := 0
	bestKey := key(q.items[0])
	for i := 1; i < len(q.items); i++ {
		if k := key(q.items[i]); k > bestKey {
			best, bestKey = i, k
		}
	}
	item := q.items[best]
	copy(q.items[best:], q.items[best+1:])
	q.items = q.items[:len(q.items)-1]
	return item, true
}

// all returns a snapshot slice of the items in current order.
func (q *orderedList[T]) all() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
