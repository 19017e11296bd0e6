// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue implements the "Event queue" component of spec.md §2/§4.1:
// an indexed binary min-heap of (time, domain-id) events supporting
// push/pop/peek plus O(log n) update-by-id and remove-by-id, stable (FIFO)
// under equal times. Event-ids are monotonically increasing and never
// reused within the lifetime of a Queue, matching spec.md's invariant 6.
package queue

import (
	"container/heap"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/shell"
)

// Id identifies a scheduled event; never reused within a Queue's lifetime.
type Id uint64

// item is one heap entry. seq breaks ties between equal Time values in
// insertion order (spec.md §3: "ties broken by insertion order").
type item struct {
	id     Id
	time   float64
	domain shell.DomainId
	seq    uint64
	index  int // position in the heap slice; maintained by heapImpl
}

type heapImpl []*item

func (h heapImpl) Len() int { return len(h) }
func (h heapImpl) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h heapImpl) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *heapImpl) Push(x interface{}) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *heapImpl) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// Queue is the event scheduler.
type Queue struct {
	h      heapImpl
	lookup map[Id]*item
	nextId Id
	seq    uint64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{lookup: make(map[Id]*item)}
}

// Push schedules domain d to fire at time, returning a fresh event id.
func (q *Queue) Push(time float64, d shell.DomainId) Id {
	q.nextId++
	q.seq++
	it := &item{id: q.nextId, time: time, domain: d, seq: q.seq}
	heap.Push(&q.h, it)
	q.lookup[it.id] = it
	return it.id
}

// Pop removes and returns the minimum-time event.
func (q *Queue) Pop() (id Id, time float64, d shell.DomainId) {
	if q.h.Len() == 0 {
		chk.Panic("queue: pop on empty queue")
	}
	it := heap.Pop(&q.h).(*item)
	delete(q.lookup, it.id)
	return it.id, it.time, it.domain
}

// Peek returns the minimum-time event without removing it.
func (q *Queue) Peek() (id Id, time float64, d shell.DomainId, ok bool) {
	if q.h.Len() == 0 {
		return 0, 0, 0, false
	}
	it := q.h[0]
	return it.id, it.time, it.domain, true
}

// Update changes the scheduled time of an existing event.
func (q *Queue) Update(id Id, newTime float64) {
	it, ok := q.lookup[id]
	if !ok {
		chk.Panic("queue: update of unknown event %d", id)
	}
	it.time = newTime
	heap.Fix(&q.h, it.index)
}

// Remove deletes an event before it fires.
func (q *Queue) Remove(id Id) {
	it, ok := q.lookup[id]
	if !ok {
		chk.Panic("queue: remove of unknown event %d", id)
	}
	heap.Remove(&q.h, it.index)
	delete(q.lookup, id)
}

// Len returns the number of scheduled events.
func (q *Queue) Len() int { return q.h.Len() }

// DomainOf returns the domain id associated with event id, for debug checks.
func (q *Queue) DomainOf(id Id) (shell.DomainId, bool) {
	it, ok := q.lookup[id]
	if !ok {
		return 0, false
	}
	return it.domain, true
}
