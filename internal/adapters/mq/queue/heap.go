package queue

import "container/heap"

type item struct {
	event Event
	seq   uint64
}

// eventHeap is a min-heap by fire time; equal times pop in insertion order.
type eventHeap []item

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].event.FireTime.Equal(h[j].event.FireTime) {
		return h[i].seq < h[j].seq
	}
	return h[i].event.FireTime.Before(h[j].event.FireTime)
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(item)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

var _ heap.Interface = (*eventHeap)(nil)
