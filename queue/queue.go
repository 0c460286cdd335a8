// Package queue provides the bounded neighbor heap used for k-nearest selection.
package queue

import (
	"container/heap"
	"sort"
)

// Compile time check to ensure PriorityQueue satisfies the heap interface.
var _ heap.Interface = (*PriorityQueue)(nil)

// Neighbor is a candidate row and its distance to the target row.
type Neighbor struct {
	Row      int     // Row is the index of the neighbor row in the matrix.
	Distance float64 // Distance is the priority of the item in the queue.
}

// less orders neighbors by distance, breaking ties by row index ascending.
func less(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Row < b.Row
}

// PriorityQueue implements heap.Interface and holds Neighbors.
type PriorityQueue struct {
	Order bool       // Order specifies whether the queue is a max-heap (true) or a min-heap (false).
	Items []Neighbor // Items contains the elements of the priority queue.
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.Items) }

// Less reports whether the element with index i should sort before the element with index j.
func (pq *PriorityQueue) Less(i, j int) bool {
	if !pq.Order {
		return less(pq.Items[i], pq.Items[j])
	}
	return less(pq.Items[j], pq.Items[i])
}

// Swap swaps the elements with indexes i and j.
func (pq *PriorityQueue) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
}

// Push adds x to the priority queue.
func (pq *PriorityQueue) Push(x any) {
	pq.Items = append(pq.Items, x.(Neighbor))
}

// Pop removes and returns the last element of the backing slice.
func (pq *PriorityQueue) Pop() any {
	old := pq.Items
	n := len(old)
	item := old[n-1]
	pq.Items = old[:n-1]
	return item
}

// Top returns the top element of the priority queue.
func (pq *PriorityQueue) Top() Neighbor {
	return pq.Items[0]
}

// Bounded keeps the k best neighbors seen so far.
// Internally it is a max-heap so the worst kept neighbor is evicted first.
type Bounded struct {
	k  int
	pq PriorityQueue
}

// NewBounded creates a Bounded queue holding at most k neighbors.
func NewBounded(k int) *Bounded {
	return &Bounded{
		k:  k,
		pq: PriorityQueue{Order: true, Items: make([]Neighbor, 0, k)},
	}
}

// Reset empties the queue, keeping its capacity.
func (b *Bounded) Reset() {
	b.pq.Items = b.pq.Items[:0]
}

// Len returns the number of neighbors currently held.
func (b *Bounded) Len() int { return b.pq.Len() }

// Offer adds n if fewer than k neighbors are held or n beats the worst one.
// It reports whether n was kept.
func (b *Bounded) Offer(n Neighbor) bool {
	if b.k <= 0 {
		return false
	}
	if b.pq.Len() < b.k {
		heap.Push(&b.pq, n)
		return true
	}
	if !less(n, b.pq.Top()) {
		return false
	}
	b.pq.Items[0] = n
	heap.Fix(&b.pq, 0)
	return true
}

// Sorted returns the held neighbors nearest first.
// The returned slice is a copy.
func (b *Bounded) Sorted() []Neighbor {
	out := make([]Neighbor, len(b.pq.Items))
	copy(out, b.pq.Items)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
