package datastructure

import (
	"errors"
)

var (
	ErrPriorityQueueEmpty = errors.New("priority queue is empty")
	ErrPQItemNotFound     = errors.New("item not found in the priority queue")
)

type PriorityQueueNode[T comparable] struct {
	Rank float64
	Item T
}

// MinHeap is an indexed binary min heap keyed on Rank. the item -> slot map
// is what makes DecreaseKey possible without scanning the whole heap.
type MinHeap[T comparable] struct {
	heap    []PriorityQueueNode[T]
	indexOf map[T]int
}

func NewMinHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{
		heap:    make([]PriorityQueueNode[T], 0),
		indexOf: make(map[T]int),
	}
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	h.indexOf[node.Item] = len(h.heap) - 1
	h.up(len(h.heap) - 1)
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrPriorityQueueEmpty
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrPriorityQueueEmpty
	}

	min := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.indexOf, min.Item)
	if last > 0 {
		h.down(0)
	}
	return min, nil
}

// DecreaseKey lowers the rank of an item already inside the queue and fixes
// its position. returns ErrPQItemNotFound if the item was never inserted
// (or already extracted).
func (h *MinHeap[T]) DecreaseKey(node PriorityQueueNode[T]) error {
	idx, ok := h.indexOf[node.Item]
	if !ok {
		return ErrPQItemNotFound
	}
	h.heap[idx].Rank = node.Rank
	idx = h.up(idx)
	h.down(idx)
	return nil
}

func (h *MinHeap[T]) up(idx int) int {
	for idx > 0 {
		parent := (idx - 1) / 2
		if h.heap[parent].Rank <= h.heap[idx].Rank {
			break
		}
		h.swap(parent, idx)
		idx = parent
	}
	return idx
}

func (h *MinHeap[T]) down(idx int) int {
	for {
		left := 2*idx + 1
		right := 2*idx + 2
		smallest := idx

		if left < len(h.heap) && h.heap[left].Rank < h.heap[smallest].Rank {
			smallest = left
		}
		if right < len(h.heap) && h.heap[right].Rank < h.heap[smallest].Rank {
			smallest = right
		}
		if smallest == idx {
			return idx
		}
		h.swap(smallest, idx)
		idx = smallest
	}
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.indexOf[h.heap[i].Item] = i
	h.indexOf[h.heap[j].Item] = j
}
