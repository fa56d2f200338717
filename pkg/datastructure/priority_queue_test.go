package datastructure

import (
	"testing"

	"golang.org/x/exp/rand"
)

func generateRandomInteger(min int, max int) int {

	return min + rand.Intn(max-min)
}

func TestPriorityQueue(t *testing.T) {
	pq := NewMinHeap[int64]()
	if pq == nil {
		t.Errorf("PriorityQueue is nil")
	}

	for i := 0; i < 10000; i++ {
		item := PriorityQueueNode[int64]{Rank: float64(generateRandomInteger(0, 10000)), Item: int64(i)}
		pq.Insert(item)

		if (i+1)%100 == 0 {
			item.Rank = float64(generateRandomInteger(0, int(item.Rank)+1))
			err := pq.DecreaseKey(item)
			if err != nil {
				t.Errorf("Error decrease key")
			}
		}
	}

	prevItem, err := pq.ExtractMin()
	if err != nil {
		t.Errorf("Error extract min")
	}
	for i := 1; i < 10000; i++ {
		item, err := pq.ExtractMin()
		if err != nil {
			t.Errorf("Error extract min")
		}

		if prevItem.Rank > item.Rank {
			t.Errorf("PriorityQueue is not sorted")
		}
		prevItem = item
	}

	if pq.Size() != 0 {
		t.Errorf("PriorityQueue must be empty after extracting everything")
	}
	if _, err := pq.ExtractMin(); err == nil {
		t.Errorf("ExtractMin on empty queue must fail")
	}
}

func TestPriorityQueueDecreaseKey(t *testing.T) {
	pq := NewMinHeap[int64]()
	if pq == nil {
		t.Errorf("PriorityQueue is nil")
	}

	itemSlice := make([]PriorityQueueNode[int64], 10000)
	for i := 0; i < 10000; i++ {
		item := PriorityQueueNode[int64]{Rank: float64(generateRandomInteger(10000, 100000000)), Item: int64(i)}
		pq.Insert(item)
		itemSlice[i] = item

	}

	for i := 0; i < 10000; i++ {
		itemSlice[i].Rank = float64(generateRandomInteger(0, int(itemSlice[i].Rank)))
		err := pq.DecreaseKey(itemSlice[i])
		if err != nil {
			t.Errorf("Error decrease key")
		}
	}

	prevItem, _ := pq.ExtractMin()

	for i := 1; i < 10000; i++ {

		item, _ := pq.ExtractMin()

		if prevItem.Rank > item.Rank {
			t.Errorf("PriorityQueue is not sorted")
		}
		prevItem = item
	}
}

func TestPriorityQueueDecreaseKeyUnknownItem(t *testing.T) {
	pq := NewMinHeap[int64]()
	pq.Insert(PriorityQueueNode[int64]{Rank: 1, Item: 1})

	err := pq.DecreaseKey(PriorityQueueNode[int64]{Rank: 0, Item: 99})
	if err == nil {
		t.Errorf("DecreaseKey on an item that was never inserted must fail")
	}
}
