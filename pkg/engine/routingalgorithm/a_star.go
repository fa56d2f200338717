package routingalgorithm

import (
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/util"
)

// https://www.cs.princeton.edu/courses/archive/spr06/cos423/Handouts/GH05.pdf

// ShortestPathAStar returns the node path from from to to (both inclusive)
// together with its length in miles. the search only stops on the goal when
// the goal itself is popped from the frontier, a neighbor merely touching the
// goal is not enough to guarantee the optimal path.
func (rt *RouteAlgorithm) ShortestPathAStar(from, to int64) ([]int64, float64, error) {
	if _, err := rt.g.NodeCoordinate(from); err != nil {
		return nil, 0, err
	}
	toCoord, err := rt.g.NodeCoordinate(to)
	if err != nil {
		return nil, 0, err
	}

	if from == to {
		return []int64{from}, 0, nil
	}

	pq := datastructure.NewMinHeap[int64]()

	costSoFar := make(map[int64]float64)
	costSoFar[from] = 0.0

	fromNode := datastructure.PriorityQueueNode[int64]{Rank: 0, Item: from}
	pq.Insert(fromNode)

	cameFrom := make(map[int64]int64)
	cameFrom[from] = -1

	visited := make(map[int64]struct{})

	for pq.Size() > 0 {
		current, _ := pq.ExtractMin()
		if current.Item == to {
			path := make([]int64, 0)
			currNode := current.Item
			for currNode != -1 {
				path = append(path, currNode)
				currNode = cameFrom[currNode]
			}
			return util.ReverseG(path), costSoFar[to], nil
		}

		if rt.maxVisitedNodes > 0 && len(visited) >= rt.maxVisitedNodes {
			return nil, 0, ErrSearchAborted
		}

		neighbors, err := rt.g.Adjacent(current.Item)
		if err != nil {
			return nil, 0, err
		}

		for _, neighborID := range neighbors {
			if _, ok := visited[neighborID]; ok {
				continue
			}

			dist, err := rt.g.Distance(current.Item, neighborID)
			if err != nil {
				return nil, 0, err
			}
			newCost := costSoFar[current.Item] + dist

			neighborCoord, err := rt.g.NodeCoordinate(neighborID)
			if err != nil {
				return nil, 0, err
			}

			_, ok := costSoFar[neighborID]
			if !ok {
				priority := newCost + pathEstimatedCost(neighborCoord, toCoord)
				neighborNode := datastructure.PriorityQueueNode[int64]{Rank: priority, Item: neighborID}

				costSoFar[neighborID] = newCost
				pq.Insert(neighborNode)
				cameFrom[neighborID] = current.Item
			} else if newCost < costSoFar[neighborID] {
				priority := newCost + pathEstimatedCost(neighborCoord, toCoord)
				neighborNode := datastructure.PriorityQueueNode[int64]{Rank: priority, Item: neighborID}

				costSoFar[neighborID] = newCost
				if err := pq.DecreaseKey(neighborNode); err != nil {
					return nil, 0, err
				}
				cameFrom[neighborID] = current.Item
			}
		}

		visited[current.Item] = struct{}{}
	}

	return nil, 0, ErrNoRoute
}
