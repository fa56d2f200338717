package routingalgorithm

import (
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/util"
)

// ShortestPathDijkstra is plain dijkstra over the road graph, same contract
// as ShortestPathAStar without the heuristic. mostly useful as a reference
// answer, a star must always match its distances.
func (rt *RouteAlgorithm) ShortestPathDijkstra(from, to int64) ([]int64, float64, error) {
	if _, err := rt.g.NodeCoordinate(from); err != nil {
		return nil, 0, err
	}
	if _, err := rt.g.NodeCoordinate(to); err != nil {
		return nil, 0, err
	}

	if from == to {
		return []int64{from}, 0, nil
	}

	pq := datastructure.NewMinHeap[int64]()

	distSoFar := make(map[int64]float64)
	distSoFar[from] = 0.0

	cameFrom := make(map[int64]int64)
	cameFrom[from] = -1

	visited := make(map[int64]struct{})

	pq.Insert(datastructure.PriorityQueueNode[int64]{Rank: 0, Item: from})

	for pq.Size() > 0 {
		current, _ := pq.ExtractMin()

		if current.Item == to {
			path := make([]int64, 0)
			currNode := current.Item
			for currNode != -1 {
				path = append(path, currNode)
				currNode = cameFrom[currNode]
			}
			return util.ReverseG(path), distSoFar[to], nil
		}

		visited[current.Item] = struct{}{}

		neighbors, err := rt.g.Adjacent(current.Item)
		if err != nil {
			return nil, 0, err
		}

		for _, neighborID := range neighbors {
			if _, ok := visited[neighborID]; ok {
				continue
			}

			edgeDist, err := rt.g.Distance(current.Item, neighborID)
			if err != nil {
				return nil, 0, err
			}
			newDist := distSoFar[current.Item] + edgeDist

			oldDist, ok := distSoFar[neighborID]
			if !ok {
				distSoFar[neighborID] = newDist
				cameFrom[neighborID] = current.Item
				pq.Insert(datastructure.PriorityQueueNode[int64]{Rank: newDist, Item: neighborID})
			} else if newDist < oldDist {
				distSoFar[neighborID] = newDist
				cameFrom[neighborID] = current.Item
				if err := pq.DecreaseKey(datastructure.PriorityQueueNode[int64]{Rank: newDist, Item: neighborID}); err != nil {
					return nil, 0, err
				}
			}
		}
	}

	return nil, 0, ErrNoRoute
}
