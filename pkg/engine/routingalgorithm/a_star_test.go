package routingalgorithm

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lintang-b-s/mapnav/pkg/graph"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

// diamond network, the equator side is shorter than the north bump.
//
//	1 -- 2 -- 4   "Equator Road"
//	 \       /
//	   - 3 -      "Bump Road"
func newDiamondGraph(t *testing.T) *graph.RoadGraph {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0.000, 0.000, ""))
	assert.Nil(t, g.AddNode(2, 0.000, 0.010, ""))
	assert.Nil(t, g.AddNode(3, 0.010, 0.010, ""))
	assert.Nil(t, g.AddNode(4, 0.000, 0.020, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2, 4}, "Equator Road"))
	assert.Nil(t, g.AddWay([]int64{1, 3, 4}, "Bump Road"))
	assert.Nil(t, g.Finalize())
	return g
}

func pathDistance(t *testing.T, g *graph.RoadGraph, path []int64) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		dist, err := g.Distance(path[i], path[i+1])
		assert.Nil(t, err)
		total += dist
	}
	return total
}

func TestShortestPathAStar(t *testing.T) {
	g := newDiamondGraph(t)
	rt := NewRouteAlgorithm(g)

	path, dist, err := rt.ShortestPathAStar(1, 4)
	assert.Nil(t, err)
	assert.Equal(t, []int64{1, 2, 4}, path)
	assert.InDelta(t, 1.3833, dist, 0.001)
	assert.InDelta(t, pathDistance(t, g, path), dist, 1e-9)
}

func TestShortestPathSameNode(t *testing.T) {
	g := newDiamondGraph(t)
	rt := NewRouteAlgorithm(g)

	path, dist, err := rt.ShortestPathAStar(3, 3)
	assert.Nil(t, err)
	assert.Equal(t, []int64{3}, path)
	assert.Equal(t, 0.0, dist)

	path, dist, err = rt.ShortestPathDijkstra(3, 3)
	assert.Nil(t, err)
	assert.Equal(t, []int64{3}, path)
	assert.Equal(t, 0.0, dist)
}

func TestShortestPathNoRoute(t *testing.T) {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0, ""))
	assert.Nil(t, g.AddNode(2, 0, 0.001, ""))
	assert.Nil(t, g.AddNode(3, 1, 1, ""))
	assert.Nil(t, g.AddNode(4, 1, 1.001, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2}, "West Island Road"))
	assert.Nil(t, g.AddWay([]int64{3, 4}, "East Island Road"))
	assert.Nil(t, g.Finalize())

	rt := NewRouteAlgorithm(g)

	_, _, err := rt.ShortestPathAStar(1, 4)
	assert.ErrorIs(t, err, ErrNoRoute)

	_, _, err = rt.ShortestPathDijkstra(1, 4)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestShortestPathUnknownVertex(t *testing.T) {
	g := newDiamondGraph(t)
	rt := NewRouteAlgorithm(g)

	_, _, err := rt.ShortestPathAStar(1, 99)
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)

	_, _, err = rt.ShortestPathAStar(99, 1)
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)
}

func TestBoundedSearchAborts(t *testing.T) {
	g := graph.NewRoadGraph()
	line := make([]int64, 0)
	for i := int64(1); i <= 10; i++ {
		assert.Nil(t, g.AddNode(i, 0, float64(i)*0.001, ""))
		line = append(line, i)
	}
	assert.Nil(t, g.AddWay(line, "Long Straight Road"))
	assert.Nil(t, g.Finalize())

	bounded := NewBoundedRouteAlgorithm(g, 3)
	_, _, err := bounded.ShortestPathAStar(1, 10)
	assert.ErrorIs(t, err, ErrSearchAborted)

	// goal within the budget still succeeds
	path, _, err := bounded.ShortestPathAStar(1, 3)
	assert.Nil(t, err)
	assert.Equal(t, []int64{1, 2, 3}, path)
}

// node 4 is discovered first through the near-side way {1,2,4} at a higher
// cost, then relaxed while still queued when 3 is settled.
func TestDijkstraRelaxesQueuedNode(t *testing.T) {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0.000, ""))
	assert.Nil(t, g.AddNode(2, 0, 0.001, ""))
	assert.Nil(t, g.AddNode(3, 0, -0.002, ""))
	assert.Nil(t, g.AddNode(4, 0, -0.003, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2}, "Near Road"))
	assert.Nil(t, g.AddWay([]int64{2, 4}, "Detour Road"))
	assert.Nil(t, g.AddWay([]int64{1, 3}, "West Road"))
	assert.Nil(t, g.AddWay([]int64{3, 4}, "West Road"))
	assert.Nil(t, g.Finalize())

	rt := NewRouteAlgorithm(g)

	path, dist, err := rt.ShortestPathDijkstra(1, 4)
	assert.Nil(t, err)
	assert.Equal(t, []int64{1, 3, 4}, path)
	assert.InDelta(t, 0.2075, dist, 0.001)
	assert.InDelta(t, pathDistance(t, g, path), dist, 1e-9)
}

func TestAStarMatchesDijkstra(t *testing.T) {
	rand.Seed(1234)

	g := graph.NewRoadGraph()
	numNodes := int64(80)
	for i := int64(1); i <= numNodes; i++ {
		lat := rand.Float64() * 0.05
		lon := rand.Float64() * 0.05
		assert.Nil(t, g.AddNode(i, lat, lon, ""))
	}

	// spanning chain keeps everything reachable, extra random ways add
	// alternative paths
	chain := make([]int64, 0, numNodes)
	for i := int64(1); i <= numNodes; i++ {
		chain = append(chain, i)
	}
	assert.Nil(t, g.AddWay(chain, "Chain Road"))
	for w := 0; w < 60; w++ {
		a := int64(rand.Intn(int(numNodes))) + 1
		b := int64(rand.Intn(int(numNodes))) + 1
		assert.Nil(t, g.AddWay([]int64{a, b}, fmt.Sprintf("Shortcut %d", w)))
	}
	assert.Nil(t, g.Finalize())

	rt := NewRouteAlgorithm(g)

	for q := 0; q < 50; q++ {
		from := int64(rand.Intn(int(numNodes))) + 1
		to := int64(rand.Intn(int(numNodes))) + 1

		aPath, aDist, aErr := rt.ShortestPathAStar(from, to)
		dPath, dDist, dErr := rt.ShortestPathDijkstra(from, to)

		assert.Nil(t, aErr)
		assert.Nil(t, dErr)
		assert.InDelta(t, dDist, aDist, 1e-9)

		assert.Equal(t, from, aPath[0])
		assert.Equal(t, to, aPath[len(aPath)-1])
		assert.Equal(t, from, dPath[0])
		assert.Equal(t, to, dPath[len(dPath)-1])
		assert.InDelta(t, aDist, pathDistance(t, g, aPath), 1e-9)
	}
}

func TestShortestPathConcurrentQueries(t *testing.T) {
	g := newDiamondGraph(t)
	rt := NewRouteAlgorithm(g)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, dist, err := rt.ShortestPathAStar(1, 4)
			assert.Nil(t, err)
			assert.Equal(t, []int64{1, 2, 4}, path)
			assert.InDelta(t, 1.3833, dist, 0.001)
		}()
	}
	wg.Wait()
}

func TestShortestPathManyToManyWorkers(t *testing.T) {
	g := newDiamondGraph(t)
	rt := NewRouteAlgorithm(g)

	matrix, err := rt.ShortestPathManyToManyWorkers([]int64{1, 3}, []int64{2, 4})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(matrix))

	res14 := matrix[1][4]
	assert.True(t, res14.Found)
	assert.Equal(t, []int64{1, 2, 4}, res14.Paths)
	assert.InDelta(t, 1.3833, res14.Dist, 0.001)

	res32 := matrix[3][2]
	assert.True(t, res32.Found)
	assert.Equal(t, int64(3), res32.Paths[0])
	assert.Equal(t, int64(2), res32.Paths[len(res32.Paths)-1])

	_, err = rt.ShortestPathManyToManyWorkers([]int64{1}, []int64{42})
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)
}

func TestManyToManyUnreachablePairs(t *testing.T) {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0, ""))
	assert.Nil(t, g.AddNode(2, 0, 0.001, ""))
	assert.Nil(t, g.AddNode(3, 1, 1, ""))
	assert.Nil(t, g.AddNode(4, 1, 1.001, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2}, "West Island Road"))
	assert.Nil(t, g.AddWay([]int64{3, 4}, "East Island Road"))
	assert.Nil(t, g.Finalize())

	rt := NewRouteAlgorithm(g)

	matrix, err := rt.ShortestPathManyToManyWorkers([]int64{1}, []int64{2, 3})
	assert.Nil(t, err)
	assert.True(t, matrix[1][2].Found)
	assert.False(t, matrix[1][3].Found)
}
