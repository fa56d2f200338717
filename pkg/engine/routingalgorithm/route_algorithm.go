package routingalgorithm

import (
	"errors"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/geo"
)

var (
	ErrNoRoute       = errors.New("no route between the two points")
	ErrSearchAborted = errors.New("search aborted, too many nodes visited")
)

type RoutingGraph interface {
	Adjacent(id int64) ([]int64, error)
	Distance(from, to int64) (float64, error)
	NodeCoordinate(id int64) (datastructure.Coordinate, error)
	NumNodes() int
}

// RouteAlgorithm answers shortest path queries over the road graph. every
// query builds its own search state, so a single instance can serve many
// goroutines at once.
type RouteAlgorithm struct {
	g               RoutingGraph
	maxVisitedNodes int
}

func NewRouteAlgorithm(g RoutingGraph) *RouteAlgorithm {
	return &RouteAlgorithm{g: g}
}

// NewBoundedRouteAlgorithm caps how many nodes a single query may settle.
// a query hitting the cap fails with ErrSearchAborted instead of returning a
// partial path.
func NewBoundedRouteAlgorithm(g RoutingGraph, maxVisitedNodes int) *RouteAlgorithm {
	return &RouteAlgorithm{g: g, maxVisitedNodes: maxVisitedNodes}
}

// straight line distance never overestimates the road distance, which keeps
// a star optimal.
func pathEstimatedCost(node, goal datastructure.Coordinate) float64 {
	return geo.CalculateHaversineDistance(node.Lat, node.Lon, goal.Lat, goal.Lon)
}
