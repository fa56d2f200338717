package graph

import (
	"errors"
	"math"
	"sort"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/geo"
	"github.com/lintang-b-s/mapnav/pkg/util"
)

var (
	ErrVertexNotFound = errors.New("vertex not found in the graph")
	ErrEmptyGraph     = errors.New("graph has no vertices")
	ErrGraphFinalized = errors.New("graph is already finalized")
)

type node struct {
	id        int64
	lat, lon  float64
	locName   string
	wayNameID int
	neighbors []int64
}

// RoadGraph is the routable road network. it is built single threaded from
// osm node/way events, finalized exactly once (dropping every node that ended
// up with no edge), and read only afterwards, so queries are safe for
// concurrent use without locking.
type RoadGraph struct {
	nodes     map[int64]*node
	wayNames  util.IDMap
	bounds    *geo.BoundsBuilder
	finalized bool
}

func NewRoadGraph() *RoadGraph {
	g := &RoadGraph{
		nodes:    make(map[int64]*node),
		wayNames: util.NewIdMap(),
		bounds:   geo.NewBoundsBuilder(),
	}
	// id 0, the default stamp of nodes no named way ever touched
	g.wayNames.GetID(datastructure.UnknownRoad)
	return g
}

// AddNode inserts or overwrites a node. last write wins, overwriting also
// resets the adjacency of that node.
func (g *RoadGraph) AddNode(id int64, lat, lon float64, name string) error {
	if g.finalized {
		return ErrGraphFinalized
	}
	g.nodes[id] = &node{
		id:      id,
		lat:     lat,
		lon:     lon,
		locName: name,
	}
	g.bounds.AddPoint(lat, lon)
	return nil
}

// AddWay connects every consecutive pair of the way with a bidirectional
// edge and stamps the way name (or the unknown road sentinel) on every node
// of the way that exists. pairs referencing an id we never saw are skipped,
// osm extracts reference nodes outside the cut all the time.
func (g *RoadGraph) AddWay(nodeIDs []int64, wayName string) error {
	if g.finalized {
		return ErrGraphFinalized
	}

	name := wayName
	if name == "" {
		name = datastructure.UnknownRoad
	}
	nameID := g.wayNames.GetID(name)

	for _, id := range nodeIDs {
		if nd, ok := g.nodes[id]; ok {
			nd.wayNameID = nameID
		}
	}

	for i := 0; i+1 < len(nodeIDs); i++ {
		from, okFrom := g.nodes[nodeIDs[i]]
		to, okTo := g.nodes[nodeIDs[i+1]]
		if !okFrom || !okTo {
			continue
		}
		from.neighbors = append(from.neighbors, to.id)
		to.neighbors = append(to.neighbors, from.id)
	}
	return nil
}

// Finalize prunes every node without edges and freezes the graph. must be
// called exactly once, after the last ingestion event.
func (g *RoadGraph) Finalize() error {
	if g.finalized {
		return ErrGraphFinalized
	}
	for id, nd := range g.nodes {
		if len(nd.neighbors) == 0 {
			delete(g.nodes, id)
		}
	}
	g.finalized = true
	return nil
}

func (g *RoadGraph) NumNodes() int {
	return len(g.nodes)
}

// Vertices returns every node id in ascending order.
func (g *RoadGraph) Vertices() []int64 {
	ids := make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Adjacent returns the neighbor ids of a node in edge insertion order.
// duplicate edges show up as duplicate entries. the returned slice is shared,
// callers must not mutate it.
func (g *RoadGraph) Adjacent(id int64) ([]int64, error) {
	nd, ok := g.nodes[id]
	if !ok {
		return nil, ErrVertexNotFound
	}
	return nd.neighbors, nil
}

func (g *RoadGraph) Distance(from, to int64) (float64, error) {
	fromNode, ok := g.nodes[from]
	if !ok {
		return 0, ErrVertexNotFound
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return 0, ErrVertexNotFound
	}
	return geo.CalculateHaversineDistance(fromNode.lat, fromNode.lon, toNode.lat, toNode.lon), nil
}

func (g *RoadGraph) Bearing(from, to int64) (float64, error) {
	fromNode, ok := g.nodes[from]
	if !ok {
		return 0, ErrVertexNotFound
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return 0, ErrVertexNotFound
	}
	return geo.CalculateBearing(fromNode.lat, fromNode.lon, toNode.lat, toNode.lon), nil
}

// WayName returns the name of the way that most recently touched the node.
func (g *RoadGraph) WayName(id int64) (string, error) {
	nd, ok := g.nodes[id]
	if !ok {
		return "", ErrVertexNotFound
	}
	return g.wayNames.GetStr(nd.wayNameID), nil
}

// LocationName returns the node's own name tag, empty for unnamed nodes.
func (g *RoadGraph) LocationName(id int64) (string, error) {
	nd, ok := g.nodes[id]
	if !ok {
		return "", ErrVertexNotFound
	}
	return nd.locName, nil
}

func (g *RoadGraph) NodeCoordinate(id int64) (datastructure.Coordinate, error) {
	nd, ok := g.nodes[id]
	if !ok {
		return datastructure.Coordinate{}, ErrVertexNotFound
	}
	return datastructure.NewCoordinate(nd.lat, nd.lon), nil
}

// NearestNode scans every node and returns the one with the smallest
// haversine distance to the query point. equal distances resolve to the
// lowest id so the answer does not depend on map iteration order.
func (g *RoadGraph) NearestNode(lat, lon float64) (int64, error) {
	if len(g.nodes) == 0 {
		return 0, ErrEmptyGraph
	}

	bestID := int64(0)
	bestDist := math.Inf(1)
	found := false
	for id, nd := range g.nodes {
		dist := geo.CalculateHaversineDistance(lat, lon, nd.lat, nd.lon)
		if !found || dist < bestDist || (dist == bestDist && id < bestID) {
			found = true
			bestID = id
			bestDist = dist
		}
	}
	return bestID, nil
}

// Bounds returns the lat/lng rectangle covering every ingested node.
func (g *RoadGraph) Bounds() geo.Bounds {
	return g.bounds.Build()
}
