package guidance

import (
	"testing"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/graph"
	"github.com/stretchr/testify/assert"
)

func TestTurnKindFromDelta(t *testing.T) {
	cases := []struct {
		name  string
		delta float64
		want  datastructure.TurnKind
	}{
		{"dead ahead", 0, datastructure.TurnStraight},
		{"straight right boundary", 15, datastructure.TurnStraight},
		{"straight left boundary", -15, datastructure.TurnStraight},
		{"slight right", 16, datastructure.TurnSlightRight},
		{"slight right boundary", 30, datastructure.TurnSlightRight},
		{"slight left", -16, datastructure.TurnSlightLeft},
		{"slight left boundary", -30, datastructure.TurnSlightLeft},
		{"right", 31, datastructure.TurnRight},
		{"right boundary", 100, datastructure.TurnRight},
		{"left", -31, datastructure.TurnLeft},
		{"left boundary", -100, datastructure.TurnLeft},
		{"sharp right", 101, datastructure.TurnSharpRight},
		{"sharp right widest", 179, datastructure.TurnSharpRight},
		{"sharp left", -101, datastructure.TurnSharpLeft},
		{"sharp left widest", -179, datastructure.TurnSharpLeft},
		{"exact u turn", 180, datastructure.TurnSharpRight},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, turnKindFromDelta(c.delta))
		})
	}
}

func TestNormalizeTurnDelta(t *testing.T) {
	assert.InDelta(t, -10, normalizeTurnDelta(350), 1e-9)
	assert.InDelta(t, 10, normalizeTurnDelta(-350), 1e-9)
	assert.InDelta(t, -90, normalizeTurnDelta(270), 1e-9)
	assert.InDelta(t, 90, normalizeTurnDelta(-270), 1e-9)
	assert.InDelta(t, 0, normalizeTurnDelta(0), 1e-9)
	// a u turn stays on the positive edge of the domain, never flips sign
	assert.InDelta(t, 180, normalizeTurnDelta(180), 1e-9)
	assert.InDelta(t, 180, normalizeTurnDelta(-180), 1e-9)
	assert.InDelta(t, 180, normalizeTurnDelta(540), 1e-9)
}

// the way change sits between node 3 and node 4, node 3 itself was
// restamped by the second way.
//
//	1 (0,0) -- 2 (0,1) -- 3 (1,1)   "Elm St"
//	                      3 -- 4 (1,2)   "Oak Ave"
func newTwoWayGraph(t *testing.T) *graph.RoadGraph {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0, ""))
	assert.Nil(t, g.AddNode(2, 0, 1, ""))
	assert.Nil(t, g.AddNode(3, 1, 1, ""))
	assert.Nil(t, g.AddNode(4, 1, 2, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2, 3}, "Elm St"))
	assert.Nil(t, g.AddWay([]int64{3, 4}, "Oak Ave"))
	assert.Nil(t, g.Finalize())
	return g
}

func TestDirectionsWayChange(t *testing.T) {
	g := newTwoWayGraph(t)
	dg := NewDirectionsGenerator(g)

	steps, err := dg.DirectionsFromPath([]int64{1, 2, 3, 4})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(steps))

	dist12, _ := g.Distance(1, 2)
	dist23, _ := g.Distance(2, 3)
	dist34, _ := g.Distance(3, 4)

	assert.Equal(t, datastructure.TurnStart, steps[0].Turn)
	assert.Equal(t, "Elm St", steps[0].RoadName)
	assert.InDelta(t, dist12+dist23, steps[0].DistanceMiles, 1e-9)

	// heading flips from due north to due east at the junction
	assert.Equal(t, datastructure.TurnRight, steps[1].Turn)
	assert.Equal(t, "Oak Ave", steps[1].RoadName)
	assert.InDelta(t, dist34, steps[1].DistanceMiles, 1e-9)
}

func TestDirectionsSingleNodePath(t *testing.T) {
	g := newTwoWayGraph(t)
	dg := NewDirectionsGenerator(g)

	steps, err := dg.DirectionsFromPath([]int64{2})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(steps))
	assert.Equal(t, datastructure.TurnStart, steps[0].Turn)
	assert.Equal(t, "Elm St", steps[0].RoadName)
	assert.Equal(t, 0.0, steps[0].DistanceMiles)
}

func TestDirectionsEmptyPath(t *testing.T) {
	g := newTwoWayGraph(t)
	dg := NewDirectionsGenerator(g)

	_, err := dg.DirectionsFromPath(nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestDirectionsUnknownVertex(t *testing.T) {
	g := newTwoWayGraph(t)
	dg := NewDirectionsGenerator(g)

	_, err := dg.DirectionsFromPath([]int64{1, 99})
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)
}

func TestDirectionsSingleRoad(t *testing.T) {
	g := newTwoWayGraph(t)
	dg := NewDirectionsGenerator(g)

	steps, err := dg.DirectionsFromPath([]int64{1, 2, 3})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(steps))

	dist12, _ := g.Distance(1, 2)
	dist23, _ := g.Distance(2, 3)
	assert.Equal(t, datastructure.TurnStart, steps[0].Turn)
	assert.Equal(t, "Elm St", steps[0].RoadName)
	assert.InDelta(t, dist12+dist23, steps[0].DistanceMiles, 1e-9)
}

func TestDirectionsZeroLengthIntermediateSuppressed(t *testing.T) {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0, ""))
	assert.Nil(t, g.AddNode(2, 0, 0, ""))
	assert.Nil(t, g.AddNode(3, 0, 0.01, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2}, "First Road"))
	assert.Nil(t, g.AddWay([]int64{2, 3}, "Second Road"))
	assert.Nil(t, g.Finalize())

	dg := NewDirectionsGenerator(g)
	steps, err := dg.DirectionsFromPath([]int64{1, 2, 3})
	assert.Nil(t, err)

	// the start step never accumulated any distance, so only the turn onto
	// the second road survives
	assert.Equal(t, 1, len(steps))
	assert.Equal(t, "Second Road", steps[0].RoadName)
	assert.InDelta(t, 0.6917, steps[0].DistanceMiles, 0.001)
}

func TestDirectionsTerminalZeroLengthKept(t *testing.T) {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0, ""))
	assert.Nil(t, g.AddNode(2, 0, 0.01, ""))
	assert.Nil(t, g.AddNode(3, 0, 0.01, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2}, "Main Street"))
	assert.Nil(t, g.AddWay([]int64{2, 3}, "End Lane"))
	assert.Nil(t, g.Finalize())

	dg := NewDirectionsGenerator(g)
	steps, err := dg.DirectionsFromPath([]int64{1, 2, 3})
	assert.Nil(t, err)

	assert.Equal(t, 2, len(steps))
	assert.Equal(t, "Main Street", steps[0].RoadName)
	assert.Equal(t, "End Lane", steps[1].RoadName)
	assert.Equal(t, 0.0, steps[1].DistanceMiles)
}

func TestDirectionsUnnamedWaysMerge(t *testing.T) {
	g := graph.NewRoadGraph()
	assert.Nil(t, g.AddNode(1, 0, 0, ""))
	assert.Nil(t, g.AddNode(2, 0, 0.01, ""))
	assert.Nil(t, g.AddNode(3, 0, 0.02, ""))
	assert.Nil(t, g.AddWay([]int64{1, 2}, ""))
	assert.Nil(t, g.AddWay([]int64{2, 3}, ""))
	assert.Nil(t, g.Finalize())

	dg := NewDirectionsGenerator(g)
	steps, err := dg.DirectionsFromPath([]int64{1, 2, 3})
	assert.Nil(t, err)

	// both ways carry the sentinel name, no way change is seen
	assert.Equal(t, 1, len(steps))
	assert.Equal(t, datastructure.UnknownRoad, steps[0].RoadName)
}
