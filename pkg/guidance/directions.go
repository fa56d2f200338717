package guidance

import (
	"errors"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
)

var ErrEmptyPath = errors.New("cannot build directions from an empty path")

type RouteGraph interface {
	Distance(from, to int64) (float64, error)
	Bearing(from, to int64) (float64, error)
	WayName(id int64) (string, error)
}

// DirectionsGenerator turns a node path from the pathfinder into turn by
// turn steps. a step covers every consecutive segment that stays on the
// same road, a way name change closes the step and opens the next one.
type DirectionsGenerator struct {
	g RouteGraph
}

func NewDirectionsGenerator(g RouteGraph) *DirectionsGenerator {
	return &DirectionsGenerator{g: g}
}

// DirectionsFromPath walks the node path segment by segment. the segment
// prev->node still belongs to the road stamped on prev, so the distance of
// the last segment before a junction counts toward the road being left,
// not the road being entered. zero length steps are dropped except for the
// terminal one, arriving on a road is worth reporting even at zero miles.
func (dg *DirectionsGenerator) DirectionsFromPath(path []int64) ([]datastructure.DirectionStep, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	startRoad, err := dg.g.WayName(path[0])
	if err != nil {
		return nil, err
	}

	steps := make([]datastructure.DirectionStep, 0)
	active := datastructure.NewDirectionStep(datastructure.TurnStart, startRoad, 0)

	prevBearing := 0.0
	for i := 1; i < len(path); i++ {
		prev, node := path[i-1], path[i]

		segmentRoad, err := dg.g.WayName(prev)
		if err != nil {
			return nil, err
		}
		segmentBearing, err := dg.g.Bearing(prev, node)
		if err != nil {
			return nil, err
		}

		if segmentRoad != active.RoadName {
			if active.DistanceMiles > 0 {
				steps = append(steps, active)
			}
			delta := normalizeTurnDelta(segmentBearing - prevBearing)
			active = datastructure.NewDirectionStep(turnKindFromDelta(delta), segmentRoad, 0)
		}

		dist, err := dg.g.Distance(prev, node)
		if err != nil {
			return nil, err
		}
		active.DistanceMiles += dist
		prevBearing = segmentBearing
	}

	steps = append(steps, active)
	return steps, nil
}
