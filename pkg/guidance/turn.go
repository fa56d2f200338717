package guidance

import (
	"math"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
)

// normalizeTurnDelta wraps a bearing difference into (-180, 180], the same
// domain bearings live in. an exact u turn comes out as +180.
func normalizeTurnDelta(delta float64) float64 {
	delta = math.Mod(delta, 360)
	if delta <= -180 {
		delta += 360
	} else if delta > 180 {
		delta -= 360
	}
	return delta
}

// turnKindFromDelta buckets a heading change. up to 15 degrees either way
// still counts as straight, up to 30 is a slight turn, up to 100 a regular
// turn, anything wider is sharp.
func turnKindFromDelta(delta float64) datastructure.TurnKind {
	absDelta := math.Abs(delta)
	if absDelta <= 15 {
		return datastructure.TurnStraight
	} else if absDelta <= 30 {
		if delta < 0 {
			return datastructure.TurnSlightLeft
		}
		return datastructure.TurnSlightRight
	} else if absDelta <= 100 {
		if delta < 0 {
			return datastructure.TurnLeft
		}
		return datastructure.TurnRight
	}
	if delta < 0 {
		return datastructure.TurnSharpLeft
	}
	return datastructure.TurnSharpRight
}
