package datastructure

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDirection is returned when a direction text does not follow the
// "<phrase> on <road> and continue for <miles> miles." grammar.
var ErrInvalidDirection = errors.New("invalid direction text")

// UnknownRoad is stamped on nodes touched by a way that carries no name tag.
const UnknownRoad = "unknown road"

type TurnKind int

const (
	TurnStart TurnKind = iota
	TurnStraight
	TurnSlightLeft
	TurnSlightRight
	TurnRight
	TurnLeft
	TurnSharpLeft
	TurnSharpRight
)

// closed phrase set of the direction grammar. parsing is case sensitive and
// only accepts exactly these strings.
var turnPhrases = [...]string{
	TurnStart:       "Start",
	TurnStraight:    "Go straight",
	TurnSlightLeft:  "Slight left",
	TurnSlightRight: "Slight right",
	TurnRight:       "Turn right",
	TurnLeft:        "Turn left",
	TurnSharpLeft:   "Sharp left",
	TurnSharpRight:  "Sharp right",
}

func (tk TurnKind) Phrase() string {
	if tk < TurnStart || int(tk) >= len(turnPhrases) {
		return ""
	}
	return turnPhrases[tk]
}

type DirectionStep struct {
	Turn          TurnKind `json:"turn"`
	RoadName      string   `json:"road_name"`
	DistanceMiles float64  `json:"distance_miles"`
}

func NewDirectionStep(turn TurnKind, roadName string, distanceMiles float64) DirectionStep {
	return DirectionStep{
		Turn:          turn,
		RoadName:      roadName,
		DistanceMiles: distanceMiles,
	}
}

// Render produces the canonical one line text form of the step.
func (step DirectionStep) Render() string {
	return fmt.Sprintf("%s on %s and continue for %.3f miles.", step.Turn.Phrase(), step.RoadName, step.DistanceMiles)
}

const (
	onToken       = " on "
	continueToken = " and continue for "
	milesToken    = " miles."
)

// ParseDirection tokenizes one rendered direction line back into a step.
// road names may themselves contain the continue token, so the road/distance
// split happens at its last occurrence.
func ParseDirection(text string) (DirectionStep, error) {
	matched := TurnKind(-1)
	rest := ""
	for kind := TurnStart; kind <= TurnSharpRight; kind++ {
		prefix := kind.Phrase() + onToken
		if strings.HasPrefix(text, prefix) {
			matched = kind
			rest = text[len(prefix):]
			break
		}
	}
	if matched < TurnStart {
		return DirectionStep{}, fmt.Errorf("%w: unknown phrase in %q", ErrInvalidDirection, text)
	}

	cut := strings.LastIndex(rest, continueToken)
	if cut < 0 {
		return DirectionStep{}, fmt.Errorf("%w: missing %q in %q", ErrInvalidDirection, strings.TrimSpace(continueToken), text)
	}
	roadName := rest[:cut]

	tail := rest[cut+len(continueToken):]
	if !strings.HasSuffix(tail, milesToken) {
		return DirectionStep{}, fmt.Errorf("%w: missing %q suffix in %q", ErrInvalidDirection, strings.TrimSpace(milesToken), text)
	}

	distText := strings.TrimSuffix(tail, milesToken)
	if distText == "" || !isPlainDecimal(distText) {
		return DirectionStep{}, fmt.Errorf("%w: bad distance %q in %q", ErrInvalidDirection, distText, text)
	}
	dist, err := strconv.ParseFloat(distText, 64)
	if err != nil {
		return DirectionStep{}, fmt.Errorf("%w: bad distance %q in %q", ErrInvalidDirection, distText, text)
	}

	return DirectionStep{
		Turn:          matched,
		RoadName:      roadName,
		DistanceMiles: dist,
	}, nil
}

func isPlainDecimal(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
