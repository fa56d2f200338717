package kv

import (
	"errors"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
)

var ErrRouteNotFound = errors.New("saved route not found")

// RouteStore persists rendered turn by turn directions under a caller
// chosen name. values are plain rendered text lines, loading runs every
// line back through the direction parser.
type RouteStore struct {
	db *pebble.DB
}

func NewRouteStore(db *pebble.DB) *RouteStore {
	return &RouteStore{db: db}
}

func (rs *RouteStore) SaveDirections(name string, steps []datastructure.DirectionStep) error {
	lines := make([]string, 0, len(steps))
	for _, step := range steps {
		lines = append(lines, step.Render())
	}
	return rs.db.Set([]byte(name), []byte(strings.Join(lines, "\n")), pebble.Sync)
}

func (rs *RouteStore) LoadDirections(name string) ([]datastructure.DirectionStep, error) {
	val, closer, err := rs.db.Get([]byte(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	text := string(val)
	if err := closer.Close(); err != nil {
		return nil, err
	}

	steps := make([]datastructure.DirectionStep, 0)
	if text == "" {
		return steps, nil
	}
	for _, line := range strings.Split(text, "\n") {
		step, err := datastructure.ParseDirection(line)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (rs *RouteStore) Close() {
	rs.db.Close()
}
