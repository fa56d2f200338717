package osmparser

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

type GraphBuilder interface {
	AddNode(id int64, lat, lon float64, name string) error
	AddWay(nodeIDs []int64, wayName string) error
	Finalize() error
}

type LocationIndexer interface {
	InsertLocation(record datastructure.LocationRecord)
}

var skipHighway = map[string]struct{}{
	"footway":                {},
	"construction":           {},
	"cycleway":               {},
	"path":                   {},
	"pedestrian":             {},
	"busway":                 {},
	"steps":                  {},
	"bridleway":              {},
	"corridor":               {},
	"street_lamp":            {},
	"bus_stop":               {},
	"crossing":               {},
	"cyclist_waiting_aid":    {},
	"elevator":               {},
	"emergency_bay":          {},
	"emergency_access_point": {},
	"give_way":               {},
	"phone":                  {},
	"ladder":                 {},
	"milestone":              {},
	"passing_place":          {},
	"platform":               {},
	"speed_camera":           {},
	"track":                  {},
	"bus_guideway":           {},
	"speed_display":          {},
	"stop":                   {},
	"toll_gantry":            {},
	"traffic_mirror":         {},
	"traffic_signals":        {},
	"trailhead":              {},
}

// OsmParser streams an openstreetmap extract into the road graph and the
// location index. node events are delivered before the way events that
// reference them, so a single pass is enough.
type OsmParser struct {
	countNodes int
	countWays  int
}

func NewOsmParser() *OsmParser {
	return &OsmParser{}
}

// Parse reads the map file (.osm.pbf or plain osm xml), feeds every node
// and accepted way into the graph builder, registers named nodes with the
// location index, and finalizes the graph.
func (p *OsmParser) Parse(mapFile string, g GraphBuilder, idx LocationIndexer) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var scanner osm.Scanner
	if strings.HasSuffix(mapFile, ".pbf") {
		// single decode goroutine, node events must land before way events
		scanner = osmpbf.New(context.Background(), f, 1)
	} else {
		scanner = osmxml.New(context.Background(), f)
	}
	defer scanner.Close()

	if err := p.scan(scanner, g, idx); err != nil {
		return err
	}

	log.Printf("total openstreetmap nodes: %d, accepted ways: %d", p.countNodes, p.countWays)
	return g.Finalize()
}

func (p *OsmParser) scan(scanner osm.Scanner, g GraphBuilder, idx LocationIndexer) error {
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			node := o.(*osm.Node)
			if (p.countNodes+1)%50000 == 0 {
				log.Printf("processing openstreetmap nodes: %d...", p.countNodes+1)
			}
			p.countNodes++

			name := node.Tags.Find("name")
			if err := g.AddNode(int64(node.ID), node.Lat, node.Lon, name); err != nil {
				return err
			}
			if name != "" && idx != nil {
				idx.InsertLocation(datastructure.NewLocationRecord(int64(node.ID), node.Lat, node.Lon, name))
			}
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 {
				continue
			}
			if !acceptOsmWay(way) {
				continue
			}
			if (p.countWays+1)%50000 == 0 {
				log.Printf("processing openstreetmap ways: %d...", p.countWays+1)
			}
			p.countWays++

			nodeIDs := make([]int64, 0, len(way.Nodes))
			for _, wayNode := range way.Nodes {
				nodeIDs = append(nodeIDs, int64(wayNode.ID))
			}
			if err := g.AddWay(nodeIDs, way.Tags.Find("name")); err != nil {
				return err
			}
		case osm.TypeRelation:
		}
	}
	return scanner.Err()
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := skipHighway[highway]; !ok {
			return true
		}
	} else if way.Tags.Find("route") == "road" {
		return true
	} else if junction != "" {
		return true
	}
	return false
}
