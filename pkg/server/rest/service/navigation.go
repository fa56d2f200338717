package service

import (
	"context"
	"errors"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/mapnav/pkg/geo"
	"github.com/lintang-b-s/mapnav/pkg/graph"
	"github.com/lintang-b-s/mapnav/pkg/kv"
	"github.com/lintang-b-s/mapnav/pkg/raster"
	"github.com/lintang-b-s/mapnav/pkg/server"
)

type RoadGraph interface {
	NearestNode(lat, lon float64) (int64, error)
	NodeCoordinate(id int64) (datastructure.Coordinate, error)
	Bounds() geo.Bounds
}

type RoutingAlgorithm interface {
	ShortestPathAStar(from, to int64) ([]int64, float64, error)
	ShortestPathManyToManyWorkers(sources, targets []int64) (map[int64]map[int64]datastructure.SPSingleResultResult, error)
}

type DirectionsEngine interface {
	DirectionsFromPath(path []int64) ([]datastructure.DirectionStep, error)
}

type SearchIndex interface {
	Autocomplete(prefix string) []string
	Locate(name string) []datastructure.LocationRecord
	LocationsInBound(swLat, swLon, neLat, neLon float64) []datastructure.LocationRecord
	LocationsWithinRadius(lat, lon, radiusMiles float64) []datastructure.LocationRecord
}

type KVDB interface {
	GetNearestLocationsFromPointCoord(lat, lon float64) ([]datastructure.LocationRecord, error)
}

type RouteStore interface {
	SaveDirections(name string, steps []datastructure.DirectionStep) error
	LoadDirections(name string) ([]datastructure.DirectionStep, error)
}

const notCoveredMsg = "sorry!! the location you entered is not covered on my map :(, please use a different openstreetmap file"

// NavigationService orchestrates the routing core behind the rest handlers.
// domain sentinels are wrapped into server error codes here, the handlers
// only map codes to http statuses.
type NavigationService struct {
	graph      RoadGraph
	routing    RoutingAlgorithm
	directions DirectionsEngine
	search     SearchIndex
	kv         KVDB
	routes     RouteStore
}

func NewNavigationService(g RoadGraph, routing RoutingAlgorithm, directions DirectionsEngine,
	search SearchIndex, kvDB KVDB, routes RouteStore) *NavigationService {
	return &NavigationService{
		graph:      g,
		routing:    routing,
		directions: directions,
		search:     search,
		kv:         kvDB,
		routes:     routes,
	}
}

// ShortestPath snaps both coordinates to their nearest graph node, runs a
// star between them and synthesizes turn by turn steps. the polyline is the
// douglas peucker simplified route geometry.
func (uc *NavigationService) ShortestPath(ctx context.Context, srcLat, srcLon,
	dstLat, dstLon float64) (string, float64, []datastructure.DirectionStep, []datastructure.Coordinate, error) {

	fromNode, err := uc.graph.NearestNode(srcLat, srcLon)
	if err != nil {
		return "", 0, nil, nil, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
	}
	toNode, err := uc.graph.NearestNode(dstLat, dstLon)
	if err != nil {
		return "", 0, nil, nil, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
	}

	path, dist, err := uc.routing.ShortestPathAStar(fromNode, toNode)
	if err != nil {
		switch {
		case errors.Is(err, routingalgorithm.ErrNoRoute):
			return "", 0, nil, nil, server.WrapErrorf(err, server.ErrNotFound, "no route between the two locations")
		case errors.Is(err, routingalgorithm.ErrSearchAborted):
			return "", 0, nil, nil, server.WrapErrorf(err, server.ErrInternalServerError, "route search hit its node budget")
		default:
			return "", 0, nil, nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}

	coords := make([]datastructure.Coordinate, 0, len(path))
	for _, id := range path {
		coord, err := uc.graph.NodeCoordinate(id)
		if err != nil {
			return "", 0, nil, nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
		coords = append(coords, coord)
	}

	steps, err := uc.directions.DirectionsFromPath(path)
	if err != nil {
		return "", 0, nil, nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	polyline := datastructure.CreatePolyline(geo.RamesDouglasPeucker(coords))
	return polyline, dist, steps, coords, nil
}

type TargetResult struct {
	TargetCoord datastructure.Coordinate `json:"target"`
	Path        string                   `json:"path"`
	Dist        float64                  `json:"dist"`
	Found       bool                     `json:"found"`
}

// ManyToManyQuery computes every source to destination shortest path.
// unreachable pairs come back with Found false instead of failing the query.
func (uc *NavigationService) ManyToManyQuery(ctx context.Context, sourcesLat, sourcesLon,
	destsLat, destsLon []float64) (map[datastructure.Coordinate][]TargetResult, error) {

	sources := make([]int64, 0, len(sourcesLat))
	for i := range sourcesLat {
		srcNode, err := uc.graph.NearestNode(sourcesLat[i], sourcesLon[i])
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
		}
		sources = append(sources, srcNode)
	}

	dests := make([]int64, 0, len(destsLat))
	for i := range destsLat {
		dstNode, err := uc.graph.NearestNode(destsLat[i], destsLon[i])
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
		}
		dests = append(dests, dstNode)
	}

	matrix, err := uc.routing.ShortestPathManyToManyWorkers(sources, dests)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	results := make(map[datastructure.Coordinate][]TargetResult)
	for i, src := range sources {
		srcCoord := datastructure.NewCoordinate(sourcesLat[i], sourcesLon[i])

		for j, dest := range dests {
			single := matrix[src][dest]

			currPath := ""
			if single.Found {
				coords := make([]datastructure.Coordinate, 0, len(single.Paths))
				for _, id := range single.Paths {
					coord, err := uc.graph.NodeCoordinate(id)
					if err != nil {
						return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
					}
					coords = append(coords, coord)
				}
				currPath = datastructure.CreatePolyline(coords)
			}

			results[srcCoord] = append(results[srcCoord], TargetResult{
				TargetCoord: datastructure.NewCoordinate(destsLat[j], destsLon[j]),
				Path:        currPath,
				Dist:        single.Dist,
				Found:       single.Found,
			})
		}
	}
	return results, nil
}

func (uc *NavigationService) Autocomplete(ctx context.Context, query string) []string {
	return uc.search.Autocomplete(query)
}

// Locate is the exact lookup behind an autocomplete selection.
func (uc *NavigationService) Locate(ctx context.Context, name string) ([]datastructure.LocationRecord, error) {
	records := uc.search.Locate(name)
	if len(records) == 0 {
		return nil, server.NewErrorf(server.ErrNotFound, "no location named %q on my map", name)
	}
	return records, nil
}

func (uc *NavigationService) LocationsInView(ctx context.Context, swLat, swLon, neLat, neLon float64) []datastructure.LocationRecord {
	return uc.search.LocationsInBound(swLat, swLon, neLat, neLon)
}

func (uc *NavigationService) LocationsWithinRadius(ctx context.Context, lat, lon, radiusMiles float64) []datastructure.LocationRecord {
	return uc.search.LocationsWithinRadius(lat, lon, radiusMiles)
}

// NearbyLocations reads the persisted h3 location store instead of the in
// memory rtree, it also covers nodes pruned from the routable graph.
func (uc *NavigationService) NearbyLocations(ctx context.Context, lat, lon float64) ([]datastructure.LocationRecord, error) {
	records, err := uc.kv.GetNearestLocationsFromPointCoord(lat, lon)
	if err != nil {
		if errors.Is(err, kv.ErrLocationsNotFound) {
			return nil, server.WrapErrorf(err, server.ErrNotFound, "no stored location around that point")
		}
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return records, nil
}

// SaveShortestPath computes the route and persists its rendered directions
// under the caller chosen name.
func (uc *NavigationService) SaveShortestPath(ctx context.Context, name string, srcLat, srcLon,
	dstLat, dstLon float64) ([]datastructure.DirectionStep, error) {

	_, _, steps, _, err := uc.ShortestPath(ctx, srcLat, srcLon, dstLat, dstLon)
	if err != nil {
		return nil, err
	}

	if err := uc.routes.SaveDirections(name, steps); err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return steps, nil
}

func (uc *NavigationService) LoadSavedDirections(ctx context.Context, name string) ([]datastructure.DirectionStep, error) {
	steps, err := uc.routes.LoadDirections(name)
	if err != nil {
		switch {
		case errors.Is(err, kv.ErrRouteNotFound):
			return nil, server.WrapErrorf(err, server.ErrNotFound, "no saved route named %q", name)
		case errors.Is(err, datastructure.ErrInvalidDirection):
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "saved route %q is corrupted", name)
		default:
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}
	return steps, nil
}

// ParseDirection validates one rendered direction line and returns the step
// it encodes.
func (uc *NavigationService) ParseDirection(ctx context.Context, text string) (datastructure.DirectionStep, error) {
	step, err := datastructure.ParseDirection(text)
	if err != nil {
		return datastructure.DirectionStep{}, server.WrapErrorf(err, server.ErrBadParamInput, "not a valid direction line")
	}
	return step, nil
}

// MapBounds reports the coverage rectangle of the ingested extract.
func (uc *NavigationService) MapBounds(ctx context.Context) (geo.Bounds, error) {
	bounds := uc.graph.Bounds()
	if bounds.IsEmpty() {
		return geo.Bounds{}, server.WrapErrorf(graph.ErrEmptyGraph, server.ErrNotFound, "no map data loaded")
	}
	return bounds, nil
}

// MapRaster resolves a viewport query into the precomputed tile grid.
func (uc *NavigationService) MapRaster(ctx context.Context, ulLat, ulLon, lrLat, lrLon, width float64) (raster.Result, error) {
	res, err := raster.MapRaster(ulLat, ulLon, lrLat, lrLon, width)
	if err != nil {
		return raster.Result{}, server.WrapErrorf(err, server.ErrBadParamInput, "invalid raster query box")
	}
	return res, nil
}
