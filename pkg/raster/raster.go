package raster

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidRasterQuery = errors.New("invalid raster query box")

// fixed tile pyramid over the precomputed berkeley extract. depth 0 is the
// single root tile, every next depth quarters the tiles.
const (
	RootULLat = 37.892195547244356
	RootULLon = -122.2998046875
	RootLRLat = 37.82280243352756
	RootLRLon = -122.2119140625

	TileSize = 256.0
	MaxDepth = 7
)

// Result is everything the map front end needs to stitch the tiles into one
// image: the filename grid, the bounding box the grid actually covers (it
// snaps outward to tile borders) and the pyramid depth used.
type Result struct {
	RenderGrid   [][]string `json:"render_grid"`
	RasterULLon  float64    `json:"raster_ul_lon"`
	RasterULLat  float64    `json:"raster_ul_lat"`
	RasterLRLon  float64    `json:"raster_lr_lon"`
	RasterLRLat  float64    `json:"raster_lr_lat"`
	Depth        int        `json:"depth"`
	QuerySuccess bool       `json:"query_success"`
}

// LonDPPAtDepth is the longitudinal span one pixel covers at the given
// depth. halves with every level.
func LonDPPAtDepth(depth int) float64 {
	tiles := float64(int64(1) << uint(depth))
	return (RootLRLon - RootULLon) / (TileSize * tiles)
}

// DepthForLonDPP picks the coarsest depth whose per-pixel span still does not
// exceed the requested one, depth 7 when even the finest level is too coarse.
func DepthForLonDPP(queryLonDPP float64) int {
	for depth := 0; depth <= MaxDepth; depth++ {
		if LonDPPAtDepth(depth) <= queryLonDPP {
			return depth
		}
	}
	return MaxDepth
}

// MapRaster resolves a query box plus viewport width into the tile grid
// covering it. a geometrically impossible box (upper left not above and left
// of the lower right, or a non positive width) fails with
// ErrInvalidRasterQuery, a valid box that misses the map entirely comes back
// with QuerySuccess false.
func MapRaster(ulLat, ulLon, lrLat, lrLon, width float64) (Result, error) {
	if ulLon >= lrLon || ulLat <= lrLat || width <= 0 {
		return Result{}, ErrInvalidRasterQuery
	}

	if ulLon >= RootLRLon || lrLon <= RootULLon || ulLat <= RootLRLat || lrLat >= RootULLat {
		return Result{QuerySuccess: false}, nil
	}

	queryLonDPP := (lrLon - ulLon) / width
	depth := DepthForLonDPP(queryLonDPP)

	tiles := int64(1) << uint(depth)
	tileLonSpan := (RootLRLon - RootULLon) / float64(tiles)
	tileLatSpan := (RootULLat - RootLRLat) / float64(tiles)

	xMin := clampTile(int64(math.Floor((ulLon-RootULLon)/tileLonSpan)), tiles)
	xMax := clampTile(int64(math.Floor((lrLon-RootULLon)/tileLonSpan)), tiles)
	yMin := clampTile(int64(math.Floor((RootULLat-ulLat)/tileLatSpan)), tiles)
	yMax := clampTile(int64(math.Floor((RootULLat-lrLat)/tileLatSpan)), tiles)

	grid := make([][]string, 0, yMax-yMin+1)
	for y := yMin; y <= yMax; y++ {
		row := make([]string, 0, xMax-xMin+1)
		for x := xMin; x <= xMax; x++ {
			row = append(row, fmt.Sprintf("d%d_x%d_y%d.png", depth, x, y))
		}
		grid = append(grid, row)
	}

	return Result{
		RenderGrid:   grid,
		RasterULLon:  RootULLon + float64(xMin)*tileLonSpan,
		RasterULLat:  RootULLat - float64(yMin)*tileLatSpan,
		RasterLRLon:  RootULLon + float64(xMax+1)*tileLonSpan,
		RasterLRLat:  RootULLat - float64(yMax+1)*tileLatSpan,
		Depth:        depth,
		QuerySuccess: true,
	}, nil
}

func clampTile(idx, tiles int64) int64 {
	if idx < 0 {
		return 0
	}
	if idx > tiles-1 {
		return tiles - 1
	}
	return idx
}
