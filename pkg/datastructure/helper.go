package datastructure

import (
	"github.com/twpayne/go-polyline"
)

type SPSingleResultResult struct {
	Source int64   `json:"source"`
	Dest   int64   `json:"dest"`
	Paths  []int64 `json:"paths"`
	Dist   float64 `json:"dist"`
	Found  bool    `json:"found"`
}

func NewSPSingleResultResult(source, dest int64, paths []int64, dist float64, found bool) SPSingleResultResult {
	return SPSingleResultResult{
		Source: source,
		Dest:   dest,
		Paths:  paths,
		Dist:   dist,
		Found:  found,
	}
}

func CreatePolyline(path []Coordinate) string {
	s := ""
	coords := make([][]float64, 0)
	for _, p := range path {
		pT := p
		coords = append(coords, []float64{pT.Lat, pT.Lon})
	}
	s = string(polyline.EncodeCoords(coords))
	return s
}
