package geo

import (
	"github.com/golang/geo/s2"
)

// BoundsBuilder accumulates every ingested node coordinate into a lat/lng
// rectangle, so the engine can report which area of the map it covers.
type BoundsBuilder struct {
	rect s2.Rect
}

func NewBoundsBuilder() *BoundsBuilder {
	return &BoundsBuilder{rect: s2.EmptyRect()}
}

func (b *BoundsBuilder) AddPoint(lat, lon float64) {
	b.rect = b.rect.AddPoint(s2.LatLngFromDegrees(lat, lon))
}

func (b *BoundsBuilder) Build() Bounds {
	return Bounds{rect: b.rect}
}

type Bounds struct {
	rect s2.Rect
}

func (b Bounds) IsEmpty() bool {
	return b.rect.IsEmpty()
}

func (b Bounds) Contains(lat, lon float64) bool {
	return b.rect.ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}

// SouthWest returns the lower corner (minLat, minLon) of the coverage area.
func (b Bounds) SouthWest() (float64, float64) {
	lo := b.rect.Lo()
	return lo.Lat.Degrees(), lo.Lng.Degrees()
}

// NorthEast returns the upper corner (maxLat, maxLon) of the coverage area.
func (b Bounds) NorthEast() (float64, float64) {
	hi := b.rect.Hi()
	return hi.Lat.Degrees(), hi.Lng.Degrees()
}
