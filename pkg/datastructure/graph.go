package datastructure

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

// LocationRecord is a named place on the map. kept in the name index (and
// in the key-value store) even when the node got pruned from the routable graph.
type LocationRecord struct {
	ID   int64   `json:"id"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

func NewLocationRecord(id int64, lat, lon float64, name string) LocationRecord {
	return LocationRecord{
		ID:   id,
		Lat:  lat,
		Lon:  lon,
		Name: name,
	}
}
