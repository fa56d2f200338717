package search

import (
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/geo"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50

	// locations are points, the rtree still wants a box with area
	pointRectTolerance = 1e-7
)

type locationEntry struct {
	record datastructure.LocationRecord
	rect   rtreego.Rect
}

func (le *locationEntry) Bounds() rtreego.Rect {
	return le.rect
}

// Index answers the three kinds of place lookups: prefix autocomplete over
// the trie, exact canonical name lookup, and spatial viewport / radius
// queries over an rtree. filled once during ingestion, read-only and safe
// for concurrent readers afterward.
type Index struct {
	trie  *datastructure.Trie
	names map[string][]datastructure.LocationRecord
	tree  *rtreego.Rtree
}

func NewIndex() *Index {
	return &Index{
		trie:  datastructure.NewTrie(),
		names: make(map[string][]datastructure.LocationRecord),
		tree:  rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren),
	}
}

// CanonicalizeName lowercases and keeps only the letters a-z and spaces.
// "Top Dog (Durant)" and "top dog durant" share a canonical form.
func CanonicalizeName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func hasLetter(canonical string) bool {
	for _, r := range canonical {
		if r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}

// InsertLocation registers a named location with every sub-index. records
// whose name canonicalizes to no letters stay out of the trie but remain
// findable through Locate and the spatial queries.
func (idx *Index) InsertLocation(record datastructure.LocationRecord) {
	if record.Name == "" {
		return
	}

	canonical := CanonicalizeName(record.Name)
	idx.names[canonical] = append(idx.names[canonical], record)

	if hasLetter(canonical) {
		idx.trie.Insert(canonical, record.Name)
	}

	point := rtreego.Point{record.Lat, record.Lon}
	idx.tree.Insert(&locationEntry{record: record, rect: point.ToRect(pointRectTolerance)})
}

// Autocomplete returns the display names matching the canonicalized prefix,
// sorted and deduplicated. the empty prefix matches every stored name.
func (idx *Index) Autocomplete(prefix string) []string {
	return idx.trie.PrefixSearch(CanonicalizeName(prefix))
}

// Locate returns every location stored under the canonical form of name, in
// insertion order. unknown names give an empty slice, not an error, a miss
// is an ordinary answer here.
func (idx *Index) Locate(name string) []datastructure.LocationRecord {
	records, ok := idx.names[CanonicalizeName(name)]
	if !ok {
		return []datastructure.LocationRecord{}
	}
	return records
}

// LocationsInBound returns the locations inside the south-west / north-east
// viewport, ordered by id. a degenerate viewport gives an empty slice.
func (idx *Index) LocationsInBound(swLat, swLon, neLat, neLon float64) []datastructure.LocationRecord {
	lengths := []float64{neLat - swLat, neLon - swLon}
	if lengths[0] <= 0 || lengths[1] <= 0 {
		return []datastructure.LocationRecord{}
	}

	bound, err := rtreego.NewRect(rtreego.Point{swLat, swLon}, lengths)
	if err != nil {
		return []datastructure.LocationRecord{}
	}

	results := idx.tree.SearchIntersect(bound)
	records := make([]datastructure.LocationRecord, 0, len(results))
	for _, spatial := range results {
		records = append(records, spatial.(*locationEntry).record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// LocationsWithinRadius returns the locations at most radiusMiles from the
// point, nearest first. the rtree is probed with the bounding square spanned
// by the destination points at bearing 45 and 225, the exact haversine
// filter runs on that candidate set.
func (idx *Index) LocationsWithinRadius(lat, lon, radiusMiles float64) []datastructure.LocationRecord {
	if radiusMiles <= 0 {
		return []datastructure.LocationRecord{}
	}

	neLat, neLon := geo.GetDestinationPoint(lat, lon, 45, 2*radiusMiles)
	swLat, swLon := geo.GetDestinationPoint(lat, lon, 225, 2*radiusMiles)

	bound, err := rtreego.NewRect(rtreego.Point{swLat, swLon},
		[]float64{neLat - swLat, neLon - swLon})
	if err != nil {
		return []datastructure.LocationRecord{}
	}

	type candidate struct {
		record datastructure.LocationRecord
		dist   float64
	}
	candidates := make([]candidate, 0)
	for _, spatial := range idx.tree.SearchIntersect(bound) {
		record := spatial.(*locationEntry).record
		dist := geo.CalculateHaversineDistance(lat, lon, record.Lat, record.Lon)
		if dist <= radiusMiles {
			candidates = append(candidates, candidate{record: record, dist: dist})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].record.ID < candidates[j].record.ID
	})

	records := make([]datastructure.LocationRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, c.record)
	}
	return records
}
