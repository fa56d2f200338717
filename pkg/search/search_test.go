package search_test

import (
	"testing"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/search"
	"github.com/stretchr/testify/assert"
)

func newBerkeleyIndex() *search.Index {
	idx := search.NewIndex()
	idx.InsertLocation(datastructure.NewLocationRecord(1, 37.8732, -122.2689, "Top Dog"))
	idx.InsertLocation(datastructure.NewLocationRecord(2, 37.8664, -122.2564, "Topolino"))
	idx.InsertLocation(datastructure.NewLocationRecord(3, 37.8800, -122.2650, "Gourmet Ghetto"))
	idx.InsertLocation(datastructure.NewLocationRecord(4, 37.8692, -122.2600, "The Musical Offering"))
	idx.InsertLocation(datastructure.NewLocationRecord(5, 37.8754, -122.2600, "Top Dog"))
	return idx
}

func TestCanonicalizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Top Dog", "top dog"},
		{"drops punctuation", "Bongo Burger (Euclid)", "bongo burger euclid"},
		{"drops digits", "Route 66", "route "},
		{"keeps spaces", "a  b", "a  b"},
		{"empty", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, search.CanonicalizeName(c.in))
		})
	}
}

func TestAutocomplete(t *testing.T) {
	idx := newBerkeleyIndex()

	assert.Equal(t, []string{"Top Dog", "Topolino"}, idx.Autocomplete("top"))
	assert.Equal(t, []string{"Top Dog", "Topolino"}, idx.Autocomplete("TOP"))
	assert.Equal(t, []string{"Top Dog"}, idx.Autocomplete("top d"))
	assert.Equal(t, []string{}, idx.Autocomplete("zzz"))

	all := idx.Autocomplete("")
	assert.Equal(t, []string{"Gourmet Ghetto", "The Musical Offering", "Top Dog", "Topolino"}, all)
}

func TestLocate(t *testing.T) {
	idx := newBerkeleyIndex()

	topDogs := idx.Locate("Top Dog")
	assert.Equal(t, 2, len(topDogs))
	assert.Equal(t, int64(1), topDogs[0].ID)
	assert.Equal(t, int64(5), topDogs[1].ID)

	// query canonicalization matches render variants
	assert.Equal(t, topDogs, idx.Locate("top dog!"))

	assert.Equal(t, []datastructure.LocationRecord{}, idx.Locate("nowhere"))
}

func TestLocationsInBound(t *testing.T) {
	idx := newBerkeleyIndex()

	// viewport around downtown, excludes Gourmet Ghetto to the north
	records := idx.LocationsInBound(37.8650, -122.2700, 37.8760, -122.2550)
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 5}, ids)

	// inverted corners
	assert.Equal(t, []datastructure.LocationRecord{}, idx.LocationsInBound(37.8760, -122.2550, 37.8650, -122.2700))
}

func TestLocationsWithinRadius(t *testing.T) {
	idx := newBerkeleyIndex()

	// half a mile around the musical offering. top dog on durant sits inside
	// the probe box but past the exact radius, the haversine filter drops it
	records := idx.LocationsWithinRadius(37.8692, -122.2600, 0.5)
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{4, 2, 5}, ids)

	assert.Equal(t, []datastructure.LocationRecord{}, idx.LocationsWithinRadius(37.8692, -122.2600, 0))
}

func TestInsertLocationSkipsUnnamed(t *testing.T) {
	idx := search.NewIndex()
	idx.InsertLocation(datastructure.NewLocationRecord(1, 37.87, -122.26, ""))

	assert.Equal(t, []string{}, idx.Autocomplete(""))
	assert.Equal(t, []datastructure.LocationRecord{}, idx.LocationsInBound(37, -123, 38, -122))
}

func TestNoLetterNamesStayOutOfTheTrie(t *testing.T) {
	idx := search.NewIndex()
	idx.InsertLocation(datastructure.NewLocationRecord(9, 37.87, -122.26, "66"))

	assert.Equal(t, []string{}, idx.Autocomplete(""))

	// still findable by exact lookup and by viewport
	assert.Equal(t, 1, len(idx.Locate("66")))
	assert.Equal(t, 1, len(idx.LocationsInBound(37, -123, 38, -122)))
}
