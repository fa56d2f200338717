package util

import (
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// IDMap interns strings to dense int ids. street/place names repeat a lot
// in osm data, storing the id is way cheaper than the string per node.
type IDMap struct {
	StrToID map[string]int
	IDToStr map[int]string
}

func NewIdMap() IDMap {
	return IDMap{
		StrToID: make(map[string]int),
		IDToStr: make(map[int]string),
	}
}

func (m IDMap) GetID(str string) int {
	if id, ok := m.StrToID[str]; ok {
		return id
	}
	id := len(m.StrToID)
	m.StrToID[str] = id
	m.IDToStr[id] = str
	return id
}

func (m IDMap) GetStr(id int) string {
	return m.IDToStr[id]
}
