package concurrent

import (
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
)

// RoutePairParam is one shortest path computation of a distance matrix query.
type RoutePairParam struct {
	Source int64
	Target int64
}

func NewRoutePairParam(source, target int64) RoutePairParam {
	return RoutePairParam{
		Source: source,
		Target: target,
	}
}

// SaveLocationsJobItem is one cell batch of the h3 indexed location store.
type SaveLocationsJobItem struct {
	KeyStr string
	ValArr []datastructure.LocationRecord
}

func NewSaveLocationsJobItem(key string, val []datastructure.LocationRecord) SaveLocationsJobItem {
	return SaveLocationsJobItem{
		KeyStr: key,
		ValArr: val,
	}
}

type JobI interface {
	RoutePairParam | SaveLocationsJobItem
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

func NewJob[T JobI](id int, jobItem T) Job[T] {
	return Job[T]{
		ID:      id,
		JobItem: jobItem,
	}
}

type JobFunc[T JobI, G any] func(job T) G
