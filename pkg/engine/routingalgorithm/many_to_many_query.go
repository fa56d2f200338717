package routingalgorithm

import (
	"runtime"

	"github.com/lintang-b-s/mapnav/pkg/concurrent"
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
)

// ShortestPathManyToManyWorkers computes every source->target shortest path
// over a worker pool. pairs without a route come back with Found set to
// false instead of failing the whole matrix, unknown node ids do fail it.
func (rt *RouteAlgorithm) ShortestPathManyToManyWorkers(sources, targets []int64) (map[int64]map[int64]datastructure.SPSingleResultResult, error) {
	for _, id := range sources {
		if _, err := rt.g.NodeCoordinate(id); err != nil {
			return nil, err
		}
	}
	for _, id := range targets {
		if _, err := rt.g.NodeCoordinate(id); err != nil {
			return nil, err
		}
	}

	matrix := make(map[int64]map[int64]datastructure.SPSingleResultResult, len(sources))
	for _, source := range sources {
		matrix[source] = make(map[int64]datastructure.SPSingleResultResult, len(targets))
	}

	pairs := make([]concurrent.RoutePairParam, 0, len(sources)*len(targets))
	for _, source := range sources {
		for _, target := range targets {
			pairs = append(pairs, concurrent.NewRoutePairParam(source, target))
		}
	}
	if len(pairs) == 0 {
		return matrix, nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(pairs) {
		numWorkers = len(pairs)
	}

	pool := concurrent.NewWorkerPool[concurrent.RoutePairParam, datastructure.SPSingleResultResult](numWorkers, len(pairs))
	for i, pair := range pairs {
		pool.AddJob(concurrent.NewJob(i, pair))
	}
	pool.Close()

	pool.Start(func(job concurrent.RoutePairParam) datastructure.SPSingleResultResult {
		path, dist, err := rt.ShortestPathAStar(job.Source, job.Target)
		if err != nil {
			return datastructure.NewSPSingleResultResult(job.Source, job.Target, nil, 0, false)
		}
		return datastructure.NewSPSingleResultResult(job.Source, job.Target, path, dist, true)
	})
	pool.Wait()

	for result := range pool.CollectResults() {
		matrix[result.Source][result.Dest] = result
	}

	return matrix, nil
}
