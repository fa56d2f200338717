package concurrent_test

import (
	"testing"

	"github.com/lintang-b-s/mapnav/pkg/concurrent"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolRunsEveryJob(t *testing.T) {
	pairs := make([]concurrent.RoutePairParam, 0)
	for s := int64(0); s < 10; s++ {
		for d := int64(0); d < 10; d++ {
			pairs = append(pairs, concurrent.NewRoutePairParam(s, d))
		}
	}

	pool := concurrent.NewWorkerPool[concurrent.RoutePairParam, int64](4, len(pairs))
	for i, pair := range pairs {
		pool.AddJob(concurrent.NewJob(i, pair))
	}
	pool.Close()
	pool.Start(func(job concurrent.RoutePairParam) int64 {
		return job.Source*10 + job.Target
	})
	pool.Wait()

	seen := make(map[int64]struct{})
	for res := range pool.CollectResults() {
		seen[res] = struct{}{}
	}

	assert.Equal(t, len(pairs), len(seen))
}
