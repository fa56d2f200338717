package kv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/mapnav/pkg/concurrent"
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/geo"
	"github.com/uber/h3-go/v4"
)

var (
	ErrLocationsNotFound = errors.New("locations not found")
)

const (
	locationCellResolution = 9
	writeBatchSize         = 1000
	maxGridDiskLevel       = 10
)

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

type encodedCell struct {
	key string
	val []byte
	err error
}

type batchData struct {
	key string
	val []byte
}

// BuildH3IndexedLocations groups named locations by their h3 res 9 cell and
// persists every cell bucket. encoding and compression run on the worker
// pool, the badger write batches stay on this goroutine.
func (k *KVDB) BuildH3IndexedLocations(ctx context.Context, records []datastructure.LocationRecord) error {
	log.Printf("creating & saving h3 indexed locations to key-value db...")

	buckets := make(map[string][]datastructure.LocationRecord)
	for i := range records {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		record := records[i]
		cell := h3.LatLngToCell(h3.NewLatLng(record.Lat, record.Lon), locationCellResolution)
		buckets[cell.String()] = append(buckets[cell.String()], record)
	}

	if len(buckets) == 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(buckets) {
		numWorkers = len(buckets)
	}

	pool := concurrent.NewWorkerPool[concurrent.SaveLocationsJobItem, encodedCell](numWorkers, len(buckets))
	jobID := 0
	for key, bucket := range buckets {
		pool.AddJob(concurrent.NewJob(jobID, concurrent.NewSaveLocationsJobItem(key, bucket)))
		jobID++
	}
	pool.Close()

	pool.Start(func(job concurrent.SaveLocationsJobItem) encodedCell {
		val, err := encodeLocations(job.ValArr)
		return encodedCell{key: job.KeyStr, val: val, err: err}
	})
	pool.Wait()

	batches := make([]batchData, 0, writeBatchSize)
	for encoded := range pool.CollectResults() {
		if encoded.err != nil {
			return encoded.err
		}

		batches = append(batches, batchData{key: encoded.key, val: encoded.val})
		if len(batches) == writeBatchSize {
			if err := k.saveBatchLocations(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, writeBatchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveBatchLocations(ctx, batches); err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed locations to key-value db done...")
	return nil
}

func (k *KVDB) saveBatchLocations(ctx context.Context, batchData []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batchData {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		if err := batch.Set([]byte(data.key), data.val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving locations: %v", err)
		return err
	}
	return nil
}

func (k *KVDB) get(val, key []byte) ([]byte, error) {
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		return nil
	})
	return val, err
}

func (k *KVDB) loadCell(cell h3.Cell) ([]datastructure.LocationRecord, error) {
	var val []byte
	val, err := k.get(val, []byte(cell.String()))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return loadLocations(val)
}

// GetNearestLocationsFromPointCoord probes the h3 cell that contains the
// point, then widening rings until any stored location shows up, closest
// first. points with no stored location within the widest ring fail with
// ErrLocationsNotFound.
func (k *KVDB) GetNearestLocationsFromPointCoord(lat, lon float64) ([]datastructure.LocationRecord, error) {
	locations := []datastructure.LocationRecord{}

	home := h3.NewLatLng(lat, lon)
	cell := h3.LatLngToCell(home, locationCellResolution)

	records, err := k.loadCell(cell)
	if err != nil {
		return []datastructure.LocationRecord{}, err
	}
	locations = append(locations, records...)

	if len(locations) == 0 {
		for _, currCell := range kRingIndexesArea(lat, lon, 1) {
			if currCell == cell {
				continue
			}
			records, err := k.loadCell(currCell)
			if err != nil {
				return []datastructure.LocationRecord{}, err
			}
			locations = append(locations, records...)
		}
	}

	for lev := 1; lev <= maxGridDiskLevel; lev++ {
		if len(locations) != 0 {
			break
		}
		for _, currCell := range h3.GridDisk(cell, lev) {
			if currCell == cell {
				continue
			}
			records, err := k.loadCell(currCell)
			if err != nil {
				return []datastructure.LocationRecord{}, err
			}
			locations = append(locations, records...)
		}
	}

	if len(locations) == 0 {
		return []datastructure.LocationRecord{}, ErrLocationsNotFound
	}

	sort.Slice(locations, func(i, j int) bool {
		di := geo.CalculateHaversineDistance(lat, lon, locations[i].Lat, locations[i].Lon)
		dj := geo.CalculateHaversineDistance(lat, lon, locations[j].Lat, locations[j].Lon)
		if di != dj {
			return di < dj
		}
		return locations[i].ID < locations[j].ID
	})

	return locations, nil
}

// kRingIndexesArea picks the ring radius whose total cell area covers the
// search circle. h3 reports cell areas in km2.
func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	home := h3.NewLatLng(lat, lon)
	origin := h3.LatLngToCell(home, locationCellResolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius)
}

func (k *KVDB) Close() {
	k.db.Close()
}
