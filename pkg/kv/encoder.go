package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
)

func encodeLocations(records []datastructure.LocationRecord) ([]byte, error) {
	bb, err := binary.Marshal(records)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func loadLocations(bbCompressed []byte) ([]datastructure.LocationRecord, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}

	var records []datastructure.LocationRecord
	if err := binary.Unmarshal(bb, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
