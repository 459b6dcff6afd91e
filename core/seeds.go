package core

import (
	"encoding/binary"
	"hash/fnv"
)

// Training and hold-out task seeds are derived from the run seed through
// labelled FNV-1a streams. The labels keep the two seed spaces disjoint
// without any bookkeeping, so hold-out tasks can never leak into training.

func deriveSeed(runSeed int64, label string, i uint64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(runSeed))
	h.Write(buf[:])
	h.Write([]byte(label))
	binary.BigEndian.PutUint64(buf[:], i)
	h.Write(buf[:])
	return int64(h.Sum64())
}

// TrainSeed returns the i-th training task seed for a run.
func TrainSeed(runSeed int64, i uint64) int64 { return deriveSeed(runSeed, "train", i) }

// HoldoutSeed returns the i-th hold-out task seed for a run.
func HoldoutSeed(runSeed int64, i uint64) int64 { return deriveSeed(runSeed, "holdout", i) }
