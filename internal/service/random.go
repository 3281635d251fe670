package service

import (
	"math/rand"
	"time"
)

// RandFactory hands out a fresh randomness source per operation. Injected so
// question and choice shuffling stays deterministic under test; production
// sources are time-seeded with no reproducibility guarantee.
type RandFactory func() *rand.Rand

func NewRandFactory() RandFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}
