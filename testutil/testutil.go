package testutil

import (
	"math/rand"
	"sync"
)

// RNG is a seeded, reproducible source of test data. It is safe for
// concurrent use.
type RNG struct {
	mu   sync.Mutex
	src  *rand.Rand
	seed int64
}

// NewRNG returns an RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed)), seed: seed}
}

// Reset rewinds the RNG to its seed, so the same calls yield the same data.
func (r *RNG) Reset() {
	r.mu.Lock()
	r.src.Seed(r.seed)
	r.mu.Unlock()
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// Records returns num random records of itemSize bytes each. The records
// share one backing array but cannot grow into each other.
func (r *RNG) Records(num, itemSize int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	backing := make([]byte, num*itemSize)
	_, _ = r.src.Read(backing)

	out := make([][]byte, num)
	for i := range out {
		lo, hi := i*itemSize, (i+1)*itemSize
		out[i] = backing[lo:hi:hi]
	}
	return out
}

// UniformIDs returns n IDs drawn uniformly from [0, distinct).
func (r *RNG) UniformIDs(n, distinct int) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(r.src.Intn(distinct))
	}
	return ids
}

// ZipfIDs returns n IDs in [0, distinct) where ID k is drawn with
// probability proportional to 1/(k+1)^s, so ID 0 is the hottest.
// s must be greater than 1.
func (r *RNG) ZipfIDs(n, distinct int, s float64) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	z := rand.NewZipf(r.src, s, 1, uint64(distinct-1))
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(z.Uint64())
	}
	return ids
}

// SegmentLocalSkewIDs returns n IDs in [0, distinct) split into segments
// runs of consecutive records. In run k the ID k%distinct is drawn with
// probability localDominance; any other ID is drawn uniformly.
//
// With a window as large as one run, nearly every match of an ID sits in a
// single window, while a lookup still has to page through all of them.
func (r *RNG) SegmentLocalSkewIDs(n, distinct, segments int, localDominance float64) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := max(n/segments, 1)
	ids := make([]uint32, n)
	for i := range ids {
		hot := uint32(min(i/run, segments-1) % distinct)
		if distinct == 1 || r.src.Float64() < localDominance {
			ids[i] = hot
			continue
		}
		// Uniform over every ID except hot.
		other := uint32(r.src.Intn(distinct - 1))
		if other >= hot {
			other++
		}
		ids[i] = other
	}
	return ids
}

// Indexes returns every position of id in ids, lowest first: the exact
// answer to a lookup over an ID table holding ids. The result is never nil.
func Indexes(ids []uint32, id uint32) []uint32 {
	out := []uint32{}
	for i, v := range ids {
		if v == id {
			out = append(out, uint32(i))
		}
	}
	return out
}
