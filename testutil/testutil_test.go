package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecords(t *testing.T) {
	rng := NewRNG(4711)

	r := rng.Records(8, 32)

	assert.Equal(t, 8, len(r))
	assert.Equal(t, 32, len(r[0]))
	assert.Equal(t, 32, cap(r[0]))
	assert.NotEqual(t, r[0], r[1])
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	r1 := rng.Records(2, 10)
	ids1 := rng.UniformIDs(10, 3)

	rng.Reset()
	r2 := rng.Records(2, 10)
	ids2 := rng.UniformIDs(10, 3)

	assert.Equal(t, r1, r2)
	assert.Equal(t, ids1, ids2)
}

func TestUniformIDs(t *testing.T) {
	rng := NewRNG(1)

	ids := rng.UniformIDs(1000, 4)

	assert.Equal(t, 1000, len(ids))
	for _, id := range ids {
		assert.Less(t, id, uint32(4))
	}
}

func TestZipfIDs(t *testing.T) {
	rng := NewRNG(42)

	ids := rng.ZipfIDs(5000, 50, 1.5)

	counts := make(map[uint32]int)
	for _, id := range ids {
		assert.Less(t, id, uint32(50))
		counts[id]++
	}
	// ID 0 is by far the most frequent.
	assert.Greater(t, counts[0], 5000/4)
}

func TestSegmentLocalSkewIDs(t *testing.T) {
	rng := NewRNG(42)
	n := 10000
	segments := 10

	ids := rng.SegmentLocalSkewIDs(n, 100, segments, 0.9)
	assert.Equal(t, n, len(ids))

	segmentSize := n / segments
	for seg := range segments {
		counts := make(map[uint32]int)
		for _, id := range ids[seg*segmentSize : (seg+1)*segmentSize] {
			counts[id]++
		}
		assert.Greater(t, counts[uint32(seg)], segmentSize/2, "segment %d should have dominant id", seg)
	}
}

func TestIndexes(t *testing.T) {
	ids := []uint32{13, 7, 14, 14}

	assert.Equal(t, []uint32{2, 3}, Indexes(ids, 14))
	assert.Equal(t, []uint32{0}, Indexes(ids, 13))
	missing := Indexes(ids, 99)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
	assert.Equal(t, make([]uint32, 0), missing)
}
