package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk_SplitsIntoBoundedGroups(t *testing.T) {
	ids := make([]int64, 450)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	batches := Chunk(ids, 200)

	assert.Len(t, batches, 3)
	assert.Len(t, batches[0], 200)
	assert.Len(t, batches[1], 200)
	assert.Len(t, batches[2], 50)
}

func TestChunk_LosslessAndOrderPreserving(t *testing.T) {
	ids := make([]int64, 1001)
	for i := range ids {
		ids[i] = int64(i * 7)
	}

	var rejoined []int64
	for _, batch := range Chunk(ids, 200) {
		rejoined = append(rejoined, batch...)
	}

	assert.Equal(t, ids, rejoined)
}

func TestChunk_ExactMultiple(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5, 6}

	batches := Chunk(ids, 3)

	assert.Len(t, batches, 2)
	assert.Equal(t, []int64{1, 2, 3}, batches[0])
	assert.Equal(t, []int64{4, 5, 6}, batches[1])
}

func TestChunk_SmallerThanBatch(t *testing.T) {
	batches := Chunk([]int64{42}, 200)

	assert.Len(t, batches, 1)
	assert.Equal(t, []int64{42}, batches[0])
}

func TestChunk_EmptyInputProducesZeroGroups(t *testing.T) {
	assert.Empty(t, Chunk(nil, 200))
	assert.Empty(t, Chunk([]int64{}, 200))
}
