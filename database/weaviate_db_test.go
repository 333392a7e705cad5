package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkObjectID_Deterministic(t *testing.T) {
	first := ChunkObjectID("005930", 3)
	second := ChunkObjectID("005930", 3)
	assert.Equal(t, first, second)
}

func TestChunkObjectID_DistinctPerKey(t *testing.T) {
	base := ChunkObjectID("005930", 0)
	assert.NotEqual(t, base, ChunkObjectID("005930", 1))
	assert.NotEqual(t, base, ChunkObjectID("000660", 0))
}

func TestParseScore(t *testing.T) {
	assert.InDelta(t, 0.82, parseScore(0.82), 1e-9)
	assert.InDelta(t, 1.5, parseScore("1.5"), 1e-9)
	assert.Zero(t, parseScore(nil))
	assert.Zero(t, parseScore("not a number"))
}
