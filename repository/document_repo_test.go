package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleDuplicateIDs_KeepsNewest(t *testing.T) {
	docs := []duplicateDoc{
		{ID: "a", UpdatedAt: 100},
		{ID: "b", UpdatedAt: 300},
		{ID: "c", UpdatedAt: 200},
	}
	assert.ElementsMatch(t, []string{"a", "c"}, staleDuplicateIDs(docs))
}

func TestStaleDuplicateIDs_TieKeepsFirstListed(t *testing.T) {
	docs := []duplicateDoc{
		{ID: "a", UpdatedAt: 100},
		{ID: "b", UpdatedAt: 100},
	}
	assert.Equal(t, []string{"b"}, staleDuplicateIDs(docs))
}

func TestStaleDuplicateIDs_SingleRecord(t *testing.T) {
	assert.Nil(t, staleDuplicateIDs([]duplicateDoc{{ID: "only", UpdatedAt: 1}}))
	assert.Nil(t, staleDuplicateIDs(nil))
}
