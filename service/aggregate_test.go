package service

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageResults(texts ...string) []types.PageResult {
	results := make([]types.PageResult, len(texts))
	for i, text := range texts {
		results[i] = types.PageResult{PageIndex: i, Text: text, Succeeded: true}
	}
	return results
}

func TestAggregateDocument_AllPagesSucceed(t *testing.T) {
	results := pageResults("revenue up", "costs flat", "outlook stable")

	doc, err := AggregateDocument("005930", "default", 3, results)
	require.NoError(t, err)

	assert.Equal(t, "005930", doc.SecurityCode)
	assert.Equal(t, types.DOCUMENT_STATUS_COMPLETED, doc.Status)
	assert.True(t, doc.SuccessYn)
	assert.Equal(t, 3, doc.TotalPages)
	assert.Equal(t, 3, doc.SuccessfulPages)
	assert.Empty(t, doc.FailedPages)

	assert.Contains(t, doc.Content, "## Page 1\n\nrevenue up")
	assert.Contains(t, doc.Content, "## Page 2\n\ncosts flat")
	assert.Contains(t, doc.Content, "## Page 3\n\noutlook stable")
}

func TestAggregateDocument_PartialFailure(t *testing.T) {
	results := []types.PageResult{
		{PageIndex: 0, Text: "first", Succeeded: true},
		{PageIndex: 1, Error: "timeout"},
		{PageIndex: 2, Text: "third", Succeeded: true},
		{PageIndex: 3, Error: "rate limited"},
	}

	doc, err := AggregateDocument("005930", "default", 4, results)
	require.NoError(t, err)

	assert.Equal(t, types.DOCUMENT_STATUS_PROCESSING, doc.Status)
	assert.False(t, doc.SuccessYn)
	assert.Equal(t, 2, doc.SuccessfulPages)
	assert.Equal(t, []int{1, 3}, doc.FailedPages)

	assert.Contains(t, doc.Content, "## Page 1")
	assert.NotContains(t, doc.Content, "## Page 2")
	assert.Contains(t, doc.Content, "## Page 3")
	assert.NotContains(t, doc.Content, "## Page 4")
}

func TestAggregateDocument_AllPagesFail(t *testing.T) {
	results := []types.PageResult{
		{PageIndex: 0, Error: "boom"},
		{PageIndex: 1, Error: "boom"},
	}

	doc, err := AggregateDocument("005930", "default", 2, results)
	require.NoError(t, err)

	assert.Equal(t, types.DOCUMENT_STATUS_FAILED, doc.Status)
	assert.False(t, doc.SuccessYn)
	assert.Zero(t, doc.SuccessfulPages)
	assert.Equal(t, []int{0, 1}, doc.FailedPages)
	assert.Empty(t, doc.Content)
}

func TestAggregateDocument_LastPageFails(t *testing.T) {
	results := []types.PageResult{
		{PageIndex: 0, Text: "one", Succeeded: true},
		{PageIndex: 1, Text: "two", Succeeded: true},
		{PageIndex: 2, Text: "three", Succeeded: true},
		{PageIndex: 3, Error: "model refused"},
	}

	doc, err := AggregateDocument("005930", "default", 4, results)
	require.NoError(t, err)

	// failed_pages holds the 0-based page indices, matching PageResult.
	assert.Equal(t, []int{3}, doc.FailedPages)
	assert.Equal(t, 3, doc.SuccessfulPages)
	assert.Equal(t, types.DOCUMENT_STATUS_PROCESSING, doc.Status)
	assert.False(t, doc.SuccessYn)
	assert.Contains(t, doc.Content, "## Page 3\n\nthree")
	assert.NotContains(t, doc.Content, "## Page 4")
}

func TestAggregateDocument_OrderIndependent(t *testing.T) {
	results := pageResults("one", "two", "three", "four", "five")
	want, err := AggregateDocument("000660", "default", 5, results)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]types.PageResult, len(results))
		copy(shuffled, results)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := AggregateDocument("000660", "default", 5, shuffled)
		require.NoError(t, err)
		assert.Equal(t, want.Content, got.Content)
		assert.Equal(t, want.FailedPages, got.FailedPages)
	}
}

func TestAggregateDocument_CountMismatch(t *testing.T) {
	results := pageResults("only one")

	_, err := AggregateDocument("005930", "default", 3, results)
	require.Error(t, err)

	var aggErr *utils.AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, 3, aggErr.Expected)
	assert.Equal(t, 1, aggErr.Got)
}
