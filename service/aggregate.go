package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
)

// AggregateDocument merges per-page extraction results into a single
// document. Results may arrive in any order; output is ordered by page.
func AggregateDocument(securityCode, promptProfile string, totalPages int, results []types.PageResult) (*types.Document, error) {
	if len(results) != totalPages {
		return nil, &utils.AggregationError{
			SecurityCode: securityCode,
			Expected:     totalPages,
			Got:          len(results),
		}
	}

	ordered := make([]types.PageResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PageIndex < ordered[j].PageIndex
	})

	var (
		sections    []string
		failedPages []int
		successful  int
	)
	for _, page := range ordered {
		if !page.Succeeded {
			failedPages = append(failedPages, page.PageIndex)
			continue
		}
		successful++
		sections = append(sections, fmt.Sprintf("## Page %d\n\n%s", page.PageIndex+1, strings.TrimSpace(page.Text)))
	}

	status := types.DOCUMENT_STATUS_COMPLETED
	switch {
	case successful == 0:
		status = types.DOCUMENT_STATUS_FAILED
	case successful < totalPages:
		status = types.DOCUMENT_STATUS_PROCESSING
	}

	now := time.Now().UnixMilli()
	return &types.Document{
		SecurityCode:    securityCode,
		PromptProfile:   promptProfile,
		Content:         strings.Join(sections, "\n\n"),
		TotalPages:      totalPages,
		SuccessfulPages: successful,
		FailedPages:     failedPages,
		Status:          status,
		SuccessYn:       status == types.DOCUMENT_STATUS_COMPLETED,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
