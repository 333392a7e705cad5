package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	services "github.com/minjcho/findoc-be/service"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
)

type SearchHandler struct {
	search services.SearchService
}

func NewSearchHandler(search services.SearchService) *SearchHandler {
	return &SearchHandler{
		search: search,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	results, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.SearchResponse{Results: results},
	})
}
