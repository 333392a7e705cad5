package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	services "github.com/minjcho/findoc-be/service"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
)

type IndexHandler struct {
	index services.IndexService
}

func NewIndexHandler(index services.IndexService) *IndexHandler {
	return &IndexHandler{
		index: index,
	}
}

// IndexDocumentHandler chunks and embeds the stored document for the
// security code in the path, replacing any chunks indexed before.
func (h *IndexHandler) IndexDocumentHandler(c *gin.Context) {
	result, err := h.index.IndexDocument(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, utils.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, types.DataResponse{
				Status:  "error",
				Message: "Document not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   result,
	})
}

func (h *IndexHandler) HasChunksHandler(c *gin.Context) {
	exists, err := h.index.HasChunks(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"security_code": c.Param("code"), "exists": exists},
	})
}

func (h *IndexHandler) DeleteChunksHandler(c *gin.Context) {
	removed, err := h.index.DeleteChunks(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"removed_count": removed},
	})
}
