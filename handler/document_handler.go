package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	services "github.com/minjcho/findoc-be/service"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
)

type DocumentHandler struct {
	documents services.DocumentService
}

func NewDocumentHandler(documents services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
	}
}

// ProcessReportHandler runs the full pipeline for a security code and
// streams progress to the client as SSE events.
func (h *DocumentHandler) ProcessReportHandler(c *gin.Context) {
	var req types.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	statusChan := make(chan types.ProcessingStatus, 16)
	doneChan := make(chan error, 1)
	go func() {
		_, err := h.documents.ProcessReport(c.Request.Context(), req, func(status types.ProcessingStatus) {
			// Drop events rather than block the pipeline on a slow client.
			select {
			case statusChan <- status:
			default:
			}
		})
		doneChan <- err
	}()

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			return // Client disconnected
		case status := <-statusChan:
			jsonStatus, err := json.Marshal(status)
			if err != nil {
				continue
			}
			c.SSEvent("message", string(jsonStatus))
			c.Writer.Flush()
		case err := <-doneChan:
			if err != nil {
				c.JSON(http.StatusInternalServerError, types.DataResponse{
					Status:  "error",
					Message: err.Error(),
				})
				return
			}
			doc, err := h.documents.GetBySecurityCode(c.Request.Context(), req.SecurityCode)
			if err != nil {
				c.JSON(http.StatusInternalServerError, types.DataResponse{
					Status:  "error",
					Message: err.Error(),
				})
				return
			}
			c.JSON(http.StatusOK, types.DataResponse{
				Status: "success",
				Data:   doc,
			})
			return
		}
	}
}

func (h *DocumentHandler) GetDocumentHandler(c *gin.Context) {
	doc, err := h.documents.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   doc,
	})
}

func (h *DocumentHandler) GetBySecurityCodeHandler(c *gin.Context) {
	doc, err := h.documents.GetBySecurityCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.sendDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   doc,
	})
}

func (h *DocumentHandler) ListDocumentsHandler(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid skip parameter",
		})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid limit parameter",
		})
		return
	}

	filter := types.DocumentFilter{
		SecurityCode: c.Query("security_code"),
		Status:       c.Query("status"),
	}
	docs, total, err := h.documents.List(c.Request.Context(), filter, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.DocumentListResponse{
			Documents:  docs,
			TotalCount: total,
			Skip:       skip,
			Limit:      limit,
		},
	})
}

func (h *DocumentHandler) UpdateStatusHandler(c *gin.Context) {
	var req types.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	switch req.Status {
	case types.DOCUMENT_STATUS_PENDING,
		types.DOCUMENT_STATUS_PROCESSING,
		types.DOCUMENT_STATUS_COMPLETED,
		types.DOCUMENT_STATUS_FAILED:
	default:
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid status value",
		})
		return
	}

	if err := h.documents.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.sendDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Status updated",
	})
}

func (h *DocumentHandler) DeleteDocumentHandler(c *gin.Context) {
	if err := h.documents.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		h.sendDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Document deleted",
	})
}

func (h *DocumentHandler) DeleteBySecurityCodeHandler(c *gin.Context) {
	if err := h.documents.DeleteBySecurityCode(c.Request.Context(), c.Param("code")); err != nil {
		h.sendDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Document deleted",
	})
}

func (h *DocumentHandler) CleanupDuplicatesHandler(c *gin.Context) {
	removed, err := h.documents.CleanupDuplicates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.CleanupResponse{RemovedCount: removed},
	})
}

func (h *DocumentHandler) sendDocumentError(c *gin.Context, err error) {
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
}
