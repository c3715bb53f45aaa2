package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusimeilanyy/intern-project/service"
)

type RenewalHandler struct {
	renewals *service.RenewalService
	store    service.DocumentStore
}

func NewRenewalHandler(renewals *service.RenewalService, store service.DocumentStore) *RenewalHandler {
	return &RenewalHandler{renewals: renewals, store: store}
}

type RenewRequest struct {
	NewEndDate string `json:"new_end_date" binding:"required"`
	Notes      string `json:"notes"`
}

// Renew extends an expired document to a new end date.
func (h *RenewalHandler) Renew(c *gin.Context) {
	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_end_date is required"})
		return
	}

	doc, err := h.renewals.Renew(c.Request.Context(), c.Param("id"), req.NewEndDate, req.Notes)
	if err != nil {
		respondRenewalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document renewed",
		"document": doc,
	})
}

// MarkNotRenewed freezes an expired document as terminal.
func (h *RenewalHandler) MarkNotRenewed(c *gin.Context) {
	doc, err := h.renewals.MarkNotRenewed(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRenewalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document marked as not renewed",
		"document": doc,
	})
}

// History returns the renewal audit trail for a document.
func (h *RenewalHandler) History(c *gin.Context) {
	doc, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id":    doc.ID,
		"renewal_count":  doc.RenewalCount,
		"renewal_status": doc.RenewalStatus,
		"history":        doc.RenewalHistory,
	})
}

func respondRenewalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, service.ErrNotYetExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document has not expired yet"})
	case errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Renewal failed"})
	}
}
