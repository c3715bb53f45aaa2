package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/pkg/logger"
	"github.com/yusimeilanyy/intern-project/service"
)

const maxAttachmentSize = 10 << 20 // 10MB

type DocumentHandler struct {
	store       service.DocumentStore
	attachments service.AttachmentStore
}

func NewDocumentHandler(store service.DocumentStore, attachments service.AttachmentStore) *DocumentHandler {
	return &DocumentHandler{store: store, attachments: attachments}
}

// DocumentRequest is the intake/update payload. Dates travel as
// YYYY-MM-DD strings and are validated at the store boundary.
type DocumentRequest struct {
	Category             string `json:"category"`
	DocumentType         string `json:"document_type"`
	Institution          string `json:"institution"`
	OfficeDocNumber      string `json:"office_doc_number"`
	PartnerDocNumber     string `json:"partner_doc_number"`
	PICName              string `json:"pic_name"`
	PICEmail             string `json:"pic_email"`
	PartnerPIC           string `json:"partner_pic"`
	PartnerPICPhone      string `json:"partner_pic_phone"`
	TeamID               int64  `json:"team_id"`
	Owner                string `json:"owner"`
	Notes                string `json:"notes"`
	CooperationStartDate string `json:"cooperation_start_date"`
	CooperationEndDate   string `json:"cooperation_end_date"`
	Status               string `json:"status"`
}

// bindRequest reads the document payload from either a JSON body or the
// "payload" field of a multipart form (the intake form posts FormData
// when it carries an attachment).
func bindRequest(c *gin.Context) (*DocumentRequest, error) {
	var req DocumentRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		raw := c.PostForm("payload")
		if raw == "" {
			return nil, errors.New("payload form field required")
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, err
		}
		return &req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" || value == "-" {
		return nil, nil
	}
	t, err := time.ParseInLocation(service.DateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", service.ErrInvalidDate, value)
	}
	return &t, nil
}

// apply copies the request onto a document, validating dates and
// defaulting type and stage.
func (req *DocumentRequest) apply(doc *model.Document) error {
	if req.Category == "" {
		return errors.New("category is required")
	}
	start, err := parseOptionalDate(req.CooperationStartDate)
	if err != nil {
		return err
	}
	end, err := parseOptionalDate(req.CooperationEndDate)
	if err != nil {
		return err
	}

	doc.Category = model.Category(req.Category)
	if req.DocumentType != "" {
		doc.Type = model.DocumentType(req.DocumentType)
	}
	if doc.Type == "" {
		doc.Type = doc.Category.DefaultType()
	}
	doc.Institution = req.Institution
	doc.OfficeDocNumber = req.OfficeDocNumber
	doc.PartnerDocNumber = req.PartnerDocNumber
	doc.PICName = req.PICName
	doc.PICEmail = req.PICEmail
	doc.PartnerPIC = req.PartnerPIC
	doc.PartnerPICPhone = req.PartnerPICPhone
	doc.TeamID = req.TeamID
	doc.Owner = req.Owner
	doc.Notes = req.Notes
	doc.CooperationStartDate = start
	doc.CooperationEndDate = end
	if req.Status != "" {
		doc.Stage = req.Status
	}
	if doc.Stage == "" {
		doc.Stage = model.StageBaru
	}
	return nil
}

// List returns all documents, optionally filtered by category.
func (h *DocumentHandler) List(c *gin.Context) {
	filter := service.DocumentFilter{Category: model.Category(c.Query("category"))}
	docs, err := h.store.FindAll(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	result := make([]gin.H, len(docs))
	for i, doc := range docs {
		result[i] = gin.H{
			"id":              doc.ID,
			"category":        doc.Category,
			"document_type":   doc.Type,
			"document_number": doc.OfficeDocNumber,
			"partner_name":    doc.Institution,
			"start_date":      dateString(doc.CooperationStartDate),
			"end_date":        dateString(doc.CooperationEndDate),
			"status":          doc.Stage,
			"renewal_count":   doc.RenewalCount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"documents": result})
}

// Get returns a single document.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Create adds a new document from the intake form.
func (h *DocumentHandler) Create(c *gin.Context) {
	req, err := bindRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	doc := &model.Document{Stage: model.StageBaru}
	if err := req.apply(doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc.ID = uuid.New().String()

	if err := h.attachIfPresent(c, doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	logger.Info(c.Request.Context(), "document created", "document_id", doc.ID, "category", doc.Category)
	c.JSON(http.StatusCreated, doc)
}

// Update replaces the editable fields of a document.
func (h *DocumentHandler) Update(c *gin.Context) {
	doc, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	req, err := bindRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.apply(doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.attachIfPresent(c, doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	logger.Info(c.Request.Context(), "document updated", "document_id", doc.ID)
	c.JSON(http.StatusOK, doc)
}

// Delete removes a document and its stored attachment.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if doc.AttachmentKey != "" && h.attachments != nil {
		if err := h.attachments.Remove(c.Request.Context(), doc.AttachmentKey); err != nil {
			logger.Warn(c.Request.Context(), "failed to delete attachment", "document_id", id, "error", err)
		}
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}

	logger.Info(c.Request.Context(), "document deleted", "document_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// Preview redirects to a presigned URL for the document's attachment.
func (h *DocumentHandler) Preview(c *gin.Context) {
	doc, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if doc.AttachmentKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document has no attachment"})
		return
	}
	if h.attachments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Attachment storage not configured"})
		return
	}

	url, err := h.attachments.PreviewURL(c.Request.Context(), doc.AttachmentKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate preview URL"})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// attachIfPresent uploads the "file" form part, if any, and records it on
// the document. PDF, DOC and DOCX only, 10MB cap.
func (h *DocumentHandler) attachIfPresent(c *gin.Context, doc *model.Document) error {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil // no attachment in this request
	}
	defer file.Close()

	if h.attachments == nil {
		return errors.New("attachment storage not configured")
	}
	if header.Size > maxAttachmentSize {
		return errors.New("attachment exceeds 10MB limit")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := attachmentContentTypes[ext]
	if !ok {
		return errors.New("only PDF, DOC and DOCX files are allowed")
	}

	objectName := fmt.Sprintf("mous/%s/%s", doc.ID, header.Filename)
	if err := h.attachments.Upload(c.Request.Context(), objectName, file, header.Size, contentType); err != nil {
		return fmt.Errorf("failed to upload attachment: %w", err)
	}

	doc.AttachmentName = header.Filename
	doc.AttachmentKey = objectName
	return nil
}

var attachmentContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func dateString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(service.DateLayout)
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
}
