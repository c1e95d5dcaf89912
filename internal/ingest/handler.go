package ingest

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartnotes-backend/internal/notes"
	"smartnotes-backend/internal/shared/server/middleware"
	"smartnotes-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires PDF upload to the ingestion service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pdf/upload", h.upload)
}

type uploadResponse struct {
	Text string             `json:"text"`
	Note notes.NoteResponse `json:"note"`
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := formFile(c, "pdf", "file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds 10MB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "No PDF file uploaded", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.Ingest(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) {
			respond.Error(c, http.StatusInternalServerError, "operation_failed", opErr.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import PDF", nil)
		return
	}

	c.Set("noteId", result.Note.ID)
	respond.OK(c, uploadResponse{Text: result.Text, Note: notes.ToResponse(result.Note)})
}

func formFile(c *gin.Context, fields ...string) (*multipart.FileHeader, error) {
	var lastErr error
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if err == nil {
			return fh, nil
		}
		lastErr = err
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
	}
	return nil, lastErr
}
