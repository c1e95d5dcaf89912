package notes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartnotes-backend/internal/shared/server/middleware"
	"smartnotes-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notes", h.create)
	rg.GET("/notes", h.list)
	rg.GET("/notes/:id", h.get)
	rg.PUT("/notes/:id", h.update)
	rg.DELETE("/notes/:id", h.delete)
	rg.POST("/notes/:id/share", h.share)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	note, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.Title, req.Content)
	if err != nil {
		writeError(c, err, "failed to create note")
		return
	}
	c.Set("noteId", note.ID)
	respond.JSON(c, http.StatusCreated, ToResponse(note))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to list notes")
		return
	}
	resp := make([]NoteResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, ToResponse(n))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	noteID := c.Param("id")
	c.Set("noteId", noteID)
	note, err := h.Svc.Get(c.Request.Context(), noteID, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to load note")
		return
	}
	respond.OK(c, ToResponse(note))
}

func (h *Handler) update(c *gin.Context) {
	noteID := c.Param("id")
	c.Set("noteId", noteID)
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	note, err := h.Svc.Update(c.Request.Context(), noteID, middleware.UserIDFromContext(c), Changes{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(c, err, "failed to update note")
		return
	}
	respond.OK(c, ToResponse(note))
}

func (h *Handler) delete(c *gin.Context) {
	noteID := c.Param("id")
	c.Set("noteId", noteID)
	if err := h.Svc.Delete(c.Request.Context(), noteID, middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err, "failed to delete note")
		return
	}
	respond.OK(c, gin.H{"message": "Note deleted successfully"})
}

func (h *Handler) share(c *gin.Context) {
	noteID := c.Param("id")
	c.Set("noteId", noteID)
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Recipient email is required", nil)
		return
	}
	if err := h.Svc.Share(c.Request.Context(), noteID, middleware.UserIDFromContext(c), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Recipient email is required", nil)
		case errors.Is(err, ErrRecipientNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Recipient user not found", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Note not found or not owned by user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to share note", nil)
		}
		return
	}
	respond.OK(c, gin.H{"message": "Note shared successfully"})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Note not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
