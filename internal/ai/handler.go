package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartnotes-backend/internal/shared/server/respond"
)

type contentRequest struct {
	Content string `json:"content"`
}

type askRequest struct {
	Content  string `json:"content"`
	Question string `json:"question"`
}

type quizRequest struct {
	Content      string          `json:"content"`
	NumQuestions json.RawMessage `json:"numQuestions"`
}

type scoreRequest struct {
	Questions []QuizQuestion `json:"questions"`
	Answers   []*int         `json:"answers"`
}

// Handler exposes the AI gateway over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/summarize", h.summarize)
	rg.POST("/ai/keywords", h.keywords)
	rg.POST("/ai/rewrite", h.rewrite)
	rg.POST("/ai/ask", h.ask)
	rg.POST("/ai/quiz", h.quiz)
	rg.POST("/ai/quiz/score", h.score)
}

func (h *Handler) summarize(c *gin.Context) {
	h.textOperation(c, OpSummarize, "summary", h.Svc.Summarize)
}

func (h *Handler) keywords(c *gin.Context) {
	h.textOperation(c, OpKeywords, "keywords", h.Svc.ExtractKeywords)
}

func (h *Handler) rewrite(c *gin.Context) {
	h.textOperation(c, OpRewrite, "rewritten", h.Svc.Rewrite)
}

func (h *Handler) textOperation(c *gin.Context, op, key string, fn func(context.Context, string) (string, error)) {
	c.Set("aiOperation", op)
	var req contentRequest
	if !bindOptional(c, &req) {
		return
	}
	out, err := fn(c.Request.Context(), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{key: out})
}

func (h *Handler) ask(c *gin.Context) {
	c.Set("aiOperation", OpAsk)
	var req askRequest
	if !bindOptional(c, &req) {
		return
	}
	answer, err := h.Svc.Ask(c.Request.Context(), req.Content, req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"answer": answer})
}

func (h *Handler) quiz(c *gin.Context) {
	c.Set("aiOperation", OpQuiz)
	var req quizRequest
	if !bindOptional(c, &req) {
		return
	}
	result, err := h.Svc.GenerateQuiz(c.Request.Context(), req.Content, QuestionCount(req.NumQuestions))
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Recovered() {
		respond.OK(c, gin.H{"quiz": result.Quiz})
		return
	}
	respond.OK(c, gin.H{"quizText": result.Text})
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	score, err := ScoreQuiz(req.Questions, req.Answers)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", validationMessage(err), nil)
		return
	}
	respond.OK(c, score)
}

// bindOptional decodes a JSON body when present. An empty body leaves req zeroed
// so the service reports the missing fields.
func bindOptional(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	var opErr *OperationError
	switch {
	case errors.Is(err, ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, "ai_not_configured", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", validationMessage(err), nil)
	case errors.As(err, &opErr):
		respond.Error(c, http.StatusInternalServerError, "operation_failed", opErr.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	if msg == "" {
		return err.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
