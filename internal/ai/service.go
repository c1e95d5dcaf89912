package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartnotes-backend/internal/shared/config"
	"smartnotes-backend/internal/shared/metrics"
	"smartnotes-backend/internal/shared/telemetry"
)

// Completer sends one prompt to a generative model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	OpSummarize = "summarize"
	OpKeywords  = "extractKeywords"
	OpRewrite   = "rewrite"
	OpAsk       = "ask"
	OpQuiz      = "generateQuiz"
)

// Service is the AI gateway. Each operation makes at most one model call.
type Service struct {
	client   Completer
	provider string
	model    string
}

// NewService builds the gateway from the startup configuration. A nil client or a
// missing credential leaves the gateway unconfigured.
func NewService(cfg config.AIConfig, client Completer) *Service {
	if !cfg.Configured() {
		client = nil
	}
	return &Service{client: client, provider: cfg.Provider, model: cfg.Model}
}

// Configured reports whether operations will reach a model.
func (s *Service) Configured() bool {
	return s != nil && s.client != nil
}

func (s *Service) Summarize(ctx context.Context, content string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if isBlank(content) {
		return "", fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return s.call(ctx, OpSummarize, summarizePrompt(content))
}

func (s *Service) ExtractKeywords(ctx context.Context, content string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if isBlank(content) {
		return "", fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return s.call(ctx, OpKeywords, keywordsPrompt(content))
}

func (s *Service) Rewrite(ctx context.Context, content string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if isBlank(content) {
		return "", fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return s.call(ctx, OpRewrite, rewritePrompt(content))
}

// Ask answers question using only the supplied note content.
func (s *Service) Ask(ctx context.Context, content, question string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if isBlank(content) || isBlank(question) {
		return "", fmt.Errorf("%w: both content and question are required", ErrInvalidInput)
	}
	return s.call(ctx, OpAsk, askPrompt(content, question))
}

// GenerateQuiz requests a quiz of n questions (clamped to the allowed range) and
// recovers structured output from the model text. Unrecoverable text is returned
// in QuizResult.Text rather than as an error.
func (s *Service) GenerateQuiz(ctx context.Context, content string, n int) (QuizResult, error) {
	if err := s.ready(); err != nil {
		return QuizResult{}, err
	}
	if isBlank(content) {
		return QuizResult{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	n = clampQuestions(n)
	text, err := s.call(ctx, OpQuiz, quizPrompt(content, n))
	if err != nil {
		return QuizResult{}, err
	}

	result := RecoverQuiz(text)
	metrics.IncQuizRecovery(result.Tier)
	telemetry.Info("ai.quiz.recovered", map[string]any{
		"tier":          result.Tier,
		"num_questions": n,
	})
	return result, nil
}

func (s *Service) ready() error {
	if s == nil {
		return notConfigured("")
	}
	if s.client == nil {
		return notConfigured(s.provider)
	}
	return nil
}

func (s *Service) call(ctx context.Context, op, prompt string) (string, error) {
	start := time.Now()
	text, err := s.client.Complete(ctx, prompt)
	elapsed := time.Since(start)

	fields := map[string]any{
		"operation":   op,
		"provider":    s.provider,
		"model":       s.model,
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["outcome"] = "error"
		fields["error"] = err
		telemetry.Warn("ai.call", fields)
		metrics.ObserveAICall(op, "error", elapsed)
		return "", &OperationError{Op: op, Err: err}
	}
	fields["outcome"] = "ok"
	fields["response_chars"] = len(text)
	telemetry.Info("ai.call", fields)
	metrics.ObserveAICall(op, "ok", elapsed)
	return text, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
