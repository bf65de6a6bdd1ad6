package common

import (
	"context"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// TokenUsage is the token accounting reported by one model call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// CompletionRequest describes one generation call.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSONOnly asks the provider to emit a single JSON document.
	JSONOnly bool
}

// CompletionResponse is a finished generation with its usage.
type CompletionResponse struct {
	Text  string
	Model string
	Usage TokenUsage
}

// StreamHandler receives text deltas as they arrive. Returning an error
// aborts the stream.
type StreamHandler func(delta string) error

// CompletionClient is the provider-neutral interface to a generative model.
// Complete returns the whole response at once; Stream delivers deltas to
// the handler and then returns the assembled response.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Stream(ctx context.Context, req CompletionRequest, onDelta StreamHandler) (*CompletionResponse, error)
	Close() error
}

// NewClient builds the CompletionClient named by the configuration.
func NewClient(ctx context.Context, cfg config.ModelConfig, logger logging.Logger) (CompletionClient, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg, logger)
	case "openai", "":
		return NewOpenAIClient(cfg, logger), nil
	default:
		return nil, errors.New(errors.ErrCodeBadRequest, "unknown model provider: "+cfg.Provider)
	}
}
