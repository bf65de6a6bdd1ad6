package common

import (
	"context"
	"strings"

	genai "google.golang.org/genai"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// geminiClient adapts the official genai client to CompletionClient.
type geminiClient struct {
	cli    *genai.Client
	logger logging.Logger
}

// NewGeminiClient builds a client backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg config.ModelConfig, logger logging.Logger) (CompletionClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelUnavailable, "create gemini client")
	}
	return &geminiClient{cli: cli, logger: logger.Named("gemini")}, nil
}

func (g *geminiClient) generationConfig(req CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONOnly {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	return cfg
}

func contents(prompt string) []*genai.Content {
	return []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
}

func usageFromMetadata(md *genai.GenerateContentResponseUsageMetadata) TokenUsage {
	if md == nil {
		return TokenUsage{}
	}
	return TokenUsage{
		PromptTokens:     int(md.PromptTokenCount),
		CompletionTokens: int(md.CandidatesTokenCount),
		TotalTokens:      int(md.TotalTokenCount),
	}
}

func (g *geminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, req.Model, contents(req.Prompt), g.generationConfig(req))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelUnavailable, "gemini request failed")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New(errors.ErrCodeModelResponseMalformed, "gemini response has no candidates")
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return &CompletionResponse{
		Text:  text.String(),
		Model: req.Model,
		Usage: usageFromMetadata(resp.UsageMetadata),
	}, nil
}

func (g *geminiClient) Stream(ctx context.Context, req CompletionRequest, onDelta StreamHandler) (*CompletionResponse, error) {
	out := &CompletionResponse{Model: req.Model}
	var text strings.Builder

	for resp, err := range g.cli.Models.GenerateContentStream(ctx, req.Model, contents(req.Prompt), g.generationConfig(req)) {
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDraftStreamFailed, "gemini stream failed")
		}
		if resp.UsageMetadata != nil {
			out.Usage = usageFromMetadata(resp.UsageMetadata)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			text.WriteString(part.Text)
			if err := onDelta(part.Text); err != nil {
				return nil, err
			}
		}
	}

	out.Text = text.String()
	return out, nil
}

func (g *geminiClient) Close() error { return nil }
