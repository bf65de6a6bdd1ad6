package draft

import (
	"context"
	"strings"
	"time"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/pkg/errors"
)

const draftSystemPrompt = `You are an experienced legal drafter at a law firm. ` +
	`Write formal, precise legal documents in the language of the provided inputs. ` +
	`Output only the document text, with no commentary before or after it.`

// Drafter streams generated documents, trying the primary model first and
// falling back to the secondary one when the primary fails before any text
// has been sent to the client.
type Drafter struct {
	client common.CompletionClient
	cfg    config.ModelConfig
	logger logging.Logger
	now    func() time.Time
}

// NewDrafter builds a Drafter on the given model client.
func NewDrafter(client common.CompletionClient, cfg config.ModelConfig, logger logging.Logger) *Drafter {
	return &Drafter{
		client: client,
		cfg:    cfg,
		logger: logger.Named("draft"),
		now:    time.Now,
	}
}

// buildPrompt renders the drafting prompt from the template, the form data
// and the optional case context or revision inputs.
func buildPrompt(req *Request) string {
	tmpl := templates[req.DocumentType]

	var b strings.Builder
	b.WriteString(tmpl.Instruction)
	b.WriteString("\n\nDocument: ")
	b.WriteString(tmpl.Title)
	b.WriteString("\n\nInputs:\n")
	for _, f := range tmpl.Fields {
		value := strings.TrimSpace(req.FormData[f.Name])
		if value == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	if req.CaseContext != "" {
		b.WriteString("\nCase context:\n")
		b.WriteString(req.CaseContext)
		b.WriteString("\n")
	}
	if req.PreviousDraft != "" {
		b.WriteString("\nPrevious draft to revise:\n")
		b.WriteString(req.PreviousDraft)
		b.WriteString("\n")
		if req.IterationInstruction != "" {
			b.WriteString("\nRevision instructions:\n")
			b.WriteString(req.IterationInstruction)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Stream validates the request and streams the document text to onDelta.
// If the primary model fails before the first delta reaches the handler,
// the fallback model is tried once; after text has been sent the stream
// cannot be restarted and the error propagates.
func (d *Drafter) Stream(ctx context.Context, req *Request, onDelta common.StreamHandler) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	began := d.now()
	prompt := buildPrompt(req)

	delivered := false
	counting := func(delta string) error {
		delivered = true
		return onDelta(delta)
	}

	resp, err := d.stream(ctx, d.cfg.PrimaryModel, prompt, counting)
	if err != nil && !delivered && d.cfg.FallbackModel != "" && d.cfg.FallbackModel != d.cfg.PrimaryModel {
		d.logger.Warn("primary model failed, trying fallback",
			logging.String("primary", d.cfg.PrimaryModel),
			logging.String("fallback", d.cfg.FallbackModel),
			logging.Err(err))
		resp, err = d.stream(ctx, d.cfg.FallbackModel, prompt, counting)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDraftStreamFailed, "draft generation failed")
	}

	return &Result{
		Text:       resp.Text,
		Model:      resp.Model,
		Tokens:     resp.Usage.TotalTokens,
		DurationMS: d.now().Sub(began).Milliseconds(),
	}, nil
}

func (d *Drafter) stream(ctx context.Context, model, prompt string, onDelta common.StreamHandler) (*common.CompletionResponse, error) {
	return d.client.Stream(ctx, common.CompletionRequest{
		Model:       model,
		System:      draftSystemPrompt,
		Prompt:      prompt,
		Temperature: d.cfg.Temperature,
		MaxTokens:   d.cfg.MaxOutputTokens,
	}, onDelta)
}
