package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	model "github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/internal/intelligence/draft"
	"github.com/praxislegal/lexia/pkg/errors"
)

// DraftService is the application port the handler drives.
type DraftService interface {
	Draft(ctx context.Context, tenantID, userID uuid.UUID, req *draft.Request, onDelta model.StreamHandler) (*draft.Result, error)
}

// DraftHandler serves the streaming document-drafting endpoint.
type DraftHandler struct {
	service DraftService
	logger  logging.Logger

	// streamTimeout bounds how long the response may stay open.
	streamTimeout time.Duration
}

func NewDraftHandler(service DraftService, streamTimeout time.Duration, logger logging.Logger) *DraftHandler {
	if streamTimeout == 0 {
		streamTimeout = 90 * time.Second
	}
	return &DraftHandler{service: service, streamTimeout: streamTimeout, logger: logger}
}

// Draft generates a document and streams the text to the client as it is
// produced.
// POST /api/v1/lexia/draft
func (h *DraftHandler) Draft(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req draft.Request
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeAppError(w, errors.Internal("streaming unsupported by connection"))
		return
	}

	// The stream outlives the server's default write deadline.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Now().Add(h.streamTimeout))

	started := false
	onDelta := func(delta string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return errors.Wrap(err, errors.ErrCodeDraftStreamFailed, "client write")
		}
		flusher.Flush()
		return nil
	}

	result, err := h.service.Draft(r.Context(), id.TenantID, id.UserID, &req, onDelta)
	if err != nil {
		if !started {
			writeAppError(w, err)
			return
		}
		// Headers are gone; all we can do is cut the stream short and log.
		h.logger.Error("draft stream aborted mid-flight",
			logging.String("document_type", string(req.DocumentType)), logging.Err(err))
		return
	}

	if !started {
		// Model produced an empty draft. Send an empty 200 so the client
		// does not hang waiting for headers.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
	h.logger.Info("draft stream completed",
		logging.String("document_type", string(req.DocumentType)),
		logging.Int("tokens", result.Tokens),
		logging.Int64("duration_ms", result.DurationMS))
}
