package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/praxislegal/lexia/internal/interfaces/http/middleware"
	"github.com/praxislegal/lexia/pkg/errors"
	"github.com/praxislegal/lexia/pkg/types/common"
)

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps an application error to its HTTP status and the
// standard error envelope. Server-side codes get a masked message so
// internals never reach clients.
func writeAppError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = errors.ErrorCodeMessage[errors.ErrCodeInternal]
	}
	writeJSON(w, status, common.NewErrorResponse(string(code), message))
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body")
	}
	return nil
}

// identity pulls the authenticated principal, guarding against routes
// mounted outside the auth middleware by mistake.
func identity(r *http.Request) (*middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return nil, errors.Unauthorized("authentication required")
	}
	return id, nil
}

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) common.Pagination {
	p := common.Pagination{Page: 1, PageSize: 20}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			p.PageSize = n
		}
	}
	return p
}
