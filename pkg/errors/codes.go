package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Case module error codes.
const (
	ErrCodeCaseNotFound       ErrorCode = "CASE_001"
	ErrCodeCaseAccessDenied   ErrorCode = "CASE_002"
	ErrCodeCaseMissingFacts   ErrorCode = "CASE_003"
	ErrCodeCaseNumberInvalid  ErrorCode = "CASE_004"
	ErrCodeCaseAlreadyExists  ErrorCode = "CASE_005"
	ErrCodeCaseTenantMismatch ErrorCode = "CASE_006"
	ErrCodeCaseArchived       ErrorCode = "CASE_007"
)

// Strategic-analysis (estratega) module error codes.
const (
	ErrCodeAnalysisFailed         ErrorCode = "LEX_001"
	ErrCodeAnalysisNotFound       ErrorCode = "LEX_002"
	ErrCodeAnalysisShapeInvalid   ErrorCode = "LEX_003"
	ErrCodeAnalysisRateLimited    ErrorCode = "LEX_004"
	ErrCodeModelUnavailable       ErrorCode = "LEX_005"
	ErrCodeModelResponseMalformed ErrorCode = "LEX_006"
	ErrCodeScenarioSetInvalid     ErrorCode = "LEX_007"
	ErrCodeTimelineGraphInvalid   ErrorCode = "LEX_008"
)

// Document-drafting module error codes.
const (
	ErrCodeDraftTypeUnsupported ErrorCode = "DRAFT_001"
	ErrCodeDraftFieldsInvalid   ErrorCode = "DRAFT_002"
	ErrCodeDraftStreamFailed    ErrorCode = "DRAFT_003"
	ErrCodeDraftArchiveFailed   ErrorCode = "DRAFT_004"
	ErrCodeDraftRateLimited     ErrorCode = "DRAFT_005"
	ErrCodeCreditExhausted      ErrorCode = "DRAFT_006"
)

// Shorthand aliases used throughout the codebase.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeForbidden    = ErrCodeForbidden
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeValidation   = ErrCodeValidation
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeStorageError      = ErrCodeInternal
	CodeMessageQueueError = ErrCodeInternal
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeCaseNotFound:       http.StatusNotFound,
	ErrCodeCaseAccessDenied:   http.StatusForbidden,
	ErrCodeCaseMissingFacts:   http.StatusUnprocessableEntity,
	ErrCodeCaseNumberInvalid:  http.StatusBadRequest,
	ErrCodeCaseAlreadyExists:  http.StatusConflict,
	ErrCodeCaseTenantMismatch: http.StatusForbidden,
	ErrCodeCaseArchived:       http.StatusConflict,

	ErrCodeAnalysisFailed:         http.StatusInternalServerError,
	ErrCodeAnalysisNotFound:       http.StatusNotFound,
	ErrCodeAnalysisShapeInvalid:   http.StatusInternalServerError,
	ErrCodeAnalysisRateLimited:    http.StatusTooManyRequests,
	ErrCodeModelUnavailable:       http.StatusServiceUnavailable,
	ErrCodeModelResponseMalformed: http.StatusInternalServerError,
	ErrCodeScenarioSetInvalid:     http.StatusInternalServerError,
	ErrCodeTimelineGraphInvalid:   http.StatusInternalServerError,

	ErrCodeDraftTypeUnsupported: http.StatusBadRequest,
	ErrCodeDraftFieldsInvalid:   http.StatusUnprocessableEntity,
	ErrCodeDraftStreamFailed:    http.StatusInternalServerError,
	ErrCodeDraftArchiveFailed:   http.StatusInternalServerError,
	ErrCodeDraftRateLimited:     http.StatusTooManyRequests,
	ErrCodeCreditExhausted:      http.StatusPaymentRequired,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeCaseNotFound:       "case not found",
	ErrCodeCaseAccessDenied:   "no access to case",
	ErrCodeCaseMissingFacts:   "case has no description to analyze",
	ErrCodeCaseNumberInvalid:  "invalid case number",
	ErrCodeCaseAlreadyExists:  "case already exists",
	ErrCodeCaseTenantMismatch: "case belongs to a different organization",
	ErrCodeCaseArchived:       "case is archived",

	ErrCodeAnalysisFailed:         "strategic analysis failed",
	ErrCodeAnalysisNotFound:       "analysis not found",
	ErrCodeAnalysisShapeInvalid:   "analysis output failed shape validation",
	ErrCodeAnalysisRateLimited:    "analysis rate limit exceeded",
	ErrCodeModelUnavailable:       "language model unavailable",
	ErrCodeModelResponseMalformed: "language model returned malformed output",
	ErrCodeScenarioSetInvalid:     "scenario set failed contract validation",
	ErrCodeTimelineGraphInvalid:   "timeline dependency graph is invalid",

	ErrCodeDraftTypeUnsupported: "unsupported document type",
	ErrCodeDraftFieldsInvalid:   "draft form fields failed validation",
	ErrCodeDraftStreamFailed:    "draft generation stream failed",
	ErrCodeDraftArchiveFailed:   "failed to archive draft",
	ErrCodeDraftRateLimited:     "drafting rate limit exceeded",
	ErrCodeCreditExhausted:      "drafting credits exhausted",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
