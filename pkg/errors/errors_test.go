package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew_SetsCodeMessageAndStack(t *testing.T) {
	err := New(ErrCodeCaseNotFound, "case missing")
	if err.Code != ErrCodeCaseNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeCaseNotFound, err.Code)
	}
	if err.Message != "case missing" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Stack == "" {
		t.Error("expected stack to be captured")
	}
}

func TestError_FormatWithAndWithoutDetail(t *testing.T) {
	base := New(CodeNotFound, "not found")
	if got := base.Error(); got != "[COMMON_005] not found" {
		t.Errorf("unexpected Error() output: %q", got)
	}
	withDetail := base.WithDetail("id=42")
	if got := withDetail.Error(); got != "[COMMON_005] not found: id=42" {
		t.Errorf("unexpected Error() output with detail: %q", got)
	}
	// WithDetail must not mutate the receiver.
	if base.Detail != "" {
		t.Error("WithDetail mutated the original error")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil, CodeInternal, "whatever") != nil {
		t.Error("Wrap(nil, ...) must return nil")
	}
}

func TestWrap_PreservesCodeWhenUnknown(t *testing.T) {
	inner := New(ErrCodeAnalysisFailed, "pipeline broke")
	outer := Wrap(inner, CodeUnknown, "request failed")
	if outer.Code != ErrCodeAnalysisFailed {
		t.Errorf("expected inner code preserved, got %s", outer.Code)
	}
}

func TestWrap_ChainTraversal(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := Wrap(root, CodeDBConnectionError, "pg connect failed")
	doubly := Wrap(wrapped, ErrCodeAnalysisFailed, "analysis aborted")

	if !stderrors.Is(doubly, root) {
		t.Error("errors.Is failed to find the root cause")
	}
	if !IsCode(doubly, CodeDBConnectionError) {
		t.Error("IsCode failed to find intermediate code in chain")
	}
	if !IsCode(doubly, ErrCodeAnalysisFailed) {
		t.Error("IsCode failed to find outer code")
	}
	if IsCode(doubly, ErrCodeCaseNotFound) {
		t.Error("IsCode matched a code not present in chain")
	}
}

func TestClassificationHelpers(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
		want bool
		name string
	}{
		{New(ErrCodeCaseNotFound, "x"), IsNotFound, true, "case not found"},
		{New(ErrCodeAnalysisNotFound, "x"), IsNotFound, true, "analysis not found"},
		{New(ErrCodeCaseAccessDenied, "x"), IsForbidden, true, "case access denied"},
		{New(ErrCodeCaseMissingFacts, "x"), IsValidation, true, "missing facts"},
		{New(ErrCodeDraftFieldsInvalid, "x"), IsValidation, true, "draft fields"},
		{New(ErrCodeAnalysisRateLimited, "x"), IsRateLimited, true, "analysis rate limit"},
		{New(ErrCodeDraftRateLimited, "x"), IsRateLimited, true, "draft rate limit"},
		{New(ErrCodeCaseAlreadyExists, "x"), IsConflict, true, "case exists"},
		{New(CodeInternal, "x"), IsNotFound, false, "internal is not not-found"},
		{fmt.Errorf("plain"), IsForbidden, false, "plain error"},
	}
	for _, tc := range cases {
		if got := tc.pred(tc.err); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != CodeOK {
		t.Error("nil error should map to CodeOK")
	}
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Error("non-AppError should map to CodeUnknown")
	}
	if GetCode(New(ErrCodeModelUnavailable, "x")) != ErrCodeModelUnavailable {
		t.Error("GetCode failed to extract code")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeCaseNotFound:        http.StatusNotFound,
		ErrCodeCaseAccessDenied:    http.StatusForbidden,
		ErrCodeCaseMissingFacts:    http.StatusUnprocessableEntity,
		ErrCodeAnalysisRateLimited: http.StatusTooManyRequests,
		ErrCodeModelUnavailable:    http.StatusServiceUnavailable,
		ErrCodeDraftTypeUnsupported: http.StatusBadRequest,
		ErrCodeCreditExhausted:     http.StatusPaymentRequired,
		ErrorCode("NO_SUCH_CODE"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusForCode(code); got != want {
			t.Errorf("HTTPStatusForCode(%s) = %d, want %d", code, got, want)
		}
	}

	if HTTPStatus(New(ErrCodeCaseNotFound, "x")) != http.StatusNotFound {
		t.Error("HTTPStatus did not resolve AppError code")
	}
	if HTTPStatus(fmt.Errorf("plain")) != http.StatusInternalServerError {
		t.Error("HTTPStatus of plain error should be 500")
	}
}

func TestModuleForCode(t *testing.T) {
	if ModuleForCode(ErrCodeDraftStreamFailed) != "DRAFT" {
		t.Error("unexpected module prefix for DRAFT code")
	}
	if ModuleForCode(ErrCodeAnalysisFailed) != "LEX" {
		t.Error("unexpected module prefix for LEX code")
	}
	if ModuleForCode(ErrorCode("")) != "UNKNOWN" {
		t.Error("empty code should map to UNKNOWN module")
	}
}

func TestClientServerErrorSplit(t *testing.T) {
	if !IsClientError(ErrCodeCaseAccessDenied) {
		t.Error("403 code should be a client error")
	}
	if IsServerError(ErrCodeCaseAccessDenied) {
		t.Error("403 code should not be a server error")
	}
	if !IsServerError(ErrCodeAnalysisFailed) {
		t.Error("500 code should be a server error")
	}
}
