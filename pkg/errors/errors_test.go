package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForCoversEveryCode(t *testing.T) {
	codes := []Code{
		CodeValidation, CodeUnauthorized, CodeForbidden, CodeNotFound,
		CodeConflict, CodeStateConflict, CodeIdempotency, CodeRateLimit,
		CodeInternal, CodeDependency,
	}
	for _, code := range codes {
		meta := MetadataFor(code)
		if meta.HTTPStatus == 0 {
			t.Fatalf("code %s has no http status", code)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", code)
		}
	}
}

func TestMetadataForStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:    http.StatusBadRequest,
		CodeUnauthorized:  http.StatusUnauthorized,
		CodeForbidden:     http.StatusForbidden,
		CodeNotFound:      http.StatusNotFound,
		CodeConflict:      http.StatusConflict,
		CodeStateConflict: http.StatusUnprocessableEntity,
		CodeIdempotency:   http.StatusConflict,
		CodeRateLimit:     http.StatusTooManyRequests,
		CodeInternal:      http.StatusInternalServerError,
		CodeDependency:    http.StatusServiceUnavailable,
	}
	for code, want := range cases {
		if got := MetadataFor(code).HTTPStatus; got != want {
			t.Fatalf("code %s: expected %d, got %d", code, want, got)
		}
	}
	if MetadataFor("NO_SUCH_CODE").HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must fall back to internal")
	}
}

func TestInternalDetailsNeverAllowed(t *testing.T) {
	for _, code := range []Code{CodeInternal, CodeUnauthorized, CodeForbidden, CodeNotFound, CodeRateLimit} {
		if MetadataFor(code).DetailsAllowed {
			t.Fatalf("code %s must not expose details", code)
		}
	}
}

func TestWithDetailsReturnsCopy(t *testing.T) {
	base := New(CodeValidation, "missing field")
	detailed := base.WithDetails(map[string]string{"name": "is required"})

	if base.Details() != nil {
		t.Fatalf("WithDetails must not mutate the original")
	}
	if detailed.Details() == nil {
		t.Fatalf("details lost on copy")
	}
	if detailed.Code() != CodeValidation || detailed.Message() != "missing field" {
		t.Fatalf("copy dropped code or message")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeDependency, cause, "saving order")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("errors.Is lost the cause")
	}
	if wrapped.Error() != "DEPENDENCY_ERROR: saving order: disk full" {
		t.Fatalf("unexpected Error() output %q", wrapped.Error())
	}

	if noCause := Wrap(CodeConflict, nil, "standalone"); noCause.Unwrap() != nil {
		t.Fatalf("nil cause should produce plain error")
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeForbidden, "not your business")
	outer := fmt.Errorf("handling request: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeForbidden {
		t.Fatalf("As failed through fmt wrapping")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("plain errors must not convert")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) must be nil")
	}
}

func TestNilReceiverSafety(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal {
		t.Fatalf("nil receiver code should default to internal")
	}
	if e.Message() != "" || e.Details() != nil || e.Error() != "" || e.Unwrap() != nil {
		t.Fatalf("nil receiver accessors must return zero values")
	}
	if e.WithDetails("x") != nil {
		t.Fatalf("nil receiver WithDetails must stay nil")
	}
}
