package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestConstructors_CodesAndStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("window taken"), CodeConflict, http.StatusConflict},
		{"state", State("not completed"), CodeState, http.StatusConflict},
		{"transient", Transient("retries exhausted", errors.New("write conflict")), CodeTransient, http.StatusServiceUnavailable},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.HTTPStatus)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := Conflict("window taken")

	if !HasCode(err, CodeConflict) {
		t.Error("expected HasCode to match a direct AppError")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("expected HasCode to reject a different code")
	}

	wrapped := fmt.Errorf("creating booking: %w", err)
	if !HasCode(wrapped, CodeConflict) {
		t.Error("expected HasCode to see through wrapping")
	}

	if HasCode(errors.New("plain"), CodeConflict) {
		t.Error("expected HasCode to reject non-app errors")
	}
	if HasCode(nil, CodeConflict) {
		t.Error("expected HasCode to reject nil")
	}
}

func TestAsAppError(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")

	appErr := AsAppError(fmt.Errorf("lookup: %w", err))
	if appErr == nil {
		t.Fatal("expected AsAppError to unwrap")
	}
	if appErr.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, appErr.Code)
	}

	if AsAppError(errors.New("plain")) != nil {
		t.Error("expected nil for non-app errors")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("write conflict")
	err := Transient("retries exhausted", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}
