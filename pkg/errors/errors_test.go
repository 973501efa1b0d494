package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

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
				Message: "token not found",
			},
			expected: "NOT_FOUND: token not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("store unreachable"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: store unreachable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	if unwrapped := errors.Unwrap(appErr); unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Token", "A12")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "A12" {
		t.Errorf("expected id detail 'A12', got %v", err.Details["id"])
	}
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("done", "waiting")

	if err.Code != CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["from"] != "done" || err.Details["to"] != "waiting" {
		t.Errorf("expected from/to details, got %v", err.Details)
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("store unreachable", cause)

	if err.Code != CodeUnavailable {
		t.Errorf("expected code %s, got %s", CodeUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, err.HTTPStatus)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to match the cause")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("slot already locked")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError should return the same AppError")
	}

	wrapped := fmt.Errorf("outer: %w", appErr)
	if got := AsAppError(wrapped); got != appErr {
		t.Errorf("AsAppError should unwrap nested AppError")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, got.Code)
	}
}

func TestHasCode(t *testing.T) {
	err := NotFound("Appointment")
	if !HasCode(err, CodeNotFound) {
		t.Errorf("expected HasCode to match %s", CodeNotFound)
	}
	if HasCode(err, CodeConflict) {
		t.Errorf("did not expect HasCode to match %s", CodeConflict)
	}
	if HasCode(errors.New("plain"), CodeNotFound) {
		t.Errorf("plain errors should not match any code")
	}
}
