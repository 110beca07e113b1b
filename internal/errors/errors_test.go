package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		code         ErrorCode
		message      string
		wantCategory ErrorCategory
	}{
		{"invalid_input", ErrCodeInvalidInput, "title is required", CategoryPermanent},
		{"not_found", ErrCodeNotFound, "task not found", CategoryPermanent},
		{"unavailable", ErrCodeUnavailable, "store unavailable", CategoryTransient},
		{"internal", ErrCodeInternal, "internal error", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)
			if err.Code() != tt.code {
				t.Errorf("Code() = %v, want %v", err.Code(), tt.code)
			}
			if err.Category() != tt.wantCategory {
				t.Errorf("Category() = %v, want %v", err.Category(), tt.wantCategory)
			}
			if err.Error() != tt.message {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.message)
			}
			if err.Timestamp().IsZero() {
				t.Error("Timestamp() should not be zero")
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidInput, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeAlreadyExists, 409},
		{ErrCodeUnavailable, 503},
		{ErrCodeTimeout, 500},
		{ErrCodeInternal, 500},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWithField(t *testing.T) {
	err := InvalidInput("due date must be in the future", WithField("dueDate"))
	if err.Field() != "dueDate" {
		t.Errorf("Field() = %q, want %q", err.Field(), "dueDate")
	}
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Internal("failed to persist task", WithCause(cause))

	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() = %q, should contain cause", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := InvalidInput("title is required", WithField("title"), WithMetadata("op", "create"))

	data, merr := json.Marshal(err)
	if merr != nil {
		t.Fatalf("Marshal failed: %v", merr)
	}

	var decoded map[string]interface{}
	if uerr := json.Unmarshal(data, &decoded); uerr != nil {
		t.Fatalf("Unmarshal failed: %v", uerr)
	}
	if decoded["code"] != "INVALID_INPUT" {
		t.Errorf("code = %v, want INVALID_INPUT", decoded["code"])
	}
	if decoded["field"] != "title" {
		t.Errorf("field = %v, want title", decoded["field"])
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("AsError(nil) should be nil")
	}

	orig := NotFound("task not found")
	if got := AsError(orig); got != orig {
		t.Error("AsError should return the original *Error")
	}

	wrapped := fmt.Errorf("operation failed: %w", orig)
	if got := AsError(wrapped); got != orig {
		t.Error("AsError should unwrap to the original *Error")
	}

	plain := stderrors.New("boom")
	got := AsError(plain)
	if got.Code() != ErrCodeInternal {
		t.Errorf("AsError(plain).Code() = %v, want INTERNAL", got.Code())
	}
	if !stderrors.Is(got, plain) {
		t.Error("wrapped plain error should be reachable via Unwrap")
	}
}

func TestDescription(t *testing.T) {
	if ErrCodeNotFound.Description() != "resource not found" {
		t.Errorf("unexpected description: %s", ErrCodeNotFound.Description())
	}
	if ErrorCode("BOGUS").Description() != "unknown error" {
		t.Error("unknown code should have fallback description")
	}
}
