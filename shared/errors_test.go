package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"bad request", NewBadRequestError(nil, "bad"), true},
		{"unauthorized", NewUnauthorizedError("no"), true},
		{"forbidden", NewForbiddenError("no"), true},
		{"not found", NewNotFoundError("missing"), true},
		{"conflict", NewConflictError("taken", nil), true},
		{"internal", NewInternalError(errors.New("boom"), "oops"), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
		{"wrapped app error", fmt.Errorf("context: %w", NewNotFoundError("missing")), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsClientError(tc.err); got != tc.expected {
				t.Errorf("IsClientError = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	plain := NewNotFoundError("Lesson not found")
	if plain.Error() != "Lesson not found" {
		t.Fatalf("unexpected message %q", plain.Error())
	}

	wrapped := NewInternalError(errors.New("dial tcp refused"), "Database error")
	if wrapped.Error() != "Database error: dial tcp refused" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Fatal("wrapped cause should unwrap")
	}
}

func TestGetAppError(t *testing.T) {
	appErr, ok := GetAppError(fmt.Errorf("outer: %w", NewConflictError("taken", map[string]interface{}{"n": 1})))
	if !ok {
		t.Fatal("wrapped AppError should be found")
	}
	if appErr.StatusCode != 409 {
		t.Fatalf("unexpected status %d", appErr.StatusCode)
	}

	if _, ok := GetAppError(errors.New("plain")); ok {
		t.Fatal("plain error is not an AppError")
	}
}
