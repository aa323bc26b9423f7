package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"message only", NotFound("Job not found."), "Job not found."},
		{"with cause", Wrap(errors.New("boom"), ErrCodeInternal, "save failed"), "save failed: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the cause")
	}
}

func TestWrap_NilError(t *testing.T) {
	if Wrap(nil, ErrCodeInternal, "x") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NotFound("x"), IsNotFound},
		{"forbidden", Forbidden("x"), IsForbidden},
		{"conflict", Conflict("x"), IsConflict},
		{"validation", ValidationField("title", "x"), IsValidation},
		{"upstream", Upstream("EMAIL_EXISTS", errors.New("400")), IsUpstream},
		{"internal", Internal("x"), IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("predicate failed for %v", wrapped)
			}
			if IsTimeout(wrapped) || IsCanceled(wrapped) {
				t.Errorf("unexpected timeout/canceled match")
			}
		})
	}
}

func TestGetCodeAndField(t *testing.T) {
	err := fmt.Errorf("create: %w", ValidationField("title", "Title is required."))
	if GetCode(err) != ErrCodeValidation {
		t.Errorf("GetCode() = %q", GetCode(err))
	}
	if GetField(err) != "title" {
		t.Errorf("GetField() = %q", GetField(err))
	}
	if GetCode(errors.New("plain")) != "" || GetField(errors.New("plain")) != "" {
		t.Errorf("plain errors should have no code or field")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(fmt.Errorf("ctx: %w", Upstream("EMAIL_EXISTS", nil))); got != "EMAIL_EXISTS" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("driver detail")); got != "An unexpected error occurred." {
		t.Errorf("UserMessage() = %q", got)
	}
	if UserMessage(nil) != "" {
		t.Errorf("UserMessage(nil) should be empty")
	}
}
