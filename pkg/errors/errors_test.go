package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "resource not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "resource not found" {
		t.Errorf("expected message 'resource not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("permission denied")
	ctx := map[string]any{
		"path": "/data/gold.csv",
	}

	err := WrapWithContext(ErrCodeInputFile, "gold standard unreadable", cause, ctx)

	if err.Code != ErrCodeInputFile {
		t.Errorf("expected code %s, got %s", ErrCodeInputFile, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["path"] != "/data/gold.csv" {
		t.Errorf("expected path to be /data/gold.csv")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeInputFile,
		ErrCodePatchShape,
		ErrCodeBudgetExceeded,
		ErrCodeDuplicateCandidate,
		ErrCodeNotFound,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodePatchShape, "empty alternatives")
	outer := Wrap(ErrCodeInternal, "expansion failed", inner)
	wrapped := fmt.Errorf("generate: %w", outer)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{name: "direct match", err: inner, code: ErrCodePatchShape, want: true},
		{name: "outer code", err: outer, code: ErrCodeInternal, want: true},
		{name: "cause code through chain", err: wrapped, code: ErrCodePatchShape, want: true},
		{name: "absent code", err: wrapped, code: ErrCodeBudgetExceeded, want: false},
		{name: "plain error", err: errors.New("plain"), code: ErrCodeInternal, want: false},
		{name: "nil error", err: nil, code: ErrCodeInternal, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New(ErrCodeDuplicateCandidate, "dup"))); got != ErrCodeDuplicateCandidate {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeDuplicateCandidate)
	}
	if got := CodeOf(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeInternal)
	}
}
