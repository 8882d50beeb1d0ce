package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTruncatedRecord, "stream ended inside a record: %s", "},3,[1")

	if err.Code != ErrCodeTruncatedRecord {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTruncatedRecord)
	}

	if err.Message != "stream ended inside a record: },3,[1" {
		t.Errorf("Message = %v, want %v", err.Message, "stream ended inside a record: },3,[1")
	}

	expected := "TRUNCATED_RECORD: stream ended inside a record: },3,[1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exec: \"rg\": executable file not found in $PATH")
	err := Wrap(ErrCodeExtractionFailed, cause, "start rg")

	if err.Code != ErrCodeExtractionFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeExtractionFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeExtractionFailed, "test"),
			code:     ErrCodeExtractionFailed,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeExtractionFailed, "test"),
			code:     ErrCodeTruncatedRecord,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeExtractionFailed, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeExtractionFailed,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnparseableLine, "test"),
			expected: ErrCodeUnparseableLine,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeExtractionFailed, "rg: main.jsbundle: No such file"),
			expected: "rg: main.jsbundle: No such file",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Run("with stderr", func(t *testing.T) {
		err := &ExitError{Code: 2, Stderr: "rg: bundle.js: IO error"}
		expected := "exit status 2: rg: bundle.js: IO error"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
		if err.NoMatches() {
			t.Error("NoMatches() = true, want false")
		}
	})

	t.Run("without stderr", func(t *testing.T) {
		err := &ExitError{Code: 1}
		if err.Error() != "exit status 1" {
			t.Errorf("Error() = %v, want %v", err.Error(), "exit status 1")
		}
		if !err.NoMatches() {
			t.Error("NoMatches() = false, want true")
		}
	})
}
