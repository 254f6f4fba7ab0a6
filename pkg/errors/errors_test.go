package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "blueprint %q does not exist", "web1")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}

	if err.Message != `blueprint "web1" does not exist` {
		t.Errorf("Message = %v, want %v", err.Message, `blueprint "web1" does not exist`)
	}

	expected := `NOT_FOUND: blueprint "web1" does not exist`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStoreCorrupt, cause, "object abc123")

	if err.Code != ErrCodeStoreCorrupt {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStoreCorrupt)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
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
			err:      New(ErrCodeNotFound, "test"),
			code:     ErrCodeNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNotFound, "test"),
			code:     ErrCodeMalformedDocument,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeStoreCorrupt, New(ErrCodeNotFound, "inner"), "outer"),
			code:     ErrCodeStoreCorrupt,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeNotFound,
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
	if got := GetCode(New(ErrCodeMalformedDocument, "bad entry")); got != ErrCodeMalformedDocument {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeMalformedDocument)
	}

	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "blueprint %q does not exist", "db1")
	if got := UserMessage(err); got != `blueprint "db1" does not exist` {
		t.Errorf("UserMessage() = %v", got)
	}

	plain := errors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage() = %v", got)
	}
}
