package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGeometry, "bad wall: %s", "wall_3")

	if err.Code != ErrCodeInvalidGeometry {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGeometry)
	}

	if err.Message != "bad wall: wall_3" {
		t.Errorf("Message = %v, want %v", err.Message, "bad wall: wall_3")
	}

	expected := "INVALID_GEOMETRY: bad wall: wall_3"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStorage, cause, "failed to persist layout")

	if err.Code != ErrCodeStorage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorage)
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
			err:      New(ErrCodeInvalidFurniture, "test"),
			code:     ErrCodeInvalidFurniture,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidFurniture, "test"),
			code:     ErrCodeSolveTimeout,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidGeometry, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidGeometry, "inner"), "outer"),
			code:     ErrCodeInvalidGeometry,
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
		name string
		err  error
		want Code
	}{
		{"structured error", New(ErrCodeJobNotFound, "missing"), ErrCodeJobNotFound},
		{"wrapped structured error", Wrap(ErrCodeStorage, errors.New("io"), "save"), ErrCodeStorage},
		{"plain error", errors.New("plain"), ErrCodeInternal},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"geometry", New(ErrCodeInvalidGeometry, "x"), true},
		{"furniture", New(ErrCodeInvalidFurniture, "x"), true},
		{"weights", New(ErrCodeInvalidWeights, "x"), true},
		{"timeout", New(ErrCodeSolveTimeout, "x"), false},
		{"internal", New(ErrCodeInternal, "x"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.want {
				t.Errorf("IsValidation() = %v, want %v", got, tt.want)
			}
		})
	}
}
