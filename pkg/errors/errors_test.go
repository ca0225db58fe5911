package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "open floorplan")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
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
			err:      New(ErrCodeInvalidFloorplan, "test"),
			code:     ErrCodeInvalidFloorplan,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidFloorplan, "test"),
			code:     ErrCodeExternalTool,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeExternalTool, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeExternalTool,
			expected: true,
		},
		{
			name:     "parse error",
			err:      Parsef(ErrCodeInvalidTemperature, "chip.steady", 3, "bad value"),
			code:     ErrCodeInvalidTemperature,
			expected: true,
		},
		{
			name:     "tool error",
			err:      &ToolError{Tool: "pdfjam", Err: errors.New("exit status 1")},
			code:     ErrCodeExternalTool,
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
			err:      New(ErrCodeInvalidMode, "test"),
			expected: ErrCodeInvalidMode,
		},
		{
			name:     "parse error",
			err:      Parsef(ErrCodeInvalidLayerConfig, "chip.lcf", 0, "truncated"),
			expected: ErrCodeInvalidLayerConfig,
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
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "parse error keeps location",
			err:      Parsef(ErrCodeInvalidFloorplan, "ev6.flp", 12, "expected 5 or 7 fields, got 3"),
			expected: "ev6.flp:12: expected 5 or 7 fields, got 3",
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

func TestParseError(t *testing.T) {
	t.Run("with line", func(t *testing.T) {
		err := Parsef(ErrCodeInvalidFloorplan, "ev6.flp", 4, "bad width %q", "x")
		expected := `ev6.flp:4: bad width "x"`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("whole file", func(t *testing.T) {
		err := Parsef(ErrCodeInvalidFloorplan, "ev6.flp", 0, "no units")
		if err.Error() != "ev6.flp: no units" {
			t.Errorf("Error() = %v, want %v", err.Error(), "ev6.flp: no units")
		}
	})

	t.Run("errors.As", func(t *testing.T) {
		var err error = Wrap(ErrCodeInvalidInput, Parsef(ErrCodeInvalidTemperature, "a", 1, "m"), "load")
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatal("errors.As should find *ParseError")
		}
		if pe.Line != 1 {
			t.Errorf("Line = %d, want 1", pe.Line)
		}
	})
}

func TestToolError(t *testing.T) {
	err := &ToolError{Tool: "rsvg-convert", Stderr: "bad svg", Err: errors.New("exit status 1")}
	expected := "rsvg-convert: exit status 1: bad svg"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
	if err.Code() != ErrCodeExternalTool {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeExternalTool)
	}
}
