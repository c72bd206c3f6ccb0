package redact_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/flashgen/internal/redact"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"no sensitive data", "This is a normal log message", "This is a normal log message"},
		{
			name:     "gemini key",
			input:    "API key not valid. key=AIzaSyA1234567890abcdefghijklmnopqrstu",
			expected: "API key not valid. key=[REDACTED_KEY]",
		},
		{
			name:     "gemini key in query string",
			input:    "POST https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?key=AIzaSyA1234567890abcdefghijklmnopqrstu: 403",
			expected: "POST https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?[REDACTED_KEY] 403",
		},
		{
			name:     "openai key",
			input:    "Incorrect API key provided: sk-proj-abcdefghijklmnopqrstuvwxyz",
			expected: "Incorrect API key provided: [REDACTED_KEY]",
		},
		{"bearer header", "Authorization: Bearer abcdef1234567890", "Authorization: Bearer [REDACTED_KEY]"},
		{"key assignment", "using api_key=abcdef1234567890ghij for requests", "using [REDACTED_KEY] for requests"},
		{"password", "database password=hunter22 rejected", "database [REDACTED_CREDENTIAL] rejected"},
		{"unix path", "open /home/alice/notes/biology.pdf: permission denied", "open [REDACTED_PATH]: permission denied"},
		{"windows path", "template: C:\\Users\\alice\\prompt.tmpl missing", "template: [REDACTED_PATH] missing"},
		{"email", "contact alice@example.com for access", "contact [REDACTED_EMAIL] for access"},
		{"stack trace", "panic: boom\n\tmain.go:12\n\tserver.go:40", "[STACK_TRACE_REDACTED]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, redact.String(tc.input))
		})
	}
}

func TestError(t *testing.T) {
	assert.Equal(t, "", redact.Error(nil))

	err := fmt.Errorf("generation failed: %w", errors.New("status 401: sk-abcdefghijklmnopqrstuv"))
	assert.Equal(t, "generation failed: status 401: [REDACTED_KEY]", redact.Error(err))
}
