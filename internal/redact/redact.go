// Package redact scrubs credentials, file paths, and other sensitive
// fragments from strings before they reach logs or HTTP error bodies.
// Provider SDK errors routinely echo request URLs and headers, so every
// upstream error passes through Error before it is logged.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; provider keys go first so the generic
// patterns below never split them.
var rules = []rule{
	// Google AI Studio keys
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{30,}`), RedactedKeyPlaceholder},
	// OpenAI-style secret keys, including sk-proj- and sk-svcacct-
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), "Bearer " + RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)([?&])(?:key|api[_-]?key|access_token)=[^&\s"']+`), "${1}" + RedactedKeyPlaceholder},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret|authorization)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), RedactedStackPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`), RedactedPathPlaceholder},
	{regexp.MustCompile(`(^|[\s'"(=])(?:/[\w.\-]+){2,}`), "${1}" + RedactedPathPlaceholder},
}

// String redacts sensitive fragments from s.
func String(s string) string {
	if s == "" {
		return s
	}

	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.placeholder)
	}
	return s
}

// Error redacts err's message. A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
