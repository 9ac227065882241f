// Package redact removes sensitive fragments from strings before they are
// logged. Database drivers and the auth layer produce messages that can carry
// connection credentials, API tokens, file system paths or raw SQL; these
// helpers strip them while keeping the rest of the message readable.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order. Stack traces go first so their file paths are
// swallowed whole, and bearer tokens precede key=value secrets so that
// "token: Bearer abc" never leaves the token behind.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: RedactedStackPlaceholder,
	},
	{
		// scheme://user:password@ in DSNs
		pattern:     regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^/@\s]+@`),
		replacement: RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`),
		replacement: "${1}" + RedactedTokenPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd|token|secret|api[_-]?key)(\s*[=:]\s*)['"]?[^'"&\s,]+['"]?`),
		replacement: "${1}${2}" + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE)\s[^;\n]*?\b(?:FROM|INTO|SET|WHERE)\b[^;\n]*`),
		replacement: RedactedSQLPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(/[\w.-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`),
		replacement: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Token masks an API token for logging, keeping only its first four
// characters so log lines can still be correlated.
func Token(token string) string {
	if len(token) <= 4 {
		return RedactedTokenPlaceholder
	}
	return token[:4] + "..." + RedactedTokenPlaceholder
}
