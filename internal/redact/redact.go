// Package redact strips credential material from text headed for the audit
// log. The log is meant to be shared with reviewers; commands occasionally
// embed tokens that must not travel with it.
package redact

import (
	"regexp"
)

const redactedPlaceholder = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// AWS access keys
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws_secret_access_key|aws_session_token)\s*[=:]\s*['"]?[A-Za-z0-9/+=]{20,}['"]?`),

	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),

	// Generic API keys and tokens in key=value form
	regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|access_token|auth_token)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),

	// Basic auth embedded in URLs
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),

	// Private key headers
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),

	// Slack tokens
	regexp.MustCompile(`xox[baprs]-[0-9A-Za-z-]{10,}`),
}

// Redact replaces recognized credential material with a placeholder.
func Redact(s string) string {
	for _, re := range sensitivePatterns {
		s = re.ReplaceAllString(s, redactedPlaceholder)
	}
	return s
}
