// Package redact scrubs credentials from strings before they reach logs or clients.
package redact

import (
	"regexp"
	"strings"
)

var (
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// access_token=..., key=..., api_key: ... as they appear in URLs and error strings.
	tokenKVRe = regexp.MustCompile(`(?i)\b(access_token|api[_-]?key|key|token)=([^\s&"']+)`)

	// Service-account JSON fields that leak when a credentials blob is echoed back.
	privateKeyRe = regexp.MustCompile(`(?i)"(private_key|private_key_id)"\s*:\s*"[^"]*"`)
)

// Secrets removes obvious secret-bearing substrings from s.
func Secrets(s string) string {
	if s == "" {
		return ""
	}
	out := bearerTokenRe.ReplaceAllString(s, "Bearer <redacted>")
	out = tokenKVRe.ReplaceAllString(out, "$1=<redacted>")
	out = privateKeyRe.ReplaceAllString(out, `"$1":"<redacted>"`)
	return strings.TrimSpace(out)
}

// Error returns the scrubbed message of err, or "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return Secrets(err.Error())
}
