// Package redact strips sensitive fragments from error text before it is
// logged. Database errors in particular can carry connection strings, SQL
// text or host details that must not leak into log aggregation.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	HostPlaceholder       = "[REDACTED_HOST]"
)

var (
	// Connection strings with inline credentials, e.g. postgres://user:pw@host.
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Secrets assigned in key=value or key: value form.
	secretRegex = regexp.MustCompile(
		`(?i)(password|passwd|secret|token|api[_-]?key)(['"\s:=]+)[^'"&\s]{3,}`,
	)

	// Bearer tokens in the standard three-part JWT shape.
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// SQL statement fragments echoed back by the driver.
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,.*()='"$]+(?:FROM|INTO|SET)[\s\w,.*()='"$]*`,
	)

	// host:port pairs from dial errors.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`,
	)
)

// String redacts sensitive fragments from s.
func String(s string) string {
	s = connStringRegex.ReplaceAllString(s, "$1://"+CredentialPlaceholder+"@")
	s = secretRegex.ReplaceAllString(s, "$1$2"+CredentialPlaceholder)
	s = jwtRegex.ReplaceAllString(s, CredentialPlaceholder)
	s = sqlRegex.ReplaceAllString(s, SQLPlaceholder)
	s = hostPortRegex.ReplaceAllString(s, HostPlaceholder)
	return s
}

// Error redacts the error's text. Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
