package respond

import (
	"regexp"
)

var (
	// userinfo password in postgres:// and redis:// URLs
	urlPasswordPattern = regexp.MustCompile(`://([^:/@]*):([^@]+)@`)

	// password=... in libpq key/value connection strings
	kvPasswordPattern = regexp.MustCompile(`(?i)(password=)('[^']*'|\S+)`)
)

// SanitizeError returns the error message with connection credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = kvPasswordPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
