package telemetry

import (
	"net/url"
	"regexp"
	"strings"
)

// signingParams are presigned URL query parameters that grant access.
var signingParams = map[string]struct{}{
	"x-amz-signature":      {},
	"x-amz-credential":     {},
	"x-amz-security-token": {},
	"signature":            {},
	"awsaccesskeyid":       {},
}

var dsnPasswordPattern = regexp.MustCompile(`(?i)(password=)[^\s&]+`)

// RedactURL replaces signing query parameters of a presigned URL so it can be logged.
// Values that do not parse as a URL are returned as "[REDACTED]".
func RedactURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED]"
	}
	if parsed.User != nil {
		parsed.User = url.User("REDACTED")
	}
	if parsed.RawQuery == "" {
		return parsed.String()
	}

	query := parsed.Query()
	for key := range query {
		if _, sensitive := signingParams[strings.ToLower(key)]; sensitive {
			query.Set(key, "REDACTED")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// RedactDSN hides credentials in a database connection string.
func RedactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		return RedactURL(dsn)
	}
	return dsnPasswordPattern.ReplaceAllString(dsn, "${1}REDACTED")
}

// MaskSecret keeps the first four characters of a credential.
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
