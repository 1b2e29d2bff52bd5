package log

import (
	"strings"
)

var sensitiveKeywords = []string{
	"password", "passwd", "pwd",
	"api_key", "apikey", "api-key",
	"token", "secret", "authorization",
	"credential", "private_key", "privatekey",
	"dsn",
}

// SanitizeField masks the value when the key looks sensitive.
// Email-like keys keep the first characters of the local part.
func SanitizeField(key, value string) string {
	if value == "" {
		return value
	}

	lowerKey := strings.ToLower(key)

	if strings.Contains(lowerKey, "email") {
		return sanitizeEmail(value)
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return sanitizeToken(value)
		}
	}

	return value
}

// sanitizeToken shows the first and last 4 characters of long values.
func sanitizeToken(value string) string {
	if len(value) <= 8 {
		if len(value) <= 2 {
			return strings.Repeat("*", len(value))
		}
		return string(value[0]) + strings.Repeat("*", len(value)-2) + string(value[len(value)-1])
	}

	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func sanitizeEmail(value string) string {
	local, domain, ok := strings.Cut(value, "@")
	if !ok || strings.Contains(domain, "@") {
		return strings.Repeat("*", len(value))
	}

	if len(local) <= 3 {
		if local == "" {
			return "@" + domain
		}
		return string(local[0]) + strings.Repeat("*", len(local)-1) + "@" + domain
	}

	return local[:3] + "***@" + domain
}
