package logging

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces credentials in log output.
const RedactedValue = "[redacted]"

var secretKeys = map[string]struct{}{
	"api_key":        {},
	"apikey":         {},
	"api_token":      {},
	"token":          {},
	"authorization":  {},
	"password":       {},
	"redis_password": {},
}

// IsSecretKey reports whether attributes named key are scrubbed before output.
func IsSecretKey(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}

// redactAttr blanks non-empty secret values. Empty values stay visible so a
// missing credential is still obvious in logs.
func redactAttr(attr slog.Attr) slog.Attr {
	if !IsSecretKey(attr.Key) {
		return attr
	}
	if attr.Value.Kind() == slog.KindString && attr.Value.String() == "" {
		return attr
	}
	return slog.String(attr.Key, RedactedValue)
}
