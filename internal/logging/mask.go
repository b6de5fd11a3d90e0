package logging

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaskChar is the character used for masking.
	MaskChar = "*"
	// TokenPrefixLength is how many characters of a token stay readable.
	TokenPrefixLength = 6
)

// SensitiveFields contains field names that should be masked.
var SensitiveFields = []string{
	"token",
	"secret",
	"password",
	"authorization",
	"bearer",
	"credential",
	"dsn",
	"database_url",
}

// IsSensitiveField checks if a field name indicates sensitive data.
func IsSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, keyword := range SensitiveFields {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskToken keeps the first few characters of a bearer token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= TokenPrefixLength {
		return strings.Repeat(MaskChar, len(token))
	}
	return token[:TokenPrefixLength] + strings.Repeat(MaskChar, 3)
}

// keyValuePassword matches password=... in key/value DSNs.
var keyValuePassword = regexp.MustCompile(`(?i)(password=)\S+`)

// MaskDSN hides the password of a postgres URL or key/value DSN.
func MaskDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxx")
			return strings.Replace(u.String(), ":xxx@", ":"+strings.Repeat(MaskChar, 3)+"@", 1)
		}
		return dsn
	}
	return keyValuePassword.ReplaceAllString(dsn, "${1}"+strings.Repeat(MaskChar, 3))
}

// MaskArgs masks sensitive values in a slice of logging arguments.
// Arguments are expected in key-value pairs: key1, value1, key2, value2, ...
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	var result []any
	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok || !IsSensitiveField(key) {
			continue
		}
		if result == nil {
			result = make([]any, len(args))
			copy(result, args)
		}
		if strVal, ok := args[i+1].(string); ok {
			result[i+1] = MaskToken(strVal)
		} else {
			result[i+1] = strings.Repeat(MaskChar, 8)
		}
	}

	if result == nil {
		return args
	}
	return result
}
