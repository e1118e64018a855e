package respond

import (
	"regexp"
)

// Patterns are applied in order; more specific ones come first.
var secretPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`pat[a-zA-Z0-9]{10,}\.[a-f0-9]{20,}`), "pat****"},
	{regexp.MustCompile(`(secret|ntn)_[a-zA-Z0-9]{20,}`), "${1}_****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{20,}`), "AIza****"},
	{regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9\-_.=]+`), "${1}****"},
	{regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`), "://$1:****@"},
}

// SanitizeError returns the error message with API keys, bearer tokens and
// URL credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitize(err.Error())
}

func sanitize(msg string) string {
	for _, p := range secretPatterns {
		msg = p.re.ReplaceAllString(msg, p.repl)
	}
	return msg
}
