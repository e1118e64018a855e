// Package pathutil maps request paths onto a bounded set of metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// OtherPath is the label for any path that is not a known route.
const OtherPath = "/other"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var knownPaths = map[string]struct{}{
	"/":            {},
	"/process_url": {},
	"/health":      {},
	"/ready":       {},
	"/live":        {},
	"/metrics":     {},
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/swagger(/.*)?$`), Template: "/swagger/*"},
}

// NormalizePath returns the metric label for path. Unknown paths collapse
// into OtherPath so that scanners probing random URLs cannot grow label
// cardinality.
//
// Examples:
//
//	NormalizePath("/process_url")         // "/process_url"
//	NormalizePath("/health/")             // "/health"
//	NormalizePath("/swagger/index.html")  // "/swagger/*"
//	NormalizePath("/wp-login.php")        // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return OtherPath
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func GetExpectedCardinality() int {
	return len(knownPaths) + len(pathPatterns) + 1
}
