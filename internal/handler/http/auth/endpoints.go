package auth

import "strings"

// PublicEndpoints are reachable without a token even when authentication is
// enabled. Entries ending in '/' match by prefix.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/swagger/",
}

// IsPublicEndpoint reports whether path needs no token. Exact entries also
// match with a trailing slash, but never a deeper subpath.
//
//	IsPublicEndpoint("/health")             // true
//	IsPublicEndpoint("/health/")            // true
//	IsPublicEndpoint("/health/detail")      // false
//	IsPublicEndpoint("/swagger/index.html") // true
//	IsPublicEndpoint("/process_url")        // false
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
	}
	return false
}
