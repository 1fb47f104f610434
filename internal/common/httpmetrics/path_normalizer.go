package httpmetrics

import "strings"

// The route surface is small and fixed, so the label set is an allowlist.
// This middleware runs outside the gate; anonymous scans of arbitrary paths
// must not mint new label values, so anything unrecognized collapses into one
// of two buckets.
var knownRoutes = [...]string{
	"/api/auth/login",
	"/api/auth/logout",
	"/api/auth/session",
	"/api/auth/users",
	"/health",
	"/metrics",
}

func NormalizePath(path string) string {
	for _, route := range knownRoutes {
		if path == route {
			return route
		}
	}
	if strings.HasPrefix(path, "/api/") {
		return "/api/{other}"
	}
	return "/{page}"
}
