package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/auth/login", "/api/auth/login"},
		{"/api/auth/users", "/api/auth/users"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/api/auth/unknown", "/api/{other}"},
		{"/api/../../etc/passwd", "/api/{other}"},
		{"/login", "/{page}"},
		{"/", "/{page}"},
		{"/wp-admin/setup.php", "/{page}"},
		{"", "/{page}"},
	}
	for _, tc := range cases {
		if got := NormalizePath(tc.path); got != tc.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

// Arbitrary scanned paths must land in a bounded label set.
func TestNormalizePath_BoundedOutput(t *testing.T) {
	scanned := []string{
		"/a", "/b/c", "/api/x", "/api/y/z", "/admin", "/.env",
		"/api/auth/users/123", "/static/app.js",
	}
	seen := make(map[string]struct{})
	for _, p := range scanned {
		seen[NormalizePath(p)] = struct{}{}
	}
	if len(seen) > 2 {
		t.Errorf("expected scanned paths to collapse into at most 2 labels, got %v", seen)
	}
}
