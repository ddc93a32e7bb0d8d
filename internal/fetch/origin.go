package fetch

import (
	"net/url"
	"strings"
)

// SameOrigin reports whether target shares scheme, host and port with base.
// Default ports are normalized, so http://a and http://a:80 match.
func SameOrigin(base *url.URL, target string) bool {
	if base == nil {
		return false
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(base.Scheme, u.Scheme) &&
		strings.EqualFold(base.Hostname(), u.Hostname()) &&
		effectivePort(base) == effectivePort(u)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}
