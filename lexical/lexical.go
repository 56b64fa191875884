// Package lexical holds the pluggable lexical validators the URL and Email
// fields delegate to. They are deliberately small predicates so tests and
// stricter policies can substitute their own.
package lexical

import (
	"net/url"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email reports whether s looks like a plausible email address. It checks
// shape, not deliverability.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// URL reports whether s is a valid URL. When relative is false the URL must
// be absolute; for inputs that only miss an explicit scheme, suggestion
// carries a corrected candidate.
func URL(s string, relative bool) (ok bool, suggestion string) {
	if s == "" {
		return false, ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return false, ""
	}
	if u.Scheme != "" && u.Host != "" {
		return true, ""
	}
	if relative {
		// Relative references only need a sensible path.
		if u.Scheme == "" && (strings.HasPrefix(s, "/") || u.Path != "") {
			return true, ""
		}
	}
	if u.Scheme == "" {
		if candidate, err := url.Parse("http://" + s); err == nil && candidate.Host != "" && strings.Contains(candidate.Host, ".") {
			return false, "http://" + s
		}
	}
	return false, ""
}
