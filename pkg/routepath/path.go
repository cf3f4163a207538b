// Package routepath locates the route inside a document URL and decodes
// route parameters.
//
// Routes live in the query string so that a static page can serve every
// route: in "/index.html?/posts/42&tab=1" the route path is "/posts/42" and
// tab=1 is a query parameter.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrInvalidPercentEscape is returned for a malformed %XX sequence.
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")

	// ErrEncodedSlashInSegment is returned when a single-segment parameter
	// decodes to a value containing "/".
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// FromQuery splits a raw query into the route path (its first
// "&"-separated piece, left encoded) and the remaining parameters.
// Malformed parameters are skipped.
func FromQuery(rawQuery string) (path string, query url.Values) {
	path, rest, _ := strings.Cut(rawQuery, "&")
	query, _ = url.ParseQuery(rest)
	return path, query
}

// DecodeSegment percent-decodes a captured parameter. Only catch-all
// parameters may contain "/".
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	if strings.Contains(segment, "%") {
		if err := validatePercentEscapes(segment); err != nil {
			return "", err
		}
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// validatePercentEscapes checks that every % is followed by two hex digits.
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// IsInternal reports whether href starts with one of the route prefixes.
func IsInternal(href string, prefixes []string) bool {
	if href == "" {
		return false
	}
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(href, p) {
			return true
		}
	}
	return false
}
