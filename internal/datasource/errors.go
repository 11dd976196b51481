package datasource

import "errors"

// IsRateLimited reports whether err came from a 429 or equivalent.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *ErrHTTP
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
