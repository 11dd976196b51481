package datasource

import (
	"net/url"
	"strings"
)

var secretParams = []string{"apiKey", "apikey", "token", "api_key"}

// redact masks credential query parameters so URLs can be logged and
// embedded in errors.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "***")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = strings.ReplaceAll(q.Encode(), "%2A%2A%2A", "***")
	return u.String()
}
