package endpoint

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request is the outbound call produced by Route.Bind. Path is already
// escaped and relative to the base URL.
type Request struct {
	Tool        string
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	Credentials Credentials
	// AcceptsCredentials is set for endpoints declared with Auth.
	AcceptsCredentials bool
}

// URL resolves the request against baseURL. A trailing slash on the base
// and query parameters already present on it are kept.
func (r *Request) URL(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	escaped := strings.TrimRight(base.EscapedPath(), "/") + r.Path
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, fmt.Errorf("unescape path %q: %w", escaped, err)
	}

	u := *base
	u.Path = unescaped
	u.RawPath = escaped
	u.Fragment = ""

	query := base.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	u.RawQuery = query.Encode()
	return &u, nil
}
