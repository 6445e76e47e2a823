package endpoint

import "net/http"

// Header names used for remote credentials.
const (
	HeaderAPIKey        = "X-API-Key"
	HeaderAuthorization = "Authorization"
)

// Credentials are supplied per call and never persisted.
type Credentials struct {
	APIKey      string
	BearerToken string
}

// IsZero reports whether no credential is set.
func (c Credentials) IsZero() bool {
	return c.APIKey == "" && c.BearerToken == ""
}

// Apply writes the credential header. The API key wins when both are set.
func (c Credentials) Apply(h http.Header) {
	switch {
	case c.APIKey != "":
		h.Set(HeaderAPIKey, c.APIKey)
		h.Del(HeaderAuthorization)
	case c.BearerToken != "":
		h.Set(HeaderAuthorization, "Bearer "+c.BearerToken)
		h.Del(HeaderAPIKey)
	}
}
