// Package endpoint describes the static mapping between an MCP tool and one
// remote HTTP endpoint: method, path template and parameter list.
//
// An Endpoint is pure data. Compiling it into a Route resolves its JSON schema
// once, after which Route.Bind turns tool arguments into a Request without
// touching the network.
package endpoint

import (
	"fmt"
	"net/http"
	"regexp"
)

// Location says where a parameter ends up in the outbound request.
type Location string

const (
	InPath  Location = "path"
	InQuery Location = "query"
	InBody  Location = "body"
)

// Kind is the JSON type of a parameter.
type Kind string

const (
	String  Kind = "string"
	Integer Kind = "integer"
	Boolean Kind = "boolean"
	Object  Kind = "object"
)

// Reserved argument names added by the Auth and Negotiable flags.
const (
	ArgAPIKey      = "api_key"
	ArgBearerToken = "bearer_token"
	ArgFormat      = "format"
)

// Param is one tool argument.
type Param struct {
	// Name is the tool argument name as seen by the MCP client.
	Name string
	// Wire is the remote query key or path placeholder. Defaults to Name.
	Wire        string
	In          Location
	Type        Kind
	Description string
	Required    bool
	// Default is sent when the caller omits the argument. nil means omit.
	Default any
	Enum    []any
	Minimum *float64
	Maximum *float64
}

// WireName returns the name used on the remote side.
func (p Param) WireName() string {
	if p.Wire != "" {
		return p.Wire
	}
	return p.Name
}

// Endpoint is one row of a server's tool table.
type Endpoint struct {
	Name        string
	Title       string
	Description string
	Method      string
	// Path is relative to the configured base URL, with {placeholders}
	// matching the Wire names of InPath params.
	Path   string
	Params []Param
	// Auth adds the optional api_key / bearer_token arguments.
	Auth bool
	// Negotiable adds the optional RDF format argument mapped to Accept.
	Negotiable bool
	// BodyContentType is sent with the InBody param, if any.
	BodyContentType string
	Deprecated      bool
}

// Annotations are behavioural hints for MCP clients.
type Annotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint"`
	DestructiveHint bool   `json:"destructiveHint"`
	IdempotentHint  bool   `json:"idempotentHint"`
	OpenWorldHint   bool   `json:"openWorldHint"`
}

// Annotations derives hints from the HTTP method.
func (e Endpoint) Annotations() Annotations {
	a := Annotations{Title: e.Title, OpenWorldHint: true}
	switch e.Method {
	case http.MethodGet, http.MethodHead:
		a.ReadOnlyHint = true
		a.IdempotentHint = true
	case http.MethodPut, http.MethodDelete:
		a.DestructiveHint = true
		a.IdempotentHint = true
	}
	return a
}

var (
	toolNamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)
)

// Validate checks that the endpoint is internally consistent.
func (e Endpoint) Validate() error {
	if !toolNamePattern.MatchString(e.Name) {
		return fmt.Errorf("endpoint %q: name must be 1-64 alphanumeric, underscore or hyphen characters", e.Name)
	}
	if e.Description == "" {
		return fmt.Errorf("endpoint %s: description cannot be empty", e.Name)
	}
	switch e.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead, http.MethodPatch:
	default:
		return fmt.Errorf("endpoint %s: unsupported method %q", e.Name, e.Method)
	}
	if len(e.Path) == 0 || e.Path[0] != '/' {
		return fmt.Errorf("endpoint %s: path must start with '/'", e.Name)
	}

	seen := make(map[string]bool, len(e.Params))
	pathParams := make(map[string]bool)
	bodyParams := 0
	for _, p := range e.Params {
		if p.Name == "" {
			return fmt.Errorf("endpoint %s: parameter without name", e.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("endpoint %s: duplicate parameter %s", e.Name, p.Name)
		}
		seen[p.Name] = true
		if e.Auth && (p.Name == ArgAPIKey || p.Name == ArgBearerToken) {
			return fmt.Errorf("endpoint %s: parameter %s is reserved for credentials", e.Name, p.Name)
		}
		if e.Negotiable && p.Name == ArgFormat {
			return fmt.Errorf("endpoint %s: parameter %s is reserved for content negotiation", e.Name, p.Name)
		}
		switch p.In {
		case InPath:
			if !p.Required {
				return fmt.Errorf("endpoint %s: path parameter %s must be required", e.Name, p.Name)
			}
			pathParams[p.WireName()] = true
		case InBody:
			bodyParams++
		case InQuery:
		default:
			return fmt.Errorf("endpoint %s: parameter %s has unknown location %q", e.Name, p.Name, p.In)
		}
	}
	if bodyParams > 1 {
		return fmt.Errorf("endpoint %s: at most one body parameter is allowed", e.Name)
	}

	placeholders := placeholderPattern.FindAllStringSubmatch(e.Path, -1)
	for _, m := range placeholders {
		if !pathParams[m[1]] {
			return fmt.Errorf("endpoint %s: placeholder {%s} has no path parameter", e.Name, m[1])
		}
		delete(pathParams, m[1])
	}
	for name := range pathParams {
		return fmt.Errorf("endpoint %s: path parameter %s has no placeholder", e.Name, name)
	}
	return nil
}

// Float64 returns a pointer to v, for Minimum and Maximum.
func Float64(v float64) *float64 {
	return &v
}
