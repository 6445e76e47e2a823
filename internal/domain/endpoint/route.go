package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

// Route is a compiled Endpoint, ready to bind arguments.
type Route struct {
	Endpoint Endpoint
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// Compile validates the endpoint and resolves its input schema.
func Compile(e Endpoint) (*Route, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	schema, err := e.InputSchema()
	if err != nil {
		return nil, err
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: resolve schema: %w", e.Name, err)
	}
	return &Route{Endpoint: e, schema: schema, resolved: resolved}, nil
}

// InputSchema returns the schema advertised to clients.
func (r *Route) InputSchema() *jsonschema.Schema {
	return r.schema
}

// Bind validates the raw tool arguments and builds the outbound request.
// It never performs I/O; every failure is an INVALID_ARGUMENT AppError.
func (r *Route) Bind(arguments json.RawMessage) (*Request, error) {
	args, err := decodeArguments(arguments)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, p := range r.Endpoint.Params {
		if _, ok := args[p.Name]; p.Required && !ok {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewInvalidArgumentError(
			fmt.Sprintf("missing required parameter: %s", strings.Join(missing, ", ")),
		).WithDetail("tool", r.Endpoint.Name)
	}

	if err := r.resolved.Validate(args); err != nil {
		return nil, errors.NewInvalidArgumentError(
			fmt.Sprintf("invalid arguments: %v", err),
		).WithDetail("tool", r.Endpoint.Name)
	}

	req := &Request{
		Tool:               r.Endpoint.Name,
		Method:             r.Endpoint.Method,
		Query:              url.Values{},
		Header:             http.Header{},
		AcceptsCredentials: r.Endpoint.Auth,
	}

	path := r.Endpoint.Path
	for _, p := range r.Endpoint.Params {
		v, ok := args[p.Name]
		if !ok {
			if p.Default == nil {
				continue
			}
			v = p.Default
		}

		switch p.In {
		case InPath:
			s, err := formatValue(v)
			if err != nil || s == "" {
				return nil, errors.NewInvalidArgumentError(
					fmt.Sprintf("parameter %s must be a non-empty value", p.Name),
				).WithDetail("tool", r.Endpoint.Name)
			}
			path = strings.ReplaceAll(path, "{"+p.WireName()+"}", url.PathEscape(s))
		case InQuery:
			s, err := formatValue(v)
			if err != nil {
				return nil, errors.NewInvalidArgumentError(
					fmt.Sprintf("parameter %s: %v", p.Name, err),
				).WithDetail("tool", r.Endpoint.Name)
			}
			req.Query.Set(p.WireName(), s)
		case InBody:
			body, err := json.Marshal(v)
			if err != nil {
				return nil, errors.NewInvalidArgumentError(
					fmt.Sprintf("parameter %s: %v", p.Name, err),
				).WithDetail("tool", r.Endpoint.Name)
			}
			req.Body = body
			contentType := r.Endpoint.BodyContentType
			if contentType == "" {
				contentType = "application/json"
			}
			req.Header.Set("Content-Type", contentType)
		}
	}
	req.Path = path

	if r.Endpoint.Auth {
		req.Credentials = Credentials{
			APIKey:      stringArg(args, ArgAPIKey),
			BearerToken: stringArg(args, ArgBearerToken),
		}
	}

	accept := DefaultAccept
	if r.Endpoint.Negotiable {
		if f := stringArg(args, ArgFormat); f != "" {
			accept = Formats[f]
		}
	}
	req.Header.Set("Accept", accept)

	return req, nil
}

// decodeArguments parses the arguments object. Absent, null and empty input
// all mean "no arguments"; null members are treated as omitted.
func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' {
		return nil, errors.NewInvalidArgumentError("arguments must be a JSON object")
	}

	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("malformed arguments: %v", err))
	}
	for k, v := range args {
		if v == nil {
			delete(args, k)
		}
	}
	return args, nil
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// formatValue renders a scalar argument for a path segment or query string.
func formatValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return strconv.FormatInt(int64(t), 10), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
