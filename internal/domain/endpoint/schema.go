package endpoint

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// InputSchema builds the JSON schema advertised in tools/list and used to
// validate arguments in Route.Bind.
func (e Endpoint) InputSchema() (*jsonschema.Schema, error) {
	props := make(map[string]*jsonschema.Schema, len(e.Params)+3)
	required := make([]string, 0, len(e.Params))

	for _, p := range e.Params {
		s, err := paramSchema(p)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", e.Name, err)
		}
		props[p.Name] = s
		if p.Required {
			required = append(required, p.Name)
		}
	}

	if e.Auth {
		props[ArgAPIKey] = &jsonschema.Schema{
			Type:        "string",
			Description: "API key for authentication. Takes precedence over bearer_token.",
			MinLength:   intPtr(1),
		}
		props[ArgBearerToken] = &jsonschema.Schema{
			Type:        "string",
			Description: "Bearer token for authentication. Ignored when api_key is given.",
			MinLength:   intPtr(1),
		}
	}

	if e.Negotiable {
		names := FormatNames()
		enum := make([]any, len(names))
		for i, n := range names {
			enum[i] = n
		}
		props[ArgFormat] = &jsonschema.Schema{
			Type:        "string",
			Description: "Serialization of the returned record (json, jsonld, rdfxml, turtle, n3, trig, ntriples)",
			Enum:        enum,
			Default:     json.RawMessage(`"json"`),
		}
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: props,
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema, nil
}

func paramSchema(p Param) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:        string(p.Type),
		Description: p.Description,
		Enum:        p.Enum,
		Minimum:     p.Minimum,
		Maximum:     p.Maximum,
	}
	switch p.Type {
	case String, Integer, Boolean, Object:
	default:
		return nil, fmt.Errorf("parameter %s has unsupported type %q", p.Name, p.Type)
	}
	if p.In == InPath {
		s.MinLength = intPtr(1)
	}
	if p.Default != nil {
		raw, err := json.Marshal(p.Default)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: marshal default: %w", p.Name, err)
		}
		s.Default = raw
	}
	return s, nil
}

func intPtr(v int) *int {
	return &v
}
