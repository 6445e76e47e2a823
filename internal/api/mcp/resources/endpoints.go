package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

// EndpointsResource publishes the tool table of one server so clients can
// see which remote call each tool makes.
type EndpointsResource struct {
	catalog *endpoint.Catalog
	baseURL string
}

type endpointsDocument struct {
	Server  string        `json:"server"`
	BaseURL string        `json:"baseUrl"`
	Tools   []toolMapping `json:"tools"`
}

type toolMapping struct {
	Name        string         `json:"name"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Deprecated  bool           `json:"deprecated,omitempty"`
	Credentials bool           `json:"acceptsCredentials,omitempty"`
	Negotiable  bool           `json:"acceptsFormat,omitempty"`
	Params      []paramMapping `json:"params"`
}

type paramMapping struct {
	Name     string `json:"name"`
	Wire     string `json:"wire"`
	In       string `json:"in"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
}

// NewEndpointsResource creates the resource for a catalog served against baseURL.
func NewEndpointsResource(catalog *endpoint.Catalog, baseURL string) *EndpointsResource {
	return &EndpointsResource{catalog: catalog, baseURL: baseURL}
}

func (r *EndpointsResource) GetURI() string {
	return fmt.Sprintf("datagvat://%s/endpoints", r.catalog.Server())
}

func (r *EndpointsResource) GetName() string { return r.catalog.Server() + " endpoints" }

func (r *EndpointsResource) GetDescription() string {
	return fmt.Sprintf("HTTP method, path and parameters behind each %s tool", r.catalog.Server())
}

func (r *EndpointsResource) GetMimeType() string { return "application/json" }

func (r *EndpointsResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	doc := endpointsDocument{
		Server:  r.catalog.Server(),
		BaseURL: r.baseURL,
		Tools:   make([]toolMapping, 0, r.catalog.Len()),
	}
	for _, route := range r.catalog.Routes() {
		e := route.Endpoint
		tm := toolMapping{
			Name:        e.Name,
			Method:      e.Method,
			Path:        e.Path,
			Deprecated:  e.Deprecated,
			Credentials: e.Auth,
			Negotiable:  e.Negotiable,
			Params:      make([]paramMapping, 0, len(e.Params)),
		}
		for _, p := range e.Params {
			tm.Params = append(tm.Params, paramMapping{
				Name:     p.Name,
				Wire:     p.WireName(),
				In:       string(p.In),
				Type:     string(p.Type),
				Required: p.Required,
				Default:  p.Default,
			})
		}
		doc.Tools = append(doc.Tools, tm)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal endpoints: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContent{
			{
				URI:      r.GetURI(),
				MimeType: r.GetMimeType(),
				Text:     string(data),
			},
		},
	}, nil
}
