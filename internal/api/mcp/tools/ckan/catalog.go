// Package ckan holds the tool table of the CKAN action API of data.gv.at.
// Every tool is a GET on <base>/<tool name>; optional parameters are sent
// only when the caller supplies them.
package ckan

import (
	"net/http"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

// Server is the catalog name.
const Server = "ckan"

func action(name, title, description string, params ...endpoint.Param) endpoint.Endpoint {
	return endpoint.Endpoint{
		Name:        name,
		Title:       title,
		Description: description,
		Method:      http.MethodGet,
		Path:        "/" + name,
		Params:      params,
	}
}

func required(name, description string) endpoint.Param {
	return endpoint.Param{
		Name:        name,
		In:          endpoint.InQuery,
		Type:        endpoint.String,
		Description: description,
		Required:    true,
	}
}

func optional(name string, kind endpoint.Kind, description string) endpoint.Param {
	p := endpoint.Param{
		Name:        name,
		In:          endpoint.InQuery,
		Type:        kind,
		Description: description,
	}
	if kind == endpoint.Integer {
		p.Minimum = endpoint.Float64(0)
	}
	return p
}

func offset() endpoint.Param {
	return optional("offset", endpoint.Integer, "Offset for pagination")
}

func limit() endpoint.Param {
	return optional("limit", endpoint.Integer, "Maximum number of results to return")
}

// Catalog returns the compiled CKAN tool table.
func Catalog() *endpoint.Catalog {
	return endpoint.MustCatalog(Server, Endpoints()...)
}

// Endpoints lists the CKAN tools in declaration order.
func Endpoints() []endpoint.Endpoint {
	var out []endpoint.Endpoint
	for _, group := range [][]endpoint.Endpoint{
		packageEndpoints(),
		organizationEndpoints(),
		resourceEndpoints(),
		tagEndpoints(),
		activityEndpoints(),
	} {
		out = append(out, group...)
	}
	return out
}
