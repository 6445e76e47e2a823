// Package hubrepo holds the tool table of the piveau hub-repo API behind
// data.gv.at.
package hubrepo

import "github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"

// Server is the catalog name.
const Server = "hub-repo"

const (
	defaultLimit = 100
	maxLimit     = 5000
)

func pathParam(name, wire, description string) endpoint.Param {
	return endpoint.Param{
		Name:        name,
		Wire:        wire,
		In:          endpoint.InPath,
		Type:        endpoint.String,
		Description: description,
		Required:    true,
	}
}

func requiredQuery(name, wire, description string) endpoint.Param {
	return endpoint.Param{
		Name:        name,
		Wire:        wire,
		In:          endpoint.InQuery,
		Type:        endpoint.String,
		Description: description,
		Required:    true,
	}
}

func boolQuery(name, wire, description string, def bool) endpoint.Param {
	return endpoint.Param{
		Name:        name,
		Wire:        wire,
		In:          endpoint.InQuery,
		Type:        endpoint.Boolean,
		Description: description,
		Default:     def,
	}
}

func bodyParam(name, description string) endpoint.Param {
	return endpoint.Param{
		Name:        name,
		In:          endpoint.InBody,
		Type:        endpoint.Object,
		Description: description,
		Required:    true,
	}
}

// paging returns value_type, offset and limit with their defaults.
func paging() []endpoint.Param {
	return []endpoint.Param{
		{
			Name:        "value_type",
			Wire:        "valueType",
			In:          endpoint.InQuery,
			Type:        endpoint.String,
			Description: "Return value type (uriRefs, identifiers, originalIds, metadata)",
			Default:     "uriRefs",
			Enum:        []any{"uriRefs", "identifiers", "originalIds", "metadata"},
		},
		{
			Name:        "offset",
			In:          endpoint.InQuery,
			Type:        endpoint.Integer,
			Description: "Starting point for counting",
			Default:     0,
			Minimum:     endpoint.Float64(0),
		},
		{
			Name:        "limit",
			In:          endpoint.InQuery,
			Type:        endpoint.Integer,
			Description: "Number of resources to retrieve (1-5000)",
			Default:     defaultLimit,
			Minimum:     endpoint.Float64(1),
			Maximum:     endpoint.Float64(maxLimit),
		},
	}
}

func with(params ...[]endpoint.Param) []endpoint.Param {
	var out []endpoint.Param
	for _, p := range params {
		out = append(out, p...)
	}
	return out
}

// Catalog returns the compiled hub-repo tool table.
func Catalog() *endpoint.Catalog {
	return endpoint.MustCatalog(Server, Endpoints()...)
}

// Endpoints lists the hub-repo tools in declaration order.
func Endpoints() []endpoint.Endpoint {
	var out []endpoint.Endpoint
	for _, group := range [][]endpoint.Endpoint{
		catalogueEndpoints(),
		datasetEndpoints(),
		distributionEndpoints(),
		vocabularyEndpoints(),
		resourceEndpoints(),
	} {
		out = append(out, group...)
	}
	return out
}
