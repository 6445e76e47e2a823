package hubrepo

import (
	"net/http"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

func distributionEndpoints() []endpoint.Endpoint {
	return []endpoint.Endpoint{
		{
			Name:        "get_distribution",
			Title:       "Get distribution",
			Description: "Get details of a specific distribution.",
			Method:      http.MethodGet,
			Path:        "/distributions/{distributionId}",
			Params: []endpoint.Param{
				pathParam("distribution_id", "distributionId", "The unique ID of the distribution"),
			},
			Negotiable: true,
		},
	}
}

func resourceEndpoints() []endpoint.Endpoint {
	resourceType := pathParam("resource_type", "type", "Type to which the resources belong")

	return []endpoint.Endpoint{
		{
			Name:        "list_resource_types",
			Title:       "List resource types",
			Description: "Get a list of resource types.",
			Method:      http.MethodGet,
			Path:        "/resources",
		},
		{
			Name:        "list_resources",
			Title:       "List resources",
			Description: "Get a list of resources of a specific type.",
			Method:      http.MethodGet,
			Path:        "/resources/{type}",
			Params:      []endpoint.Param{resourceType},
		},
		{
			Name:        "get_resource",
			Title:       "Get resource",
			Description: "Get a resource with id and type.",
			Method:      http.MethodGet,
			Path:        "/resources/{type}/{id}",
			Params: []endpoint.Param{
				resourceType,
				pathParam("resource_id", "id", "ID of the resource"),
			},
			Negotiable: true,
		},
	}
}
