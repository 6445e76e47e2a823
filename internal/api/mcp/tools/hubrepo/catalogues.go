package hubrepo

import (
	"net/http"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

func catalogueEndpoints() []endpoint.Endpoint {
	catalogueID := pathParam("catalogue_id", "catalogueId", "The unique ID of the catalogue")

	return []endpoint.Endpoint{
		{
			Name:        "list_catalogues",
			Title:       "List catalogues",
			Description: "List all catalogues.",
			Method:      http.MethodGet,
			Path:        "/catalogues",
			Params:      paging(),
		},
		{
			Name:        "get_catalogue",
			Title:       "Get catalogue",
			Description: "Get details of a specific catalogue.",
			Method:      http.MethodGet,
			Path:        "/catalogues/{catalogueId}",
			Params:      []endpoint.Param{catalogueID},
			Negotiable:  true,
		},
		{
			Name:        "list_catalogue_datasets",
			Title:       "List catalogue datasets",
			Description: "List datasets of a specific catalogue.",
			Method:      http.MethodGet,
			Path:        "/catalogues/{catalogueId}/datasets",
			Params:      with([]endpoint.Param{catalogueID}, paging()),
		},
		{
			Name:        "get_catalogue_dataset_by_origin",
			Title:       "Get dataset by original ID",
			Description: "Get a dataset from a catalogue by its original ID.",
			Method:      http.MethodGet,
			Path:        "/catalogues/{catalogueId}/datasets/origin",
			Params: []endpoint.Param{
				catalogueID,
				requiredQuery("original_id", "originalId", "The original ID of the dataset"),
			},
			Negotiable: true,
		},
	}
}
