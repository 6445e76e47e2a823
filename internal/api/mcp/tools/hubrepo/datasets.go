package hubrepo

import (
	"net/http"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

const contentTypeJSONLD = "application/ld+json"

func datasetEndpoints() []endpoint.Endpoint {
	datasetID := pathParam("dataset_id", "datasetId", "The unique ID of the dataset")
	datasetData := bodyParam("dataset_data", "The dataset data in RDF (JSON-LD) format")

	return []endpoint.Endpoint{
		{
			Name:        "list_datasets",
			Title:       "List datasets",
			Description: "List all datasets. Use list_catalogue_datasets for the datasets of one catalogue.",
			Method:      http.MethodGet,
			Path:        "/datasets",
			Params: with(paging(), []endpoint.Param{
				boolQuery("hydra", "", "Use hydra paging (only for value_type=metadata)", false),
				boolQuery("use_paged_collection", "usePagedCollection", "Use legacy PagedCollection format for pagination", false),
			}),
		},
		{
			Name:        "get_dataset",
			Title:       "Get dataset",
			Description: "Get details of a specific dataset.",
			Method:      http.MethodGet,
			Path:        "/datasets/{datasetId}",
			Params:      []endpoint.Param{datasetID},
			Negotiable:  true,
		},
		{
			Name:            "update_dataset",
			Title:           "Update dataset",
			Description:     "Update a dataset (requires authentication).",
			Method:          http.MethodPut,
			Path:            "/datasets/{datasetId}",
			Params:          []endpoint.Param{datasetID, datasetData},
			Auth:            true,
			BodyContentType: contentTypeJSONLD,
		},
		{
			Name:        "list_dataset_distributions",
			Title:       "List dataset distributions",
			Description: "List distributions of a specific dataset.",
			Method:      http.MethodGet,
			Path:        "/datasets/{datasetId}/distributions",
			Params:      with([]endpoint.Param{datasetID}, paging()),
		},
		{
			Name:        "get_dataset_metrics",
			Title:       "Get dataset metrics",
			Description: "Get metrics for a dataset.",
			Method:      http.MethodGet,
			Path:        "/datasets/{datasetId}/metrics",
			Params: []endpoint.Param{
				datasetID,
				boolQuery("historic", "", "Whether to return the historic metrics graph", false),
			},
			Negotiable: true,
		},
		{
			Name:        "get_dataset_catalogue_record",
			Title:       "Get dataset catalogue record",
			Description: "Get the catalogue record for a dataset.",
			Method:      http.MethodGet,
			Path:        "/datasets/{datasetId}/record",
			Params:      []endpoint.Param{datasetID},
			Negotiable:  true,
		},
		{
			Name:        "add_dataset_legacy",
			Title:       "Add dataset (legacy)",
			Description: "Add dataset (legacy endpoint, internal use only). Use POST /catalogues/{catalogueId}/datasets/origin instead.",
			Method:      http.MethodPost,
			Path:        "/datasets",
			Params: []endpoint.Param{
				requiredQuery("catalogue", "", "The catalogue to add the dataset to"),
				datasetData,
			},
			Auth:            true,
			BodyContentType: contentTypeJSONLD,
			Deprecated:      true,
		},
		{
			Name:        "create_or_update_dataset_legacy",
			Title:       "Create or update dataset (legacy)",
			Description: "Create or update dataset (legacy endpoint, internal use only). Use PUT /catalogues/{catalogueId}/datasets/origin instead.",
			Method:      http.MethodPut,
			Path:        "/datasets",
			Params: []endpoint.Param{
				requiredQuery("dataset_id", "id", "The dataset ID"),
				requiredQuery("catalogue", "", "The catalogue ID"),
				datasetData,
				boolQuery("data", "", "Generate data URL", false),
			},
			Auth:            true,
			BodyContentType: contentTypeJSONLD,
			Deprecated:      true,
		},
		{
			Name:        "delete_dataset_legacy",
			Title:       "Delete dataset (legacy)",
			Description: "Delete dataset (legacy endpoint, internal use only). Use DELETE /catalogues/{catalogueId}/datasets/origin instead.",
			Method:      http.MethodDelete,
			Path:        "/datasets",
			Params: []endpoint.Param{
				requiredQuery("dataset_id", "id", "The dataset ID"),
				requiredQuery("catalogue", "", "The catalogue ID"),
			},
			Auth:       true,
			Deprecated: true,
		},
		{
			Name:        "get_catalogue_record_legacy",
			Title:       "Get catalogue record (legacy)",
			Description: "Get catalogue record (legacy endpoint). Use get_dataset_catalogue_record instead.",
			Method:      http.MethodGet,
			Path:        "/records/{datasetId}",
			Params: []endpoint.Param{
				datasetID,
				{
					Name:        "catalogue",
					In:          endpoint.InQuery,
					Type:        endpoint.String,
					Description: "The catalogue ID (deprecated parameter)",
				},
			},
			Negotiable: true,
			Deprecated: true,
		},
	}
}
