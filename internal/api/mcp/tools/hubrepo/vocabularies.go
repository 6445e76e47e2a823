package hubrepo

import (
	"net/http"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

func vocabularyEndpoints() []endpoint.Endpoint {
	return []endpoint.Endpoint{
		{
			Name:        "list_vocabularies",
			Title:       "List vocabularies",
			Description: "Get list of indexed (controlled) vocabularies used by the portal.",
			Method:      http.MethodGet,
			Path:        "/vocabularies",
			Params:      paging(),
		},
		{
			Name:        "get_vocabulary",
			Title:       "Get vocabulary",
			Description: "Get details of a specific vocabulary.",
			Method:      http.MethodGet,
			Path:        "/vocabularies/{vocabularyId}",
			Params: []endpoint.Param{
				pathParam("vocabulary_id", "vocabularyId", "The unique identifier of the vocabulary"),
			},
			Negotiable: true,
		},
		{
			Name:        "create_or_update_vocabulary_legacy",
			Title:       "Create or update vocabulary (legacy)",
			Description: "Create or update a vocabulary (legacy endpoint, internal use only).",
			Method:      http.MethodPut,
			Path:        "/vocabularies",
			Params: []endpoint.Param{
				requiredQuery("vocabulary_id", "vocabularyId", "ID of the vocabulary"),
				requiredQuery("uri", "", "URI of the vocabulary"),
				bodyParam("vocabulary_data", "The vocabulary data in RDF (JSON-LD) format"),
				{
					Name:        "hash_value",
					Wire:        "hash",
					In:          endpoint.InQuery,
					Type:        endpoint.String,
					Description: "Hash of the vocabulary for chunk-wise processing",
				},
				{
					Name:        "chunk_id",
					Wire:        "chunkId",
					In:          endpoint.InQuery,
					Type:        endpoint.Integer,
					Description: "ID of the corresponding chunk",
					Default:     0,
					Minimum:     endpoint.Float64(0),
				},
				{
					Name:        "number_of_chunks",
					Wire:        "numberOfChunks",
					In:          endpoint.InQuery,
					Type:        endpoint.Integer,
					Description: "Number of total chunks",
					Default:     1,
					Minimum:     endpoint.Float64(1),
				},
			},
			Auth:            true,
			BodyContentType: contentTypeJSONLD,
			Deprecated:      true,
		},
	}
}
