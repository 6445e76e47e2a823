package ckan

import "github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"

func resourceEndpoints() []endpoint.Endpoint {
	return []endpoint.Endpoint{
		action("resource_show", "Show resource",
			"Return the metadata of a resource.",
			required("id", "The ID of the resource"),
			optional("include_tracking", endpoint.Boolean, "Include tracking information"),
		),
		action("resource_search", "Search resources",
			"Search for resources satisfying search criteria, e.g. query=\"format:CSV\".",
			required("query", "Search criteria in field:term form"),
			optional("order_by", endpoint.String, "Resource field to order by"),
			offset(), limit(),
		),
		action("resource_view_show", "Show resource view",
			"Return the metadata of a resource view.",
			required("id", "The ID of the resource view"),
		),
		action("resource_view_list", "List resource views",
			"Return the list of resource views for a resource.",
			required("id", "The ID of the resource"),
		),
	}
}

func tagEndpoints() []endpoint.Endpoint {
	vocabularyID := optional("vocabulary_id", endpoint.String, "The ID or name of a tag vocabulary")

	return []endpoint.Endpoint{
		action("tag_list", "List tags",
			"Return a list of the site's tags.",
			optional("query", endpoint.String, "Return only tags whose names contain this string"),
			vocabularyID,
			optional("all_fields", endpoint.Boolean, "Return full tag dictionaries instead of names"),
		),
		action("tag_show", "Show tag",
			"Return the details of a tag and all its datasets.",
			required("id", "The ID or name of the tag"),
			vocabularyID,
			optional("include_datasets", endpoint.Boolean, "Include the tag's datasets"),
		),
		action("tag_search", "Search tags",
			"Return tags whose names contain a given string.",
			required("query", "The string to search for"),
			vocabularyID,
			limit(), offset(),
		),
	}
}
