package ckan

import "github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"

func packageEndpoints() []endpoint.Endpoint {
	return []endpoint.Endpoint{
		action("package_list", "List datasets",
			"List all datasets within given limit.",
			offset(), limit(),
		),
		action("package_search", "Search datasets",
			"Search among all datasets. The portal defaults to q=*:* and sort=\"relevance asc, metadata_modified desc\".",
			optional("q", endpoint.String, "Solr query"),
			optional("fq", endpoint.String, "Filter query"),
			optional("sort", endpoint.String, "Sort order, e.g. \"metadata_modified desc\""),
			optional("rows", endpoint.Integer, "Number of results to return"),
			optional("start", endpoint.Integer, "Offset of the first result"),
			optional("include_drafts", endpoint.Boolean, "Include draft datasets"),
		),
		action("package_show", "Show dataset",
			"Get details of one dataset.",
			required("id", "The ID or name of the dataset"),
			optional("include_tracking", endpoint.Boolean, "Include tracking information"),
		),
		action("package_autocomplete", "Autocomplete datasets",
			"Return datasets that match a string. The portal returns at most 10 unless limit is given.",
			required("q", "The string to match"),
			optional("limit", endpoint.Integer, "Maximum number of datasets to return"),
		),
		action("current_package_list_with_resources", "List datasets with resources",
			"Return datasets and their resources, sorted by most recently modified.",
			limit(), offset(),
			optional("page", endpoint.Integer, "Page number, used together with limit"),
		),
	}
}
