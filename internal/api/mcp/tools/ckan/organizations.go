package ckan

import "github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"

func organizationEndpoints() []endpoint.Endpoint {
	return []endpoint.Endpoint{
		action("organization_list", "List organizations",
			"List all organizations. The portal sorts by \"name asc\" unless sort is given.",
			optional("sort", endpoint.String, "Sort order, e.g. \"name asc\" or \"package_count desc\""),
			limit(), offset(),
			optional("organizations", endpoint.String, "Comma separated list of organization names to return"),
			optional("all_fields", endpoint.Boolean, "Return full organization dictionaries instead of names"),
			optional("include_dataset_count", endpoint.Boolean, "Include the dataset count (with all_fields)"),
			optional("include_extras", endpoint.Boolean, "Include extras (with all_fields)"),
			optional("include_tags", endpoint.Boolean, "Include tags (with all_fields)"),
			optional("include_groups", endpoint.Boolean, "Include groups (with all_fields)"),
			optional("include_users", endpoint.Boolean, "Include users (with all_fields)"),
		),
	}
}

func activityEndpoints() []endpoint.Endpoint {
	return []endpoint.Endpoint{
		action("package_activity_list", "Dataset activity",
			"Return a package's activity stream.",
			required("id", "The ID or name of the dataset"),
			offset(), limit(),
			optional("include_hidden_activity", endpoint.Boolean, "Include activity from site users and harvesters"),
		),
		action("organization_activity_list", "Organization activity",
			"Return an organization's activity stream.",
			required("id", "The ID or name of the organization"),
			offset(), limit(),
			optional("include_hidden_activity", endpoint.Boolean, "Include activity from site users and harvesters"),
		),
		action("recently_changed_packages_activity_list", "Recent dataset activity",
			"Return activity stream of all recently added or changed packages.",
			offset(), limit(),
		),
		action("activity_show", "Show activity",
			"Show details of an activity stream item.",
			required("id", "The ID of the activity"),
			optional("include_data", endpoint.Boolean, "Include the full object data of the activity"),
		),
	}
}
