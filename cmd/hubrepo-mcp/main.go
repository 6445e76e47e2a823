package main

import (
	"github.com/opendata-at/datagvat-mcp/internal/app"
	"github.com/opendata-at/datagvat-mcp/internal/api/mcp/tools/hubrepo"
	"github.com/opendata-at/datagvat-mcp/internal/common/config"
)

const instructions = `Tools for the piveau hub-repo API of data.gv.at (DCAT-AP metadata).
Start with list_catalogues or list_datasets; paging uses offset and limit.
Write tools and *_legacy tools need an api_key or bearer_token.
The format argument selects an RDF serialization where a tool supports it.`

func main() {
	app.Execute(app.Server{
		Binary:       "hubrepo-mcp",
		Profile:      config.HubRepo,
		Catalog:      hubrepo.Catalog,
		Instructions: instructions,
	})
}
