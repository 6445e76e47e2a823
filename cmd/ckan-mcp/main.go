package main

import (
	"github.com/opendata-at/datagvat-mcp/internal/app"
	"github.com/opendata-at/datagvat-mcp/internal/api/mcp/tools/ckan"
	"github.com/opendata-at/datagvat-mcp/internal/common/config"
)

const instructions = `Read-only tools for the CKAN action API of www.data.gv.at.
Use package_search to find datasets and package_show for details.
Responses are CKAN envelopes: check "success" and read "result".`

func main() {
	app.Execute(app.Server{
		Binary:       "ckan-mcp",
		Profile:      config.CKAN,
		Catalog:      ckan.Catalog,
		Instructions: instructions,
	})
}
