package endpoint

import (
	"fmt"

	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

// Catalog is the static tool table of one server.
type Catalog struct {
	server string
	routes []*Route
	byName map[string]*Route
}

// NewCatalog compiles every endpoint; names must be unique.
func NewCatalog(server string, endpoints ...Endpoint) (*Catalog, error) {
	c := &Catalog{
		server: server,
		routes: make([]*Route, 0, len(endpoints)),
		byName: make(map[string]*Route, len(endpoints)),
	}
	for _, e := range endpoints {
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate endpoint %s", server, e.Name)
		}
		route, err := Compile(e)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", server, err)
		}
		c.routes = append(c.routes, route)
		c.byName[e.Name] = route
	}
	return c, nil
}

// MustCatalog is NewCatalog for static tables; it panics on a malformed table.
func MustCatalog(server string, endpoints ...Endpoint) *Catalog {
	c, err := NewCatalog(server, endpoints...)
	if err != nil {
		panic(err)
	}
	return c
}

// Server returns the server name the catalog belongs to.
func (c *Catalog) Server() string {
	return c.server
}

// Lookup returns the route for a tool name or an UNKNOWN_TOOL error.
func (c *Catalog) Lookup(name string) (*Route, error) {
	route, ok := c.byName[name]
	if !ok {
		return nil, errors.NewUnknownToolError(name).WithDetail("server", c.server)
	}
	return route, nil
}

// Routes returns the routes in declaration order.
func (c *Catalog) Routes() []*Route {
	out := make([]*Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.routes)
}
