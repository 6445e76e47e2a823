package endpoint

import "sort"

// DefaultAccept is sent when no RDF format is requested.
const DefaultAccept = "application/json"

// Formats maps the format argument to the Accept header used for RDF
// content negotiation on record bodies.
var Formats = map[string]string{
	"json":     "application/json",
	"jsonld":   "application/ld+json",
	"rdfxml":   "application/rdf+xml",
	"turtle":   "text/turtle",
	"n3":       "text/n3",
	"trig":     "application/trig",
	"ntriples": "application/n-triples",
}

// FormatNames returns the accepted format values, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(Formats))
	for name := range Formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
