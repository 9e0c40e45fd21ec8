package rdf

import (
	"path"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatN3       Format = "n3"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "n3":
		return FormatN3, true
	case "ntriples", "nt":
		return FormatNTriples, true
	case "nquads", "nq":
		return FormatNQuads, true
	case "rdfxml", "rdf", "xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// mediaTypes returns the media types a format implies, best first.
// The list drives both the Accept header and Link alternate matching.
func mediaTypes(f Format) []string {
	switch f {
	case FormatTurtle:
		return []string{"text/turtle", "application/x-turtle"}
	case FormatN3:
		return []string{"text/n3"}
	case FormatNTriples:
		return []string{"application/n-triples", "text/plain"}
	case FormatNQuads:
		return []string{"application/n-quads"}
	case FormatRDFXML:
		return []string{"application/rdf+xml"}
	case FormatJSONLD:
		return []string{"application/ld+json", "application/json"}
	default:
		return nil
	}
}

// acceptHeader builds the Accept header value for a format hint. An
// empty format yields a generic RDF-preferring list.
func acceptHeader(f Format) string {
	switch f {
	case FormatRDFXML:
		return "application/rdf+xml, */*;q=0.1"
	case FormatN3:
		return "text/n3, */*;q=0.1"
	case FormatTurtle:
		return "text/turtle,application/x-turtle, */*;q=0.1"
	case FormatNTriples:
		return "application/n-triples,text/plain;q=0.9, */*;q=0.1"
	case FormatNQuads:
		return "application/n-quads, */*;q=0.1"
	case FormatJSONLD:
		return "application/ld+json, application/json;q=0.9, */*;q=0.1"
	default:
		return "application/rdf+xml,text/rdf+n3;q=0.9,application/xhtml+xml;q=0.5, */*;q=0.1"
	}
}

// FormatForMediaType maps a media type to a format. Parameters such as
// charset are ignored.
func FormatForMediaType(mediaType string) (Format, bool) {
	if major, _, found := strings.Cut(mediaType, ";"); found {
		mediaType = major
	}
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, true
	case "text/n3":
		return FormatN3, true
	case "application/n-triples":
		return FormatNTriples, true
	case "application/n-quads":
		return FormatNQuads, true
	case "application/rdf+xml":
		return FormatRDFXML, true
	case "application/ld+json", "application/json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// formatForPath guesses a format from a file path or IRI extension.
func formatForPath(location string) (Format, bool) {
	if trimmed, _, found := strings.Cut(location, "?"); found {
		location = trimmed
	}
	if trimmed, _, found := strings.Cut(location, "#"); found {
		location = trimmed
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".ttl", ".turtle":
		return FormatTurtle, true
	case ".n3":
		return FormatN3, true
	case ".nt":
		return FormatNTriples, true
	case ".nq", ".nquads":
		return FormatNQuads, true
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}
