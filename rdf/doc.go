// Package rdf provides an in-memory RDF graph with a streaming input
// supply chain and Concise Bounded Description traversal.
//
// The package turns heterogeneous inputs into a uniform stream for the
// grammar decoders:
//   - CreateInputSource() resolves raw strings, byte buffers,
//     structured in-memory data, open files and HTTP(S) resources into
//     an InputSource with negotiated encoding and content type.
//   - Graph.Parse() drives the full pipeline: resolve, decode, add.
//   - Graph.Serialize() writes a graph back out.
//
// Remote locations are fetched with content negotiation: the Accept
// header follows the format hint, Link header alternates are followed
// one hop, and 308 Permanent Redirect is handled explicitly. See
// Resolver for customizing the HTTP client, base IRI and user agent.
//
// Graph.CBD() computes the Concise Bounded Description of a node: the
// closure of its triples over blank-node objects plus reification
// back-references, terminating on cyclic blank-node chains.
//
// Example (parsing a remote resource):
//
//	g := rdf.NewGraph()
//	err := g.Parse(ctx, rdf.SourceSpec{
//	    Location: "https://example.org/dataset",
//	    Format:   rdf.FormatTurtle,
//	})
//
// Example (in-memory data):
//
//	g := rdf.NewGraph()
//	err := g.Parse(ctx, rdf.SourceSpec{
//	    Data:   "<http://ex/s> <http://ex/p> <http://ex/o> .",
//	    Format: rdf.FormatNTriples,
//	})
//
// Supported grammar codecs are N-Triples, N-Quads and JSON-LD (through
// json-gold). Other formats are recognized by the format registry for
// negotiation hints; their grammars are external collaborators fed by
// the InputSource they receive.
//
// Aggregate operations come in two unambiguous families: Merge,
// Subtract and IntersectWith always mutate the receiver in place;
// Union, Difference and Intersection always produce a new graph.
package rdf
