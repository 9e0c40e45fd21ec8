package rdf

// RDFNamespace is the rdf: vocabulary namespace.
const RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// Core rdf: vocabulary terms used by reification handling.
var (
	RDFType      = IRI{Value: RDFNamespace + "type"}
	RDFStatement = IRI{Value: RDFNamespace + "Statement"}
	RDFSubject   = IRI{Value: RDFNamespace + "subject"}
	RDFPredicate = IRI{Value: RDFNamespace + "predicate"}
	RDFObject    = IRI{Value: RDFNamespace + "object"}
)
