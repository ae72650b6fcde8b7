package rdf

// Base namespaces for the vocabularies the calculator understands.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF core terms.
const (
	RDFType       = RDFNamespace + "type"
	RDFProperty   = RDFNamespace + "Property"
	RDFFirst      = RDFNamespace + "first"
	RDFRest       = RDFNamespace + "rest"
	RDFNil        = RDFNamespace + "nil"
	RDFLangString = RDFNamespace + "langString"
)

// RDFS schema terms.
const (
	RDFSClass      = RDFSNamespace + "Class"
	RDFSSubClassOf = RDFSNamespace + "subClassOf"
	RDFSDomain     = RDFSNamespace + "domain"
	RDFSRange      = RDFSNamespace + "range"
	RDFSLabel      = RDFSNamespace + "label"
	RDFSComment    = RDFSNamespace + "comment"
)

// OWL terms used when classifying schema entities.
const (
	OWLOntology         = OWLNamespace + "Ontology"
	OWLClass            = OWLNamespace + "Class"
	OWLThing            = OWLNamespace + "Thing"
	OWLObjectProperty   = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty = OWLNamespace + "DatatypeProperty"
	OWLNamedIndividual  = OWLNamespace + "NamedIndividual"
)

// XSD datatypes assigned by the Turtle parser to shorthand literals.
const (
	XSDString  = XSDNamespace + "string"
	XSDBoolean = XSDNamespace + "boolean"
	XSDInteger = XSDNamespace + "integer"
	XSDDecimal = XSDNamespace + "decimal"
	XSDDouble  = XSDNamespace + "double"
)
