// Package metrics derives ontology quality metrics from a triple graph.
//
// Schema metrics describe the shape of the class hierarchy and property
// vocabulary; knowledge-base metrics describe how instance data populates
// that schema. Every ratio with a zero denominator evaluates to zero.
package metrics

import (
	"github.com/ontolab/ontoeval/internal/graph"
	"github.com/ontolab/ontoeval/internal/rdf"
)

// Snapshot holds the raw census of a graph together with the derived
// metric values for a single evaluation run.
type Snapshot struct {
	Triples             int `json:"triples"`
	Classes             int `json:"classes"`
	Instances           int `json:"instances"`
	SubclassAssertions  int `json:"subclass_assertions"`
	ObjectProperties    int `json:"object_properties"`
	DatatypeProperties  int `json:"datatype_properties"`
	PopulatedClasses    int `json:"populated_classes"`
	ConnectedComponents int `json:"connected_components"`

	RelationshipRichness float64 `json:"relationship_richness"`
	InheritanceRichness  float64 `json:"inheritance_richness"`
	AttributeRichness    float64 `json:"attribute_richness"`
	ClassRichness        float64 `json:"class_richness"`
	Cohesion             float64 `json:"cohesion"`

	// ClassConnectivity maps a class IRI to the number of links from its
	// instances to other typed resources, rdf:type edges excluded.
	ClassConnectivity map[string]int `json:"class_connectivity,omitempty"`

	// InstanceCensus maps a class IRI to its instance count.
	InstanceCensus map[string]int `json:"instance_census,omitempty"`
}

var (
	rdfType             = rdf.NewIRI(rdf.RDFType)
	rdfsSubClassOf      = rdf.NewIRI(rdf.RDFSSubClassOf)
	owlClass            = rdf.NewIRI(rdf.OWLClass)
	owlObjectProperty   = rdf.NewIRI(rdf.OWLObjectProperty)
	owlDatatypeProperty = rdf.NewIRI(rdf.OWLDatatypeProperty)
)

// Compute runs the full census and metric derivation for a graph.
func Compute(g *graph.Graph) *Snapshot {
	classes := termSet(g.SubjectsWith(rdfType, owlClass))

	// Typed subjects that are not themselves classes count as individuals.
	instances := make(map[rdf.Term]struct{})
	for _, s := range g.SubjectsWithPredicate(rdfType) {
		if _, isClass := classes[s]; !isClass {
			instances[s] = struct{}{}
		}
	}

	numSubclass := g.CountWithPredicate(rdfsSubClassOf)
	numObjProps := len(g.SubjectsWith(rdfType, owlObjectProperty))
	numDataProps := len(g.SubjectsWith(rdfType, owlDatatypeProperty))

	census := make(map[string]int)
	for inst := range instances {
		for _, typ := range g.Objects(inst, rdfType) {
			if _, isClass := classes[typ]; isClass {
				census[typ.Value]++
			}
		}
	}

	snap := &Snapshot{
		Triples:             g.Len(),
		Classes:             len(classes),
		Instances:           len(instances),
		SubclassAssertions:  numSubclass,
		ObjectProperties:    numObjProps,
		DatatypeProperties:  numDataProps,
		PopulatedClasses:    len(census),
		ConnectedComponents: g.ConnectedComponents(),
		InstanceCensus:      census,
	}

	snap.RelationshipRichness = ratio(numObjProps, numObjProps+numSubclass)
	snap.InheritanceRichness = ratio(numSubclass, len(classes))
	snap.AttributeRichness = ratio(numDataProps, len(classes))
	snap.ClassRichness = ratio(len(census), len(classes))
	snap.Cohesion = float64(snap.ConnectedComponents)

	snap.ClassConnectivity = classConnectivity(g, classes)

	return snap
}

// classConnectivity counts, per class, the links from that class's
// instances to other typed resources. Narrower than a raw
// predicate-object census: rdf:type arcs are not counted as links,
// typing being structure rather than a relation between individuals.
func classConnectivity(g *graph.Graph, classes map[rdf.Term]struct{}) map[string]int {
	out := make(map[string]int, len(classes))

	for class := range classes {
		count := 0
		for _, inst := range g.SubjectsWith(rdfType, class) {
			for _, po := range g.PredicateObjects(inst) {
				if po.Predicate == rdfType {
					continue
				}
				if !po.Object.IsResource() {
					continue
				}
				if len(g.Objects(po.Object, rdfType)) > 0 {
					count++
				}
			}
		}
		out[class.Value] = count
	}

	return out
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func termSet(terms []rdf.Term) map[rdf.Term]struct{} {
	set := make(map[rdf.Term]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
