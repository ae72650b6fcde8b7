package graph

import (
	"github.com/ontolab/ontoeval/internal/rdf"
)

// Graph is an in-memory triple store with set semantics: adding the same
// triple twice has no effect. Three index maps cover the access patterns
// the metrics calculator needs.
type Graph struct {
	spo map[rdf.Term]map[rdf.Term][]rdf.Term
	pos map[rdf.Term]map[rdf.Term][]rdf.Term
	osp map[rdf.Term]map[rdf.Term][]rdf.Term

	seen map[rdf.Triple]struct{}
	size int
}

func New() *Graph {
	return &Graph{
		spo:  make(map[rdf.Term]map[rdf.Term][]rdf.Term),
		pos:  make(map[rdf.Term]map[rdf.Term][]rdf.Term),
		osp:  make(map[rdf.Term]map[rdf.Term][]rdf.Term),
		seen: make(map[rdf.Triple]struct{}),
	}
}

func (g *Graph) Add(t rdf.Triple) {
	if _, dup := g.seen[t]; dup {
		return
	}
	g.seen[t] = struct{}{}
	g.size++

	insert(g.spo, t.Subject, t.Predicate, t.Object)
	insert(g.pos, t.Predicate, t.Object, t.Subject)
	insert(g.osp, t.Object, t.Subject, t.Predicate)
}

func (g *Graph) AddAll(triples []rdf.Triple) {
	for _, t := range triples {
		g.Add(t)
	}
}

func insert(idx map[rdf.Term]map[rdf.Term][]rdf.Term, a, b, c rdf.Term) {
	inner, ok := idx[a]
	if !ok {
		inner = make(map[rdf.Term][]rdf.Term)
		idx[a] = inner
	}
	inner[b] = append(inner[b], c)
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return g.size }

func (g *Graph) Has(t rdf.Triple) bool {
	_, ok := g.seen[t]
	return ok
}

// HasSubject reports whether the term appears in subject position.
func (g *Graph) HasSubject(s rdf.Term) bool {
	_, ok := g.spo[s]
	return ok
}

// SubjectsWith returns the distinct subjects of triples (?, p, o).
func (g *Graph) SubjectsWith(p, o rdf.Term) []rdf.Term {
	inner, ok := g.pos[p]
	if !ok {
		return nil
	}
	return dedupe(inner[o])
}

// SubjectsWithPredicate returns the distinct subjects of triples (?, p, ?).
func (g *Graph) SubjectsWithPredicate(p rdf.Term) []rdf.Term {
	inner, ok := g.pos[p]
	if !ok {
		return nil
	}
	var out []rdf.Term
	seen := make(map[rdf.Term]struct{})
	for _, subjects := range inner {
		for _, s := range subjects {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// Objects returns the objects of triples (s, p, ?).
func (g *Graph) Objects(s, p rdf.Term) []rdf.Term {
	inner, ok := g.spo[s]
	if !ok {
		return nil
	}
	return dedupe(inner[p])
}

// PredicateObjects returns every (predicate, object) pair for a subject.
func (g *Graph) PredicateObjects(s rdf.Term) []PredicateObject {
	inner, ok := g.spo[s]
	if !ok {
		return nil
	}
	var out []PredicateObject
	for p, objects := range inner {
		for _, o := range objects {
			out = append(out, PredicateObject{Predicate: p, Object: o})
		}
	}
	return out
}

type PredicateObject struct {
	Predicate rdf.Term
	Object    rdf.Term
}

// CountWithPredicate returns the number of triples with predicate p.
func (g *Graph) CountWithPredicate(p rdf.Term) int {
	inner, ok := g.pos[p]
	if !ok {
		return 0
	}
	n := 0
	for _, subjects := range inner {
		n += len(subjects)
	}
	return n
}

// Triples returns every triple in the graph, in no particular order.
func (g *Graph) Triples() []rdf.Triple {
	out := make([]rdf.Triple, 0, g.size)
	for t := range g.seen {
		out = append(out, t)
	}
	return out
}

func dedupe(terms []rdf.Term) []rdf.Term {
	if len(terms) <= 1 {
		return terms
	}
	seen := make(map[rdf.Term]struct{}, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
