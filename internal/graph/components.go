package graph

import (
	"github.com/ontolab/ontoeval/internal/rdf"
)

// ConnectedComponents counts the connected components of the graph's
// resource nodes. Every asserted triple between two resources is an
// undirected edge; literals are attribute values, not vertices, so a node
// connected only to literals still forms its own component.
func (g *Graph) ConnectedComponents() int {
	uf := newUnionFind()

	for t := range g.seen {
		if !t.Subject.IsResource() {
			continue
		}
		uf.add(t.Subject)
		if t.Object.IsResource() {
			uf.add(t.Object)
			uf.union(t.Subject, t.Object)
		}
	}

	return uf.components()
}

type unionFind struct {
	parent map[rdf.Term]rdf.Term
	rank   map[rdf.Term]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[rdf.Term]rdf.Term),
		rank:   make(map[rdf.Term]int),
	}
}

func (uf *unionFind) add(t rdf.Term) {
	if _, ok := uf.parent[t]; !ok {
		uf.parent[t] = t
	}
}

func (uf *unionFind) find(t rdf.Term) rdf.Term {
	root := t
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	// Path compression.
	for uf.parent[t] != root {
		next := uf.parent[t]
		uf.parent[t] = root
		t = next
	}
	return root
}

func (uf *unionFind) union(a, b rdf.Term) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

func (uf *unionFind) components() int {
	n := 0
	for t, p := range uf.parent {
		if t == p {
			n++
		}
	}
	return n
}
