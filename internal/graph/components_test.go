package graph

import (
	"testing"

	"github.com/ontolab/ontoeval/internal/rdf"
)

func TestConnectedComponentsEmpty(t *testing.T) {
	g := New()
	if got := g.ConnectedComponents(); got != 0 {
		t.Errorf("empty graph has 0 components, got %d", got)
	}
}

func TestConnectedComponentsSingleIsland(t *testing.T) {
	g := New()
	g.AddAll([]rdf.Triple{
		tr("a", "p", "b"),
		tr("b", "p", "c"),
	})

	if got := g.ConnectedComponents(); got != 1 {
		t.Errorf("expected 1 component, got %d", got)
	}
}

func TestConnectedComponentsTwoIslands(t *testing.T) {
	g := New()
	g.AddAll([]rdf.Triple{
		tr("a", "p", "b"),
		tr("x", "p", "y"),
	})

	if got := g.ConnectedComponents(); got != 2 {
		t.Errorf("expected 2 components, got %d", got)
	}
}

func TestLiteralsAreNotVertices(t *testing.T) {
	g := New()

	// Two subjects sharing only a literal value stay disconnected.
	lit := rdf.NewLiteral("shared")
	g.Add(rdf.Triple{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: lit})
	g.Add(rdf.Triple{Subject: rdf.NewIRI("b"), Predicate: rdf.NewIRI("p"), Object: lit})

	if got := g.ConnectedComponents(); got != 2 {
		t.Errorf("expected 2 components, got %d", got)
	}
}

func TestBlankNodesJoinComponents(t *testing.T) {
	g := New()
	blank := rdf.NewBlank("b0")
	g.Add(rdf.Triple{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: blank})
	g.Add(rdf.Triple{Subject: blank, Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")})

	if got := g.ConnectedComponents(); got != 1 {
		t.Errorf("expected 1 component, got %d", got)
	}
}
