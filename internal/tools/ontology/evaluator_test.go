package ontology

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ontolab/ontoeval/internal/index"
)

const petsDoc = `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
ex:Animal a owl:Class .
ex:Dog a owl:Class ;
       rdfs:subClassOf ex:Animal .
ex:rex a ex:Dog .
`

func newTestStore(t *testing.T) *index.Store {
	t.Helper()
	store, err := index.NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func writeOntology(t *testing.T, name, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEvaluateWithoutStore(t *testing.T) {
	e := NewEvaluator(nil, nil)
	path := writeOntology(t, "pets.ttl", petsDoc)

	result, err := e.Evaluate(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if result.Name != "pets" {
		t.Errorf("name = %s", result.Name)
	}
	if result.Cached {
		t.Error("uncached run must not be marked cached")
	}
	if result.RunID != "" {
		t.Error("no run id without a store")
	}
	if result.Metrics.Classes != 2 {
		t.Errorf("Classes = %d, want 2", result.Metrics.Classes)
	}
	if result.Metrics.Instances != 1 {
		t.Errorf("Instances = %d, want 1", result.Metrics.Instances)
	}
}

func TestEvaluateCachesResults(t *testing.T) {
	store := newTestStore(t)
	e := NewEvaluator(store, nil)
	path := writeOntology(t, "pets.ttl", petsDoc)

	first, err := e.Evaluate(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if first.Cached || first.RunID == "" {
		t.Errorf("first run: %+v", first)
	}

	second, err := e.Evaluate(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !second.Cached {
		t.Error("unchanged document should serve the cached snapshot")
	}
	if second.RunID != first.RunID {
		t.Errorf("cached run id = %s, want %s", second.RunID, first.RunID)
	}
}

func TestEvaluateForceBypassesCache(t *testing.T) {
	store := newTestStore(t)
	e := NewEvaluator(store, nil)
	path := writeOntology(t, "pets.ttl", petsDoc)

	first, _ := e.Evaluate(context.Background(), path, false)

	forced, err := e.Evaluate(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if forced.Cached {
		t.Error("force must re-evaluate")
	}
	if forced.RunID == first.RunID {
		t.Error("forced run should get a fresh run id")
	}
}

func TestEvaluateRejectsNonOntologyFiles(t *testing.T) {
	e := NewEvaluator(nil, nil)
	path := writeOntology(t, "notes.txt", "plain text")

	if _, err := e.Evaluate(context.Background(), path, false); err == nil {
		t.Error("expected error for unrecognized extension")
	}
}

func TestEvaluateRecordsParseFailure(t *testing.T) {
	store := newTestStore(t)
	e := NewEvaluator(store, nil)
	path := writeOntology(t, "bad.ttl", "<http://example.org/a> <http://example.org/p>")

	if _, err := e.Evaluate(context.Background(), path, false); err == nil {
		t.Fatal("expected parse error")
	}

	ont, _ := store.GetOntology(path)
	if ont == nil || ont.Status != index.StatusFailed {
		t.Errorf("expected failed status, got %+v", ont)
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	e := NewEvaluator(nil, nil)
	path := writeOntology(t, "pets.ttl", petsDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Evaluate(ctx, path, false); err == nil {
		t.Error("expected context error")
	}
}
