package index

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestWorker(t *testing.T) (*Worker, *Store) {
	t.Helper()
	store := newTestStore(t)
	w := NewWorker(store, nil, DefaultWorkerConfig())
	t.Cleanup(w.Stop)
	return w, store
}

func writeOntology(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const petsDoc = `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
ex:Animal a owl:Class .
ex:Dog a owl:Class ;
       rdfs:subClassOf ex:Animal .
ex:rex a ex:Dog .
`

func TestProcessJobEvaluates(t *testing.T) {
	w, store := newTestWorker(t)
	path := writeOntology(t, t.TempDir(), "pets.ttl", petsDoc)

	w.processJob(EvalJob{Path: path})

	ont, err := store.GetOntology(path)
	if err != nil || ont == nil {
		t.Fatalf("GetOntology: %+v, %v", ont, err)
	}
	if ont.Status != StatusEvaluated {
		t.Errorf("status = %s", ont.Status)
	}
	if ont.Name != "pets" {
		t.Errorf("name = %s", ont.Name)
	}
	if ont.Format != "text/turtle" {
		t.Errorf("format = %s", ont.Format)
	}

	snap, err := store.LatestSnapshot(ont.ID)
	if err != nil || snap == nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if snap.Metrics.Classes != 2 {
		t.Errorf("Classes = %d, want 2", snap.Metrics.Classes)
	}
	if snap.RunID == "" {
		t.Error("expected a run id")
	}

	stats := w.GetStats()
	if stats.Evaluated != 1 {
		t.Errorf("Evaluated = %d", stats.Evaluated)
	}
}

func TestProcessJobSkipsUnchangedContent(t *testing.T) {
	w, store := newTestWorker(t)
	path := writeOntology(t, t.TempDir(), "pets.ttl", petsDoc)

	w.processJob(EvalJob{Path: path})
	w.processJob(EvalJob{Path: path})

	ont, _ := store.GetOntology(path)
	records, err := store.History(ont.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("unchanged content must not add snapshots, got %d", len(records))
	}
}

func TestProcessJobReevaluatesChangedContent(t *testing.T) {
	w, store := newTestWorker(t)
	dir := t.TempDir()
	path := writeOntology(t, dir, "pets.ttl", petsDoc)

	w.processJob(EvalJob{Path: path})
	writeOntology(t, dir, "pets.ttl", petsDoc+"\nex:fido a ex:Dog .\n")
	w.processJob(EvalJob{Path: path})

	ont, _ := store.GetOntology(path)
	records, _ := store.History(ont.ID, 0)
	if len(records) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(records))
	}
	if records[0].Metrics.Instances <= records[1].Metrics.Instances {
		t.Errorf("newest snapshot should see the added instance: %d vs %d",
			records[0].Metrics.Instances, records[1].Metrics.Instances)
	}
}

func TestProcessJobRecordsParseFailure(t *testing.T) {
	w, store := newTestWorker(t)
	path := writeOntology(t, t.TempDir(), "bad.ttl", "<http://example.org/a> <http://example.org/p>")

	w.processJob(EvalJob{Path: path})

	ont, _ := store.GetOntology(path)
	if ont == nil || ont.Status != StatusFailed {
		t.Fatalf("expected failed status, got %+v", ont)
	}
	if ont.ErrorMessage == "" {
		t.Error("expected an error message")
	}

	if stats := w.GetStats(); stats.Failed != 1 {
		t.Errorf("Failed = %d", stats.Failed)
	}
}

func TestProcessJobIgnoresNonOntologyFiles(t *testing.T) {
	w, store := newTestWorker(t)
	path := writeOntology(t, t.TempDir(), "notes.txt", "not rdf")

	w.processJob(EvalJob{Path: path})

	ont, _ := store.GetOntology(path)
	if ont != nil {
		t.Errorf("non-ontology file should not be tracked: %+v", ont)
	}
	if stats := w.GetStats(); stats.Skipped != 1 {
		t.Errorf("Skipped = %d", stats.Skipped)
	}
}

func TestProcessJobHonorsExcludePatterns(t *testing.T) {
	w, store := newTestWorker(t)
	dir := filepath.Join(t.TempDir(), "vendor")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := writeOntology(t, dir, "pets.ttl", petsDoc)

	w.processJob(EvalJob{Path: path})

	ont, _ := store.GetOntology(path)
	if ont != nil {
		t.Errorf("excluded path should not be tracked: %+v", ont)
	}
}

func TestProcessJobSkipsOversizedFiles(t *testing.T) {
	store := newTestStore(t)
	config := DefaultWorkerConfig()
	config.MaxFileSize = 8
	w := NewWorker(store, nil, config)
	t.Cleanup(w.Stop)

	path := writeOntology(t, t.TempDir(), "pets.ttl", petsDoc)
	w.processJob(EvalJob{Path: path})

	ont, _ := store.GetOntology(path)
	if ont == nil || ont.Status != StatusSkipped {
		t.Fatalf("expected skipped status, got %+v", ont)
	}
}

func TestEnqueuePriorities(t *testing.T) {
	w, _ := newTestWorker(t)

	if !w.Enqueue(EvalJob{Path: "/tmp/a.ttl", Priority: PriorityHigh}) {
		t.Error("high priority enqueue failed")
	}
	if !w.Enqueue(EvalJob{Path: "/tmp/b.ttl", Priority: PriorityNormal}) {
		t.Error("normal priority enqueue failed")
	}
	if n := w.EnqueueBatch([]string{"/tmp/c.ttl", "/tmp/d.ttl"}, PriorityLow); n != 2 {
		t.Errorf("EnqueueBatch = %d, want 2", n)
	}

	if got := w.GetStats().InQueue; got != 4 {
		t.Errorf("InQueue = %d, want 4", got)
	}
}

func TestEnqueueFullQueue(t *testing.T) {
	store := newTestStore(t)
	config := DefaultWorkerConfig()
	config.MaxQueueSize = 1
	w := NewWorker(store, nil, config)
	t.Cleanup(w.Stop)

	if !w.Enqueue(EvalJob{Path: "/tmp/a.ttl", Priority: PriorityNormal}) {
		t.Fatal("first enqueue should succeed")
	}
	if w.Enqueue(EvalJob{Path: "/tmp/b.ttl", Priority: PriorityNormal}) {
		t.Error("enqueue into a full queue should fail")
	}
}

func TestOntologyName(t *testing.T) {
	if got := ontologyName("/tmp/dir/pets.ttl"); got != "pets" {
		t.Errorf("ontologyName = %s", got)
	}
	if got := ontologyName("plain.owl"); got != "plain" {
		t.Errorf("ontologyName = %s", got)
	}
}
