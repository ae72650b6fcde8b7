package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMimeTypeFromExtension(t *testing.T) {
	cases := map[string]string{
		".ttl":    "text/turtle",
		".TTL":    "text/turtle",
		".nt":     "application/n-triples",
		".rdf":    "application/rdf+xml",
		".owl":    "application/rdf+xml",
		".xml":    "application/xml",
		".json":   "application/octet-stream",
		".turtle": "text/turtle",
	}

	for ext, want := range cases {
		if got := MimeTypeFromExtension(ext); got != want {
			t.Errorf("MimeTypeFromExtension(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestIsOntologyFile(t *testing.T) {
	for _, path := range []string{"a.ttl", "b.owl", "dir/c.rdf", "d.nt", "E.TTL"} {
		if !IsOntologyFile(path) {
			t.Errorf("%s should be recognized", path)
		}
	}
	for _, path := range []string{"a.txt", "b.go", "c", "d.json"} {
		if IsOntologyFile(path) {
			t.Errorf("%s should not be recognized", path)
		}
	}
}

func TestRegistryDispatchByExtension(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.GetByExtension("doc.ttl").(*TurtleParser); !ok {
		t.Error("expected Turtle parser for .ttl")
	}
	if _, ok := r.GetByExtension("doc.nt").(*NTriplesParser); !ok {
		t.Error("expected N-Triples parser for .nt")
	}
	if _, ok := r.GetByExtension("doc.owl").(*RDFXMLParser); !ok {
		t.Error("expected RDF/XML parser for .owl")
	}
	if r.GetByExtension("doc.json") != nil {
		t.Error("expected no parser for .json")
	}
}

func TestRegistryGetByMimeTypeFallback(t *testing.T) {
	r := NewRegistry()

	// text/xml is not a primary MIME type but CanParse accepts it.
	if p := r.GetByMimeType("text/xml"); p == nil {
		t.Error("expected fallback match via CanParse")
	}
	if p := r.GetByMimeType("image/png"); p != nil {
		t.Error("expected no parser for image/png")
	}
}

func TestRegistryParseUnknownType(t *testing.T) {
	_, err := DefaultRegistry.Parse("doc.json", []byte("{}"))
	if err == nil {
		t.Fatal("expected error for unknown file type")
	}
}

func TestRegistryParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.ttl")

	doc := `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
ex:Dog a owl:Class .
ex:rex a ex:Dog .
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := DefaultRegistry.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(result.Triples) != 2 {
		t.Errorf("expected 2 triples, got %d", len(result.Triples))
	}
}
