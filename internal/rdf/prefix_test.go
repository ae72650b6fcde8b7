package rdf

import "testing"

func TestPrefixMapDefaults(t *testing.T) {
	pm := NewPrefixMap()

	ns, ok := pm.Lookup("rdf")
	if !ok || ns != RDFNamespace {
		t.Errorf("expected default rdf binding, got %q", ns)
	}

	if _, ok := pm.Lookup("nope"); ok {
		t.Error("unexpected binding for undeclared prefix")
	}
}

func TestPrefixExpand(t *testing.T) {
	pm := NewPrefixMap()
	pm.Bind("ex", "http://example.org/")

	got, err := pm.Expand("ex:Thing")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got != "http://example.org/Thing" {
		t.Errorf("expanded to %q", got)
	}

	if _, err := pm.Expand("missing:Thing"); err == nil {
		t.Error("expected error for undeclared prefix")
	}
}

func TestPrefixCompact(t *testing.T) {
	pm := NewPrefixMap()
	pm.Bind("ex", "http://example.org/")

	if got := pm.Compact("http://example.org/Thing"); got != "ex:Thing" {
		t.Errorf("Compact = %q", got)
	}

	unknown := "http://other.org/Thing"
	if got := pm.Compact(unknown); got != unknown {
		t.Errorf("IRI outside any binding should pass through, got %q", got)
	}
}
