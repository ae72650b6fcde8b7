package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ontolab/ontoeval/internal/metrics"
)

func sampleSnapshot() *metrics.Snapshot {
	return &metrics.Snapshot{
		Triples:              120,
		Classes:              10,
		Instances:            30,
		SubclassAssertions:   8,
		ObjectProperties:     12,
		DatatypeProperties:   5,
		PopulatedClasses:     6,
		ConnectedComponents:  2,
		RelationshipRichness: 0.6,
		InheritanceRichness:  0.8,
		AttributeRichness:    0.5,
		ClassRichness:        0.6,
		Cohesion:             2,
	}
}

func TestMarkdownLayout(t *testing.T) {
	out := Markdown([]Entry{{Name: "Pets", Path: "/tmp/pets.ttl", Snapshot: sampleSnapshot()}})

	for _, want := range []string{
		"# Ontology Evaluation",
		"## Pets",
		"### Schema Metrics",
		"### Knowledge Base Metrics",
		"- **Relationship Richness:** 0.600",
		"- **Inheritance Richness:** 0.800",
		"- **Attribute Richness:** 0.500",
		"- **Class Richness:** 0.600",
		"- **Cohesion:** 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownMultipleEntries(t *testing.T) {
	out := Markdown([]Entry{
		{Name: "A", Snapshot: sampleSnapshot()},
		{Name: "B", Snapshot: sampleSnapshot()},
	})

	if !strings.Contains(out, "## A") || !strings.Contains(out, "## B") {
		t.Errorf("expected one section per ontology:\n%s", out)
	}
}

func TestComparisonTable(t *testing.T) {
	a := Entry{Name: "Old", Snapshot: sampleSnapshot()}

	changed := sampleSnapshot()
	changed.ConnectedComponents = 1
	changed.RelationshipRichness = 0.75
	b := Entry{Name: "New", Snapshot: changed}

	out := Comparison(a, b)

	for _, want := range []string{
		"# Old vs New",
		"| Metric | Old | New |",
		"| Relationship Richness | 0.600 | 0.750 |",
		"| Cohesion | 2 | 1 |",
		"| Classes | 10 | 10 |",
		"| Triples | 120 | 120 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison missing %q:\n%s", want, out)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := JSON([]Entry{{Name: "Pets", Snapshot: sampleSnapshot()}})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded []Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Pets" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded[0].Snapshot.Classes != 10 {
		t.Errorf("Classes = %d", decoded[0].Snapshot.Classes)
	}
}

func TestFormatRatioPrecision(t *testing.T) {
	if got := formatRatio(0); got != "0.000" {
		t.Errorf("formatRatio(0) = %s", got)
	}
	if got := formatRatio(1.0 / 3.0); got != "0.333" {
		t.Errorf("formatRatio(1/3) = %s", got)
	}
}
