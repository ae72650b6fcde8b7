// Package report renders metric snapshots for people and programs. The
// markdown layout mirrors the published results format: one section per
// ontology with schema and knowledge-base metric lists.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ontolab/ontoeval/internal/metrics"
)

// Entry pairs an ontology's display name with its evaluated snapshot.
type Entry struct {
	Name     string            `json:"name"`
	Path     string            `json:"path,omitempty"`
	Snapshot *metrics.Snapshot `json:"metrics"`
}

// Markdown renders the results document for one or more ontologies.
func Markdown(entries []Entry) string {
	var b strings.Builder
	b.WriteString("# Ontology Evaluation\n")

	for _, e := range entries {
		s := e.Snapshot

		fmt.Fprintf(&b, "\n## %s\n\n", e.Name)

		b.WriteString("### Schema Metrics\n\n")
		fmt.Fprintf(&b, "- **Relationship Richness:** %s\n", formatRatio(s.RelationshipRichness))
		fmt.Fprintf(&b, "- **Inheritance Richness:** %s\n", formatRatio(s.InheritanceRichness))
		fmt.Fprintf(&b, "- **Attribute Richness:** %s\n", formatRatio(s.AttributeRichness))

		b.WriteString("\n### Knowledge Base Metrics\n\n")
		fmt.Fprintf(&b, "- **Class Richness:** %s\n", formatRatio(s.ClassRichness))
		fmt.Fprintf(&b, "- **Cohesion:** %d\n", s.ConnectedComponents)
	}

	return b.String()
}

// Comparison renders two ontologies side by side as a markdown table.
func Comparison(a, b Entry) string {
	var out strings.Builder

	fmt.Fprintf(&out, "# %s vs %s\n\n", a.Name, b.Name)
	fmt.Fprintf(&out, "| Metric | %s | %s |\n", a.Name, b.Name)
	out.WriteString("|--------|---|---|\n")

	rows := []struct {
		label string
		left  string
		right string
	}{
		{"Relationship Richness", formatRatio(a.Snapshot.RelationshipRichness), formatRatio(b.Snapshot.RelationshipRichness)},
		{"Inheritance Richness", formatRatio(a.Snapshot.InheritanceRichness), formatRatio(b.Snapshot.InheritanceRichness)},
		{"Attribute Richness", formatRatio(a.Snapshot.AttributeRichness), formatRatio(b.Snapshot.AttributeRichness)},
		{"Class Richness", formatRatio(a.Snapshot.ClassRichness), formatRatio(b.Snapshot.ClassRichness)},
		{"Cohesion", strconv.Itoa(a.Snapshot.ConnectedComponents), strconv.Itoa(b.Snapshot.ConnectedComponents)},
		{"Classes", strconv.Itoa(a.Snapshot.Classes), strconv.Itoa(b.Snapshot.Classes)},
		{"Instances", strconv.Itoa(a.Snapshot.Instances), strconv.Itoa(b.Snapshot.Instances)},
		{"Triples", strconv.Itoa(a.Snapshot.Triples), strconv.Itoa(b.Snapshot.Triples)},
	}

	for _, row := range rows {
		fmt.Fprintf(&out, "| %s | %s | %s |\n", row.label, row.left, row.right)
	}

	return out.String()
}

// JSON renders entries for programmatic consumers.
func JSON(entries []Entry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// formatRatio renders a metric value with three decimals, the precision
// the published numbers use.
func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
