package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ontolab/ontoeval/internal/rdf"
)

func parseTurtle(t *testing.T, doc string) *Result {
	t.Helper()
	result, err := NewTurtleParser().Parse("test.ttl", []byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return result
}

func TestTurtleSimpleTriple(t *testing.T) {
	result := parseTurtle(t, `<http://example.org/a> <http://example.org/p> <http://example.org/b> .`)

	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(result.Triples))
	}

	tr := result.Triples[0]
	if tr.Subject.Value != "http://example.org/a" {
		t.Errorf("subject = %s", tr.Subject.Value)
	}
	if tr.Object.Value != "http://example.org/b" {
		t.Errorf("object = %s", tr.Object.Value)
	}
}

func TestTurtlePrefixes(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:p ex:b .
`
	result := parseTurtle(t, doc)

	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(result.Triples))
	}
	if result.Triples[0].Subject.Value != "http://example.org/a" {
		t.Errorf("subject = %s", result.Triples[0].Subject.Value)
	}

	ns, ok := result.Prefixes.Lookup("ex")
	if !ok || ns != "http://example.org/" {
		t.Errorf("prefix binding = %q, %v", ns, ok)
	}
}

func TestTurtleSparqlDirectives(t *testing.T) {
	doc := `
PREFIX ex: <http://example.org/>
ex:a ex:p ex:b .
`
	result := parseTurtle(t, doc)
	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(result.Triples))
	}
}

func TestTurtleKeywordA(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
ex:Dog a owl:Class .
`
	result := parseTurtle(t, doc)

	if result.Triples[0].Predicate.Value != rdf.RDFType {
		t.Errorf("'a' should expand to rdf:type, got %s", result.Triples[0].Predicate.Value)
	}
	if result.Triples[0].Object.Value != rdf.OWLClass {
		t.Errorf("object = %s", result.Triples[0].Object.Value)
	}
}

func TestTurtlePredicateObjectLists(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:p ex:b , ex:c ;
     ex:q ex:d .
`
	result := parseTurtle(t, doc)
	if len(result.Triples) != 3 {
		t.Fatalf("expected 3 triples, got %d", len(result.Triples))
	}
}

func TestTurtleTrailingSemicolon(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:p ex:b ; .
`
	result := parseTurtle(t, doc)
	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(result.Triples))
	}
}

func TestTurtleLiterals(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
ex:a ex:name "Rex" ;
     ex:age 7 ;
     ex:weight 12.5 ;
     ex:tag "chien"@fr ;
     ex:id "x1"^^xsd:string ;
     ex:good true .
`
	result := parseTurtle(t, doc)
	if len(result.Triples) != 6 {
		t.Fatalf("expected 6 triples, got %d", len(result.Triples))
	}

	byPredicate := make(map[string]rdf.Term)
	for _, tr := range result.Triples {
		byPredicate[tr.Predicate.Value] = tr.Object
	}

	if got := byPredicate["http://example.org/age"]; got.Datatype != rdf.XSDInteger {
		t.Errorf("integer datatype = %s", got.Datatype)
	}
	if got := byPredicate["http://example.org/weight"]; got.Datatype != rdf.XSDDecimal {
		t.Errorf("decimal datatype = %s", got.Datatype)
	}
	if got := byPredicate["http://example.org/tag"]; got.Lang != "fr" {
		t.Errorf("lang = %s", got.Lang)
	}
	if got := byPredicate["http://example.org/good"]; got.Datatype != rdf.XSDBoolean {
		t.Errorf("boolean datatype = %s", got.Datatype)
	}
}

func TestTurtleLongString(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:note """line one
line two""" .
`
	result := parseTurtle(t, doc)
	if !strings.Contains(result.Triples[0].Object.Value, "\n") {
		t.Errorf("long string should keep newlines, got %q", result.Triples[0].Object.Value)
	}
}

func TestTurtleBlankNodePropertyList(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:knows [ ex:name "Anon" ] .
`
	result := parseTurtle(t, doc)
	if len(result.Triples) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(result.Triples))
	}

	// Inner statements are emitted as the property list is parsed, so the
	// outer link comes last.
	inner, outer := result.Triples[0], result.Triples[1]
	if !outer.Object.IsBlank() {
		t.Errorf("expected blank object, got %v", outer.Object.Kind)
	}
	if inner.Subject != outer.Object {
		t.Error("inner triple should hang off the same blank node")
	}
}

func TestTurtleCollection(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:list ( ex:x ex:y ) .
`
	result := parseTurtle(t, doc)

	// 1 link + first/rest pairs for two items.
	if len(result.Triples) != 5 {
		t.Fatalf("expected 5 triples, got %d", len(result.Triples))
	}

	sawNil := false
	for _, tr := range result.Triples {
		if tr.Object.Value == rdf.RDFNil {
			sawNil = true
		}
	}
	if !sawNil {
		t.Error("collection must terminate with rdf:nil")
	}
}

func TestTurtleBaseResolution(t *testing.T) {
	doc := `
@base <http://example.org/base/> .
<a> <p> <b> .
`
	result := parseTurtle(t, doc)
	if result.Triples[0].Subject.Value != "http://example.org/base/a" {
		t.Errorf("subject = %s", result.Triples[0].Subject.Value)
	}
}

func TestTurtleComments(t *testing.T) {
	doc := `
# leading comment
@prefix ex: <http://example.org/> . # trailing comment
ex:a ex:p ex:b .
`
	result := parseTurtle(t, doc)
	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(result.Triples))
	}
}

func TestTurtleSyntaxError(t *testing.T) {
	_, err := NewTurtleParser().Parse("bad.ttl", []byte(`<http://example.org/a> <http://example.org/p>`))
	if err == nil {
		t.Fatal("expected syntax error")
	}

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if syntaxErr.Filename != "bad.ttl" {
		t.Errorf("filename = %s", syntaxErr.Filename)
	}
}

func TestTurtleUndeclaredPrefix(t *testing.T) {
	_, err := NewTurtleParser().Parse("bad.ttl", []byte(`nope:a nope:p nope:b .`))
	if err == nil {
		t.Fatal("expected error for undeclared prefix")
	}
}

func TestTurtleUnicodeEscapes(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:a ex:name "Réx" .
`
	result := parseTurtle(t, doc)
	if result.Triples[0].Object.Value != "Réx" {
		t.Errorf("value = %q", result.Triples[0].Object.Value)
	}
}
