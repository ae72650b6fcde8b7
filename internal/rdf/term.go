package rdf

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type TermKind int

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a single RDF node: an IRI, a blank node, or a literal.
// Terms are immutable values and are comparable with ==.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

func NewIRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

func NewBlank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// NewLiteral builds a plain literal. Lexical forms are normalized to NFC
// so that equality matches across differently-composed source documents.
func NewLiteral(lexical string) Term {
	return Term{Kind: KindLiteral, Value: norm.NFC.String(lexical)}
}

func NewTypedLiteral(lexical, datatype string) Term {
	return Term{Kind: KindLiteral, Value: norm.NFC.String(lexical), Datatype: datatype}
}

func NewLangLiteral(lexical, lang string) Term {
	return Term{
		Kind:     KindLiteral,
		Value:    norm.NFC.String(lexical),
		Datatype: RDFLangString,
		Lang:     strings.ToLower(lang),
	}
}

func (t Term) IsIRI() bool     { return t.Kind == KindIRI }
func (t Term) IsBlank() bool   { return t.Kind == KindBlank }
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsResource reports whether the term can appear as a graph vertex.
func (t Term) IsResource() bool { return t.Kind == KindIRI || t.Kind == KindBlank }

// String renders the term in N-Triples form.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		quoted := quoteLiteral(t.Value)
		if t.Lang != "" {
			return quoted + "@" + t.Lang
		}
		if t.Datatype != "" && t.Datatype != XSDString {
			return quoted + "^^<" + t.Datatype + ">"
		}
		return quoted
	default:
		return fmt.Sprintf("?%s", t.Value)
	}
}

func quoteLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Triple is a single asserted statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (tr Triple) String() string {
	return tr.Subject.String() + " " + tr.Predicate.String() + " " + tr.Object.String() + " ."
}
