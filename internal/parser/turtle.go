package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ontolab/ontoeval/internal/rdf"
)

// TurtleParser parses Terse RDF Triple Language documents.
type TurtleParser struct{}

func NewTurtleParser() *TurtleParser {
	return &TurtleParser{}
}

func (p *TurtleParser) MimeType() string {
	return "text/turtle"
}

func (p *TurtleParser) CanParse(mimeType string) bool {
	switch mimeType {
	case "text/turtle", "application/x-turtle":
		return true
	}
	return false
}

func (p *TurtleParser) Parse(filename string, content []byte) (*Result, error) {
	doc := &turtleDoc{
		lex:      newLexer(filename, string(content)),
		prefixes: rdf.NewPrefixMap(),
	}
	if err := doc.run(); err != nil {
		return nil, err
	}
	return &Result{Triples: doc.triples, Prefixes: doc.prefixes}, nil
}

type turtleDoc struct {
	lex      *lexer
	cur      token
	prefixes *rdf.PrefixMap
	base     string
	triples  []rdf.Triple
	anonSeq  int
}

func (d *turtleDoc) run() error {
	if err := d.advance(); err != nil {
		return err
	}

	for d.cur.typ != tokEOF {
		if err := d.statement(); err != nil {
			return err
		}
	}
	return nil
}

func (d *turtleDoc) advance() error {
	tok, err := d.lex.nextToken()
	if err != nil {
		return err
	}
	d.cur = tok
	return nil
}

func (d *turtleDoc) errorf(format string, args ...interface{}) error {
	return &SyntaxError{
		Filename: d.lex.filename,
		Line:     d.cur.line,
		Col:      d.cur.col,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (d *turtleDoc) expect(typ tokenType) error {
	if d.cur.typ != typ {
		return d.errorf("expected %s, found %s", typ, d.cur.typ)
	}
	return d.advance()
}

func (d *turtleDoc) statement() error {
	switch d.cur.typ {
	case tokPrefixDecl:
		return d.prefixDirective(true)
	case tokBaseDecl:
		return d.baseDirective(true)
	case tokSparqlPrefix:
		return d.prefixDirective(false)
	case tokSparqlBase:
		return d.baseDirective(false)
	default:
		if err := d.triplesBlock(); err != nil {
			return err
		}
		return d.expect(tokDot)
	}
}

func (d *turtleDoc) prefixDirective(dotted bool) error {
	if err := d.advance(); err != nil {
		return err
	}

	if d.cur.typ != tokPName || !strings.HasSuffix(d.cur.value, ":") {
		return d.errorf("expected prefix declaration, found %q", d.cur.value)
	}
	prefix := strings.TrimSuffix(d.cur.value, ":")
	if err := d.advance(); err != nil {
		return err
	}

	if d.cur.typ != tokIRIRef {
		return d.errorf("expected namespace IRI, found %s", d.cur.typ)
	}
	d.prefixes.Bind(prefix, d.resolve(d.cur.value))
	if err := d.advance(); err != nil {
		return err
	}

	if dotted {
		return d.expect(tokDot)
	}
	return nil
}

func (d *turtleDoc) baseDirective(dotted bool) error {
	if err := d.advance(); err != nil {
		return err
	}

	if d.cur.typ != tokIRIRef {
		return d.errorf("expected base IRI, found %s", d.cur.typ)
	}
	d.base = d.resolve(d.cur.value)
	if err := d.advance(); err != nil {
		return err
	}

	if dotted {
		return d.expect(tokDot)
	}
	return nil
}

func (d *turtleDoc) triplesBlock() error {
	if d.cur.typ == tokLBracket {
		// A leading property list may stand alone as the whole statement.
		subject, err := d.blankNodePropertyList()
		if err != nil {
			return err
		}
		if d.cur.typ == tokDot {
			return nil
		}
		return d.predicateObjectList(subject)
	}

	subject, err := d.subject()
	if err != nil {
		return err
	}
	return d.predicateObjectList(subject)
}

func (d *turtleDoc) subject() (rdf.Term, error) {
	switch d.cur.typ {
	case tokIRIRef, tokPName:
		return d.iri()
	case tokBlankLabel:
		t := rdf.NewBlank(d.cur.value)
		return t, d.advance()
	case tokLParen:
		return d.collection()
	default:
		return rdf.Term{}, d.errorf("expected subject, found %s", d.cur.typ)
	}
}

func (d *turtleDoc) predicateObjectList(subject rdf.Term) error {
	for {
		predicate, err := d.verb()
		if err != nil {
			return err
		}

		if err := d.objectList(subject, predicate); err != nil {
			return err
		}

		if d.cur.typ != tokSemicolon {
			return nil
		}
		// Consume the semicolon run; a trailing one before '.' or ']' is legal.
		for d.cur.typ == tokSemicolon {
			if err := d.advance(); err != nil {
				return err
			}
		}
		if d.cur.typ == tokDot || d.cur.typ == tokRBracket {
			return nil
		}
	}
}

func (d *turtleDoc) verb() (rdf.Term, error) {
	if d.cur.typ == tokKeywordA {
		return rdf.NewIRI(rdf.RDFType), d.advance()
	}
	if d.cur.typ == tokIRIRef || d.cur.typ == tokPName {
		return d.iri()
	}
	return rdf.Term{}, d.errorf("expected predicate, found %s", d.cur.typ)
}

func (d *turtleDoc) objectList(subject, predicate rdf.Term) error {
	for {
		object, err := d.object()
		if err != nil {
			return err
		}
		d.emit(subject, predicate, object)

		if d.cur.typ != tokComma {
			return nil
		}
		if err := d.advance(); err != nil {
			return err
		}
	}
}

func (d *turtleDoc) object() (rdf.Term, error) {
	switch d.cur.typ {
	case tokIRIRef, tokPName:
		return d.iri()
	case tokBlankLabel:
		t := rdf.NewBlank(d.cur.value)
		return t, d.advance()
	case tokLBracket:
		return d.blankNodePropertyList()
	case tokLParen:
		return d.collection()
	case tokString:
		return d.literal()
	case tokInteger:
		t := rdf.NewTypedLiteral(d.cur.value, rdf.XSDInteger)
		return t, d.advance()
	case tokDecimal:
		t := rdf.NewTypedLiteral(d.cur.value, rdf.XSDDecimal)
		return t, d.advance()
	case tokDouble:
		t := rdf.NewTypedLiteral(d.cur.value, rdf.XSDDouble)
		return t, d.advance()
	case tokTrue, tokFalse:
		t := rdf.NewTypedLiteral(d.cur.value, rdf.XSDBoolean)
		return t, d.advance()
	default:
		return rdf.Term{}, d.errorf("expected object, found %s", d.cur.typ)
	}
}

func (d *turtleDoc) literal() (rdf.Term, error) {
	lexical := d.cur.value
	if err := d.advance(); err != nil {
		return rdf.Term{}, err
	}

	switch d.cur.typ {
	case tokLangTag:
		t := rdf.NewLangLiteral(lexical, d.cur.value)
		return t, d.advance()
	case tokDoubleCaret:
		if err := d.advance(); err != nil {
			return rdf.Term{}, err
		}
		datatype, err := d.iri()
		if err != nil {
			return rdf.Term{}, err
		}
		return rdf.NewTypedLiteral(lexical, datatype.Value), nil
	default:
		return rdf.NewLiteral(lexical), nil
	}
}

func (d *turtleDoc) blankNodePropertyList() (rdf.Term, error) {
	if err := d.expect(tokLBracket); err != nil {
		return rdf.Term{}, err
	}

	node := d.freshBlank()

	if d.cur.typ == tokRBracket {
		return node, d.advance()
	}

	if err := d.predicateObjectList(node); err != nil {
		return rdf.Term{}, err
	}
	return node, d.expect(tokRBracket)
}

func (d *turtleDoc) collection() (rdf.Term, error) {
	if err := d.expect(tokLParen); err != nil {
		return rdf.Term{}, err
	}

	first := rdf.NewIRI(rdf.RDFFirst)
	rest := rdf.NewIRI(rdf.RDFRest)
	nilTerm := rdf.NewIRI(rdf.RDFNil)

	head := nilTerm
	var tail rdf.Term

	for d.cur.typ != tokRParen {
		item, err := d.object()
		if err != nil {
			return rdf.Term{}, err
		}

		cell := d.freshBlank()
		d.emit(cell, first, item)

		if head == nilTerm {
			head = cell
		} else {
			d.emit(tail, rest, cell)
		}
		tail = cell
	}

	if tail != (rdf.Term{}) {
		d.emit(tail, rest, nilTerm)
	}

	return head, d.expect(tokRParen)
}

func (d *turtleDoc) iri() (rdf.Term, error) {
	switch d.cur.typ {
	case tokIRIRef:
		t := rdf.NewIRI(d.resolve(d.cur.value))
		return t, d.advance()
	case tokPName:
		expanded, err := d.prefixes.Expand(d.cur.value)
		if err != nil {
			return rdf.Term{}, d.errorf("%v", err)
		}
		t := rdf.NewIRI(expanded)
		return t, d.advance()
	default:
		return rdf.Term{}, d.errorf("expected IRI, found %s", d.cur.typ)
	}
}

func (d *turtleDoc) emit(s, p, o rdf.Term) {
	d.triples = append(d.triples, rdf.Triple{Subject: s, Predicate: p, Object: o})
}

func (d *turtleDoc) freshBlank() rdf.Term {
	d.anonSeq++
	return rdf.NewBlank(fmt.Sprintf("anon%d", d.anonSeq))
}

// resolve applies the document base to a (possibly relative) IRI reference.
func (d *turtleDoc) resolve(ref string) string {
	return resolveIRI(d.base, ref)
}

func resolveIRI(base, ref string) string {
	if base == "" {
		return ref
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return base + ref
	}

	return baseURL.ResolveReference(refURL).String()
}
