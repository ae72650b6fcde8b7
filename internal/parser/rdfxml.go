package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ontolab/ontoeval/internal/rdf"
)

// RDFXMLParser parses the striped RDF/XML syntax: node elements describing
// resources, property elements and property attributes describing their
// statements. Covers rdf:about/rdf:ID/rdf:nodeID/rdf:resource, typed node
// elements, rdf:datatype, xml:lang inheritance and the Resource/Collection
// parse types.
// xmlNamespace is what encoding/xml resolves the reserved xml prefix to,
// so xml:lang attributes carry the full IRI in Name.Space.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

type RDFXMLParser struct{}

func NewRDFXMLParser() *RDFXMLParser {
	return &RDFXMLParser{}
}

func (p *RDFXMLParser) MimeType() string {
	return "application/rdf+xml"
}

func (p *RDFXMLParser) CanParse(mimeType string) bool {
	switch mimeType {
	case "application/rdf+xml", "application/xml", "text/xml":
		return true
	}
	return false
}

func (p *RDFXMLParser) Parse(filename string, content []byte) (*Result, error) {
	doc := &rdfxmlDoc{
		dec:      xml.NewDecoder(bytes.NewReader(content)),
		filename: filename,
		prefixes: rdf.NewPrefixMap(),
	}
	if err := doc.run(); err != nil {
		return nil, err
	}
	return &Result{Triples: doc.triples, Prefixes: doc.prefixes}, nil
}

type rdfxmlDoc struct {
	dec      *xml.Decoder
	filename string
	prefixes *rdf.PrefixMap
	triples  []rdf.Triple
	anonSeq  int
}

func (d *rdfxmlDoc) errorf(format string, args ...interface{}) error {
	line, col := position(d.dec)
	return &SyntaxError{Filename: d.filename, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func position(dec *xml.Decoder) (int, int) {
	// encoding/xml only exposes a byte offset; report it as the column.
	return 1, int(dec.InputOffset())
}

func (d *rdfxmlDoc) run() error {
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return d.errorf("malformed XML: %v", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		d.recordPrefixes(start)

		if start.Name.Space == rdf.RDFNamespace && start.Name.Local == "RDF" {
			if err := d.nodeElements(""); err != nil {
				return err
			}
			continue
		}

		// A document may also consist of a single bare node element.
		if _, err := d.nodeElement(start, ""); err != nil {
			return err
		}
	}
}

// nodeElements parses children of rdf:RDF until its end tag.
func (d *rdfxmlDoc) nodeElements(lang string) error {
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.errorf("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			d.recordPrefixes(t)
			if _, err := d.nodeElement(t, lang); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// nodeElement parses one resource description and returns its subject.
func (d *rdfxmlDoc) nodeElement(start xml.StartElement, lang string) (rdf.Term, error) {
	subject := rdf.Term{}
	var propertyAttrs []xml.Attr

	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "about":
			subject = rdf.NewIRI(attr.Value)
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "ID":
			subject = rdf.NewIRI("#" + attr.Value)
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "nodeID":
			subject = rdf.NewBlank(attr.Value)
		case attr.Name.Space == xmlNamespace && attr.Name.Local == "lang":
			lang = attr.Value
		case isNamespaceDecl(attr):
			// Recorded already.
		default:
			propertyAttrs = append(propertyAttrs, attr)
		}
	}

	if subject == (rdf.Term{}) {
		subject = d.freshBlank()
	}

	// A typed node element asserts rdf:type from its own name.
	if start.Name.Space != rdf.RDFNamespace || start.Name.Local != "Description" {
		d.emit(subject, rdf.NewIRI(rdf.RDFType), rdf.NewIRI(start.Name.Space+start.Name.Local))
	}

	for _, attr := range propertyAttrs {
		pred := rdf.NewIRI(attr.Name.Space + attr.Name.Local)
		if attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "type" {
			d.emit(subject, pred, rdf.NewIRI(attr.Value))
			continue
		}
		d.emit(subject, pred, makeLiteral(attr.Value, "", lang))
	}

	for {
		tok, err := d.dec.Token()
		if err != nil {
			return rdf.Term{}, d.errorf("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			d.recordPrefixes(t)
			if err := d.propertyElement(subject, t, lang); err != nil {
				return rdf.Term{}, err
			}
		case xml.EndElement:
			return subject, nil
		}
	}
}

// propertyElement parses one statement arc off a node element.
func (d *rdfxmlDoc) propertyElement(subject rdf.Term, start xml.StartElement, lang string) error {
	predicate := rdf.NewIRI(start.Name.Space + start.Name.Local)

	var resource, nodeID, datatype, parseType string
	var propertyAttrs []xml.Attr

	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "resource":
			resource = attr.Value
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "nodeID":
			nodeID = attr.Value
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "datatype":
			datatype = attr.Value
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "parseType":
			parseType = attr.Value
		case attr.Name.Space == xmlNamespace && attr.Name.Local == "lang":
			lang = attr.Value
		case isNamespaceDecl(attr):
		default:
			propertyAttrs = append(propertyAttrs, attr)
		}
	}

	switch {
	case resource != "":
		d.emit(subject, predicate, rdf.NewIRI(resource))
		return d.skipElement()

	case nodeID != "":
		d.emit(subject, predicate, rdf.NewBlank(nodeID))
		return d.skipElement()

	case parseType == "Resource":
		inner := d.freshBlank()
		d.emit(subject, predicate, inner)
		return d.propertyElements(inner, lang)

	case parseType == "Collection":
		return d.collection(subject, predicate, lang)

	case parseType == "Literal":
		text, err := d.rawText()
		if err != nil {
			return err
		}
		d.emit(subject, predicate, rdf.NewTypedLiteral(text, rdf.RDFNamespace+"XMLLiteral"))
		return nil

	case len(propertyAttrs) > 0:
		// Property attributes on an empty property element describe a
		// fresh blank node object.
		inner := d.freshBlank()
		d.emit(subject, predicate, inner)
		for _, attr := range propertyAttrs {
			d.emit(inner, rdf.NewIRI(attr.Name.Space+attr.Name.Local), makeLiteral(attr.Value, "", lang))
		}
		return d.skipElement()
	}

	// Either a literal value or a nested node element.
	var text strings.Builder
	sawChild := false

	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.errorf("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			d.recordPrefixes(t)
			object, err := d.nodeElement(t, lang)
			if err != nil {
				return err
			}
			d.emit(subject, predicate, object)
			sawChild = true

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			if !sawChild {
				d.emit(subject, predicate, makeLiteral(text.String(), datatype, lang))
			}
			return nil
		}
	}
}

// propertyElements parses property arcs until the enclosing end tag.
func (d *rdfxmlDoc) propertyElements(subject rdf.Term, lang string) error {
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.errorf("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			d.recordPrefixes(t)
			if err := d.propertyElement(subject, t, lang); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// collection parses parseType="Collection" children into an rdf list.
func (d *rdfxmlDoc) collection(subject, predicate rdf.Term, lang string) error {
	first := rdf.NewIRI(rdf.RDFFirst)
	rest := rdf.NewIRI(rdf.RDFRest)
	nilTerm := rdf.NewIRI(rdf.RDFNil)

	var tail rdf.Term
	headEmitted := false

	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.errorf("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			d.recordPrefixes(t)
			item, err := d.nodeElement(t, lang)
			if err != nil {
				return err
			}

			cell := d.freshBlank()
			d.emit(cell, first, item)

			if !headEmitted {
				d.emit(subject, predicate, cell)
				headEmitted = true
			} else {
				d.emit(tail, rest, cell)
			}
			tail = cell

		case xml.EndElement:
			if !headEmitted {
				d.emit(subject, predicate, nilTerm)
			} else {
				d.emit(tail, rest, nilTerm)
			}
			return nil
		}
	}
}

// skipElement consumes the remainder of the current element.
func (d *rdfxmlDoc) skipElement() error {
	depth := 0
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.errorf("malformed XML: %v", err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// rawText flattens element content into a string for XML literals.
func (d *rdfxmlDoc) rawText() (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return "", d.errorf("malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

func (d *rdfxmlDoc) recordPrefixes(start xml.StartElement) {
	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			d.prefixes.Bind(attr.Name.Local, attr.Value)
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			d.prefixes.Bind("", attr.Value)
		}
	}
}

func isNamespaceDecl(attr xml.Attr) bool {
	return attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
}

func makeLiteral(lexical, datatype, lang string) rdf.Term {
	switch {
	case datatype != "":
		return rdf.NewTypedLiteral(lexical, datatype)
	case lang != "":
		return rdf.NewLangLiteral(lexical, lang)
	default:
		return rdf.NewLiteral(lexical)
	}
}

func (d *rdfxmlDoc) emit(s, p, o rdf.Term) {
	d.triples = append(d.triples, rdf.Triple{Subject: s, Predicate: p, Object: o})
}

func (d *rdfxmlDoc) freshBlank() rdf.Term {
	d.anonSeq++
	return rdf.NewBlank(fmt.Sprintf("x%d", d.anonSeq))
}
