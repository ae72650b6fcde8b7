package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ontolab/ontoeval/internal/rdf"
)

// Result is a parsed document: its triples and declared prefix bindings.
type Result struct {
	Triples  []rdf.Triple
	Prefixes *rdf.PrefixMap
}

// Parser defines the interface for RDF serialization parsers.
type Parser interface {
	// Parse parses a document into triples.
	Parse(filename string, content []byte) (*Result, error)

	// CanParse returns true if this parser handles the given MIME type.
	CanParse(mimeType string) bool

	// MimeType returns the primary MIME type for this parser.
	MimeType() string
}

// Registry manages serialization parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // keyed by primary MIME type
}

// DefaultRegistry is the global registry with the built-in parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the built-in parsers registered.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	r.Register(NewTurtleParser())
	r.Register(NewNTriplesParser())
	r.Register(NewRDFXMLParser())

	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.MimeType()] = p
}

// GetByMimeType returns a parser for the given MIME type.
func (r *Registry) GetByMimeType(mimeType string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[mimeType]; ok {
		return p
	}

	for _, p := range r.parsers {
		if p.CanParse(mimeType) {
			return p
		}
	}

	return nil
}

// GetByExtension returns a parser for a file based on its extension.
func (r *Registry) GetByExtension(filename string) Parser {
	return r.GetByMimeType(MimeTypeFromExtension(filepath.Ext(filename)))
}

// Parse parses a document using the parser its extension selects.
func (r *Registry) Parse(filename string, content []byte) (*Result, error) {
	p := r.GetByExtension(filename)
	if p == nil {
		return nil, fmt.Errorf("no parser for file type: %s", filepath.Ext(filename))
	}
	return p.Parse(filename, content)
}

// ParseFile reads a document from disk, normalizes its encoding and parses it.
func (r *Registry) ParseFile(path string) (*Result, error) {
	content, _, err := ReadFileAsUTF8(path)
	if err != nil {
		return nil, fmt.Errorf("read ontology: %w", err)
	}
	return r.Parse(path, []byte(content))
}

// MimeTypeFromExtension returns the MIME type for a file extension.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".ttl", ".turtle":
		return "text/turtle"
	case ".nt", ".ntriples":
		return "application/n-triples"
	case ".rdf", ".owl", ".rdfxml":
		return "application/rdf+xml"
	case ".xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}

// Extensions lists the file extensions the registry recognizes, used by the
// watcher and workspace scanning to pick ontology documents out of a tree.
func Extensions() []string {
	return []string{".ttl", ".turtle", ".nt", ".ntriples", ".rdf", ".owl"}
}

// IsOntologyFile reports whether a path carries a recognized extension.
func IsOntologyFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range Extensions() {
		if ext == known {
			return true
		}
	}
	return false
}
