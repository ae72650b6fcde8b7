package parser

// NTriplesParser parses the line-oriented N-Triples format. N-Triples is a
// syntactic subset of Turtle, so parsing delegates to the Turtle machinery;
// the separate parser exists to claim the format's MIME type and extension.
type NTriplesParser struct {
	turtle *TurtleParser
}

func NewNTriplesParser() *NTriplesParser {
	return &NTriplesParser{turtle: NewTurtleParser()}
}

func (p *NTriplesParser) MimeType() string {
	return "application/n-triples"
}

func (p *NTriplesParser) CanParse(mimeType string) bool {
	switch mimeType {
	case "application/n-triples", "text/plain":
		return true
	}
	return false
}

func (p *NTriplesParser) Parse(filename string, content []byte) (*Result, error) {
	return p.turtle.Parse(filename, content)
}
