package parser

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingResult describes how a document's bytes were interpreted.
type EncodingResult struct {
	Encoding string `json:"encoding"`
	HasBOM   bool   `json:"has_bom"`
}

// DetectEncoding classifies an ontology document's encoding. RDF
// serializations are nominally UTF-8, but documents in the wild arrive as
// UTF-16 exports and Latin-1 legacy files often enough to matter.
func DetectEncoding(data []byte) EncodingResult {
	if len(data) == 0 {
		return EncodingResult{Encoding: "utf-8"}
	}

	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}) {
		return EncodingResult{Encoding: "utf-8", HasBOM: true}
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xFE}) {
		return EncodingResult{Encoding: "utf-16le", HasBOM: true}
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFE, 0xFF}) {
		return EncodingResult{Encoding: "utf-16be", HasBOM: true}
	}

	if enc, ok := detectUTF16WithoutBOM(data); ok {
		return EncodingResult{Encoding: enc}
	}

	if isValidUTF8(data) {
		return EncodingResult{Encoding: "utf-8"}
	}

	return EncodingResult{Encoding: "iso-8859-1"}
}

// detectUTF16WithoutBOM looks for the null-byte rhythm of UTF-16 encoded
// ASCII-heavy text, which every RDF serialization's syntax layer is.
func detectUTF16WithoutBOM(data []byte) (string, bool) {
	if len(data) < 4 || len(data)%2 != 0 {
		return "", false
	}

	sample := data
	if len(sample) > 4096 {
		sample = data[:4096]
	}

	evenNulls, oddNulls := 0, 0
	for i := 0; i+1 < len(sample); i += 2 {
		if sample[i] == 0 {
			evenNulls++
		}
		if sample[i+1] == 0 {
			oddNulls++
		}
	}

	pairs := len(sample) / 2
	if oddNulls*4 >= pairs*3 {
		return "utf-16le", true
	}
	if evenNulls*4 >= pairs*3 {
		return "utf-16be", true
	}
	return "", false
}

func isValidUTF8(data []byte) bool {
	for i := 0; i < len(data); {
		b := data[i]
		if b < 0x80 {
			i++
			continue
		}
		if b < 0xC2 || b > 0xF4 {
			return false
		}
		var size int
		switch {
		case b < 0xE0:
			size = 2
		case b < 0xF0:
			size = 3
		default:
			size = 4
		}
		if i+size > len(data) {
			return false
		}
		for j := 1; j < size; j++ {
			if data[i+j]&0xC0 != 0x80 {
				return false
			}
		}
		i += size
	}
	return true
}

// NormalizeToUTF8 decodes the document into valid UTF-8 text.
func NormalizeToUTF8(data []byte, detected EncodingResult) string {
	data = stripBOM(data, detected)

	switch detected.Encoding {
	case "utf-16le":
		return decodeWithFallback(data, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case "utf-16be":
		return decodeWithFallback(data, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	case "iso-8859-1":
		return decodeWithFallback(data, charmap.ISO8859_1.NewDecoder())
	default:
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
}

func stripBOM(data []byte, detected EncodingResult) []byte {
	if !detected.HasBOM {
		return data
	}
	switch detected.Encoding {
	case "utf-8":
		return data[3:]
	case "utf-16le", "utf-16be":
		return data[2:]
	}
	return data
}

func decodeWithFallback(data []byte, decoder *encoding.Decoder) string {
	if len(data) == 0 {
		return ""
	}

	reader := transform.NewReader(bytes.NewReader(data), decoder)
	result, err := io.ReadAll(reader)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}

	return string(bytes.ToValidUTF8(result, []byte("�")))
}

// ReadFileAsUTF8 loads a document and normalizes it to UTF-8.
func ReadFileAsUTF8(path string) (string, EncodingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", EncodingResult{}, err
	}

	detected := DetectEncoding(data)
	return NormalizeToUTF8(data, detected), detected, nil
}
