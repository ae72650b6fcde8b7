package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIRIRef
	tokPName
	tokBlankLabel
	tokString
	tokInteger
	tokDecimal
	tokDouble
	tokLangTag
	tokDot
	tokSemicolon
	tokComma
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokDoubleCaret
	tokPrefixDecl
	tokBaseDecl
	tokSparqlPrefix
	tokSparqlBase
	tokKeywordA
	tokTrue
	tokFalse
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIRIRef:
		return "IRI"
	case tokPName:
		return "prefixed name"
	case tokBlankLabel:
		return "blank node label"
	case tokString:
		return "string"
	case tokInteger, tokDecimal, tokDouble:
		return "number"
	case tokLangTag:
		return "language tag"
	case tokDot:
		return "'.'"
	case tokSemicolon:
		return "';'"
	case tokComma:
		return "','"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokDoubleCaret:
		return "'^^'"
	case tokPrefixDecl:
		return "@prefix"
	case tokBaseDecl:
		return "@base"
	case tokSparqlPrefix:
		return "PREFIX"
	case tokSparqlBase:
		return "BASE"
	case tokKeywordA:
		return "'a'"
	case tokTrue, tokFalse:
		return "boolean"
	default:
		return "token"
	}
}

type token struct {
	typ   tokenType
	value string
	line  int
	col   int
}

// SyntaxError reports a malformed document with its position.
type SyntaxError struct {
	Filename string
	Line     int
	Col      int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Col, e.Msg)
}

type lexer struct {
	input    string
	filename string
	pos      int
	line     int
	col      int
}

func newLexer(filename, input string) *lexer {
	return &lexer{input: input, filename: filename, line: 1, col: 1}
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return &SyntaxError{
		Filename: l.filename,
		Line:     l.line,
		Col:      l.col,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) peekAt(offset int) rune {
	pos := l.pos
	for i := 0; i <= offset; i++ {
		if pos >= len(l.input) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(l.input[pos:])
		if i == offset {
			return r
		}
		pos += size
	}
	return -1
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		return -1
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for {
		r := l.peek()
		switch {
		case r == -1:
			return
		case r == '#':
			for {
				r = l.peek()
				if r == -1 || r == '\n' {
					break
				}
				l.next()
			}
		case unicode.IsSpace(r):
			l.next()
		default:
			return
		}
	}
}

// nextToken scans the next token from the input.
func (l *lexer) nextToken() (token, error) {
	l.skipSpaceAndComments()

	line, col := l.line, l.col
	r := l.peek()

	mk := func(typ tokenType, value string) token {
		return token{typ: typ, value: value, line: line, col: col}
	}

	switch {
	case r == -1:
		return mk(tokEOF, ""), nil

	case r == '<':
		value, err := l.scanIRIRef()
		if err != nil {
			return token{}, err
		}
		return mk(tokIRIRef, value), nil

	case r == '"' || r == '\'':
		value, err := l.scanString(r)
		if err != nil {
			return token{}, err
		}
		return mk(tokString, value), nil

	case r == '@':
		l.next()
		word := l.scanWhile(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
		})
		switch word {
		case "prefix":
			return mk(tokPrefixDecl, word), nil
		case "base":
			return mk(tokBaseDecl, word), nil
		case "":
			return token{}, l.errorf("bare '@'")
		default:
			return mk(tokLangTag, word), nil
		}

	case r == '_' && l.peekAt(1) == ':':
		l.next()
		l.next()
		label := l.scanWhile(isPNChar)
		if label == "" {
			return token{}, l.errorf("empty blank node label")
		}
		return mk(tokBlankLabel, label), nil

	case r == '^':
		l.next()
		if l.peek() != '^' {
			return token{}, l.errorf("expected '^^'")
		}
		l.next()
		return mk(tokDoubleCaret, "^^"), nil

	case r == '.':
		// A dot can start a decimal like ".5"; otherwise it ends a statement.
		if nxt := l.peekAt(1); nxt >= '0' && nxt <= '9' {
			return l.scanNumber(line, col)
		}
		l.next()
		return mk(tokDot, "."), nil

	case r == ';':
		l.next()
		return mk(tokSemicolon, ";"), nil
	case r == ',':
		l.next()
		return mk(tokComma, ","), nil
	case r == '[':
		l.next()
		return mk(tokLBracket, "["), nil
	case r == ']':
		l.next()
		return mk(tokRBracket, "]"), nil
	case r == '(':
		l.next()
		return mk(tokLParen, "("), nil
	case r == ')':
		l.next()
		return mk(tokRParen, ")"), nil

	case r == '+' || r == '-' || (r >= '0' && r <= '9'):
		return l.scanNumber(line, col)

	case isPNStart(r) || r == ':':
		name := l.scanPName()
		switch {
		case name == "a":
			return mk(tokKeywordA, name), nil
		case name == "true":
			return mk(tokTrue, name), nil
		case name == "false":
			return mk(tokFalse, name), nil
		case strings.EqualFold(name, "prefix"):
			return mk(tokSparqlPrefix, name), nil
		case strings.EqualFold(name, "base"):
			return mk(tokSparqlBase, name), nil
		default:
			return mk(tokPName, name), nil
		}

	default:
		return token{}, l.errorf("unexpected character %q", r)
	}
}

func (l *lexer) scanWhile(pred func(rune) bool) string {
	var b strings.Builder
	for {
		r := l.peek()
		if r == -1 || !pred(r) {
			break
		}
		b.WriteRune(l.next())
	}
	return b.String()
}

func (l *lexer) scanIRIRef() (string, error) {
	l.next() // '<'
	var b strings.Builder
	for {
		r := l.next()
		switch r {
		case -1, '\n':
			return "", l.errorf("unterminated IRI")
		case '>':
			return b.String(), nil
		case '\\':
			esc := l.next()
			switch esc {
			case 'u':
				decoded, err := l.scanUnicodeEscape(4)
				if err != nil {
					return "", err
				}
				b.WriteRune(decoded)
			case 'U':
				decoded, err := l.scanUnicodeEscape(8)
				if err != nil {
					return "", err
				}
				b.WriteRune(decoded)
			default:
				return "", l.errorf("invalid escape in IRI: \\%c", esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (l *lexer) scanUnicodeEscape(digits int) (rune, error) {
	var code rune
	for i := 0; i < digits; i++ {
		r := l.next()
		var v rune
		switch {
		case r >= '0' && r <= '9':
			v = r - '0'
		case r >= 'a' && r <= 'f':
			v = r - 'a' + 10
		case r >= 'A' && r <= 'F':
			v = r - 'A' + 10
		default:
			return 0, l.errorf("invalid unicode escape")
		}
		code = code*16 + v
	}
	return code, nil
}

func (l *lexer) scanString(quote rune) (string, error) {
	l.next() // opening quote

	long := false
	if l.peek() == quote && l.peekAt(1) == quote {
		l.next()
		l.next()
		long = true
	} else if l.peek() == quote {
		// Empty short string.
		l.next()
		return "", nil
	}

	var b strings.Builder
	for {
		r := l.next()
		if r == -1 {
			return "", l.errorf("unterminated string")
		}
		if !long && (r == '\n' || r == '\r') {
			return "", l.errorf("newline in string")
		}
		if r == quote {
			if !long {
				return b.String(), nil
			}
			if l.peek() == quote && l.peekAt(1) == quote {
				l.next()
				l.next()
				return b.String(), nil
			}
			b.WriteRune(r)
			continue
		}
		if r == '\\' {
			esc := l.next()
			switch esc {
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 'f':
				b.WriteByte('\f')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			case '\\':
				b.WriteByte('\\')
			case 'u':
				decoded, err := l.scanUnicodeEscape(4)
				if err != nil {
					return "", err
				}
				b.WriteRune(decoded)
			case 'U':
				decoded, err := l.scanUnicodeEscape(8)
				if err != nil {
					return "", err
				}
				b.WriteRune(decoded)
			default:
				return "", l.errorf("invalid string escape: \\%c", esc)
			}
			continue
		}
		b.WriteRune(r)
	}
}

func (l *lexer) scanNumber(line, col int) (token, error) {
	var b strings.Builder

	if r := l.peek(); r == '+' || r == '-' {
		b.WriteRune(l.next())
	}

	digits := 0
	for r := l.peek(); r >= '0' && r <= '9'; r = l.peek() {
		b.WriteRune(l.next())
		digits++
	}

	typ := tokInteger

	if l.peek() == '.' {
		// Only a fractional dot: "1." followed by a non-digit is
		// "integer, end of statement".
		if nxt := l.peekAt(1); nxt >= '0' && nxt <= '9' {
			b.WriteRune(l.next())
			typ = tokDecimal
			for r := l.peek(); r >= '0' && r <= '9'; r = l.peek() {
				b.WriteRune(l.next())
				digits++
			}
		}
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		b.WriteRune(l.next())
		typ = tokDouble
		if r := l.peek(); r == '+' || r == '-' {
			b.WriteRune(l.next())
		}
		expDigits := 0
		for r := l.peek(); r >= '0' && r <= '9'; r = l.peek() {
			b.WriteRune(l.next())
			expDigits++
		}
		if expDigits == 0 {
			return token{}, l.errorf("malformed exponent")
		}
	}

	if digits == 0 {
		return token{}, l.errorf("malformed number")
	}

	return token{typ: typ, value: b.String(), line: line, col: col}, nil
}

// scanPName consumes a prefixed name (or bare keyword). The grammar allows
// interior dots but a trailing dot always terminates the statement instead.
func (l *lexer) scanPName() string {
	var b strings.Builder
	for {
		r := l.peek()
		if r == -1 {
			break
		}
		if r == '.' {
			if nxt := l.peekAt(1); nxt == -1 || !isPNChar(nxt) {
				break
			}
			b.WriteRune(l.next())
			continue
		}
		if !isPNChar(r) && r != ':' {
			break
		}
		b.WriteRune(l.next())
	}
	return b.String()
}

func isPNStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isPNChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '%'
}
