package arith

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a number.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenOp is an operator, either a symbol or a word like sqrt.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is the argument separator ",".
	tokenSep
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	// words is the set of enabled word-form operators.
	words map[string]Op
	// held is a token scanned ahead of the current one.
	held *lexToken
	eof  bool
}

func lex(src io.RuneScanner, words map[string]Op) *lexer {
	return &lexer{
		src:   src,
		rune:  1,
		words: words,
	}
}

// ValidName reports whether Parse with default options reads name as exactly
// one variable.
func ValidName(name string) bool {
	toks, err := tokenize(name, globalwords)
	return err == nil && len(toks) == 2 && toks[0].kind == tokenIdent && toks[0].text == name
}

// tokenize scans the entire input. The last token in the result is always
// tokenEOF unless there is an error.
func tokenize(src string, words map[string]Op) ([]lexToken, error) {
	scan := lex(strings.NewReader(src), words)
	var toks []lexToken
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, the result is
// an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.held != nil {
		tok := *l.held
		l.held = nil
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			k, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = k
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			switch tok.text {
			case "inf", "Inf":
				tok.kind = tokenNum
			default:
				if _, ok := l.words[tok.text]; ok {
					tok.kind = tokenOp
				} else {
					tok.kind = tokenIdent
				}
			}
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans a token beginning with a digit or '.'. The token is a number
// if it is a decimal literal, a variable name if it is otherwise alphanumeric
// like "2x", and an error if neither.
func (l *lexer) scanNum() (tokenKind, error) {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return tokenNone, err
		}
		if r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			l.buf.WriteRune(r)
			continue
		}
		if (r == '+' || r == '-') && mantissa(l.buf.String()) {
			ok, err := l.scanSign(r)
			if err != nil {
				return tokenNone, err
			}
			if ok {
				continue
			}
			break
		}
		l.unreadRune()
		break
	}
	s := l.buf.String()
	if decimal(s) {
		_, err := strconv.ParseFloat(s, 64)
		// Out of range values are still numbers.
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return tokenNum, nil
		}
	}
	if alnum(s) {
		return tokenIdent, nil
	}
	return tokenNone, l.error("number")
}

// scanSign handles a sign following an exponent marker. It belongs to the
// number only if a digit follows it. Otherwise it is held as the next token.
func (l *lexer) scanSign(sign rune) (bool, error) {
	pos := l.rune - 1
	r, err := l.readRune()
	switch {
	case err == nil && '0' <= r && r <= '9':
		l.buf.WriteRune(sign)
		l.buf.WriteRune(r)
		return true, nil
	case err == nil:
		l.unreadRune()
	case !errors.Is(err, io.EOF):
		return false, err
	}
	l.held = &lexToken{text: string(sign), kind: tokenOp, pos: pos}
	return false, nil
}

// mantissa reports whether s is a decimal mantissa followed by an exponent
// marker, e.g. "1.5e".
func mantissa(s string) bool {
	if len(s) < 2 || (s[len(s)-1] != 'e' && s[len(s)-1] != 'E') {
		return false
	}
	var dig, dot bool
	for _, r := range s[:len(s)-1] {
		switch {
		case '0' <= r && r <= '9':
			dig = true
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return dig
}

// decimal reports whether s contains only runes of decimal literals.
func decimal(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return false
		}
	}
	return true
}

// alnum reports whether s contains only runes of variable names.
func alnum(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
