// Package lexer converts a raw source buffer into a classified token
// stream, interning identifiers and tracking line numbers for later
// phases. One Lexer instance owns one source buffer and one symbol table
// for the lifetime of a session; Next is a synchronous pull call and is
// not safe for concurrent use.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/clexproject/clex/pkg/config"
	"github.com/clexproject/clex/pkg/symtab"
	"github.com/clexproject/clex/pkg/token"
)

type Lexer struct {
	cur       cursor
	cfg       *config.Config
	syms      *symtab.Table
	keywords  token.KeywordSet
	fileIndex int
	done      bool
}

func New(source []byte, fileIndex int, cfg *config.Config) *Lexer {
	kw := cfg.Keywords
	if kw == nil {
		kw = token.DefaultKeywords()
	}
	return &Lexer{
		cur:       newCursor(source),
		cfg:       cfg,
		syms:      symtab.New(),
		keywords:  kw,
		fileIndex: fileIndex,
	}
}

// Line reports the current line number, valid at any point in the
// session, including after EndOfInput.
func (l *Lexer) Line() int { return l.cur.line }

// Symbols exposes the identifier table for diagnostic dumps. The table
// only grows; callers must not mutate it.
func (l *Lexer) Symbols() *symtab.Table { return l.syms }

// mark captures the cursor state at classifier entry, so token spans are
// sliced from explicit start/end offsets instead of re-deriving
// "position minus one" after the fact.
type mark struct {
	off   int
	count int
	line  int
	col   int
}

func (l *Lexer) mark() mark {
	return mark{off: l.cur.off, count: l.cur.count, line: l.cur.line, col: l.cur.col}
}

func (l *Lexer) makeToken(kind token.Kind, text string, m mark) token.Token {
	return token.Token{
		Kind: kind, Text: text, FileIndex: l.fileIndex,
		Line: m.line, Column: m.col, Len: l.cur.count - m.count,
	}
}

// Next returns the next token, or a *Error for a recoverable lexical
// fault. Non-emitting spans (whitespace, comments, preprocessor lines)
// are skipped internally. Once the input is exhausted Next returns an
// EndOfInput token on that call and every call after it.
func (l *Lexer) Next() (token.Token, error) {
	for {
		if l.done {
			return token.Token{Kind: token.EOF, FileIndex: l.fileIndex, Line: l.cur.line, Column: l.cur.col}, nil
		}

		l.skipWhitespace()
		m := l.mark()

		if l.cur.eof() {
			l.done = true
			return l.makeToken(token.EOF, "", m), nil
		}
		if l.cur.invalid() {
			l.cur.advance()
			l.done = true
			return token.Token{}, &Error{Code: ErrInvalidEncoding, Line: m.line, Column: m.col}
		}

		ch := l.cur.peek()
		switch {
		case ch == '#' && l.cfg.IsFeatureEnabled(config.FeatPreprocessor):
			l.skipPreprocessorLine()
			continue
		case ch == '/' && l.cur.peekAhead(1) == '*':
			if err := l.skipBlockComment(m); err != nil {
				return token.Token{}, err
			}
			continue
		case ch == '/' && l.cur.peekAhead(1) == '/' && l.cfg.IsFeatureEnabled(config.FeatLineComments):
			l.skipLineComment()
			continue
		case isDigit(ch):
			return l.numberLiteral(m)
		case ch == '"':
			return l.stringLiteral(m)
		case unicode.IsLetter(ch) || ch == '_':
			return l.identOrKeyword(m)
		default:
			return l.operator(m)
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.cur.peek() {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			l.cur.advance()
		default:
			return
		}
	}
}

// skipPreprocessorLine consumes a '#' directive through its newline
// inclusive, without interpreting the content.
func (l *Lexer) skipPreprocessorLine() {
	for !l.cur.eof() {
		if l.cur.advance() == '\n' {
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !l.cur.eof() && l.cur.peek() != '\n' {
		l.cur.advance()
	}
}

func (l *Lexer) skipBlockComment(m mark) error {
	l.cur.advance()
	l.cur.advance()
	for !l.cur.eof() {
		if l.cur.peek() == '*' && l.cur.peekAhead(1) == '/' {
			l.cur.advance()
			l.cur.advance()
			return nil
		}
		l.cur.advance()
	}
	return &Error{Code: ErrUnterminatedComment, Line: m.line, Column: m.col}
}

// numberLiteral scans the longest digit run, selecting the radix by
// prefix: 0x/0X is hex, a leading zero followed by another digit is
// octal, anything else is decimal. The digit span must parse into an
// int64 under its radix; failure or overflow is a MalformedNumber error
// with the span already consumed.
func (l *Lexer) numberLiteral(m mark) (token.Token, error) {
	start := l.cur.off
	base := 10
	digitsStart := start

	if l.cur.peek() == '0' && (l.cur.peekAhead(1) == 'x' || l.cur.peekAhead(1) == 'X') {
		base = 16
		l.cur.advance()
		l.cur.advance()
		digitsStart = l.cur.off
		for isHexDigit(l.cur.peek()) {
			l.cur.advance()
		}
	} else {
		if l.cur.peek() == '0' && isDigit(l.cur.peekAhead(1)) {
			base = 8
			l.cur.advance()
			digitsStart = l.cur.off
		}
		for isDigit(l.cur.peek()) {
			l.cur.advance()
		}
	}

	lit := l.cur.slice(start, l.cur.off)
	digits := l.cur.slice(digitsStart, l.cur.off)
	if digits == "" {
		return token.Token{}, &Error{Code: ErrMalformedNumber, Line: m.line, Column: m.col, Lit: lit}
	}
	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return token.Token{}, &Error{Code: ErrMalformedNumber, Line: m.line, Column: m.col, Lit: lit}
	}

	tok := l.makeToken(token.Number, "", m)
	tok.Value = val
	return tok, nil
}

func (l *Lexer) stringLiteral(m mark) (token.Token, error) {
	l.cur.advance()
	decode := l.cfg.IsFeatureEnabled(config.FeatDecodeEscapes)

	var sb strings.Builder
	for {
		if l.cur.eof() {
			return token.Token{}, &Error{Code: ErrUnterminatedString, Line: m.line, Column: m.col}
		}
		if l.cur.invalid() {
			l.cur.advance()
			l.done = true
			return token.Token{}, &Error{Code: ErrInvalidEncoding, Line: l.cur.line, Column: l.cur.col}
		}
		c := l.cur.advance()
		if c == '"' {
			return l.makeToken(token.String, sb.String(), m), nil
		}
		if c == '\\' {
			if l.cur.eof() {
				return token.Token{}, &Error{Code: ErrUnterminatedString, Line: m.line, Column: m.col}
			}
			next := l.cur.advance()
			if decode {
				sb.WriteRune(decodeEscape(next))
			} else {
				sb.WriteRune('\\')
				sb.WriteRune(next)
			}
			continue
		}
		sb.WriteRune(c)
	}
}

// decodeEscape maps a standard escape character to its semantic value.
// Unknown escapes yield the escaped character itself.
func decodeEscape(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	case '0':
		return 0
	default:
		return c
	}
}

func (l *Lexer) identOrKeyword(m mark) (token.Token, error) {
	start := l.cur.off
	l.cur.advance()
	for isIdentPart(l.cur.peek()) {
		l.cur.advance()
	}
	text := l.cur.slice(start, l.cur.off)

	if kind, ok := l.keywords[text]; ok {
		return l.makeToken(kind, "", m), nil
	}
	tok := l.makeToken(token.Ident, text, m)
	tok.Sym = l.syms.Intern(text)
	return tok, nil
}

// operator scans punctuation with longest-match precedence: multi-rune
// operators are tried before their single-rune prefixes, so "==" is
// never two Assign tokens and "<<=" is never Shl plus Assign.
func (l *Lexer) operator(m mark) (token.Token, error) {
	ch := l.cur.advance()
	switch ch {
	case '(':
		return l.makeToken(token.LParen, "", m), nil
	case ')':
		return l.makeToken(token.RParen, "", m), nil
	case '{':
		return l.makeToken(token.LBrace, "", m), nil
	case '}':
		return l.makeToken(token.RBrace, "", m), nil
	case '[':
		return l.makeToken(token.LBracket, "", m), nil
	case ']':
		return l.makeToken(token.RBracket, "", m), nil
	case ';':
		return l.makeToken(token.Semi, "", m), nil
	case ',':
		return l.makeToken(token.Comma, "", m), nil
	case ':':
		return l.makeToken(token.Colon, "", m), nil
	case '?':
		return l.makeToken(token.Question, "", m), nil
	case '~':
		return l.makeToken(token.Complement, "", m), nil
	case '.':
		if l.cur.peek() == '.' && l.cur.peekAhead(1) == '.' {
			l.cur.advance()
			l.cur.advance()
			return l.makeToken(token.Dots, "", m), nil
		}
		return l.makeToken(token.Dot, "", m), nil
	case '!':
		return l.matchThen('=', token.Neq, token.Not, m), nil
	case '^':
		return l.matchThen('=', token.XorEq, token.Xor, m), nil
	case '%':
		return l.matchThen('=', token.RemEq, token.Rem, m), nil
	case '=':
		return l.matchThen('=', token.EqEq, token.Assign, m), nil
	case '+':
		if l.cur.match('+') {
			return l.makeToken(token.Inc, "", m), nil
		}
		return l.matchThen('=', token.PlusEq, token.Plus, m), nil
	case '-':
		if l.cur.match('-') {
			return l.makeToken(token.Dec, "", m), nil
		}
		if l.cur.match('>') {
			return l.makeToken(token.Arrow, "", m), nil
		}
		return l.matchThen('=', token.MinusEq, token.Minus, m), nil
	case '*':
		return l.matchThen('=', token.StarEq, token.Star, m), nil
	case '/':
		return l.matchThen('=', token.SlashEq, token.Slash, m), nil
	case '&':
		if l.cur.match('&') {
			return l.makeToken(token.AndAnd, "", m), nil
		}
		return l.matchThen('=', token.AndEq, token.And, m), nil
	case '|':
		if l.cur.match('|') {
			return l.makeToken(token.OrOr, "", m), nil
		}
		return l.matchThen('=', token.OrEq, token.Or, m), nil
	case '<':
		if l.cur.match('<') {
			return l.matchThen('=', token.ShlEq, token.Shl, m), nil
		}
		return l.matchThen('=', token.Lte, token.Lt, m), nil
	case '>':
		if l.cur.match('>') {
			return l.matchThen('=', token.ShrEq, token.Shr, m), nil
		}
		return l.matchThen('=', token.Gte, token.Gt, m), nil
	}
	return token.Token{}, &Error{Code: ErrUnrecognizedChar, Line: m.line, Column: m.col, Char: ch}
}

func (l *Lexer) matchThen(expected rune, thenKind, elseKind token.Kind, m mark) token.Token {
	if l.cur.match(expected) {
		return l.makeToken(thenKind, "", m)
	}
	return l.makeToken(elseKind, "", m)
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}
