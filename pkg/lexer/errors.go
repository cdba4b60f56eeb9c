package lexer

import "fmt"

type ErrorCode int

const (
	ErrMalformedNumber ErrorCode = iota
	ErrUnterminatedComment
	ErrUnterminatedString
	ErrUnrecognizedChar
	ErrInvalidEncoding
)

// Error is the typed lexical error returned by Next. All codes except
// ErrInvalidEncoding are recoverable: the cursor has advanced past at
// least one character, so a caller may keep calling Next to
// resynchronize and report every error in the input. ErrInvalidEncoding
// halts the session; subsequent calls return EndOfInput.
type Error struct {
	Code   ErrorCode
	Line   int
	Column int
	Char   rune   // offending character, set for ErrUnrecognizedChar
	Lit    string // offending literal text, set for ErrMalformedNumber
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrMalformedNumber:
		return fmt.Sprintf("line %d: malformed number literal %q", e.Line, e.Lit)
	case ErrUnterminatedComment:
		return fmt.Sprintf("line %d: unterminated block comment", e.Line)
	case ErrUnterminatedString:
		return fmt.Sprintf("line %d: unterminated string literal", e.Line)
	case ErrUnrecognizedChar:
		return fmt.Sprintf("line %d: unrecognized character %q", e.Line, e.Char)
	case ErrInvalidEncoding:
		return fmt.Sprintf("line %d: source is not valid UTF-8", e.Line)
	}
	return fmt.Sprintf("line %d: lexical error", e.Line)
}
