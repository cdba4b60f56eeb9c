package lexer

import "unicode/utf8"

// eof is the sentinel returned by cursor reads past end-of-input.
const eof rune = -1

// cursor owns the immutable source buffer and the current scan offset.
// The byte offset always moves by the consumed character's encoded width,
// so multi-byte UTF-8 input never desynchronizes position bookkeeping.
type cursor struct {
	src   []byte
	off   int // byte offset into src
	count int // characters consumed so far
	line  int
	col   int
}

func newCursor(src []byte) cursor {
	return cursor{src: src, line: 1, col: 1}
}

func (c *cursor) eof() bool { return c.off >= len(c.src) }

// invalid reports whether the bytes at the current offset do not decode
// as UTF-8. The caller decides how to surface it; the cursor never panics
// on malformed encoding.
func (c *cursor) invalid() bool {
	if c.eof() {
		return false
	}
	r, size := utf8.DecodeRune(c.src[c.off:])
	return r == utf8.RuneError && size == 1
}

// peek returns the character at the current position without consuming it.
func (c *cursor) peek() rune {
	if c.eof() {
		return eof
	}
	r, _ := utf8.DecodeRune(c.src[c.off:])
	return r
}

// peekAhead returns the character n positions past the current one
// without consuming anything.
func (c *cursor) peekAhead(n int) rune {
	off := c.off
	for ; n > 0; n-- {
		if off >= len(c.src) {
			return eof
		}
		_, size := utf8.DecodeRune(c.src[off:])
		off += size
	}
	if off >= len(c.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(c.src[off:])
	return r
}

// advance consumes exactly one character and returns it, or eof at
// end-of-input. Newlines bump the line counter here so every consumer,
// whether whitespace, comment or string literal, counts them exactly once.
func (c *cursor) advance() rune {
	if c.eof() {
		return eof
	}
	r, size := utf8.DecodeRune(c.src[c.off:])
	c.off += size
	c.count++
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r
}

func (c *cursor) match(expected rune) bool {
	if c.eof() || c.peek() != expected {
		return false
	}
	c.advance()
	return true
}

// slice returns the source text between two byte offsets.
func (c *cursor) slice(start, end int) string {
	return string(c.src[start:end])
}
