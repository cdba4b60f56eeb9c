package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorAdvanceTracksMultiByteWidths(t *testing.T) {
	c := newCursor([]byte("héllo"))

	assert.Equal(t, 'h', c.advance())
	assert.Equal(t, 1, c.off)
	assert.Equal(t, 'é', c.advance())
	assert.Equal(t, 3, c.off, "é is two bytes wide")
	assert.Equal(t, 'l', c.advance())
	assert.Equal(t, 3, c.count)
}

func TestCursorPeekDoesNotConsume(t *testing.T) {
	c := newCursor([]byte("ab"))

	assert.Equal(t, 'a', c.peek())
	assert.Equal(t, 'a', c.peek())
	assert.Equal(t, 0, c.off)
	assert.Equal(t, 'b', c.peekAhead(1))
	assert.Equal(t, eof, c.peekAhead(2))
	assert.Equal(t, 0, c.off)
}

func TestCursorPeekAheadSkipsFullRunes(t *testing.T) {
	c := newCursor([]byte("世界x"))

	assert.Equal(t, '世', c.peek())
	assert.Equal(t, '界', c.peekAhead(1))
	assert.Equal(t, 'x', c.peekAhead(2))
	assert.Equal(t, eof, c.peekAhead(3))
}

func TestCursorEndOfInputSentinel(t *testing.T) {
	c := newCursor([]byte("z"))
	c.advance()

	require.True(t, c.eof())
	assert.Equal(t, eof, c.peek())
	assert.Equal(t, eof, c.advance())
	assert.Equal(t, eof, c.advance())
	assert.Equal(t, len(c.src), c.off, "offset never passes the buffer length")
}

func TestCursorLineAndColumn(t *testing.T) {
	c := newCursor([]byte("ab\ncd"))

	assert.Equal(t, 1, c.line)
	assert.Equal(t, 1, c.col)
	c.advance()
	c.advance()
	assert.Equal(t, 3, c.col)
	c.advance() // newline
	assert.Equal(t, 2, c.line)
	assert.Equal(t, 1, c.col)
	c.advance()
	assert.Equal(t, 2, c.col)
}

func TestCursorMatch(t *testing.T) {
	c := newCursor([]byte("=="))

	assert.False(t, c.match('!'))
	assert.Equal(t, 0, c.off)
	assert.True(t, c.match('='))
	assert.True(t, c.match('='))
	assert.False(t, c.match('='))
}

func TestCursorDetectsInvalidEncoding(t *testing.T) {
	c := newCursor([]byte{'a', 0xff, 'b'})

	assert.False(t, c.invalid())
	c.advance()
	assert.True(t, c.invalid())

	// Advancing over the bad byte still moves forward by one byte, so an
	// error path can always resynchronize.
	before := c.off
	c.advance()
	assert.Equal(t, before+1, c.off)
	assert.False(t, c.invalid())
	assert.Equal(t, 'b', c.peek())
}
