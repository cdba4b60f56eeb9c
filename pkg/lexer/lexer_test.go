package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clexproject/clex/pkg/config"
	"github.com/clexproject/clex/pkg/lexer"
	"github.com/clexproject/clex/pkg/token"
)

func newLexer(src string) *lexer.Lexer {
	return lexer.New([]byte(src), 0, config.NewConfig())
}

// drainKinds reads tokens until EndOfInput, failing the test on any
// lexical error, and returns the kinds including the final EOF.
func drainKinds(t *testing.T, lx *lexer.Lexer) []token.Kind {
	t.Helper()
	var kinds []token.Kind
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func lexicalError(t *testing.T, lx *lexer.Lexer) *lexer.Error {
	t.Helper()
	_, err := lx.Next()
	require.Error(t, err)
	var lerr *lexer.Error
	require.ErrorAs(t, err, &lerr)
	return lerr
}

func TestOnlyWhitespaceAndCommentsYieldsSingleEOF(t *testing.T) {
	inputs := []string{
		"",
		"   \t  \n\r\n",
		"// just a comment",
		"/* block */",
		"/* multi\nline\nblock */ // trailing\n",
		"#include <stdio.h>\n#define X 1\n",
		"  // a\n/* b */\n# c\n\t",
	}
	for _, src := range inputs {
		kinds := drainKinds(t, newLexer(src))
		assert.Equal(t, []token.Kind{token.EOF}, kinds, "input %q", src)
	}
}

func TestDoneStateIsIdempotent(t *testing.T) {
	lx := newLexer("x")
	drainKinds(t, lx)

	line := lx.Line()
	symbols := lx.Symbols().Len()
	for i := 0; i < 4; i++ {
		tok, err := lx.Next()
		require.NoError(t, err)
		assert.Equal(t, token.EOF, tok.Kind)
	}
	assert.Equal(t, line, lx.Line())
	assert.Equal(t, symbols, lx.Symbols().Len())
}

func TestIdentifierInterning(t *testing.T) {
	lx := newLexer("foo bar foo baz bar foo")

	handles := make(map[string][]int)
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Kind == token.EOF {
			break
		}
		require.Equal(t, token.Ident, tok.Kind)
		handles[tok.Text] = append(handles[tok.Text], tok.Sym)
	}

	// Equal text always yields the identical handle.
	assert.Equal(t, []int{0, 0, 0}, handles["foo"])
	assert.Equal(t, []int{1, 1}, handles["bar"])
	assert.Equal(t, []int{2}, handles["baz"])

	entries := lx.Symbols().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "foo", entries[0].Name)
	assert.Equal(t, "bar", entries[1].Name)
	assert.Equal(t, "baz", entries[2].Name)
}

func TestKeywordsAreNotInterned(t *testing.T) {
	lx := newLexer("if while x return else")
	drainKinds(t, lx)

	entries := lx.Symbols().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].Name)
}

func TestLongestMatchOperators(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"==", []token.Kind{token.EqEq, token.EOF}},
		{"= =", []token.Kind{token.Assign, token.Assign, token.EOF}},
		{"->", []token.Kind{token.Arrow, token.EOF}},
		{"++", []token.Kind{token.Inc, token.EOF}},
		{"--", []token.Kind{token.Dec, token.EOF}},
		{"+=", []token.Kind{token.PlusEq, token.EOF}},
		{"&&", []token.Kind{token.AndAnd, token.EOF}},
		{"&=", []token.Kind{token.AndEq, token.EOF}},
		{"||", []token.Kind{token.OrOr, token.EOF}},
		{"<<", []token.Kind{token.Shl, token.EOF}},
		{"<<=", []token.Kind{token.ShlEq, token.EOF}},
		{">>=", []token.Kind{token.ShrEq, token.EOF}},
		{"<=", []token.Kind{token.Lte, token.EOF}},
		{">=", []token.Kind{token.Gte, token.EOF}},
		{"!=", []token.Kind{token.Neq, token.EOF}},
		{"...", []token.Kind{token.Dots, token.EOF}},
		{"..", []token.Kind{token.Dot, token.Dot, token.EOF}},
		{"<<<", []token.Kind{token.Shl, token.Lt, token.EOF}},
		{"a->b", []token.Kind{token.Ident, token.Arrow, token.Ident, token.EOF}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, drainKinds(t, newLexer(tc.src)), "input %q", tc.src)
	}
}

func TestNumberRadixSelection(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"0x1A", 26},
		{"0X2a", 42},
		{"017", 15},
		{"17", 17},
		{"0", 0},
		{"00", 0},
		{"0777", 511},
		{"9223372036854775807", 9223372036854775807},
	}
	for _, tc := range cases {
		lx := newLexer(tc.src)
		tok, err := lx.Next()
		require.NoError(t, err, "input %q", tc.src)
		require.Equal(t, token.Number, tok.Kind, "input %q", tc.src)
		assert.Equal(t, tc.want, tok.Value, "input %q", tc.src)

		tok, err = lx.Next()
		require.NoError(t, err)
		assert.Equal(t, token.EOF, tok.Kind)
	}
}

func TestMalformedNumbers(t *testing.T) {
	for _, src := range []string{
		"08",                  // 8 is not an octal digit
		"0x",                  // hex prefix with no digits
		"9223372036854775808", // int64 overflow
		"0xFFFFFFFFFFFFFFFF",
		"077777777777777777777777",
	} {
		lx := newLexer(src)
		lerr := lexicalError(t, lx)
		assert.Equal(t, lexer.ErrMalformedNumber, lerr.Code, "input %q", src)
		assert.Equal(t, 1, lerr.Line)
		assert.NotEmpty(t, lerr.Lit)
	}
}

func TestErrorPathsAdvanceAndResynchronize(t *testing.T) {
	lx := newLexer("08 next")

	lerr := lexicalError(t, lx)
	assert.Equal(t, lexer.ErrMalformedNumber, lerr.Code)

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.Ident, tok.Kind)
	assert.Equal(t, "next", tok.Text)
}

func TestLineTracking(t *testing.T) {
	lx := newLexer("a\nb\nc")
	for want := 1; want <= 3; want++ {
		tok, err := lx.Next()
		require.NoError(t, err)
		require.Equal(t, token.Ident, tok.Kind)
		assert.Equal(t, want, tok.Line)
	}
}

func TestLineTrackingAcrossSkippedSpans(t *testing.T) {
	lx := newLexer("/* one\ntwo */ x\n#define Y 1\ny")

	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, token.Ident, tok.Kind)
	assert.Equal(t, "x", tok.Text)
	assert.Equal(t, 2, tok.Line, "block comment newlines count")

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "y", tok.Text)
	assert.Equal(t, 4, tok.Line, "preprocessor line newline counts")
}

func TestUnterminatedString(t *testing.T) {
	lx := newLexer(`"abc`)

	lerr := lexicalError(t, lx)
	assert.Equal(t, lexer.ErrUnterminatedString, lerr.Code)

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Kind, "no infinite loop after unterminated string")
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx := newLexer("/* never closed")

	lerr := lexicalError(t, lx)
	assert.Equal(t, lexer.ErrUnterminatedComment, lerr.Code)

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Kind)
}

func TestUnrecognizedCharacter(t *testing.T) {
	lx := newLexer("a @ b")

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Text)

	lerr := lexicalError(t, lx)
	assert.Equal(t, lexer.ErrUnrecognizedChar, lerr.Code)
	assert.Equal(t, '@', lerr.Char)
	assert.Equal(t, 1, lerr.Line)

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", tok.Text, "scanning resumes past the bad character")
}

func TestStringLiteralDecodesStandardEscapes(t *testing.T) {
	lx := newLexer(`"a\tb\n" "say \"hi\"" "back\\slash" "unknown\q"`)

	for _, want := range []string{"a\tb\n", `say "hi"`, `back\slash`, "unknownq"} {
		tok, err := lx.Next()
		require.NoError(t, err)
		require.Equal(t, token.String, tok.Kind)
		assert.Equal(t, want, tok.Text)
	}
}

func TestStringLiteralVerbatimMode(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatDecodeEscapes, false)
	lx := lexer.New([]byte(`"a\tb" "say \"hi\""`), 0, cfg)

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, `a\tb`, tok.Text)

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, `say \"hi\"`, tok.Text)
}

func TestStringLiteralCountsEmbeddedNewlines(t *testing.T) {
	lx := newLexer("\"one\ntwo\" x")

	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, token.String, tok.Kind)
	assert.Equal(t, "one\ntwo", tok.Text)

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", tok.Text)
	assert.Equal(t, 2, tok.Line)
}

func TestPreprocessorFeatureDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatPreprocessor, false)
	lx := lexer.New([]byte("#x"), 0, cfg)

	lerr := lexicalError(t, lx)
	assert.Equal(t, lexer.ErrUnrecognizedChar, lerr.Code)
	assert.Equal(t, '#', lerr.Char)
}

func TestLineCommentsFeatureDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatLineComments, false)
	lx := lexer.New([]byte("//"), 0, cfg)

	kinds := drainKinds(t, lx)
	assert.Equal(t, []token.Kind{token.Slash, token.Slash, token.EOF}, kinds)
}

func TestKeywordSetComesFromConfig(t *testing.T) {
	lx := newLexer("inline")
	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.Ident, tok.Kind, "inline is an identifier in c89")

	cfg := config.NewConfig()
	require.NoError(t, cfg.ApplyDialect("c99"))
	lx = lexer.New([]byte("inline"), 0, cfg)
	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.Inline, tok.Kind)
}

func TestInvalidEncodingHaltsSession(t *testing.T) {
	lx := lexer.New([]byte{'a', ' ', 0xff, ' ', 'b'}, 0, config.NewConfig())

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Text)

	lerr := lexicalError(t, lx)
	assert.Equal(t, lexer.ErrInvalidEncoding, lerr.Code)

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Kind, "scanning halts after an encoding fault")
}

func TestUnicodeIdentifiers(t *testing.T) {
	lx := newLexer("café 変数")

	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, token.Ident, tok.Kind)
	assert.Equal(t, "café", tok.Text)

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "変数", tok.Text)
	assert.Equal(t, 6, tok.Column, "columns count characters, not bytes")
}

func TestEndToEnd(t *testing.T) {
	lx := newLexer("int x = 10 + y;")

	wantKinds := []token.Kind{
		token.Int, token.Ident, token.Assign, token.Number,
		token.Plus, token.Ident, token.Semi, token.EOF,
	}
	var tokens []token.Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	require.Len(t, tokens, len(wantKinds))
	for i, want := range wantKinds {
		assert.Equal(t, want, tokens[i].Kind, "token %d", i)
	}

	hx, hy := tokens[1].Sym, tokens[5].Sym
	assert.NotEqual(t, hx, hy)
	assert.Equal(t, int64(10), tokens[3].Value)

	entries := lx.Symbols().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[hx].Name)
	assert.Equal(t, "y", entries[hy].Name)
}
