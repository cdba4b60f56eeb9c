package token

import "fmt"

type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String

	// C89 keywords
	Auto
	Break
	Case
	Char
	Const
	Continue
	Default
	Do
	Double
	Else
	Enum
	Extern
	Float
	For
	Goto
	If
	Int
	Long
	Register
	Return
	Short
	Signed
	Sizeof
	Static
	Struct
	Switch
	Typedef
	Union
	Unsigned
	Void
	Volatile
	While

	// C99 additions
	Inline
	Restrict
	Bool
	Complex
	Imaginary

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semi
	Comma
	Colon
	Question
	Dot
	Dots
	Arrow

	// Operators
	Assign
	PlusEq
	MinusEq
	StarEq
	SlashEq
	RemEq
	AndEq
	OrEq
	XorEq
	ShlEq
	ShrEq
	Plus
	Minus
	Star
	Slash
	Rem
	Inc
	Dec
	EqEq
	Neq
	Lt
	Gt
	Lte
	Gte
	AndAnd
	OrOr
	Not
	And
	Or
	Xor
	Shl
	Shr
	Complement
)

// KeywordSet maps keyword spellings to their token kinds. The lexer takes
// the set from its configuration, so different dialects can recognize
// different subsets without touching the scanner.
type KeywordSet map[string]Kind

var c89Keywords = KeywordSet{
	"auto":     Auto,
	"break":    Break,
	"case":     Case,
	"char":     Char,
	"const":    Const,
	"continue": Continue,
	"default":  Default,
	"do":       Do,
	"double":   Double,
	"else":     Else,
	"enum":     Enum,
	"extern":   Extern,
	"float":    Float,
	"for":      For,
	"goto":     Goto,
	"if":       If,
	"int":      Int,
	"long":     Long,
	"register": Register,
	"return":   Return,
	"short":    Short,
	"signed":   Signed,
	"sizeof":   Sizeof,
	"static":   Static,
	"struct":   Struct,
	"switch":   Switch,
	"typedef":  Typedef,
	"union":    Union,
	"unsigned": Unsigned,
	"void":     Void,
	"volatile": Volatile,
	"while":    While,
}

var c99Keywords = KeywordSet{
	"inline":     Inline,
	"restrict":   Restrict,
	"_Bool":      Bool,
	"_Complex":   Complex,
	"_Imaginary": Imaginary,
}

// DefaultKeywords returns a fresh copy of the C89 keyword set.
func DefaultKeywords() KeywordSet {
	kw := make(KeywordSet, len(c89Keywords))
	for word, kind := range c89Keywords {
		kw[word] = kind
	}
	return kw
}

// C99Keywords returns a fresh copy of the C99 keyword set (C89 plus the
// C99 additions).
func C99Keywords() KeywordSet {
	kw := DefaultKeywords()
	for word, kind := range c99Keywords {
		kw[word] = kind
	}
	return kw
}

var kindNames = map[Kind]string{
	EOF:    "eof",
	Ident:  "ident",
	Number: "number",
	String: "string",

	LParen:   "(",
	RParen:   ")",
	LBrace:   "{",
	RBrace:   "}",
	LBracket: "[",
	RBracket: "]",
	Semi:     ";",
	Comma:    ",",
	Colon:    ":",
	Question: "?",
	Dot:      ".",
	Dots:     "...",
	Arrow:    "->",

	Assign:     "=",
	PlusEq:     "+=",
	MinusEq:    "-=",
	StarEq:     "*=",
	SlashEq:    "/=",
	RemEq:      "%=",
	AndEq:      "&=",
	OrEq:       "|=",
	XorEq:      "^=",
	ShlEq:      "<<=",
	ShrEq:      ">>=",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Rem:        "%",
	Inc:        "++",
	Dec:        "--",
	EqEq:       "==",
	Neq:        "!=",
	Lt:         "<",
	Gt:         ">",
	Lte:        "<=",
	Gte:        ">=",
	AndAnd:     "&&",
	OrOr:       "||",
	Not:        "!",
	And:        "&",
	Or:         "|",
	Xor:        "^",
	Shl:        "<<",
	Shr:        ">>",
	Complement: "~",
}

func init() {
	for word, kind := range c89Keywords {
		kindNames[kind] = word
	}
	for word, kind := range c99Keywords {
		kindNames[kind] = word
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is a value: freely copyable, no ownership beyond its payload.
// Text holds the identifier spelling or the string literal body, Value
// the numeric payload, Sym the symbol-table handle (meaningful for Ident
// only). Line, Column and Len locate the matched span for diagnostics.
type Token struct {
	Kind      Kind
	Text      string
	Value     int64
	Sym       int
	FileIndex int
	Line      int
	Column    int
	Len       int
}
