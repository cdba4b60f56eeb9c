package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/clexproject/clex/pkg/cli"
	"github.com/clexproject/clex/pkg/config"
	"github.com/clexproject/clex/pkg/lexer"
	"github.com/clexproject/clex/pkg/symtab"
	"github.com/clexproject/clex/pkg/token"
	"github.com/clexproject/clex/pkg/util"
)

func main() {
	app := cli.NewApp("clex")
	app.Synopsis = "[options] <input.c> ..."
	app.Description = "A lexical analyzer for a C-like language. Prints the classified token stream and, on request, the interned symbol table."
	app.Repository = "<https://github.com/clexproject/clex>"

	var (
		dialect   string
		dumpSyms  bool
		keepGoing bool
		quiet     bool
	)
	fs := app.FlagSet
	fs.String(&dialect, "dialect", "d", "c89", "Select the keyword dialect.", "c89|c99")
	fs.Bool(&dumpSyms, "symbols", "s", false, "Dump the symbol table after each file.")
	fs.Bool(&keepGoing, "keep-going", "k", false, "Resynchronize after a lexical error and keep scanning.")
	fs.Bool(&quiet, "quiet", "q", false, "Suppress the token listing; report errors only.")

	cfg := config.NewConfig()
	featureFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(inputFiles []string) error {
		if len(inputFiles) == 0 {
			fmt.Fprintln(os.Stderr, "clex: no input files specified")
			return errors.New("no input files")
		}
		if err := cfg.ApplyDialect(dialect); err != nil {
			fmt.Fprintf(os.Stderr, "clex: %v\n", err)
			return err
		}
		cfg.ApplyFlagGroups(featureFlags)

		rep := util.NewReporter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
		for _, path := range inputFiles {
			content, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "clex: could not read file '%s': %v\n", path, err)
				return err
			}
			index := rep.AddFile(path, content)
			lexFile(path, content, index, cfg, rep, dumpSyms, keepGoing, quiet)
		}
		if rep.ErrorCount() > 0 {
			return fmt.Errorf("%d lexical error(s)", rep.ErrorCount())
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// lexFile drains one lexing session, printing tokens as they arrive.
// Without keep-going the first lexical error ends the file; with it the
// session resynchronizes and reports every error in the input.
func lexFile(path string, content []byte, index int, cfg *config.Config, rep *util.Reporter, dumpSyms, keepGoing, quiet bool) {
	lx := lexer.New(content, index, cfg)
	for {
		tok, err := lx.Next()
		if err != nil {
			var lerr *lexer.Error
			if errors.As(err, &lerr) {
				at := token.Token{FileIndex: index, Line: lerr.Line, Column: lerr.Column, Len: 1}
				rep.Errorf(at, "%s", describe(lerr))
				if keepGoing && lerr.Code != lexer.ErrInvalidEncoding {
					continue
				}
			} else {
				rep.Errorf(token.Token{FileIndex: index}, "%v", err)
			}
			break
		}
		if tok.Kind == token.EOF {
			break
		}
		if !quiet {
			printToken(path, tok)
		}
	}
	if dumpSyms {
		printSymbols(path, lx.Symbols())
	}
}

// describe renders a lexical error without its location prefix; the
// reporter prints file:line:col itself.
func describe(e *lexer.Error) string {
	switch e.Code {
	case lexer.ErrMalformedNumber:
		return fmt.Sprintf("malformed number literal %q", e.Lit)
	case lexer.ErrUnterminatedComment:
		return "unterminated block comment"
	case lexer.ErrUnterminatedString:
		return "unterminated string literal"
	case lexer.ErrUnrecognizedChar:
		return fmt.Sprintf("unrecognized character %q", e.Char)
	case lexer.ErrInvalidEncoding:
		return "source is not valid UTF-8"
	}
	return e.Error()
}

func printToken(path string, tok token.Token) {
	switch tok.Kind {
	case token.Ident:
		fmt.Printf("%s:%d:%d\tident\t%s (#%d)\n", path, tok.Line, tok.Column, tok.Text, tok.Sym)
	case token.Number:
		fmt.Printf("%s:%d:%d\tnumber\t%d\n", path, tok.Line, tok.Column, tok.Value)
	case token.String:
		fmt.Printf("%s:%d:%d\tstring\t%q\n", path, tok.Line, tok.Column, tok.Text)
	default:
		fmt.Printf("%s:%d:%d\t%s\n", path, tok.Line, tok.Column, tok.Kind)
	}
}

func printSymbols(path string, syms *symtab.Table) {
	fmt.Printf("-- symbols (%s) --\n", path)
	for _, e := range syms.Entries() {
		fmt.Printf("%4d  %s\n", e.Handle, e.Name)
	}
}
