package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/clexproject/clex/pkg/token"
)

// SourceFileRecord tracks the name and content of a single source file,
// so diagnostics can quote the offending line.
type SourceFileRecord struct {
	Name    string
	Content []byte
}

// Reporter renders file:line:col diagnostics with the source line and a
// caret underneath. It counts errors but never terminates the process;
// exit policy belongs to the caller.
type Reporter struct {
	files  []SourceFileRecord
	out    io.Writer
	color  bool
	errors int
}

func NewReporter(out io.Writer, color bool) *Reporter {
	return &Reporter{out: out, color: color}
}

// AddFile registers a source file and returns its index for use as a
// token FileIndex.
func (r *Reporter) AddFile(name string, content []byte) int {
	r.files = append(r.files, SourceFileRecord{Name: name, Content: content})
	return len(r.files) - 1
}

func (r *Reporter) ErrorCount() int { return r.errors }

func (r *Reporter) fileName(index int) string {
	if index < 0 || index >= len(r.files) {
		return "unknown"
	}
	return r.files[index].Name
}

func (r *Reporter) paint(code string) string {
	if !r.color {
		return ""
	}
	return code
}

// Errorf prints a formatted error message located at tok.
func (r *Reporter) Errorf(tok token.Token, format string, args ...any) {
	r.errors++
	fmt.Fprintf(r.out, "%s:%d:%d: %serror:%s ", r.fileName(tok.FileIndex), tok.Line, tok.Column,
		r.paint("\033[31m"), r.paint("\033[0m"))
	fmt.Fprintf(r.out, format, args...)
	fmt.Fprintln(r.out)
	r.printSourceLine(tok)
}

// Warnf prints a formatted warning message located at tok.
func (r *Reporter) Warnf(tok token.Token, format string, args ...any) {
	fmt.Fprintf(r.out, "%s:%d:%d: %swarning:%s ", r.fileName(tok.FileIndex), tok.Line, tok.Column,
		r.paint("\033[33m"), r.paint("\033[0m"))
	fmt.Fprintf(r.out, format, args...)
	fmt.Fprintln(r.out)
	r.printSourceLine(tok)
}

// printSourceLine prints the source line for tok and a caret indicating
// the column, with tildes under the rest of the matched span.
func (r *Reporter) printSourceLine(tok token.Token) {
	if tok.FileIndex < 0 || tok.FileIndex >= len(r.files) || tok.Line == 0 {
		return
	}

	content := r.files[tok.FileIndex].Content
	lineStart := 0
	for lineNum := tok.Line; lineNum > 1; {
		i := strings.IndexByte(string(content[lineStart:]), '\n')
		if i < 0 {
			return
		}
		lineStart += i + 1
		lineNum--
	}
	lineEnd := len(content)
	if i := strings.IndexByte(string(content[lineStart:]), '\n'); i >= 0 {
		lineEnd = lineStart + i
	}

	fmt.Fprintf(r.out, "  %s\n", content[lineStart:lineEnd])

	fmt.Fprintf(r.out, "  %s%s^", strings.Repeat(" ", tok.Column-1), r.paint("\033[32m"))
	if tok.Len > 1 {
		fmt.Fprint(r.out, strings.Repeat("~", tok.Len-1))
	}
	fmt.Fprintln(r.out, r.paint("\033[0m"))
}
