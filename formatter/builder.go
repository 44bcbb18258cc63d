package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/lam/internal/eval"
	"github.com/gnolang/lam/internal/resolve"
	"github.com/gnolang/lam/internal/syntax"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	tagStyle     = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

// diagnosticFormatter is the interface that wraps the DiagnosticTemplate method.
// Positioned failures (syntax, resolution) get a source snippet; runtime
// failures carry no position and get a message only.
type diagnosticFormatter interface {
	DiagnosticTemplate() string
}

func getDiagnosticFormatter(d Diagnostic) diagnosticFormatter {
	if d.Pos.IsValid() {
		return &SnippetFormatter{}
	}
	return &RuntimeFormatter{}
}

// Diagnostic is one failure ready for rendering.
type Diagnostic struct {
	Tag      string
	Message  string
	Note     string
	Filename string
	Pos      syntax.Pos
}

// NewDiagnostic extracts tag, message and position from an error returned
// by any pipeline stage.
func NewDiagnostic(filename string, err error) Diagnostic {
	d := Diagnostic{
		Tag:      Tag(err),
		Message:  err.Error(),
		Filename: filename,
	}

	var (
		serr *syntax.Error
		rerr *resolve.Error
		eerr *eval.Error
	)
	switch {
	case errors.As(err, &serr):
		d.Message = serr.Msg
		d.Pos = serr.Pos
	case errors.As(err, &rerr):
		d.Message = resolveMessage(rerr)
		d.Pos = rerr.Pos
	case errors.As(err, &eerr):
		d.Message = eerr.Error()
		if eerr.Kind == eval.StackExhausted {
			d.Note = "raise max_depth in .lam.yaml or pass --max-depth"
		}
	}
	return d
}

// Tag returns the taxonomy tag of err.
func Tag(err error) string {
	var (
		serr *syntax.Error
		rerr *resolve.Error
		eerr *eval.Error
	)
	switch {
	case errors.As(err, &serr):
		return "SyntaxError"
	case errors.As(err, &rerr):
		return rerr.Kind.String()
	case errors.As(err, &eerr):
		return eerr.Kind.String()
	default:
		return "error"
	}
}

func resolveMessage(err *resolve.Error) string {
	switch err.Kind {
	case resolve.UnboundVariable:
		return fmt.Sprintf("cannot find %q in this scope", err.Name)
	case resolve.InvalidRecursiveBinding:
		return fmt.Sprintf("%q is bound with let rec but is not a function", err.Name)
	default:
		return fmt.Sprintf("malformed term: %s", err.Name)
	}
}

// FormatError renders err against the source it came from.
func FormatError(filename, source string, err error) string {
	return FormatDiagnostic(NewDiagnostic(filename, err), source)
}

/***** Diagnostic Builder *****/

type diagnosticData struct {
	Diagnostic
	Line            int
	Column          int
	Padding         string
	MaxLineNumWidth int
	SnippetLines    []string
}

// FormatDiagnostic renders d, quoting the offending line of source when d
// has a position.
func FormatDiagnostic(d Diagnostic, source string) string {
	if d.Filename == "" {
		d.Filename = "<input>"
	}
	width := calculateMaxLineNumWidth(d.Pos.Line)
	data := diagnosticData{
		Diagnostic:      d,
		Line:            d.Pos.Line,
		Column:          d.Pos.Column,
		MaxLineNumWidth: width,
		Padding:         strings.Repeat(" ", width+1),
		SnippetLines:    strings.Split(source, "\n"),
	}

	funcMap := template.FuncMap{
		"header":  header,
		"snippet": codeSnippet,
		"caret":   caretAndMessage,
		"message": message,
		"note":    note,
	}

	tmpl := template.Must(template.New("diagnostic").Funcs(funcMap).Parse(getDiagnosticFormatter(d).DiagnosticTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(tag string, maxLineNumWidth int, filename string, line, column int) string {
	s := errorStyle.Sprint("error: ") + tagStyle.Sprintf("%s\n", tag)
	s += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth))
	if line > 0 {
		return s + fileStyle.Sprintf("%s:%d:%d\n", filename, line, column)
	}
	return s + fileStyle.Sprintf("%s\n", filename)
}

func codeSnippet(snippetLines []string, line, maxLineNumWidth int, padding string) string {
	s := lineStyle.Sprintf("%s|\n", padding)
	if line-1 < 0 || line-1 >= len(snippetLines) {
		return s
	}
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	return s + lineStyle.Sprintf("%s | ", lineNum) + expandTabs(snippetLines[line-1]) + "\n"
}

func caretAndMessage(msg, padding string, snippetLines []string, line, column int) string {
	s := lineStyle.Sprintf("%s| ", padding)
	if line-1 >= 0 && line-1 < len(snippetLines) {
		s += strings.Repeat(" ", calculateVisualColumn(snippetLines[line-1], column))
	}
	s += messageStyle.Sprint("^") + "\n"
	return s + message(msg, padding)
}

func message(msg, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func note(n, padding string) string {
	if n == "" {
		return ""
	}
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("note: ") + n + "\n"
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn returns how many cells precede the 1-based byte
// column in line, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	visual := 0
	for i := 0; i < len(line) && i+1 < column; i++ {
		if line[i] == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	return visual
}

func expandTabs(line string) string {
	var expanded strings.Builder
	column := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", n))
			column += n
			continue
		}
		expanded.WriteRune(ch)
		column++
	}
	return expanded.String()
}
