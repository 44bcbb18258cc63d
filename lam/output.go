package lam

import (
	"github.com/gnolang/lam/formatter"
	"github.com/gnolang/lam/internal/cache"
	"github.com/gnolang/lam/internal/eval"
	"github.com/gnolang/lam/internal/syntax"
)

// Output is the outcome of running one file. Exactly one of Value and
// Failure is set.
type Output struct {
	File    string   `json:"file"`
	Value   string   `json:"value,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
	Cached  bool     `json:"cached,omitempty"`

	source string
}

// Failure describes why a file did not produce a value.
type Failure struct {
	Class   Class  `json:"class"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
	Note    string `json:"note,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func newOutput(file string, src []byte, v eval.Value, err error) Output {
	out := Output{File: file, source: string(src)}
	if err != nil {
		d := formatter.NewDiagnostic(file, err)
		out.Failure = &Failure{
			Class:   Classify(err),
			Tag:     d.Tag,
			Message: d.Message,
			Note:    d.Note,
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
		}
		return out
	}
	out.Value = v.String()
	out.Kind = v.Kind().String()
	return out
}

// Class returns ClassOK for a value, or the failure's class.
func (o Output) Class() Class {
	if o.Failure == nil {
		return ClassOK
	}
	return o.Failure.Class
}

// Render returns the colored value or a diagnostic quoting the source.
func (o Output) Render() string {
	if o.Failure == nil {
		return formatter.FormatRendered(o.Kind, o.Value)
	}
	return formatter.FormatDiagnostic(o.diagnostic(), o.source)
}

func (o Output) diagnostic() formatter.Diagnostic {
	f := o.Failure
	return formatter.Diagnostic{
		Tag:      f.Tag,
		Message:  f.Message,
		Note:     f.Note,
		Filename: o.File,
		Pos:      syntax.Pos{Line: f.Line, Column: f.Column},
	}
}

func (o Output) toResult() cache.Result {
	if o.Failure == nil {
		return cache.Result{Value: o.Value, Kind: o.Kind}
	}
	f := o.Failure
	return cache.Result{
		Failed: true,
		Code:   f.Class.ExitCode(),
		Tag:    f.Tag,
		Msg:    f.Message,
		Note:   f.Note,
		Line:   f.Line,
		Column: f.Column,
	}
}

func outputFromResult(file string, src []byte, r cache.Result) Output {
	out := Output{File: file, Cached: true, source: string(src)}
	if !r.Failed {
		out.Value = r.Value
		out.Kind = r.Kind
		return out
	}
	out.Failure = &Failure{
		Class:   Class(r.Code),
		Tag:     r.Tag,
		Message: r.Msg,
		Note:    r.Note,
		Line:    r.Line,
		Column:  r.Column,
	}
	return out
}
