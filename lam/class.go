package lam

import (
	"errors"
	"fmt"

	"github.com/gnolang/lam/internal/eval"
	"github.com/gnolang/lam/internal/resolve"
	"github.com/gnolang/lam/internal/syntax"
)

// Class groups failures by the stage that raised them. Its value is the
// process exit code.
type Class int

const (
	ClassOK Class = iota
	ClassUsage
	ClassSyntax
	ClassResolve
	ClassEval
	ClassStack
)

var classNames = [...]string{
	ClassOK:      "ok",
	ClassUsage:   "usage",
	ClassSyntax:  "syntax",
	ClassResolve: "resolve",
	ClassEval:    "eval",
	ClassStack:   "stack",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// ExitCode returns the process status for c.
func (c Class) ExitCode() int {
	return int(c)
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(text []byte) error {
	for i, name := range classNames {
		if name == string(text) {
			*c = Class(i)
			return nil
		}
	}
	return fmt.Errorf("unknown failure class %q", text)
}

// Classify maps err to the class of the stage that raised it. Errors from
// outside the pipeline count as usage failures.
func Classify(err error) Class {
	if err == nil {
		return ClassOK
	}

	var (
		serr *syntax.Error
		rerr *resolve.Error
		eerr *eval.Error
	)
	switch {
	case errors.As(err, &serr):
		return ClassSyntax
	case errors.As(err, &rerr):
		return ClassResolve
	case errors.As(err, &eerr):
		if eerr.Kind == eval.StackExhausted {
			return ClassStack
		}
		return ClassEval
	default:
		return ClassUsage
	}
}

// Worst returns the highest class among outputs.
func Worst(outputs []Output) Class {
	worst := ClassOK
	for _, o := range outputs {
		if c := o.Class(); c > worst {
			worst = c
		}
	}
	return worst
}
