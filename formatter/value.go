package formatter

import (
	"github.com/fatih/color"

	"github.com/gnolang/lam/internal/eval"
)

var (
	intStyle     = color.New(color.FgCyan)
	boolStyle    = color.New(color.FgYellow)
	closureStyle = color.New(color.FgMagenta)
)

// FormatValue renders v, colored by kind.
func FormatValue(v eval.Value) string {
	if v == nil {
		return ""
	}
	return FormatRendered(v.Kind().String(), v.String())
}

// FormatRendered colors an already rendered value of the named kind.
// Results replayed from the cache only have their text.
func FormatRendered(kind, text string) string {
	switch kind {
	case eval.KindInt.String():
		return intStyle.Sprint(text)
	case eval.KindBool.String():
		return boolStyle.Sprint(text)
	default:
		return closureStyle.Sprint(text)
	}
}
