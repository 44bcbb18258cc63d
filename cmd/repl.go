package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/lam/formatter"
	"github.com/gnolang/lam/internal/syntax"
	"github.com/gnolang/lam/lam"
)

const (
	promptMain = "lam> "
	promptCont = "...> "

	replHelp = `:parse <term>    print the surface term
:resolve <term>  print the resolved term
:help            show this help
:quit            leave the repl`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		history := engine.Config().HistoryFile
		if history != "" {
			if f, err := os.Open(history); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(history); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()
		}

		fmt.Println("lam repl, :help for commands")
		runRepl(ln, &repl{engine: engine, out: os.Stdout})
	},
}

// lineReader is the part of liner.State the loop uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type repl struct {
	engine *lam.Engine
	out    io.Writer
}

func runRepl(ln lineReader, r *repl) {
	for {
		code, ok := readCompleteInput(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(r.out)
			return
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if !r.handle(code) {
			return
		}
	}
}

// handle runs one complete input. It returns false when the session ends.
func (r *repl) handle(input string) bool {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, ":") {
		v, err := r.engine.RunSource(context.Background(), []byte(input))
		if err != nil {
			fmt.Fprint(r.out, formatter.FormatError("", input, err))
			return true
		}
		fmt.Fprintln(r.out, formatter.FormatValue(v))
		return true
	}

	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch command {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(r.out, replHelp)
	case ":parse":
		r.show(arg, func(src []byte) (fmt.Stringer, error) { return r.engine.Parse(src) })
	case ":resolve":
		r.show(arg, func(src []byte) (fmt.Stringer, error) { return r.engine.Resolve(src) })
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :help for a list.\n", command)
	}
	return true
}

func (r *repl) show(arg string, stage func([]byte) (fmt.Stringer, error)) {
	if arg == "" {
		fmt.Fprintln(r.out, "missing term")
		return
	}
	term, err := stage([]byte(arg))
	if err != nil {
		fmt.Fprint(r.out, formatter.FormatError("", arg, err))
		return
	}
	fmt.Fprintln(r.out, term)
}

// readCompleteInput keeps prompting while the collected lines are a prefix
// of a term. It returns false at end of input.
func readCompleteInput(ln lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := syntax.Parse(src); syntax.IsIncomplete(err) && strings.TrimSpace(src) != "" {
			continue
		}
		return src, true
	}
}
