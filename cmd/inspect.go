package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/lam/formatter"
	"github.com/gnolang/lam/lam"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the surface term of a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0], func(e *lam.Engine, src []byte) (fmt.Stringer, error) {
			return e.Parse(src)
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Print the resolved term of a file, with unique symbols",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0], func(e *lam.Engine, src []byte) (fmt.Stringer, error) {
			return e.Resolve(src)
		})
	},
}

func inspect(path string, stage func(*lam.Engine, []byte) (fmt.Stringer, error)) {
	engine, err := newEngine()
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}
	if code := printStage(os.Stdout, engine, path, stage); code != 0 {
		os.Exit(code)
	}
}

func printStage(w io.Writer, engine *lam.Engine, path string, stage func(*lam.Engine, []byte) (fmt.Stringer, error)) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return lam.ClassUsage.ExitCode()
	}

	term, err := stage(engine, src)
	if err != nil {
		fmt.Fprintln(w, formatter.FormatError(path, string(src), err))
		return lam.Classify(err).ExitCode()
	}
	fmt.Fprintln(w, term)
	return 0
}
