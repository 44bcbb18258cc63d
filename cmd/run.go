package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/lam/lam"
)

var (
	runJsonOutput bool
	outPath       string
	noCache       bool
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Evaluate .lam files or directories",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(lam.ClassUsage.ExitCode())
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}
		if noCache {
			engine.DisableCache()
		}

		code := runFiles(ctx, logger, engine, args, runJsonOutput, outPath, os.Stdout)
		if err := engine.Flush(); err != nil {
			logger.Warn("Failed to update cache", zap.Error(err))
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJsonOutput, "json", false, "Output results in JSON format")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "Evaluate every file even if a cached result exists")
}

// runFiles evaluates paths and prints the outputs. It returns the exit code:
// the worst failure class among the files, or a usage failure when some
// file could not be processed at all.
func runFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine lam.LamEngine,
	paths []string,
	isJson bool,
	jsonOutput string,
	w io.Writer,
) int {
	outputs, err := lam.ProcessFiles(ctx, logger, engine, paths, lam.ProcessFile)

	code := lam.Worst(outputs).ExitCode()
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		if code == 0 {
			code = lam.ClassUsage.ExitCode()
		}
	}

	if err := printOutputs(w, outputs, isJson, jsonOutput); err != nil {
		logger.Error("Error writing outputs", zap.Error(err))
		return lam.ClassUsage.ExitCode()
	}
	return code
}

func printOutputs(w io.Writer, outputs []lam.Output, isJson bool, jsonOutput string) error {
	if !isJson {
		for _, out := range outputs {
			printOutput(w, out, len(outputs) > 1)
		}
		return nil
	}

	d, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("error marshalling outputs to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return os.WriteFile(jsonOutput, d, 0o644)
}

// printOutput writes a value, prefixed by its file when several files run,
// or a diagnostic, which names the file itself.
func printOutput(w io.Writer, out lam.Output, withFile bool) {
	if out.Failure != nil {
		fmt.Fprintln(w, out.Render())
		return
	}
	if withFile {
		fmt.Fprintf(w, "%s: %s\n", out.File, out.Render())
		return
	}
	fmt.Fprintln(w, out.Render())
}
