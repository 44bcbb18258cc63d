package lam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/lam/internal/eval"
)

// SourceExtension marks the files directory runs pick up.
const SourceExtension = ".lam"

// ProgressOutput receives the progress bar drawn while a directory runs.
var ProgressOutput io.Writer = os.Stderr

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LamEngine,
	paths []string,
	processor func(context.Context, LamEngine, string) (Output, error),
) ([]Output, error) {
	var all []Output
	for _, path := range paths {
		outputs, err := ProcessPath(ctx, logger, engine, path, processor)
		all = append(all, outputs...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return all, err
		}
	}
	return all, nil
}

// ProcessPath runs a single file, or every .lam file below a directory
// on a bounded pool of workers. Outputs come back in path order; files
// that could not be processed are left out and their errors joined.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LamEngine,
	path string,
	processor func(context.Context, LamEngine, string) (Output, error),
) ([]Output, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		out, err := processor(ctx, engine, path)
		if err != nil {
			return []Output{}, err
		}
		return []Output{out}, nil
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []Output{}, nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	outputs := make([]Output, len(files))
	errs := make([]error, len(files))
	done := make([]bool, len(files))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

dispatch:
	for i, fp := range files {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			out, err := processor(ctx, engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			outputs[i], errs[i], done[i] = out, err, true
			_ = bar.Add(1)
		}(i, fp)
	}
	wg.Wait()
	_ = bar.Finish()
	fmt.Fprintln(ProgressOutput)

	result := make([]Output, 0, len(files))
	for i := range files {
		if done[i] && errs[i] == nil {
			result = append(result, outputs[i])
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, errors.Join(errs...)
}

func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasDesiredExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return files, nil
}

func ProcessFile(ctx context.Context, engine LamEngine, filePath string) (Output, error) {
	return engine.Run(ctx, filePath)
}

func ProcessSource(ctx context.Context, engine LamEngine, source []byte) (eval.Value, error) {
	return engine.RunSource(ctx, source)
}

func hasDesiredExtension(path string) bool {
	return filepath.Ext(path) == SourceExtension
}
