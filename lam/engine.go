package lam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gnolang/lam/internal/cache"
	"github.com/gnolang/lam/internal/eval"
	"github.com/gnolang/lam/internal/resolve"
	"github.com/gnolang/lam/internal/syntax"
)

// LamEngine is what the batch and watch helpers need from an engine.
type LamEngine interface {
	Run(ctx context.Context, filePath string) (Output, error)
	RunSource(ctx context.Context, source []byte) (eval.Value, error)
}

var _ LamEngine = (*Engine)(nil)

// Engine runs the parse, resolve and evaluate pipeline. Each call gets its
// own symbol generator and evaluator, so one engine can serve many
// goroutines.
type Engine struct {
	config Config
	logger *zap.Logger
	cache  *cache.Cache

	// debounce is how long watch mode waits after a write before rerunning.
	debounce time.Duration
}

// New creates an engine. A nil logger discards logs.
func New(config Config, logger *zap.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		config:   config,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}

	if config.Cache.Enabled {
		c, err := cache.New(config.Cache.Dir, config.Cache.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("error opening cache: %w", err)
		}
		e.cache = c
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.config
}

// DisableCache makes Run evaluate every file regardless of cached results.
func (e *Engine) DisableCache() {
	e.cache = nil
}

// Parse returns the surface term for source.
func (e *Engine) Parse(source []byte) (syntax.Term, error) {
	return syntax.Parse(string(source))
}

// Resolve parses and resolves source.
func (e *Engine) Resolve(source []byte) (resolve.Term, error) {
	term, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return resolve.Resolve(term)
}

// RunSource parses, resolves and evaluates source. Evaluation stops early
// with ctx's error once ctx is done.
func (e *Engine) RunSource(ctx context.Context, source []byte) (eval.Value, error) {
	term, err := e.Resolve(source)
	if err != nil {
		return nil, err
	}

	ev := eval.NewEvaluator(eval.Config{MaxDepth: e.config.MaxDepth})
	v, err := ev.EvalContext(ctx, eval.NewEnv(), term)
	stats := ev.Stats()
	e.logger.Debug("evaluated",
		zap.Int("steps", stats.Steps),
		zap.Int("peak_depth", stats.PeakDepth),
		zap.Error(err),
	)
	return v, err
}

// Run evaluates the file at filePath. Failures of the program itself are
// reported in the Output; the error is only for files that cannot be read
// or runs cut short by ctx.
func (e *Engine) Run(ctx context.Context, filePath string) (Output, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return Output{File: filePath}, fmt.Errorf("error reading %s: %w", filePath, err)
	}

	if e.cache != nil {
		if r, ok := e.cache.Get(filePath, source, e.config.MaxDepth); ok {
			e.logger.Debug("cache hit", zap.String("path", filePath))
			return outputFromResult(filePath, source, r), nil
		}
	}

	v, err := e.RunSource(ctx, source)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Output{File: filePath}, fmt.Errorf("error running %s: %w", filePath, err)
	}
	out := newOutput(filePath, source, v, err)
	if err != nil {
		e.logger.Debug("program failed",
			zap.String("path", filePath),
			zap.Stringer("class", out.Class()),
			zap.Error(err),
		)
	}

	if e.cache != nil {
		e.cache.Set(filePath, source, e.config.MaxDepth, out.toResult())
	}
	return out, nil
}

// Flush writes results gathered by Run to the on-disk cache. Callers
// flush once per batch rather than once per file.
func (e *Engine) Flush() error {
	if e.cache == nil {
		return nil
	}
	if err := e.cache.Flush(); err != nil {
		return fmt.Errorf("error writing cache: %w", err)
	}
	return nil
}
