package lam

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/lam/internal/eval"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	ProgressOutput = io.Discard
	os.Exit(m.Run())
}

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	config := DefaultConfig()
	config.Cache.Enabled = false
	if mutate != nil {
		mutate(&config)
	}
	engine, err := New(config, nil)
	require.NoError(t, err)
	return engine
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, nil)

	v, err := engine.RunSource(context.Background(), []byte("let rec fact n = if n <= 1 then 1 else n * fact (n - 1) in fact 5"))
	require.NoError(t, err)
	assert.Equal(t, eval.Int(120), v)

	_, err = engine.RunSource(context.Background(), []byte("x + 1"))
	assert.Equal(t, ClassResolve, Classify(err))

	_, err = engine.RunSource(context.Background(), []byte("let x = in x"))
	assert.Equal(t, ClassSyntax, Classify(err))
}

func TestEngine_MaxDepth(t *testing.T) {
	t.Parallel()
	src := []byte("let rec down n = if n == 0 then 0 else 1 + down (n - 1) in down 1000")

	shallow := newTestEngine(t, func(c *Config) { c.MaxDepth = 100 })
	_, err := shallow.RunSource(context.Background(), src)
	assert.Equal(t, ClassStack, Classify(err))

	deep := newTestEngine(t, nil)
	v, err := deep.RunSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, eval.Int(1000), v)
}

func TestEngine_DivergentLoop(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, func(c *Config) { c.MaxDepth = 5000 })
	path := writeSource(t, t.TempDir(), "loop.lam", "let rec loop n = loop n in loop 0")

	out, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ClassStack, out.Class())
	assert.Equal(t, "StackExhausted", out.Failure.Tag)
}

func TestEngine_RunInterrupted(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, func(c *Config) {
		c.MaxDepth = eval.MaxDepthLimit
		c.Cache.Enabled = true
		c.Cache.Dir = filepath.Join(dir, "cache")
	})
	path := writeSource(t, dir, "loop.lam", "let rec loop n = loop n in loop 0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Run(ctx, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ClassUsage, Classify(err))

	// an interrupted run is not a result and must not be cached
	out, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, ClassStack, out.Class())
}

func TestNew_InvalidMaxDepth(t *testing.T) {
	t.Parallel()
	for _, depth := range []int{0, -5, eval.MaxDepthLimit + 1} {
		config := DefaultConfig()
		config.Cache.Enabled = false
		config.MaxDepth = depth

		_, err := New(config, nil)
		assert.Error(t, err, "max_depth %d", depth)
	}
}

func TestEngine_ParseAndResolve(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, nil)

	term, err := engine.Parse([]byte("let f a b = a in f"))
	require.NoError(t, err)
	assert.Equal(t, "(let f = (fun a b -> a) in f)", term.String())

	resolved, err := engine.Resolve([]byte("let x = 1 in x"))
	require.NoError(t, err)
	assert.Equal(t, "(let x_1 = 1 in x_1)", resolved.String())
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, nil)

	t.Run("value", func(t *testing.T) {
		path := writeSource(t, dir, "ok.lam", "# answer\nlet x = 40 in x + 2\n")
		out, err := engine.Run(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, out.File)
		assert.Equal(t, "Int(42)", out.Value)
		assert.Equal(t, "Int", out.Kind)
		assert.Nil(t, out.Failure)
		assert.Equal(t, ClassOK, out.Class())
		assert.Equal(t, "Int(42)", out.Render())
	})

	t.Run("resolution failure", func(t *testing.T) {
		path := writeSource(t, dir, "unbound.lam", "let y = 1 in\nx + y\n")
		out, err := engine.Run(context.Background(), path)
		require.NoError(t, err)
		require.NotNil(t, out.Failure)
		assert.Equal(t, ClassResolve, out.Class())
		assert.Equal(t, "UnboundVariable", out.Failure.Tag)
		assert.Equal(t, 2, out.Failure.Line)
		assert.Equal(t, 1, out.Failure.Column)

		expected := "error: UnboundVariable\n" +
			" --> " + path + ":2:1\n" +
			"  |\n" +
			"2 | x + y\n" +
			"  | ^\n" +
			"  = cannot find \"x\" in this scope\n"
		assert.Equal(t, expected, out.Render())
	})

	t.Run("runtime failure", func(t *testing.T) {
		path := writeSource(t, dir, "div.lam", "false && (1 / 0 == 0)")
		out, err := engine.Run(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, ClassEval, out.Class())
		assert.Equal(t, "DivisionByZero", out.Failure.Tag)
	})

	t.Run("unreadable", func(t *testing.T) {
		_, err := engine.Run(context.Background(), filepath.Join(dir, "missing.lam"))
		assert.Error(t, err)
		assert.Equal(t, ClassUsage, Classify(err))
	})
}

func TestEngine_Cache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, func(c *Config) {
		c.Cache.Enabled = true
		c.Cache.Dir = filepath.Join(dir, "cache")
	})

	path := writeSource(t, dir, "a.lam", "1 + true")

	first, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Failure, second.Failure)
	assert.Equal(t, first.Render(), second.Render())

	writeSource(t, dir, "a.lam", "1 + 1")
	third, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, "Int(2)", third.Value)

	require.NoError(t, engine.Flush())
	reopened := newTestEngine(t, func(c *Config) {
		c.Cache.Enabled = true
		c.Cache.Dir = filepath.Join(dir, "cache")
	})
	persisted, err := reopened.Run(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, persisted.Cached)
	assert.Equal(t, "Int(2)", persisted.Value)

	engine.DisableCache()
	require.NoError(t, engine.Flush())
	fourth, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, fourth.Cached)
}

func TestOutput_JSON(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, nil)
	path := writeSource(t, t.TempDir(), "bad.lam", "if 1 then 2 else 3")

	out, err := engine.Run(context.Background(), path)
	require.NoError(t, err)

	d, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(d, &decoded))
	failure := decoded["failure"].(map[string]any)
	assert.Equal(t, "eval", failure["class"])
	assert.Equal(t, "ConditionNotBoolean", failure["tag"])
	assert.Equal(t, "ConditionNotBoolean(Int(1))", failure["message"])
	assert.NotContains(t, decoded, "value")
}
