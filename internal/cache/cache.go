// Package cache keeps rendered evaluation results on disk, keyed by file
// path and invalidated by content hash.
package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cacheFileName = "lam_cache.gob"

// Result is the rendered outcome of one evaluation. Only text is stored:
// a closure cannot outlive the process that built it.
type Result struct {
	Value  string
	Kind   string
	Failed bool
	Code   int
	Tag    string
	Msg    string
	Note   string
	Line   int
	Column int
}

// Entry is one cached file.
type Entry struct {
	Hash         string
	MaxDepth     int
	Result       Result
	CreatedAt    time.Time
	LastAccessed time.Time
}

type Cache struct {
	Dir     string
	entries map[string]Entry
	mutex   sync.Mutex
	maxAge  time.Duration
	now     func() time.Time
	dirty   bool
}

// New opens the cache stored under dir, creating the directory if needed.
// A non-positive maxAge keeps entries until their content changes.
func New(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		Dir:     dir,
		entries: make(map[string]Entry),
		maxAge:  maxAge,
		now:     time.Now,
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.Dir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Get returns the result cached for filename if src hashes the same and it
// was evaluated with the same depth limit.
func (c *Cache) Get(filename string, src []byte, maxDepth int) (Result, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[filename]
	if !ok {
		return Result{}, false
	}
	if c.isStale(entry, Hash(src), maxDepth) {
		delete(c.entries, filename)
		return Result{}, false
	}

	entry.LastAccessed = c.now()
	c.entries[filename] = entry
	return entry.Result, true
}

// Set stores result for filename in memory. Flush writes it to disk.
func (c *Cache) Set(filename string, src []byte, maxDepth int, result Result) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.entries[filename] = Entry{
		Hash:         Hash(src),
		MaxDepth:     maxDepth,
		Result:       result,
		CreatedAt:    now,
		LastAccessed: now,
	}
	c.dirty = true
}

func (c *Cache) isStale(entry Entry, hash string, maxDepth int) bool {
	if c.maxAge > 0 && c.now().Sub(entry.CreatedAt) > c.maxAge {
		return true
	}
	return entry.Hash != hash || entry.MaxDepth != maxDepth
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// Flush writes the in-memory entries to disk if Set changed them since
// the last write.
func (c *Cache) Flush() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}
	if err := c.save(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Hash returns the hex md5 digest of src.
func Hash(src []byte) string {
	return fmt.Sprintf("%x", md5.Sum(src))
}
