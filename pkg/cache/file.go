package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileCache is the CLI backend. Entries are JSON files grouped by kind
// (see [KeyKind]) so tool results and previews can be listed and cleared
// separately:
//
//	<dir>/tool/3f/9a0c...json
//	<dir>/preview/b1/77e2...json
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("file cache: no directory configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk form of one entry. Key guards against a stale
// file left at the same path by a different key.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry for key. Unreadable, mismatched or expired files
// are removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if entry == nil || entry.Key != key || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes the entry through a temporary file so a concurrent reader
// never sees a partial document.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	buf, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. Missing entries are not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// KindStats summarises the entries of one kind.
type KindStats struct {
	Kind    string
	Entries int
	Bytes   int64
}

// Stats counts entries per kind, sorted by kind name.
func (c *FileCache) Stats() ([]KindStats, error) {
	kinds, err := c.kinds()
	if err != nil {
		return nil, err
	}
	out := make([]KindStats, 0, len(kinds))
	for _, kind := range kinds {
		st := KindStats{Kind: kind}
		err := c.walk(kind, func(_ string, info fs.FileInfo) {
			st.Entries++
			st.Bytes += info.Size()
		})
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Clear removes every entry of the given kinds, or of all kinds when none
// are given, and returns how many entries were removed.
func (c *FileCache) Clear(kinds ...string) (int, error) {
	if len(kinds) == 0 {
		var err error
		if kinds, err = c.kinds(); err != nil {
			return 0, err
		}
	}
	removed := 0
	for _, kind := range kinds {
		if err := c.walk(kind, func(string, fs.FileInfo) { removed++ }); err != nil {
			return removed, err
		}
		if err := os.RemoveAll(filepath.Join(c.dir, kind)); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Prune removes expired entries of every kind and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	kinds, err := c.kinds()
	if err != nil {
		return 0, err
	}
	now := time.Now()
	removed := 0
	for _, kind := range kinds {
		err := c.walk(kind, func(path string, _ fs.FileInfo) {
			entry, err := readEntry(path)
			if err == nil && entry != nil && !entry.expired(now) {
				return
			}
			if os.Remove(path) == nil {
				removed++
			}
		})
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, KeyKind(key), hash[:2], hash[2:]+".json")
}

// kinds lists the kind directories present under the root.
func (c *FileCache) kinds() ([]string, error) {
	ents, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var kinds []string
	for _, e := range ents {
		if e.IsDir() {
			kinds = append(kinds, e.Name())
		}
	}
	sort.Strings(kinds)
	return kinds, nil
}

// walk calls fn for every entry file of kind. Temporary files are skipped.
func (c *FileCache) walk(kind string, fn func(path string, info fs.FileInfo)) error {
	root := filepath.Join(c.dir, kind)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(path, info)
		return nil
	})
	return err
}

// readEntry decodes the entry at path. A file that is not a valid entry
// yields (nil, nil).
func readEntry(path string) (*fileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil
	}
	return &entry, nil
}

var _ Cache = (*FileCache)(nil)
