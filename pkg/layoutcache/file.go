package layoutcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileSuffix = ".layout.sz"

// FileCache stores one snappy-compressed JSON file per key in a directory.
// Writes go through a temporary file and a rename, so readers never see a
// partial entry.
type FileCache struct {
	dir string
}

// NewFileCache creates the cache directory if needed
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create layout cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, safeKey(key)+fileSuffix)
}

func (c *FileCache) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read layout %s: %w", key, err)
	}
	return decodeEntry(data)
}

func (c *FileCache) Put(ctx context.Context, entry *Entry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, ".layout-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write layout %s: %w", entry.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close layout %s: %w", entry.Key, err)
	}
	if err := os.Rename(tmp.Name(), c.path(entry.Key)); err != nil {
		return fmt.Errorf("failed to store layout %s: %w", entry.Key, err)
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// safeKey keeps keys usable as file and object names
func safeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, key)
}
