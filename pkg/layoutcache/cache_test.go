package layoutcache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(key string) *Entry {
	return &Entry{
		Key:       key,
		Graph:     "wiki",
		CreatedAt: time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC),
		Placements: []Placement{
			{Node: "caffeine", X: math.Pi, Y: -math.E},
			{Node: "l-theanine", X: 1e-300, Y: 0.1 + 0.2},
			{Node: "melatonin", X: -123456.789012345, Y: math.MaxFloat64},
		},
	}
}

// exerciseCache runs the shared contract against any backend
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "absent")
	require.True(t, errors.Is(err, ErrMiss), "expected ErrMiss, got %v", err)

	want := sampleEntry("wiki-abc123")
	require.NoError(t, c.Put(ctx, want))

	got, err := c.Get(ctx, want.Key)
	require.NoError(t, err)
	assert.Equal(t, want.Graph, got.Graph)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, want.CreatedAt)
	require.Len(t, got.Placements, len(want.Placements))
	for i, p := range want.Placements {
		assert.Equal(t, p.Node, got.Placements[i].Node)
		assert.Equal(t, math.Float64bits(p.X), math.Float64bits(got.Placements[i].X), "x of %s", p.Node)
		assert.Equal(t, math.Float64bits(p.Y), math.Float64bits(got.Placements[i].Y), "y of %s", p.Node)
	}

	// replacing shrinks the placement list
	replacement := sampleEntry(want.Key)
	replacement.Placements = replacement.Placements[:1]
	require.NoError(t, c.Put(ctx, replacement))

	got, err = c.Get(ctx, want.Key)
	require.NoError(t, err)
	assert.Len(t, got.Placements, 1)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	exerciseCache(t, c)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Put(ctx, sampleEntry("k")))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got.Placements[0].X = 42

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, math.Pi, again.Placements[0].X)
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "layouts"))
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}

func TestFileCache_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)

	require.NoError(t, c.Put(context.Background(), sampleEntry("reddit/seed=1")))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "reddit_seed_1"+fileSuffix, files[0].Name())
}

func TestFileCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(c.path("bad"), []byte("not snappy"), 0644))

	_, err = c.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss))
}

func TestSQLiteCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(ctx, filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}

func TestPGCache(t *testing.T) {
	dsn := os.Getenv("ATLAS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ATLAS_TEST_PG_DSN not set")
	}
	c, err := NewPGCache(context.Background(), dsn)
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}

func TestEntryFresh(t *testing.T) {
	e := sampleEntry("k")
	now := e.CreatedAt.Add(time.Hour)

	assert.True(t, e.Fresh(0, now))
	assert.True(t, e.Fresh(2*time.Hour, now))
	assert.False(t, e.Fresh(30*time.Minute, now))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, CacheConfig{Backend: BackendNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = Open(ctx, CacheConfig{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileCache{}, c)

	_, err = Open(ctx, CacheConfig{Backend: "redis"})
	assert.Error(t, err)

	t.Setenv("ATLAS_CACHE_DSN", "")
	_, err = Open(ctx, CacheConfig{Backend: BackendPostgres})
	assert.Error(t, err)
}
