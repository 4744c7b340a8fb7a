package syncstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcards/internal/db"
)

func newSQLite(t *testing.T) *SQLite {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s := NewSQLite(conn)
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

// testKV runs the behavior every backend shares against kv.
func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	got, err := kv.Get(ctx, "cards", "categories")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, kv.Set(ctx, map[string]any{
		"cards":      []map[string]any{{"id": 1}},
		"categories": []string{"Work"},
	}))
	require.NoError(t, kv.Set(ctx, map[string]any{"categories": []string{"Work", "Home"}}))

	got, err = kv.Get(ctx, "cards", "categories", "missing")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, `[{"id":1}]`, string(got["cards"]))
	assert.JSONEq(t, `["Work","Home"]`, string(got["categories"]))

	got, err = kv.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKV(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemory() },
		"sqlite": func(t *testing.T) KV { return newSQLite(t) },
	}

	for name, newKV := range backends {
		t.Run(name, func(t *testing.T) {
			testKV(t, newKV(t))
		})
	}
}

func TestSetRejectsUnencodable(t *testing.T) {
	err := NewMemory().Set(context.Background(), map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestSQLitePersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sync.db")

	conn, err := db.OpenSQLite(ctx, path)
	require.NoError(t, err)
	s := NewSQLite(conn)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Set(ctx, map[string]any{"categories": []string{"A"}}))
	require.NoError(t, conn.Close())

	conn, err = db.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer conn.Close()
	s = NewSQLite(conn)
	require.NoError(t, s.EnsureSchema(ctx))

	got, err := s.Get(ctx, "categories")
	require.NoError(t, err)
	assert.JSONEq(t, `["A"]`, string(got["categories"]))
}
