package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocal_PutGetRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	l, err := NewLocal(zap.NewNop(), root)
	require.NoError(t, err)

	key := "documents/2025/03/01/abc/report.pdf"
	require.NoError(t, l.Put(ctx, key, strings.NewReader("hello"), 5, "application/pdf"))

	rc, err := l.Get(ctx, key)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	require.NoError(t, l.Remove(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// second remove is a no-op
	require.NoError(t, l.Remove(ctx, key))

	_, err = l.Get(ctx, key)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	l, err := NewLocal(zap.NewNop(), t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"absolute", "/etc/passwd"},
		{"parent", "../outside.txt"},
		{"nested parent", "a/../../outside.txt"},
		{"backslash parent", `..\outside.txt`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := l.Put(context.Background(), tt.key, strings.NewReader("x"), 1, "")
			require.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestLocal_CancelledContext(t *testing.T) {
	l, err := NewLocal(zap.NewNop(), t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, l.Put(ctx, "a.txt", strings.NewReader("x"), 1, ""), context.Canceled)
}
