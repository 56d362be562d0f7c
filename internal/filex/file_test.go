package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesParent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "diary.txt")

	require.NoError(t, EnsureDir(path))

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestWriteAtomic_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "diary.txt")

	require.NoError(t, WriteAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteAtomic(path, []byte("second"), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
