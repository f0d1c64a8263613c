package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "robokits_ws", "src")
	require.NoError(t, Prepare(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent
	assert.NoError(t, Prepare(dir))
}

func TestDetectClone(t *testing.T) {
	t.Run("absent when missing", func(t *testing.T) {
		state, err := DetectClone(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Equal(t, StateAbsent, state)
	})

	t.Run("absent when empty directory", func(t *testing.T) {
		dir := t.TempDir()
		state, err := DetectClone(dir)
		require.NoError(t, err)
		assert.Equal(t, StateAbsent, state)
	})

	t.Run("present when .git exists", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
		state, err := DetectClone(dir)
		require.NoError(t, err)
		assert.Equal(t, StatePresent, state)
	})

	t.Run("conflict when non-empty without .git", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644))
		state, err := DetectClone(dir)
		require.NoError(t, err)
		assert.Equal(t, StateConflict, state)
	})

	t.Run("conflict when path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "middleware")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		state, err := DetectClone(path)
		require.NoError(t, err)
		assert.Equal(t, StateConflict, state)
	})
}

func TestSwap(t *testing.T) {
	base := t.TempDir()
	existing := filepath.Join(base, "middleware")
	fresh := filepath.Join(base, "middleware.wsinit-1")

	require.NoError(t, os.MkdirAll(filepath.Join(existing, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "old.txt"), []byte("old"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(fresh, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(fresh, "new.txt"), []byte("new"), 0644))

	require.NoError(t, Swap(existing, fresh))

	assert.FileExists(t, filepath.Join(existing, "new.txt"))
	assert.NoFileExists(t, filepath.Join(existing, "old.txt"))
	assert.NoDirExists(t, fresh)
}

func TestSwapRefusesMissingFreshClone(t *testing.T) {
	base := t.TempDir()
	existing := filepath.Join(base, "middleware")
	require.NoError(t, os.MkdirAll(existing, 0755))

	err := Swap(existing, filepath.Join(base, "nope"))
	assert.Error(t, err)
	assert.DirExists(t, existing)
}

func TestChoiceString(t *testing.T) {
	assert.Equal(t, "skip", ChoiceSkip.String())
	assert.Equal(t, "overwrite", ChoiceOverwrite.String())
}
