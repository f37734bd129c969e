package clean_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlink/overlink/pkg/commands/clean"
	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/journal"
	"github.com/overlink/overlink/pkg/pathinfo"
)

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestCleanProtectsExcludedAndJournaled(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "junk.txt"))
	write(t, filepath.Join(root, "flagged", "f.txt"))
	write(t, filepath.Join(root, "journaled", "j.txt"))

	journalPath := filepath.Join(t.TempDir(), "journal.txt")
	require.NoError(t, journal.Append(journalPath, []string{filepath.Join(root, "journaled")}))

	result, err := clean.Clean(clean.CleanOptions{
		Root:        root,
		Exclude:     []string{filepath.Join(root, "flagged")},
		JournalPath: journalPath,
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, []string{filepath.Join(root, "junk.txt")}, result.Removed)
	assert.True(t, pathinfo.Exists(filepath.Join(root, "flagged", "f.txt")))
	assert.True(t, pathinfo.Exists(filepath.Join(root, "journaled", "j.txt")))
}

func TestCleanDryRun(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "junk.txt"))

	result, err := clean.Clean(clean.CleanOptions{Root: root, DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{filepath.Join(root, "junk.txt")}, result.Removed)
	assert.True(t, pathinfo.Exists(filepath.Join(root, "junk.txt")))
}

func TestCleanValidation(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		_, err := clean.Clean(clean.CleanOptions{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := clean.Clean(clean.CleanOptions{Root: filepath.Join(t.TempDir(), "nope")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		assert.Contains(t, err.Error(), "root has to exist and be a directory")
	})
}

func TestCleanMissingJournal(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "junk.txt"))

	_, err := clean.Clean(clean.CleanOptions{
		Root:        root,
		JournalPath: filepath.Join(t.TempDir(), "nope.txt"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	assert.True(t, pathinfo.Exists(filepath.Join(root, "junk.txt")),
		"nothing is removed when the journal cannot be read")
}
