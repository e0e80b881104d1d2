package gitmeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, wt *git.Worktree, dir, name, content string, when time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.org", When: when},
	})
	require.NoError(t, err)
}

func TestOpenOutsideRepository(t *testing.T) {
	src, ok, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, src)
}

func TestLastUpdated(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	first := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	second := time.Date(2026, 2, 20, 9, 30, 0, 0, time.UTC)
	commitFile(t, wt, dir, "accounts.md", "v1", first)
	commitFile(t, wt, dir, "accounts.md", "v2", second)
	commitFile(t, wt, dir, "other.md", "x", second.Add(time.Hour))

	src, ok, err := Open(dir)
	require.NoError(t, err)
	require.True(t, ok)

	info, ok, err := src.LastUpdated(filepath.Join(dir, "accounts.md"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, info.Time.Equal(second), "got %s", info.Time)
	assert.Len(t, info.Hash, 8)
}

func TestLastUpdatedUncommittedFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	commitFile(t, wt, dir, "a.md", "x", time.Now())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte("y"), 0o600))

	src, ok, err := Open(dir)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = src.LastUpdated(filepath.Join(dir, "new.md"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenDetectsParentRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	nested := filepath.Join(dir, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	_, ok, err := Open(nested)
	require.NoError(t, err)
	assert.True(t, ok)
}
