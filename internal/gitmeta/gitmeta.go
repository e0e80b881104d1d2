// Package gitmeta resolves per-file change metadata from the git
// repository enclosing the content directory. The build uses it to stamp
// pages with a "last updated" footer; content outside a repository simply
// has no metadata.
package gitmeta

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
)

// Info describes the most recent commit touching a file.
type Info struct {
	Time time.Time
	Hash string // abbreviated commit hash
}

// Source reads file metadata from one repository.
type Source struct {
	repo *git.Repository
	root string
}

// Open locates the repository enclosing dir, searching parent directories
// the way the git CLI does. ok is false, with a nil error, when dir is not
// inside a repository.
func Open(dir string) (src *Source, ok bool, err error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open git repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, false, fmt.Errorf("resolve worktree: %w", err)
	}
	return &Source{repo: repo, root: wt.Filesystem.Root()}, true, nil
}

// LastUpdated returns the newest commit touching path. ok is false when
// the file has no committed history (new or uncommitted files).
func (s *Source) LastUpdated(path string) (info Info, ok bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Info{}, false, fmt.Errorf("resolve path: %w", err)
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return Info{}, false, fmt.Errorf("path %s outside repository %s: %w", abs, s.root, err)
	}
	rel = filepath.ToSlash(rel)

	iter, err := s.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		// An empty repository has no HEAD to log from.
		return Info{}, false, nil
	}
	defer iter.Close()

	commit, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, fmt.Errorf("walk history of %s: %w", rel, err)
	}

	return Info{
		Time: commit.Author.When,
		Hash: commit.Hash.String()[:8],
	}, true, nil
}
