// Package gitinfo reads the repository that holds the migration scripts, so a
// readiness report can name the exact revision it evaluated.
package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/migrakit/migrakit/internal/domain"
)

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// IsGitRepo reports whether path is inside a git worktree.
func (g *GitInfoAdapter) IsGitRepo(path string) bool {
	_, err := open(path)
	return err == nil
}

// CommitHash returns the HEAD commit of the repository containing path,
// suffixed with domain.DirtySuffix when the worktree has uncommitted changes.
func (g *GitInfoAdapter) CommitHash(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	hash := head.Hash().String()

	wt, err := repo.Worktree()
	if err != nil {
		return hash, nil
	}
	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("reading worktree status: %w", err)
	}
	if !status.IsClean() {
		hash += domain.DirtySuffix
	}
	return hash, nil
}
