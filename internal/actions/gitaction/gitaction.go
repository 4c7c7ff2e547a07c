// Package gitaction implements a git-clone/pull Action backed by go-git, so
// a pipeline step can materialize a repository without shelling out.
package gitaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// Config is the git-clone action's configuration.
type Config struct {
	URL         string `json:"url"`
	Destination string `json:"destination"`
	Branch      string `json:"branch,omitempty"`
	Depth       int    `json:"depth,omitempty"`
}

// Action clones cfg.URL into cfg.Destination, or fast-forwards it via pull
// if a git repository is already checked out there.
type Action struct {
	cfg Config
}

// New constructs a fresh, unconfigured git Action.
func New() *Action {
	return &Action{}
}

func (a *Action) Name() string {
	return "git-clone"
}

func (a *Action) Configure(_ context.Context, config interface{}) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("git-clone: marshal config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("git-clone: decode config: %w", err)
	}
	if cfg.URL == "" {
		return fmt.Errorf("git-clone: config.url is required")
	}
	if cfg.Destination == "" {
		return fmt.Errorf("git-clone: config.destination is required")
	}

	a.cfg = cfg
	return nil
}

func (a *Action) Invoke(_ *corepipeline.ActionContext) (interface{}, error) {
	gitDir := filepath.Join(a.cfg.Destination, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		return a.pull()
	}

	return a.clone()
}

func (a *Action) clone() (interface{}, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.Destination), 0o755); err != nil {
		return nil, fmt.Errorf("git-clone: create destination parent: %w", err)
	}

	opts := &git.CloneOptions{URL: a.cfg.URL}
	if a.cfg.Depth > 0 {
		opts.Depth = a.cfg.Depth
	}
	if a.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(a.cfg.Branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainClone(a.cfg.Destination, false, opts)
	if err != nil {
		return nil, fmt.Errorf("git-clone: clone %s: %w", a.cfg.URL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("git-clone: resolve head after clone: %w", err)
	}

	return map[string]interface{}{
		"action":      "clone",
		"destination": a.cfg.Destination,
		"commit":      head.Hash().String(),
	}, nil
}

func (a *Action) pull() (interface{}, error) {
	repo, err := git.PlainOpen(a.cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("git-clone: open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git-clone: resolve worktree: %w", err)
	}

	pullOpts := &git.PullOptions{RemoteName: "origin"}
	if a.cfg.Branch != "" {
		pullOpts.ReferenceName = plumbing.NewBranchReferenceName(a.cfg.Branch)
	}

	err = worktree.Pull(pullOpts)
	upToDate := errors.Is(err, git.NoErrAlreadyUpToDate)
	if err != nil && !upToDate {
		return nil, fmt.Errorf("git-clone: pull: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("git-clone: resolve head after pull: %w", err)
	}

	return map[string]interface{}{
		"action":      "pull",
		"destination": a.cfg.Destination,
		"commit":      head.Hash().String(),
		"up_to_date":  upToDate,
	}, nil
}
