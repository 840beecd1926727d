package git

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HistoryReader reads the branch graph of a Git repository.
type HistoryReader struct {
	repo        *git.Repository
	opts        ReadOptions
	filterCache map[string]bool
}

// NewHistoryReader opens the repository at opts.RepoPath.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", opts.RepoPath, err)
	}
	return &HistoryReader{repo: repo, opts: opts, filterCache: make(map[string]bool)}, nil
}

// ReadSnapshot reads local branches and every commit reachable from them.
func (r *HistoryReader) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	if r.opts.Backend == BackendCLI {
		return r.readSnapshotGitCLI(ctx)
	}
	return r.readSnapshotGoGit(ctx)
}

func (r *HistoryReader) readSnapshotGoGit(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	// An unborn HEAD has no reference yet; that is not an error here.
	if ref, err := r.repo.Head(); err == nil && ref.Name().IsBranch() {
		snap.Head = ref.Name().Short()
	}

	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		ok, err := r.matchesFilters(name)
		if err != nil || !ok {
			return err
		}
		snap.Branches = append(snap.Branches, BranchRef{Name: name, Head: ref.Hash().String()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	stack := make([]plumbing.Hash, 0, len(snap.Branches))
	for _, b := range snap.Branches {
		stack = append(stack, plumbing.NewHash(b.Head))
	}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[h] {
			continue
		}
		seen[h] = true

		c, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %s: %w", h, err)
		}
		snap.Commits = append(snap.Commits, commitInfo(c))
		stack = append(stack, c.ParentHashes...)
	}

	return snap, nil
}

func commitInfo(c *object.Commit) CommitInfo {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return CommitInfo{
		SHA:     c.Hash.String(),
		Parents: parents,
		When:    c.Committer.When,
	}
}

// matchesFilters checks if a branch name matches the include/exclude filters.
func (r *HistoryReader) matchesFilters(name string) (bool, error) {
	if v, ok := r.filterCache[name]; ok {
		return v, nil
	}

	// Check exclude patterns first
	for _, pattern := range r.opts.Exclude {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			r.filterCache[name] = false
			return false, nil
		}
	}

	// If no include patterns, accept all
	result := len(r.opts.Include) == 0
	for _, pattern := range r.opts.Include {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if matched {
			result = true
			break
		}
	}

	r.filterCache[name] = result
	return result, nil
}
