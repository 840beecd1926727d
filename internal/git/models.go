package git

import (
	"fmt"
	"strings"
	"time"
)

// CommitInfo represents the graph-relevant information of a Git commit.
type CommitInfo struct {
	SHA     string
	Parents []string
	When    time.Time // Committer time
}

// BranchRef is a local branch and the commit it points at.
type BranchRef struct {
	Name string
	Head string
}

// Snapshot is the branch and commit graph read from a repository.
type Snapshot struct {
	// Head is the checked out branch, empty when HEAD is detached or unborn.
	Head     string
	Branches []BranchRef
	// Commits holds every commit reachable from Branches, in no particular order.
	Commits []CommitInfo
}

// Backend selects how the repository is read.
type Backend string

const (
	BackendGoGit Backend = "gogit"
	BackendCLI   Backend = "cli"
)

// ParseBackend converts a string to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(s)) {
	case "", BackendGoGit, "go-git":
		return BackendGoGit, nil
	case BackendCLI, "git":
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("unknown git backend: %s", s)
	}
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath string
	Backend  Backend
	Include  []string // Glob patterns of branch names to include
	Exclude  []string // Glob patterns of branch names to exclude
}
