package git

import "context"

// RepositoryReader defines the interface for reading a repository's branch graph.
type RepositoryReader interface {
	ReadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*HistoryReader)(nil)
