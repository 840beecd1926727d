package git

import "context"

// MockHistoryReader is a test double for HistoryReader.
// It allows tests to provide a predefined snapshot without needing a real Git repository.
type MockHistoryReader struct {
	Snapshot *Snapshot
	Error    error
}

// NewMockHistoryReader creates a new MockHistoryReader with the given data.
func NewMockHistoryReader(snapshot *Snapshot, err error) *MockHistoryReader {
	return &MockHistoryReader{
		Snapshot: snapshot,
		Error:    err,
	}
}

// ReadSnapshot returns the predefined snapshot or error.
func (m *MockHistoryReader) ReadSnapshot(_ context.Context) (*Snapshot, error) {
	return m.Snapshot, m.Error
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*MockHistoryReader)(nil)
