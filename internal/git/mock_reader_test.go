package git

import (
	"context"
	"errors"
	"testing"
)

func TestMockHistoryReader_ReadSnapshot(t *testing.T) {
	expected := mergedFeature()

	t.Run("returns snapshot", func(t *testing.T) {
		reader := NewMockHistoryReader(expected, nil)

		snap, err := reader.ReadSnapshot(context.Background())

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if snap != expected {
			t.Errorf("expected the predefined snapshot, got %+v", snap)
		}
	})

	t.Run("returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		reader := NewMockHistoryReader(nil, expectedErr)

		_, err := reader.ReadSnapshot(context.Background())

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
	})
}

func TestHistoryReader_matchesFilters(t *testing.T) {
	tests := []struct {
		name     string
		include  []string
		exclude  []string
		branch   string
		expected bool
	}{
		{name: "No filters", branch: "main", expected: true},
		{name: "Include match", include: []string{"feature/*"}, branch: "feature/x", expected: true},
		{name: "Include miss", include: []string{"feature/*"}, branch: "main", expected: false},
		{name: "Exclude wins", include: []string{"**"}, exclude: []string{"wip/**"}, branch: "wip/a/b", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &HistoryReader{
				opts:        ReadOptions{Include: tt.include, Exclude: tt.exclude},
				filterCache: make(map[string]bool),
			}
			got, err := r.matchesFilters(tt.branch)
			if err != nil {
				t.Fatalf("matchesFilters: %v", err)
			}
			if got != tt.expected {
				t.Errorf("matchesFilters(%q) = %v, expected %v", tt.branch, got, tt.expected)
			}
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		r := &HistoryReader{
			opts:        ReadOptions{Exclude: []string{"["}},
			filterCache: make(map[string]bool),
		}
		if _, err := r.matchesFilters("main"); err == nil {
			t.Fatal("expected error for invalid exclude glob, got nil")
		}
	})
}

func TestParseGitLog(t *testing.T) {
	out := []byte("\x1eaaa\x00\x002024-01-01T12:00:00Z\n" +
		"\x1ebbb\x00aaa ccc\x002024-01-01T13:00:00+01:00")

	commits, err := parseGitLog(out)
	if err != nil {
		t.Fatalf("parseGitLog: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("commits = %d, expected 2", len(commits))
	}
	if commits[0].SHA != "aaa" || len(commits[0].Parents) != 0 {
		t.Errorf("commits[0] = %+v", commits[0])
	}
	if commits[1].SHA != "bbb" || len(commits[1].Parents) != 2 || commits[1].Parents[1] != "ccc" {
		t.Errorf("commits[1] = %+v", commits[1])
	}
	if !commits[1].When.Equal(commits[0].When) {
		t.Errorf("commits[1].When = %v, expected same instant as %v", commits[1].When, commits[0].When)
	}

	if _, err := parseGitLog([]byte("\x1egarbage")); err == nil {
		t.Error("expected error for malformed record")
	}
}

func TestParseBranchRefs(t *testing.T) {
	refs, err := parseBranchRefs([]byte("feature/x\x00bbb\nmain\x00aaa\n"))
	if err != nil {
		t.Fatalf("parseBranchRefs: %v", err)
	}
	if len(refs) != 2 || refs[0] != (BranchRef{Name: "feature/x", Head: "bbb"}) || refs[1] != (BranchRef{Name: "main", Head: "aaa"}) {
		t.Errorf("refs = %+v", refs)
	}
	if _, err := parseBranchRefs([]byte("broken\n")); err == nil {
		t.Error("expected error for line without separator")
	}
}
