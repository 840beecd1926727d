package git

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/masmgr/gitpikchr/internal/history"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func commitAt(sha string, minute int, parents ...string) CommitInfo {
	return CommitInfo{SHA: sha, Parents: parents, When: base.Add(time.Duration(minute) * time.Minute)}
}

func mergedFeature() *Snapshot {
	return &Snapshot{
		Head: "main",
		Branches: []BranchRef{
			{Name: "feature", Head: "B"},
			{Name: "main", Head: "M"},
		},
		Commits: []CommitInfo{
			commitAt("M", 4, "C", "B"),
			commitAt("A", 1),
			commitAt("C", 3, "A"),
			commitAt("B", 2, "A"),
		},
	}
}

func TestPlan_MergedFeature(t *testing.T) {
	got := Plan(mergedFeature(), PlanOptions{})

	expected := []history.Instruction{
		history.NewBranch("main"),
		history.NewBranch("feature"),
		history.NewCommit("A"),
		history.Checkout("feature"),
		history.Merge("B", "A"),
		history.Checkout("main"),
		history.NewCommit("C"),
		history.Merge("M", "B"),
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("Plan() =\n%v\nexpected\n%v", got, expected)
	}

	s := history.Build(got)
	m, ok := s.CommitByID("M")
	if !ok {
		t.Fatal("merge commit missing")
	}
	if !reflect.DeepEqual(m.Parents, []string{"C", "B"}) {
		t.Errorf("M parents = %v, expected [C B]", m.Parents)
	}
	b, _ := s.CommitByID("B")
	if b.Branch != "feature" || !reflect.DeepEqual(b.Parents, []string{"A"}) {
		t.Errorf("B = %+v, expected feature commit with parent A", b)
	}
	if len(s.Warnings()) != 0 {
		t.Errorf("warnings = %v, expected none", s.Warnings())
	}
}

func TestPlan_MaxCommitsKeepsNewest(t *testing.T) {
	got := Plan(mergedFeature(), PlanOptions{MaxCommits: 2})

	expected := []history.Instruction{
		history.NewBranch("main"),
		history.NewCommit("C"),
		history.NewCommit("M"),
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Plan() = %v, expected %v", got, expected)
	}
}

func TestPlan_RanksHeadBranchFirst(t *testing.T) {
	s := &Snapshot{
		Head: "develop",
		Branches: []BranchRef{
			{Name: "main", Head: "A"},
			{Name: "develop", Head: "B"},
			{Name: "alpha", Head: "C"},
		},
		Commits: []CommitInfo{
			commitAt("A", 1),
			commitAt("B", 2, "A"),
			commitAt("C", 3, "A"),
		},
	}

	store := history.Build(Plan(s, PlanOptions{}))
	var names []string
	for _, b := range store.Branches() {
		names = append(names, b.Name)
	}
	if !reflect.DeepEqual(names, []string{"develop", "alpha", "main"}) {
		t.Errorf("branch order = %v, expected [develop alpha main]", names)
	}
	a, _ := store.CommitByID("A")
	if a.Branch != "develop" {
		t.Errorf("A owned by %q, expected develop", a.Branch)
	}
}

func TestPlan_BranchWithoutOwnCommits(t *testing.T) {
	s := &Snapshot{
		Head: "main",
		Branches: []BranchRef{
			{Name: "main", Head: "B"},
			{Name: "release", Head: "A"},
		},
		Commits: []CommitInfo{
			commitAt("A", 1),
			commitAt("B", 2, "A"),
		},
	}

	got := Plan(s, PlanOptions{})
	last := got[len(got)-1]
	if !reflect.DeepEqual(last, history.NewBranchAt("release", "A")) {
		t.Errorf("last instruction = %v, expected branch(release, at=A)", last)
	}
	head, ok := history.Build(got).BranchHead("release")
	if !ok || head != "A" {
		t.Errorf("release head = %q, expected A", head)
	}
}

func TestPlan_DeletedBranchGetsSyntheticName(t *testing.T) {
	s := &Snapshot{
		Head:     "main",
		Branches: []BranchRef{{Name: "main", Head: "M"}},
		Commits: []CommitInfo{
			commitAt("A", 1),
			commitAt("B", 2, "A"),
			commitAt("M", 3, "A", "B"),
		},
	}

	store := history.Build(Plan(s, PlanOptions{}))
	b, _ := store.CommitByID("B")
	if b.Branch != "merged/B" {
		t.Errorf("B owned by %q, expected merged/B", b.Branch)
	}
	m, _ := store.CommitByID("M")
	if !reflect.DeepEqual(m.Parents, []string{"A", "B"}) {
		t.Errorf("M parents = %v, expected [A B]", m.Parents)
	}
}

func TestPlan_AbbreviatesIDs(t *testing.T) {
	s := &Snapshot{
		Head:     "main",
		Branches: []BranchRef{{Name: "main", Head: "bbbbbbbbbb"}},
		Commits: []CommitInfo{
			commitAt("aaaaaaaaaa", 1),
			commitAt("bbbbbbbbbb", 2, "aaaaaaaaaa"),
		},
	}

	got := Plan(s, PlanOptions{Abbrev: 4})
	expected := []history.Instruction{
		history.NewBranch("main"),
		history.NewCommit("aaaa"),
		history.NewCommit("bbbb"),
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Plan() = %v, expected %v", got, expected)
	}
}

func TestPlan_LongChainWithEqualTimes(t *testing.T) {
	// Equal times make the SHA tiebreak list the tip last, so the walk
	// starts at the tip and descends the whole chain.
	const n = 50000
	commits := make([]CommitInfo, n)
	for i := range commits {
		c := CommitInfo{SHA: fmt.Sprintf("c%06d", i), When: base}
		if i > 0 {
			c.Parents = []string{commits[i-1].SHA}
		}
		commits[i] = c
	}
	snap := &Snapshot{
		Head:     "main",
		Branches: []BranchRef{{Name: "main", Head: commits[n-1].SHA}},
		Commits:  commits,
	}

	got := Plan(snap, PlanOptions{})
	if len(got) != n+1 {
		t.Fatalf("instructions = %d, expected %d", len(got), n+1)
	}
	for i, in := range got[1:] {
		if in.Op != history.OpCommit || in.Name != commits[i].SHA {
			t.Fatalf("instruction %d = %v, expected commit(%s)", i+1, in, commits[i].SHA)
		}
	}
}

func TestPlan_Empty(t *testing.T) {
	if got := Plan(&Snapshot{}, PlanOptions{}); len(got) != 0 {
		t.Errorf("Plan(empty) = %v, expected nothing", got)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input    string
		expected Backend
		wantErr  bool
	}{
		{input: "", expected: BackendGoGit},
		{input: "go-git", expected: BackendGoGit},
		{input: "CLI", expected: BackendCLI},
		{input: "git", expected: BackendCLI},
		{input: "svn", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseBackend(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
