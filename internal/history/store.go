// Package history holds the repository state machine that accumulates
// branches and commits from a stream of instructions.
package history

import "fmt"

// DefaultBranch is checked out implicitly when committing with no active branch.
const DefaultBranch = "main"

// Commit is an immutable commit record. Time equals creation order.
type Commit struct {
	ID      string
	Time    int
	Branch  string
	Parents []string
}

// Branch is a named pointer into the history.
type Branch struct {
	Name     string
	Priority int
	// Head is the commit the branch points at, empty when it has none.
	Head string
}

// Store is the mutable repository state. Commits live in a flat arena
// indexed by time; branches are kept in priority order.
type Store struct {
	commits     []Commit
	commitIndex map[string]int

	branches    []Branch
	branchIndex map[string]int

	active   string
	warnings []Warning
	line     int
}

// NewStore creates an empty store with no active branch.
func NewStore() *Store {
	return &Store{
		commitIndex: make(map[string]int),
		branchIndex: make(map[string]int),
	}
}

// Build applies all instructions to a fresh store.
func Build(instructions []Instruction) *Store {
	s := NewStore()
	for _, in := range instructions {
		s.Apply(in)
	}
	return s
}

// Apply executes one instruction.
func (s *Store) Apply(in Instruction) {
	s.line = in.Line
	defer func() { s.line = 0 }()

	switch in.Op {
	case OpBranch:
		switch {
		case in.NewRoot:
			s.addBranch(in.Name, "", true)
		case in.At != "":
			s.BranchAt(in.Name, in.At)
		default:
			s.Branch(in.Name)
		}
	case OpCommit:
		s.Commit(in.Name)
	case OpCheckout:
		if _, ok := s.branchIndex[in.Name]; !ok && in.Name != "" && (in.At != "" || in.NewRoot) {
			s.addBranch(in.Name, in.At, in.NewRoot)
		}
		s.Checkout(in.Name)
	case OpMerge:
		s.Merge(in.Name, in.Sources)
	default:
		s.warn("unknown instruction %d", in.Op)
	}
}

// Branch creates a branch at the current commit. The first branch ever
// created becomes active.
func (s *Store) Branch(name string) {
	s.addBranch(name, "", false)
}

// BranchAt creates a branch at ref, which is resolved as a commit id
// first and as a branch name second.
func (s *Store) BranchAt(name, ref string) {
	s.addBranch(name, ref, false)
}

// Checkout activates a branch, creating it at the current commit if needed.
func (s *Store) Checkout(name string) {
	if name == "" {
		s.warn("empty branch name, ignored")
		return
	}
	if _, ok := s.branchIndex[name]; !ok {
		s.addBranch(name, "", false)
	}
	s.active = name
}

// Commit creates a commit on the active branch.
func (s *Store) Commit(id string) {
	s.Merge(id, nil)
}

// Merge creates a commit on the active branch whose parents are the
// active head followed by every resolvable source. A source naming both a
// branch and a commit contributes twice. Unresolvable sources are dropped
// and reported as warnings.
func (s *Store) Merge(id string, sources []string) {
	if id == "" {
		s.warn("empty commit id, ignored")
		return
	}
	if s.active == "" {
		s.Checkout(DefaultBranch)
	}
	if _, exists := s.commitIndex[id]; exists {
		s.warn("commit %q already exists, ignored", id)
		return
	}

	var parents []string
	if head := s.CurrentCommit(); head != "" {
		parents = append(parents, head)
	}
	for _, src := range sources {
		resolved := false
		if b, ok := s.branch(src); ok && b.Head != "" {
			parents = append(parents, b.Head)
			resolved = true
		}
		if _, ok := s.commitIndex[src]; ok {
			parents = append(parents, src)
			resolved = true
		}
		if !resolved {
			s.warn("merge source %q is neither a branch with commits nor a commit, dropped", src)
		}
	}

	s.commitIndex[id] = len(s.commits)
	s.commits = append(s.commits, Commit{
		ID:      id,
		Time:    len(s.commits),
		Branch:  s.active,
		Parents: parents,
	})
	s.branches[s.branchIndex[s.active]].Head = id
}

func (s *Store) addBranch(name, ref string, newRoot bool) {
	if name == "" {
		s.warn("empty branch name, ignored")
		return
	}
	if _, exists := s.branchIndex[name]; exists {
		s.warn("branch %q already exists, ignored", name)
		return
	}

	var head string
	switch {
	case newRoot:
	case ref != "":
		if _, ok := s.commitIndex[ref]; ok {
			head = ref
		} else if b, ok := s.branch(ref); ok {
			head = b.Head
		} else {
			s.warn("reference %q for branch %q not found, using current commit", ref, name)
			head = s.CurrentCommit()
		}
	default:
		head = s.CurrentCommit()
	}

	s.branchIndex[name] = len(s.branches)
	s.branches = append(s.branches, Branch{
		Name:     name,
		Priority: len(s.branches),
		Head:     head,
	})
	if s.active == "" {
		s.active = name
	}
}

func (s *Store) branch(name string) (Branch, bool) {
	i, ok := s.branchIndex[name]
	if !ok {
		return Branch{}, false
	}
	return s.branches[i], true
}

func (s *Store) warn(format string, args ...any) {
	s.warnings = append(s.warnings, Warning{Line: s.line, Message: fmt.Sprintf(format, args...)})
}

// Active returns the checked out branch name, empty when none.
func (s *Store) Active() string {
	return s.active
}

// BranchHead returns the head commit id of a branch.
func (s *Store) BranchHead(name string) (string, bool) {
	b, ok := s.branch(name)
	if !ok || b.Head == "" {
		return "", false
	}
	return b.Head, true
}

// CurrentCommit returns the head of the active branch, empty when none.
func (s *Store) CurrentCommit() string {
	if s.active == "" {
		return ""
	}
	head, _ := s.BranchHead(s.active)
	return head
}

// CommitByID returns the commit with the given id.
func (s *Store) CommitByID(id string) (Commit, bool) {
	i, ok := s.commitIndex[id]
	if !ok {
		return Commit{}, false
	}
	return s.commits[i], true
}

// Commits returns all commits ordered by time.
func (s *Store) Commits() []Commit {
	out := make([]Commit, len(s.commits))
	copy(out, s.commits)
	return out
}

// Branches returns all branches ordered by priority.
func (s *Store) Branches() []Branch {
	out := make([]Branch, len(s.branches))
	copy(out, s.branches)
	return out
}

// Warnings returns the problems recorded while applying instructions.
func (s *Store) Warnings() []Warning {
	return s.warnings
}

// Ancestors returns every commit reachable from the branch head,
// the head included. Unknown or empty branches yield an empty set.
func (s *Store) Ancestors(branch string) map[string]struct{} {
	seen := make(map[string]struct{})
	head, ok := s.BranchHead(branch)
	if !ok {
		return seen
	}

	stack := []string{head}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := seen[id]; done {
			continue
		}
		seen[id] = struct{}{}
		stack = append(stack, s.commits[s.commitIndex[id]].Parents...)
	}
	return seen
}
