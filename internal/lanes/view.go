// Package lanes turns a finished history into a drawable view: commits are
// grouped into per-branch lanes, every parent edge is classified as in-lane
// or cross-lane, and lanes are assigned columns.
//
// Commits, lanes and edges refer to each other through indexes into the
// view's commit arena, so a commit shared by several edges exists once.
package lanes

import (
	"fmt"
	"sort"

	"github.com/masmgr/gitpikchr/internal/history"
)

// Edge is a parent link of a commit, decorated with lane metadata.
type Edge struct {
	// Parent indexes View.Commits.
	Parent int
	// EndsLane is set when the parent is the first commit of its lane.
	EndsLane bool
	// BeginsLane is set when the child is the last commit of its lane.
	BeginsLane bool
	// InLane is set when parent and child share a lane.
	InLane bool
}

// Commit is a commit placed in the view. Its index in View.Commits equals Time.
type Commit struct {
	ID      string
	Time    int
	Branch  string
	Lane    int
	Parents []Edge
}

// Lane is the run of commits drawn on one branch's track.
type Lane struct {
	Branch   string
	Priority int
	Column   int
	// Commits indexes View.Commits, oldest first.
	Commits []int
}

// Span returns the times of the first and last commit of the lane.
func (l Lane) Span() (first, last int, ok bool) {
	if len(l.Commits) == 0 {
		return 0, 0, false
	}
	return l.Commits[0], l.Commits[len(l.Commits)-1], true
}

// BranchHead groups the branches pointing at one commit.
type BranchHead struct {
	Commit   int
	Branches []string
}

// View is the laid-out, read-only picture of a history.
type View struct {
	Commits []Commit
	Lanes   []Lane
	Heads   []BranchHead

	index map[string]int
}

// Options controls view construction.
type Options struct {
	// PackLanes lets lanes whose time ranges do not overlap share a column.
	PackLanes bool
}

// CommitByID returns the commit with the given id.
func (v *View) CommitByID(id string) (Commit, bool) {
	i, ok := v.index[id]
	if !ok {
		return Commit{}, false
	}
	return v.Commits[i], true
}

// LaneOf returns the lane a commit was placed in.
func (v *View) LaneOf(commit int) Lane {
	return v.Lanes[v.Commits[commit].Lane]
}

// Columns returns the number of columns used.
func (v *View) Columns() int {
	n := 0
	for _, l := range v.Lanes {
		if l.Column+1 > n {
			n = l.Column + 1
		}
	}
	return n
}

// ColumnOrder returns lane indexes sorted by column, then priority.
func (v *View) ColumnOrder() []int {
	order := make([]int, len(v.Lanes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		la, lb := v.Lanes[order[a]], v.Lanes[order[b]]
		if la.Column != lb.Column {
			return la.Column < lb.Column
		}
		return la.Priority < lb.Priority
	})
	return order
}

// Overlaps reports whether the time ranges of two lanes intersect.
// Empty lanes never overlap.
func Overlaps(a, b Lane) bool {
	aFirst, aLast, ok := a.Span()
	if !ok {
		return false
	}
	bFirst, bLast, ok := b.Span()
	if !ok {
		return false
	}
	return aFirst <= bLast && bFirst <= aLast
}

func (v *View) mustIndex(id string) int {
	i, ok := v.index[id]
	if !ok {
		panic(fmt.Sprintf("lanes: commit %q referenced but not in history", id))
	}
	return i
}

// Build lays out a finished history. The store is only read.
// A history that violates the store's invariants makes Build panic.
func Build(s *history.Store, opts Options) *View {
	commits := timeOrder(s.Commits())
	v := &View{
		Commits: make([]Commit, len(commits)),
		index:   make(map[string]int, len(commits)),
	}
	for i, c := range commits {
		v.index[c.ID] = i
	}

	branches := s.Branches()
	laneOf := make([]int, len(commits))
	for i := range laneOf {
		laneOf[i] = -1
	}

	for _, b := range branches {
		lane := Lane{Branch: b.Name, Priority: b.Priority, Column: b.Priority}
		id := b.Head
		for id != "" {
			i := v.mustIndex(id)
			c := commits[i]
			if c.Branch != b.Name || laneOf[i] != -1 {
				break
			}
			laneOf[i] = len(v.Lanes)
			lane.Commits = append(lane.Commits, i)
			if len(c.Parents) == 0 {
				break
			}
			id = c.Parents[0]
		}
		reverse(lane.Commits)
		v.Lanes = append(v.Lanes, lane)
	}

	firstOfLane := make(map[int]bool)
	lastOfLane := make(map[int]bool)
	for _, l := range v.Lanes {
		if first, last, ok := l.Span(); ok {
			firstOfLane[first] = true
			lastOfLane[last] = true
		}
	}

	for i, c := range commits {
		if laneOf[i] == -1 {
			panic(fmt.Sprintf("lanes: commit %q is not reachable from branch %q", c.ID, c.Branch))
		}
		edges := make([]Edge, 0, len(c.Parents))
		for _, p := range c.Parents {
			pi := v.mustIndex(p)
			edges = append(edges, Edge{
				Parent:     pi,
				EndsLane:   firstOfLane[pi],
				BeginsLane: lastOfLane[i],
				InLane:     laneOf[i] == laneOf[pi],
			})
		}
		v.Commits[i] = Commit{
			ID:      c.ID,
			Time:    c.Time,
			Branch:  c.Branch,
			Lane:    laneOf[i],
			Parents: edges,
		}
	}

	if opts.PackLanes {
		packColumns(v.Lanes)
	}

	v.Heads = groupHeads(v, branches)
	return v
}

// timeOrder places commits by their time. Times are a dense permutation
// of 0..n-1, so no sorting is needed.
func timeOrder(commits []history.Commit) []history.Commit {
	out := make([]history.Commit, len(commits))
	placed := make([]bool, len(commits))
	for _, c := range commits {
		if c.Time < 0 || c.Time >= len(out) || placed[c.Time] {
			panic(fmt.Sprintf("lanes: commit %q has invalid time %d", c.ID, c.Time))
		}
		out[c.Time] = c
		placed[c.Time] = true
	}
	return out
}

// packColumns assigns each lane, in priority order, the smallest column
// holding no time-overlapping lane. First fit, not optimal.
func packColumns(lanes []Lane) {
	var columns [][]int
	for i := range lanes {
		placed := false
		for col, members := range columns {
			free := true
			for _, m := range members {
				if Overlaps(lanes[i], lanes[m]) {
					free = false
					break
				}
			}
			if free {
				columns[col] = append(columns[col], i)
				lanes[i].Column = col
				placed = true
				break
			}
		}
		if !placed {
			lanes[i].Column = len(columns)
			columns = append(columns, []int{i})
		}
	}
}

func groupHeads(v *View, branches []history.Branch) []BranchHead {
	byCommit := make(map[int]int)
	var heads []BranchHead
	for _, b := range branches {
		if b.Head == "" {
			continue
		}
		ci := v.mustIndex(b.Head)
		if hi, ok := byCommit[ci]; ok {
			heads[hi].Branches = append(heads[hi].Branches, b.Name)
			continue
		}
		byCommit[ci] = len(heads)
		heads = append(heads, BranchHead{Commit: ci, Branches: []string{b.Name}})
	}
	sort.SliceStable(heads, func(a, b int) bool {
		return heads[a].Commit < heads[b].Commit
	})
	return heads
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
