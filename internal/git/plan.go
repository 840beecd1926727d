package git

import (
	"sort"

	"github.com/masmgr/gitpikchr/internal/history"
)

// PlanOptions controls how a snapshot becomes an instruction stream.
type PlanOptions struct {
	// MaxCommits keeps only the newest N commits; zero keeps all.
	MaxCommits int
	// Abbrev shortens commit ids to this many characters; zero keeps full SHAs.
	Abbrev int
}

// Plan turns a snapshot into instructions that rebuild its graph.
//
// Branches are ranked with the checked out branch first and the rest by
// name. Each commit belongs to the first branch whose first-parent chain
// reaches it; commits reachable only through merges get a branch named
// merged/<tip> after the tip of their chain. Parents outside the kept
// commits are dropped.
func Plan(s *Snapshot, opts PlanOptions) []history.Instruction {
	p := newPlanner(s, opts)
	p.assignOwners()
	return p.instructions()
}

type planner struct {
	opts     PlanOptions
	branches []BranchRef
	byID     map[string]CommitInfo
	kept     map[string]bool
	order    []string

	owner  map[string]string
	owning []string
}

func newPlanner(s *Snapshot, opts PlanOptions) *planner {
	p := &planner{
		opts:     opts,
		branches: rankBranches(s),
		byID:     make(map[string]CommitInfo, len(s.Commits)),
		kept:     make(map[string]bool, len(s.Commits)),
		owner:    make(map[string]string, len(s.Commits)),
	}
	for _, c := range s.Commits {
		p.byID[c.SHA] = c
	}

	commits := make([]CommitInfo, len(s.Commits))
	copy(commits, s.Commits)
	sort.Slice(commits, func(i, j int) bool {
		if !commits[i].When.Equal(commits[j].When) {
			return commits[i].When.After(commits[j].When)
		}
		return commits[i].SHA < commits[j].SHA
	})
	if opts.MaxCommits > 0 && len(commits) > opts.MaxCommits {
		commits = commits[:opts.MaxCommits]
	}
	for _, c := range commits {
		p.kept[c.SHA] = true
	}

	p.order = p.topoOrder(commits)
	return p
}

func rankBranches(s *Snapshot) []BranchRef {
	out := make([]BranchRef, len(s.Branches))
	copy(out, s.Branches)
	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := out[i].Name == s.Head, out[j].Name == s.Head
		if hi != hj {
			return hi
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// topoOrder lists kept commits parents first, oldest first among
// unrelated commits. The depth-first walk keeps its own stack so long
// histories do not grow the goroutine stack.
func (p *planner) topoOrder(newestFirst []CommitInfo) []string {
	type frame struct {
		id   string
		next int
	}

	order := make([]string, 0, len(newestFirst))
	visited := make(map[string]bool, len(newestFirst))
	var stack []frame

	for i := len(newestFirst) - 1; i >= 0; i-- {
		root := newestFirst[i].SHA
		if visited[root] || !p.kept[root] {
			continue
		}
		visited[root] = true
		stack = append(stack, frame{id: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := p.byID[top.id].Parents
			if top.next < len(parents) {
				parent := parents[top.next]
				top.next++
				if !visited[parent] && p.kept[parent] {
					visited[parent] = true
					stack = append(stack, frame{id: parent})
				}
				continue
			}
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

func (p *planner) firstParent(id string) string {
	parents := p.byID[id].Parents
	if len(parents) == 0 {
		return ""
	}
	return parents[0]
}

func (p *planner) claim(tip, branch string) {
	claimed := false
	for id := tip; p.kept[id] && p.owner[id] == ""; id = p.firstParent(id) {
		p.owner[id] = branch
		claimed = true
	}
	if claimed {
		p.owning = append(p.owning, branch)
	}
}

func (p *planner) assignOwners() {
	for _, b := range p.branches {
		p.claim(b.Head, b.Name)
	}
	for i := len(p.order) - 1; i >= 0; i-- {
		id := p.order[i]
		if p.owner[id] == "" {
			p.claim(id, "merged/"+p.display(id))
		}
	}
}

func (p *planner) display(id string) string {
	if p.opts.Abbrev > 0 && len(id) > p.opts.Abbrev {
		return id[:p.opts.Abbrev]
	}
	return id
}

func (p *planner) instructions() []history.Instruction {
	var out []history.Instruction

	// Creating every owning branch up front fixes their priorities. With no
	// commits yet they all start empty, and the first one is active.
	for _, name := range p.owning {
		out = append(out, history.NewBranch(name))
	}

	active := ""
	if len(p.owning) > 0 {
		active = p.owning[0]
	}
	started := make(map[string]bool, len(p.owning))
	for _, id := range p.order {
		branch := p.owner[id]
		if branch != active {
			out = append(out, history.Checkout(branch))
			active = branch
		}

		// On a started branch the head already is the first parent.
		var sources []string
		for k, parent := range p.byID[id].Parents {
			if !p.kept[parent] || (k == 0 && started[branch]) {
				continue
			}
			sources = append(sources, p.display(parent))
		}
		if len(sources) == 0 {
			out = append(out, history.NewCommit(p.display(id)))
		} else {
			out = append(out, history.Merge(p.display(id), sources...))
		}
		started[branch] = true
	}

	owns := make(map[string]bool, len(p.owning))
	for _, name := range p.owning {
		owns[name] = true
	}
	for _, b := range p.branches {
		if !owns[b.Name] && p.kept[b.Head] {
			out = append(out, history.NewBranchAt(b.Name, p.display(b.Head)))
		}
	}
	return out
}
