package history

import (
	"fmt"
	"strings"
)

// Op identifies the kind of an instruction.
type Op int

const (
	OpBranch Op = iota
	OpCommit
	OpCheckout
	OpMerge
)

// String returns the script keyword of the operation.
func (o Op) String() string {
	switch o {
	case OpBranch:
		return "branch"
	case OpCommit:
		return "commit"
	case OpCheckout:
		return "checkout"
	case OpMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// Instruction is one version-control operation applied to a Store.
type Instruction struct {
	Op Op
	// Name is the branch name for branch/checkout and the commit id for commit/merge.
	Name string
	// Sources lists the additional merge parents, as branch names or commit ids.
	Sources []string
	// At is the commit id or branch a newly created branch points at.
	At string
	// NewRoot creates the branch without a head.
	NewRoot bool
	// Line is the 1-based source line, zero when unknown.
	Line int
}

// NewBranch creates a branch instruction.
func NewBranch(name string) Instruction {
	return Instruction{Op: OpBranch, Name: name}
}

// NewBranchAt creates a branch instruction pointing at ref.
func NewBranchAt(name, ref string) Instruction {
	return Instruction{Op: OpBranch, Name: name, At: ref}
}

// NewCommit creates a commit instruction.
func NewCommit(id string) Instruction {
	return Instruction{Op: OpCommit, Name: id}
}

// Checkout creates a checkout instruction.
func Checkout(name string) Instruction {
	return Instruction{Op: OpCheckout, Name: name}
}

// Merge creates a merge instruction with the given extra parents.
func Merge(id string, sources ...string) Instruction {
	return Instruction{Op: OpMerge, Name: id, Sources: sources}
}

// String renders the instruction in script syntax.
func (i Instruction) String() string {
	args := []string{i.Name}
	switch i.Op {
	case OpMerge:
		args = append(args, i.Sources...)
	case OpBranch, OpCheckout:
		if i.At != "" {
			args = append(args, "at="+i.At)
		}
		if i.NewRoot {
			args = append(args, "new_root=true")
		}
	}
	return fmt.Sprintf("%s(%s)", i.Op, strings.Join(args, ", "))
}

// Warning is a non-fatal problem found while applying an instruction.
type Warning struct {
	Line    int
	Message string
}

// String formats the warning with its line number when known.
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return w.Message
}
