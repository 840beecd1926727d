package script

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/masmgr/gitpikchr/internal/history"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected history.Instruction
	}{
		{
			name:     "Commit",
			input:    "commit(A)",
			expected: history.Instruction{Op: history.OpCommit, Name: "A", Line: 1},
		},
		{
			name:     "Branch",
			input:    "branch(feature)",
			expected: history.Instruction{Op: history.OpBranch, Name: "feature", Line: 1},
		},
		{
			name:     "Branch at commit",
			input:    "branch(feature, at=A)",
			expected: history.Instruction{Op: history.OpBranch, Name: "feature", At: "A", Line: 1},
		},
		{
			name:     "Branch new root",
			input:    "branch(docs, new_root=true)",
			expected: history.Instruction{Op: history.OpBranch, Name: "docs", NewRoot: true, Line: 1},
		},
		{
			name:     "Checkout with spacing",
			input:    "  checkout ( feature/x , at = main )  ",
			expected: history.Instruction{Op: history.OpCheckout, Name: "feature/x", At: "main", Line: 1},
		},
		{
			name:     "Merge with several sources",
			input:    "merge(M, feature, B)",
			expected: history.Instruction{Op: history.OpMerge, Name: "M", Sources: []string{"feature", "B"}, Line: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.input, 1)
			if err != nil {
				t.Fatalf("ParseLine(%q): %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseLine(%q) = %+v, expected %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ErrorKind
	}{
		{name: "Not an instruction", input: "hello", expected: KindInvalidInstruction},
		{name: "Unknown command", input: "rebase(main)", expected: KindInvalidInstruction},
		{name: "Commit without id", input: "commit()", expected: KindWrongArgumentCount},
		{name: "Commit with two ids", input: "commit(A, B)", expected: KindWrongArgumentCount},
		{name: "Merge without source", input: "merge(M)", expected: KindWrongArgumentCount},
		{name: "Merge with named arg", input: "merge(M, a, at=B)", expected: KindWrongArgumentCount},
		{name: "Branch without name", input: "branch(at=A)", expected: KindWrongArgumentCount},
		{name: "Unknown named arg", input: "branch(x, color=red)", expected: KindInvalidArgument},
		{name: "Bad boolean", input: "branch(x, new_root=maybe)", expected: KindInvalidArgument},
		{name: "Empty argument", input: "merge(M,,a)", expected: KindInvalidArgument},
		{name: "Plain after named", input: "branch(at=A, x)", expected: KindPlainAfterNamed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.input, 7)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ParseLine(%q) error = %v, expected *ParseError", tt.input, err)
			}
			if pe.Kind != tt.expected {
				t.Errorf("Kind = %v, expected %v", pe.Kind, tt.expected)
			}
			if pe.Line != 7 {
				t.Errorf("Line = %d, expected 7", pe.Line)
			}
		})
	}
}

func TestParse_SkipsCommentsAndBlankLines(t *testing.T) {
	src := `# history
commit(A)

  # feature work
checkout(feature)
commit(B)
`
	got, err := ParseString(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, expected 3", len(got))
	}
	lines := []int{got[0].Line, got[1].Line, got[2].Line}
	if !reflect.DeepEqual(lines, []int{2, 5, 6}) {
		t.Errorf("lines = %v, expected [2 5 6]", lines)
	}
}

func TestParse_ReportsFailingLine(t *testing.T) {
	_, err := ParseString("commit(A)\ncommit(B)\nbogus\n")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, expected *ParseError", err)
	}
	if pe.Line != 3 {
		t.Errorf("Line = %d, expected 3", pe.Line)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Error() = %q, expected line number", err.Error())
	}
}

func TestParse_MatchesDirectApplication(t *testing.T) {
	src := "commit(A)\ncheckout(feature)\ncommit(B)\ncheckout(main)\ncommit(C)\nmerge(M, feature)\n"
	parsed, err := ParseString(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	direct := history.Build([]history.Instruction{
		history.NewCommit("A"),
		history.Checkout("feature"),
		history.NewCommit("B"),
		history.Checkout("main"),
		history.NewCommit("C"),
		history.Merge("M", "feature"),
	})
	fromScript := history.Build(parsed)

	if !reflect.DeepEqual(fromScript.Commits(), direct.Commits()) {
		t.Errorf("commits = %+v, expected %+v", fromScript.Commits(), direct.Commits())
	}
	if !reflect.DeepEqual(fromScript.Branches(), direct.Branches()) {
		t.Errorf("branches = %+v, expected %+v", fromScript.Branches(), direct.Branches())
	}
}

func TestFormat(t *testing.T) {
	in := []history.Instruction{
		history.NewCommit("A"),
		history.NewBranchAt("feature", "A"),
		{Op: history.OpBranch, Name: "docs", NewRoot: true},
		history.Checkout("feature"),
		history.Merge("M", "docs", "A"),
	}
	expected := "commit(A)\nbranch(feature, at=A)\nbranch(docs, new_root=true)\ncheckout(feature)\nmerge(M, docs, A)\n"

	if got := Format(in); got != expected {
		t.Errorf("Format() =\n%s\nexpected\n%s", got, expected)
	}
}
