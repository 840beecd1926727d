package pikchr

import (
	"errors"
	"strings"
	"testing"

	"github.com/masmgr/gitpikchr/internal/history"
	"github.com/masmgr/gitpikchr/internal/lanes"
)

func view(instructions ...history.Instruction) *lanes.View {
	return lanes.Build(history.Build(instructions), lanes.Options{})
}

func featureMerge() *lanes.View {
	return view(
		history.NewCommit("A"),
		history.Checkout("feature"),
		history.NewCommit("B"),
		history.NewCommit("B2"),
		history.Checkout("main"),
		history.NewCommit("C"),
		history.Merge("M", "feature"),
	)
}

func TestEmit_SingleCommit(t *testing.T) {
	out, err := Emit(view(history.NewCommit("A")), DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	expected := strings.Join([]string{
		"up",
		"circlerad = 1",
		`C0: circle "A" at (0, 0)`,
		"line from C0.e right 1",
		`box "main" fit`,
		"",
	}, "\n")
	if out != expected {
		t.Errorf("Emit() =\n%s\nexpected\n%s", out, expected)
	}
	if n := strings.Count(out, " at ("); n != 1 {
		t.Errorf("absolute circles = %d, expected 1", n)
	}
	if strings.Contains(out, "arrow") {
		t.Error("single commit should produce no arrows")
	}
}

func TestEmit_Empty(t *testing.T) {
	out, err := Emit(view(), DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if out != "up\ncirclerad = 1\n" {
		t.Errorf("Emit(empty) = %q, expected prologue only", out)
	}
}

func TestEmit_DirectCrossLaneArrows(t *testing.T) {
	v := view(
		history.NewCommit("A"),
		history.Checkout("feature"),
		history.NewCommit("B"),
		history.Checkout("main"),
		history.NewCommit("C"),
		history.Merge("M", "feature"),
	)
	out, err := Emit(v, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	expected := strings.Join([]string{
		"up",
		"circlerad = 1",
		`C0: circle "A" at (0, 0)`,
		"arrow up 4",
		`C2: circle "C"`,
		"arrow up 1",
		`C3: circle "M"`,
		`C1: circle "B" at (2, 3)`,
		"arrow from C0 to C1 chop",
		"arrow from C1 to C3 chop",
		"line from C1.e right 1",
		`box "feature" fit`,
		"line from C3.e right 1",
		`box "main" fit`,
		"",
	}, "\n")
	if out != expected {
		t.Errorf("Emit() =\n%s\nexpected\n%s", out, expected)
	}
}

func TestEmit_ElbowRouting(t *testing.T) {
	out, err := Emit(featureMerge(), DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	tests := []struct {
		name     string
		expected string
	}{
		{name: "Parent-side elbow", expected: "arrow from C0 to (0, 2) then to (2, 2) then to C1 chop"},
		{name: "Child-side elbow", expected: "arrow from C2 to (2, 10) then to (0, 10) then to C4 chop"},
		{name: "Lane arrow across gap", expected: "arrow up 7"},
		{name: "Second lane anchor", expected: `C1: circle "B" at (2, 3)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.expected+"\n") {
				t.Errorf("output missing %q:\n%s", tt.expected, out)
			}
		})
	}
	if n := strings.Count(out, "then to"); n != 4 {
		t.Errorf("elbow segments = %d, expected 4", n)
	}
}

func TestEmit_DirectionRight(t *testing.T) {
	opts := DefaultOptions()
	opts.Direction = DirectionRight
	out, err := Emit(featureMerge(), opts)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if strings.HasPrefix(out, "up\n") {
		t.Error("right direction should not emit a vertical directive")
	}
	for _, want := range []string{
		"circlerad = 1\n",
		`C1: circle "B" at (3, -2)` + "\n",
		"arrow right 7\n",
		"arrow from C0 to (2, 0) then to (2, -2) then to C1 chop\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmit_CustomSpacing(t *testing.T) {
	opts := Options{Direction: DirectionUp, CommitRowSpacing: 10, LaneColumnSpacing: 5, CommitRadius: 2}
	out, err := Emit(featureMerge(), opts)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	for _, want := range []string{
		"circlerad = 2\n",
		"arrow up 26\n",
		`C1: circle "B" at (5, 10)` + "\n",
		"line from C4.e right 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmit_InLaneEdgesHaveNoElbow(t *testing.T) {
	v := view(history.NewCommit("A"), history.NewCommit("B"), history.NewCommit("C"))
	out, err := Emit(v, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Contains(out, "then to") || strings.Contains(out, "chop") {
		t.Errorf("single lane output has cross-lane routing:\n%s", out)
	}
	if n := strings.Count(out, "arrow up 1\n"); n != 2 {
		t.Errorf("lane arrows = %d, expected 2", n)
	}
}

func TestEmit_SharedHeadLabelsChain(t *testing.T) {
	v := view(history.NewCommit("A"), history.NewBranch("release"), history.NewBranch("tag"))
	out, err := Emit(v, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	expected := strings.Join([]string{
		"line from C0.e right 1",
		`box "main" fit`,
		"line right 1",
		`box "release" fit`,
		"line right 1",
		`box "tag" fit`,
		"",
	}, "\n")
	if !strings.HasSuffix(out, expected) {
		t.Errorf("labels =\n%s\nexpected suffix\n%s", out, expected)
	}
}

func TestEmit_QuotesLabels(t *testing.T) {
	v := view(history.Checkout(`say "hi"`), history.NewCommit(`a\b`))
	out, err := Emit(v, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, `C0: circle "a\\b" at (0, 0)`) {
		t.Errorf("commit label not escaped:\n%s", out)
	}
	if !strings.Contains(out, `box "say \"hi\"" fit`) {
		t.Errorf("branch label not escaped:\n%s", out)
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := Write(&failingWriter{after: 2}, featureMerge(), DefaultOptions())
	if err == nil {
		t.Fatal("Write succeeded, expected error")
	}
	var emitErr *EmitError
	if !errors.As(err, &emitErr) {
		t.Fatalf("error %T is not *EmitError", err)
	}
	if emitErr.Err.Error() != "disk full" {
		t.Errorf("cause = %v, expected disk full", emitErr.Err)
	}
}

func TestRouteOf(t *testing.T) {
	tests := []struct {
		name     string
		edge     lanes.Edge
		expected Route
	}{
		{name: "Same lane", edge: lanes.Edge{InLane: true, EndsLane: true, BeginsLane: true}, expected: RouteInLane},
		{name: "Lane start", edge: lanes.Edge{BeginsLane: true}, expected: RouteChildElbow},
		{name: "Leaves first commit", edge: lanes.Edge{EndsLane: true}, expected: RouteParentElbow},
		{name: "Both ends", edge: lanes.Edge{EndsLane: true, BeginsLane: true}, expected: RouteDirect},
		{name: "Neither end", edge: lanes.Edge{}, expected: RouteDirect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RouteOf(tt.edge); got != tt.expected {
				t.Errorf("RouteOf(%+v) = %v, expected %v", tt.edge, got, tt.expected)
			}
		})
	}
}

func TestOptions_Position(t *testing.T) {
	up := DefaultOptions()
	if x, y := up.Position(4, 1); x != 2 || y != 12 {
		t.Errorf("up Position(4, 1) = (%d, %d), expected (2, 12)", x, y)
	}
	right := DefaultOptions()
	right.Direction = DirectionRight
	if x, y := right.Position(4, 1); x != 12 || y != -2 {
		t.Errorf("right Position(4, 1) = (%d, %d), expected (12, -2)", x, y)
	}
}
