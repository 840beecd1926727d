// Package pikchr generates pikchr diagram markup from a laid-out view.
//
// Commits become circles named C<time>. The first commit of each lane is
// placed absolutely; the rest follow their predecessor after an arrow
// whose length is the gap between circle surfaces. Cross-lane edges are
// routed with at most two elbows and chopped at both circles. Branch
// heads get a chain of label boxes to the right of their commit.
package pikchr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/masmgr/gitpikchr/internal/lanes"
)

// Direction is the axis along which history grows.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionRight Direction = "right"
)

// Options controls geometry. All lengths are in pikchr units.
type Options struct {
	Direction Direction
	// CommitRowSpacing is the distance between consecutive commit times.
	CommitRowSpacing int
	// LaneColumnSpacing is the distance between lane columns and the elbow offset.
	LaneColumnSpacing int
	CommitRadius      int
}

// DefaultOptions returns up-growing history with spacing 3, column spacing 2 and radius 1.
func DefaultOptions() Options {
	return Options{
		Direction:         DirectionUp,
		CommitRowSpacing:  3,
		LaneColumnSpacing: 2,
		CommitRadius:      1,
	}
}

// Position returns the centre of a commit circle at time t in lane column col.
func (o Options) Position(t, col int) (int, int) {
	return o.point(t*o.CommitRowSpacing, col*o.LaneColumnSpacing)
}

// point maps a position along the time axis and the lane axis to x, y.
func (o Options) point(along, across int) (int, int) {
	if o.Direction == DirectionRight {
		return along, -across
	}
	return across, along
}

// Route is how an edge is drawn.
type Route int

const (
	RouteInLane Route = iota
	RouteDirect
	// RouteChildElbow turns near the child, for edges that start a lane.
	RouteChildElbow
	// RouteParentElbow turns near the parent, for edges that leave a lane's first commit.
	RouteParentElbow
)

func (r Route) String() string {
	switch r {
	case RouteInLane:
		return "in-lane"
	case RouteDirect:
		return "direct"
	case RouteChildElbow:
		return "child-elbow"
	case RouteParentElbow:
		return "parent-elbow"
	default:
		return "unknown"
	}
}

// RouteOf classifies an edge.
func RouteOf(e lanes.Edge) Route {
	switch {
	case e.InLane:
		return RouteInLane
	case e.BeginsLane && !e.EndsLane:
		return RouteChildElbow
	case e.EndsLane && !e.BeginsLane:
		return RouteParentElbow
	default:
		return RouteDirect
	}
}

// EmitError reports a failure writing the markup.
type EmitError struct {
	Err error
}

func (e *EmitError) Error() string { return "pikchr: emit: " + e.Err.Error() }

func (e *EmitError) Unwrap() error { return e.Err }

// Emit renders the view as pikchr markup.
func Emit(v *lanes.View, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders the view as pikchr markup into w.
// The first write failure aborts emission and is returned as *EmitError.
func Write(w io.Writer, v *lanes.View, opts Options) error {
	e := &emitter{w: w, v: v, opts: opts}
	e.prologue()
	e.laneChains()
	e.crossLaneEdges()
	e.branchLabels()
	if e.err != nil {
		return &EmitError{Err: e.err}
	}
	return nil
}

type emitter struct {
	w    io.Writer
	v    *lanes.View
	opts Options
	err  error
}

func (e *emitter) line(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

func (e *emitter) prologue() {
	if e.opts.Direction != DirectionRight {
		e.line("up")
	}
	e.line("circlerad = %d", e.opts.CommitRadius)
}

func (e *emitter) laneChains() {
	for _, li := range e.v.ColumnOrder() {
		lane := e.v.Lanes[li]
		for k, ci := range lane.Commits {
			c := e.v.Commits[ci]
			if k == 0 {
				x, y := e.opts.Position(c.Time, lane.Column)
				e.line("%s: circle %s at (%d, %d)", name(ci), quote(c.ID), x, y)
				continue
			}
			prev := lane.Commits[k-1]
			length := (ci-prev)*e.opts.CommitRowSpacing - 2*e.opts.CommitRadius
			e.line("arrow %s %d", e.timeDirection(), length)
			e.line("%s: circle %s", name(ci), quote(c.ID))
		}
	}
}

func (e *emitter) crossLaneEdges() {
	row, col := e.opts.CommitRowSpacing, e.opts.LaneColumnSpacing
	for ci, c := range e.v.Commits {
		childCol := e.v.LaneOf(ci).Column * col
		for _, edge := range c.Parents {
			parentCol := e.v.LaneOf(edge.Parent).Column * col

			var turn int
			switch RouteOf(edge) {
			case RouteInLane:
				continue
			case RouteChildElbow:
				turn = c.Time*row - col
			case RouteParentElbow:
				turn = edge.Parent*row + col
			default:
				e.line("arrow from %s to %s chop", name(edge.Parent), name(ci))
				continue
			}
			x1, y1 := e.opts.point(turn, parentCol)
			x2, y2 := e.opts.point(turn, childCol)
			e.line("arrow from %s to (%d, %d) then to (%d, %d) then to %s chop",
				name(edge.Parent), x1, y1, x2, y2, name(ci))
		}
	}
}

func (e *emitter) branchLabels() {
	for _, h := range e.v.Heads {
		for k, branch := range h.Branches {
			if k == 0 {
				e.line("line from %s.e right %d", name(h.Commit), e.opts.CommitRadius)
			} else {
				e.line("line right %d", e.opts.CommitRadius)
			}
			e.line("box %s fit", quote(branch))
		}
	}
}

func (e *emitter) timeDirection() string {
	if e.opts.Direction == DirectionRight {
		return "right"
	}
	return "up"
}

func name(commit int) string {
	return fmt.Sprintf("C%d", commit)
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
