package output

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/masmgr/gitpikchr/internal/lanes"
	"github.com/masmgr/gitpikchr/internal/pikchr"
)

// DOTWriter writes the history as a Graphviz digraph.
type DOTWriter struct{}

// Write outputs the DOT source.
func (w *DOTWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	_, err = out.Write([]byte(ToDOT(report.View, options.Layout)))
	return err
}

// SVGWriter renders the DOT graph to SVG with Graphviz.
type SVGWriter struct{}

// Write outputs the rendered SVG.
func (w *SVGWriter) Write(report *DiagramReport, options OutputOptions) error {
	svg, err := RenderSVG(context.Background(), ToDOT(report.View, options.Layout))
	if err != nil {
		return err
	}

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	_, err = out.Write(svg)
	return err
}

// ToDOT converts a view to Graphviz DOT. Each lane becomes a node group so
// Graphviz keeps its commits aligned; cross-lane edges are dashed and
// branch heads hang off their commit as boxes.
func ToDOT(v *lanes.View, layout pikchr.Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if layout.Direction == pikchr.DirectionRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=BT;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, fontsize=12];\n")
	buf.WriteString("\n")

	for _, li := range v.ColumnOrder() {
		lane := v.Lanes[li]
		for _, ci := range lane.Commits {
			fmt.Fprintf(&buf, "  %q [label=%q, group=%q];\n", nodeID(ci), v.Commits[ci].ID, lane.Branch)
		}
	}

	buf.WriteString("\n")
	for ci, c := range v.Commits {
		for _, e := range c.Parents {
			if pikchr.RouteOf(e) == pikchr.RouteInLane {
				fmt.Fprintf(&buf, "  %q -> %q [weight=10];\n", nodeID(e.Parent), nodeID(ci))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", nodeID(e.Parent), nodeID(ci))
			}
		}
	}

	for _, h := range v.Heads {
		for _, branch := range h.Branches {
			label := "head:" + branch
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box];\n", label, branch)
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none, style=dotted];\n", nodeID(h.Commit), label)
			fmt.Fprintf(&buf, "  { rank=same; %q; %q; }\n", nodeID(h.Commit), label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(commit int) string {
	return fmt.Sprintf("C%d", commit)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
