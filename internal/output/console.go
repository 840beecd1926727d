package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes a human-readable lane summary.
type ConsoleWriter struct{}

// Write outputs the lane table to the console.
func (w *ConsoleWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	v := report.View
	headOf := make(map[string]string)
	for _, h := range v.Heads {
		for _, b := range h.Branches {
			headOf[b] = v.Commits[h.Commit].ID
		}
	}

	cross := 0
	for _, c := range v.Commits {
		for _, e := range c.Parents {
			if !e.InLane {
				cross++
			}
		}
	}

	color.New(color.FgGreen).Fprintln(out, "Commit Graph Layout")
	if report.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", report.Source)
	}
	fmt.Fprintf(out, "Commits: %d, Lanes: %d, Columns: %d, Cross-lane edges: %d\n\n",
		len(v.Commits), len(v.Lanes), v.Columns(), cross)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tBranch\tColumn\tCommits\tFirst\tLast\tHead")
	for i, li := range v.ColumnOrder() {
		lane := v.Lanes[li]
		first, last := "-", "-"
		if f, l, ok := lane.Span(); ok {
			first, last = v.Commits[f].ID, v.Commits[l].ID
		}
		head := headOf[lane.Branch]
		if head == "" {
			head = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			i+1,
			truncateMessage(lane.Branch, 40),
			lane.Column,
			len(lane.Commits),
			truncateMessage(first, 12),
			truncateMessage(last, 12),
			truncateMessage(head, 12),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(out)
		yellow := color.New(color.FgYellow)
		for _, warn := range report.Warnings {
			yellow.Fprintf(out, "warning: %s\n", warn)
		}
	}

	return nil
}
