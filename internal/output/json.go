package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/masmgr/gitpikchr/internal/pikchr"
)

// JSONWriter writes the full layout as JSON.
type JSONWriter struct{}

// JSONReport is the JSON output structure for a laid-out history.
type JSONReport struct {
	Source      string       `json:"source,omitempty"`
	GeneratedAt string       `json:"generatedAt"`
	Direction   string       `json:"direction"`
	Columns     int          `json:"columns"`
	Commits     []JSONCommit `json:"commits"`
	Lanes       []JSONLane   `json:"lanes"`
	Heads       []JSONHead   `json:"heads"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// JSONCommit is one placed commit.
type JSONCommit struct {
	ID      string     `json:"id"`
	Time    int        `json:"time"`
	Branch  string     `json:"branch"`
	Column  int        `json:"column"`
	X       int        `json:"x"`
	Y       int        `json:"y"`
	Parents []JSONEdge `json:"parents"`
}

// JSONEdge is a parent link with its routing.
type JSONEdge struct {
	ID    string `json:"id"`
	Route string `json:"route"`
}

// JSONLane is a branch's run of commits.
type JSONLane struct {
	Branch   string   `json:"branch"`
	Priority int      `json:"priority"`
	Column   int      `json:"column"`
	Commits  []string `json:"commits"`
}

// JSONHead is a commit carrying branch labels.
type JSONHead struct {
	Commit   string   `json:"commit"`
	Branches []string `json:"branches"`
}

// Write outputs the layout as JSON.
func (w *JSONWriter) Write(report *DiagramReport, options OutputOptions) error {
	return writeJSON(buildJSONReport(report, options.Layout), options.OutputPath)
}

func buildJSONReport(report *DiagramReport, layout pikchr.Options) JSONReport {
	v := report.View
	out := JSONReport{
		Source:      report.Source,
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		Direction:   string(layout.Direction),
		Columns:     v.Columns(),
		Commits:     make([]JSONCommit, 0, len(v.Commits)),
		Lanes:       make([]JSONLane, 0, len(v.Lanes)),
		Heads:       make([]JSONHead, 0, len(v.Heads)),
	}

	for ci, c := range v.Commits {
		col := v.LaneOf(ci).Column
		x, y := layout.Position(c.Time, col)
		parents := make([]JSONEdge, 0, len(c.Parents))
		for _, e := range c.Parents {
			parents = append(parents, JSONEdge{ID: v.Commits[e.Parent].ID, Route: pikchr.RouteOf(e).String()})
		}
		out.Commits = append(out.Commits, JSONCommit{
			ID:      c.ID,
			Time:    c.Time,
			Branch:  c.Branch,
			Column:  col,
			X:       x,
			Y:       y,
			Parents: parents,
		})
	}

	for _, l := range v.Lanes {
		ids := make([]string, 0, len(l.Commits))
		for _, ci := range l.Commits {
			ids = append(ids, v.Commits[ci].ID)
		}
		out.Lanes = append(out.Lanes, JSONLane{Branch: l.Branch, Priority: l.Priority, Column: l.Column, Commits: ids})
	}

	for _, h := range v.Heads {
		out.Heads = append(out.Heads, JSONHead{Commit: v.Commits[h.Commit].ID, Branches: h.Branches})
	}

	for _, warn := range report.Warnings {
		out.Warnings = append(out.Warnings, warn.String())
	}
	return out
}

func writeJSON(data interface{}, outputPath string) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if outputPath != "" {
		return os.WriteFile(outputPath, jsonData, 0644)
	}

	fmt.Println(string(jsonData))
	return nil
}
