package output

import "github.com/masmgr/gitpikchr/internal/pikchr"

// NDJSONWriter writes the layout as NDJSON (one JSON object per line) for
// scripting and CI pipelines.
type NDJSONWriter struct{}

// NDJSONSummary is the first line of NDJSON output, containing aggregate statistics.
type NDJSONSummary struct {
	Type           string `json:"type"`
	Commits        int    `json:"commits"`
	Lanes          int    `json:"lanes"`
	Columns        int    `json:"columns"`
	Edges          int    `json:"edges"`
	CrossLaneEdges int    `json:"crossLaneEdges"`
	Warnings       int    `json:"warnings"`
}

// NDJSONEdge is one parent link.
type NDJSONEdge struct {
	Type  string `json:"type"`
	From  string `json:"from"`
	To    string `json:"to"`
	Route string `json:"route"`
}

// NDJSONWarning is one structural warning from the history.
type NDJSONWarning struct {
	Type    string `json:"type"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Write outputs the summary, then edges, then warnings.
func (w *NDJSONWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	v := report.View
	var edges []NDJSONEdge
	cross := 0
	for ci, c := range v.Commits {
		for _, e := range c.Parents {
			route := pikchr.RouteOf(e)
			if route != pikchr.RouteInLane {
				cross++
			}
			edges = append(edges, NDJSONEdge{
				Type:  "edge",
				From:  v.Commits[e.Parent].ID,
				To:    v.Commits[ci].ID,
				Route: route.String(),
			})
		}
	}

	summary := NDJSONSummary{
		Type:           "summary",
		Commits:        len(v.Commits),
		Lanes:          len(v.Lanes),
		Columns:        v.Columns(),
		Edges:          len(edges),
		CrossLaneEdges: cross,
		Warnings:       len(report.Warnings),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, e := range edges {
		if err := writeNDJSONLine(out, e); err != nil {
			return err
		}
	}

	for _, warn := range report.Warnings {
		if err := writeNDJSONLine(out, NDJSONWarning{Type: "warning", Line: warn.Line, Message: warn.Message}); err != nil {
			return err
		}
	}

	return nil
}
