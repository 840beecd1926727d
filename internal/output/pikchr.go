package output

import (
	"fmt"
	"io"

	"github.com/masmgr/gitpikchr/internal/pikchr"
)

// PikchrWriter writes the diagram as raw pikchr markup.
type PikchrWriter struct{}

// Write outputs the pikchr markup.
func (w *PikchrWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return pikchr.Write(out, report.View, options.Layout)
}

// MarkdownWriter writes the diagram as a fenced pikchr block followed by a
// branch table.
type MarkdownWriter struct{}

// Write outputs the Markdown document.
func (w *MarkdownWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeMarkdown(out, report, options)
}

func writeMarkdown(out io.Writer, report *DiagramReport, options OutputOptions) error {
	v := report.View

	if report.Source != "" {
		fmt.Fprintf(out, "## %s\n\n", escapeMarkdown(report.Source))
	}
	fmt.Fprintln(out, "```pikchr")
	if err := pikchr.Write(out, v, options.Layout); err != nil {
		return err
	}
	fmt.Fprintln(out, "```")

	if len(v.Lanes) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| Branch | Column | Commits | Latest |")
	fmt.Fprintln(out, "|--------|--------|---------|--------|")
	for _, li := range v.ColumnOrder() {
		lane := v.Lanes[li]
		latest := "-"
		if n := len(lane.Commits); n > 0 {
			latest = escapeMarkdown(v.Commits[lane.Commits[n-1]].ID)
		}
		fmt.Fprintf(out, "| %s | %d | %d | %s |\n", escapeMarkdown(lane.Branch), lane.Column, len(lane.Commits), latest)
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "**Warnings:**")
		fmt.Fprintln(out)
		for _, warn := range report.Warnings {
			fmt.Fprintf(out, "- %s\n", escapeMarkdown(warn.String()))
		}
	}
	return nil
}
