package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/gitpikchr/internal/history"
	"github.com/masmgr/gitpikchr/internal/lanes"
	"github.com/masmgr/gitpikchr/internal/pikchr"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*PikchrWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*DOTWriter)(nil)
	_ ReportWriter = (*SVGWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*NDJSONWriter)(nil)
	_ ReportWriter = (*ConsoleWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatPikchr   OutputFormat = "pikchr"
	FormatMarkdown OutputFormat = "markdown"
	FormatDOT      OutputFormat = "dot"
	FormatSVG      OutputFormat = "svg"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatNDJSON   OutputFormat = "ndjson"
	FormatConsole  OutputFormat = "console"
)

// Formats lists every supported format.
var Formats = []OutputFormat{
	FormatPikchr, FormatMarkdown, FormatDOT, FormatSVG,
	FormatJSON, FormatCSV, FormatNDJSON, FormatConsole,
}

// ParseFormat converts a string to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatPikchr, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	if strings.EqualFold(s, "md") {
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	Layout     pikchr.Options
}

// DiagramReport is a laid-out history ready for output.
type DiagramReport struct {
	// Source names where the history came from: a file or a repository path.
	Source      string
	GeneratedAt time.Time
	View        *lanes.View
	Warnings    []history.Warning
}

// ReportWriter writes diagram reports.
type ReportWriter interface {
	Write(report *DiagramReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatDOT:
		return &DOTWriter{}
	case FormatSVG:
		return &SVGWriter{}
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatNDJSON:
		return &NDJSONWriter{}
	case FormatConsole:
		return &ConsoleWriter{}
	default:
		return &PikchrWriter{}
	}
}
