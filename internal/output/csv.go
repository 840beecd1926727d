package output

import (
	"strconv"
	"strings"
)

// CSVWriter writes one row per commit.
type CSVWriter struct{}

// Write outputs the commit table as CSV.
func (w *CSVWriter) Write(report *DiagramReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"ID", "Time", "Branch", "Column", "X", "Y", "Parents", "Heads"}); err != nil {
		return err
	}

	v := report.View
	heads := headLabels(v)
	for ci, c := range v.Commits {
		col := v.LaneOf(ci).Column
		x, y := options.Layout.Position(c.Time, col)
		row := []string{
			c.ID,
			strconv.Itoa(c.Time),
			c.Branch,
			strconv.Itoa(col),
			strconv.Itoa(x),
			strconv.Itoa(y),
			strings.Join(parentIDs(v, c), ";"),
			strings.Join(heads[ci], ";"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
