package sheetmap

import (
	"io"
	"strings"
	"unicode/utf8"
)

// StringColumnWidths returns the column widths of the passed
// rows as count of UTF-8 runes.
// If numCols is negative, then the number of columns
// of the longest row is used.
// Rows shorter than numCols count as empty strings
// for the missing columns.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			numCols = max(numCols, len(row))
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for col := 0; col < numCols && col < len(row); col++ {
			colWidths[col] = max(colWidths[col], utf8.RuneCountInString(row[col]))
		}
	}
	return colWidths
}

// writeAlignedRows writes rows as lines with the columns
// left aligned to colWidths and separated by " | ".
// Trailing spaces are removed and nil rows are written as empty lines.
func writeAlignedRows(w io.StringWriter, rows [][]string, colWidths []int) error {
	var line strings.Builder
	for _, row := range rows {
		line.Reset()
		if row != nil {
			for col, width := range colWidths {
				if col > 0 {
					line.WriteString(" | ")
				}
				var str string
				if col < len(row) {
					str = row[col]
				}
				line.WriteString(str)
				line.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(str)))
			}
		}
		if _, err := w.WriteString(strings.TrimRight(line.String(), " ") + "\n"); err != nil {
			return err
		}
	}
	return nil
}
