package sheetmap

import (
	"fmt"
	"strings"
)

// FieldIssue describes a cell value that could not be assigned
// to its field. The field keeps its zero value.
type FieldIssue struct {
	Row        int
	Column     int
	ColumnName string
	Field      string
	Value      any
	Err        error
}

func (i FieldIssue) Error() string {
	return fmt.Sprintf("row %d column %d %q field %s: %s", i.Row, i.Column, i.ColumnName, i.Field, i.Err)
}

func (i FieldIssue) Unwrap() error { return i.Err }

// RowRejection describes a decoded row
// excluded from the result by record validation.
type RowRejection struct {
	Row int
	Err error
}

// ReadReport lists everything that was skipped
// while reading records from a sheet.
type ReadReport struct {
	Location SheetLocation
	// Bound lists the header labels of the bound columns.
	Bound []string
	// Rows is the number of existing content rows.
	Rows int
	// Records is the number of returned records.
	Records  int
	Issues   []FieldIssue
	Rejected []RowRejection
}

// HasProblems returns true if any field was skipped
// or any row was rejected.
func (r *ReadReport) HasProblems() bool {
	return len(r.Issues) > 0 || len(r.Rejected) > 0
}

func (r *ReadReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d rows, %d records, %d field issues, %d rejected rows",
		r.Location, r.Rows, r.Records, len(r.Issues), len(r.Rejected))
	for _, issue := range r.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.Error())
	}
	for _, rejected := range r.Rejected {
		fmt.Fprintf(&b, "\n  row %d rejected: %s", rejected.Row, rejected.Err)
	}
	return b.String()
}

// DecodeRow decodes a row into a new record of type T.
//
// Absent cells are treated as empty and leave
// their fields at the zero value.
// Cell values that can't be converted or assigned
// also leave their field at the zero value
// and are returned as issues.
// If parser is nil, then DefaultStringParser is used.
func DecodeRow[T any](row Row, bindings []ColumnBinding[T], parser *StringParser) (record T, issues []FieldIssue) {
	rowIndex := -1
	if row != nil {
		rowIndex = row.Index()
	}
	for _, binding := range bindings {
		var cell Cell
		if row != nil {
			cell = row.Cell(binding.ColumnIndex)
		}
		raw := CellValue(cell)
		value, err := ToField(raw, binding.Field.Kind, binding.Field.ValueFormat, parser)
		if err == nil && value != nil {
			err = binding.Field.Set(&record, value)
		}
		if err != nil {
			issues = append(issues, FieldIssue{
				Row:        rowIndex,
				Column:     binding.ColumnIndex,
				ColumnName: binding.ColumnName,
				Field:      binding.Field.Field,
				Value:      raw,
				Err:        err,
			})
		}
	}
	return record, issues
}
