package sheetmap

import (
	"fmt"
	"io"
	"iter"
	"time"
)

// Workbook is the spreadsheet document abstraction the mapper reads from
// and writes to. Implementations are not safe for concurrent use,
// a Workbook must only be used by one mapping call at a time.
//
// Implementations in this module:
//   - MemWorkbook: in-memory workbook, useful for tests and as intermediate format
//   - exceltable.Workbook: .xlsx files via github.com/xuri/excelize/v2
//   - csvtable.Workbook: single sheet CSV files
type Workbook interface {
	// SheetByName returns the sheet with the passed name
	// or nil if no such sheet exists.
	SheetByName(name string) Sheet

	// SheetAt returns the sheet at the zero based index
	// or nil if no such sheet exists.
	SheetAt(index int) Sheet

	// CreateSheet creates a new empty sheet with the passed name.
	CreateSheet(name string) (Sheet, error)

	// Write serializes the workbook to w.
	Write(w io.Writer) error
}

// Sheet is one named page of rows within a Workbook.
type Sheet interface {
	Name() string

	// Row returns the row at the zero based index
	// or nil if the row does not exist.
	Row(index int) Row

	// CreateRow returns the row at the zero based index,
	// creating it if it does not exist yet.
	CreateRow(index int) Row

	// LastRowIndex returns the zero based index of the last
	// existing row or -1 if the sheet has no rows.
	LastRowIndex() int

	// SetColumnWidth sets the display width of a column.
	SetColumnWidth(col int, width float64) error

	// AutoSizeColumn marks a column to be sized
	// to fit its content.
	AutoSizeColumn(col int) error
}

// Row is one row of cells within a Sheet.
type Row interface {
	// Index returns the zero based row index within the sheet.
	Index() int

	// Cell returns the cell at the zero based column index
	// or nil if the cell does not exist.
	Cell(col int) Cell

	// CreateCell returns the cell at the zero based column index,
	// creating it if it does not exist yet.
	CreateCell(col int) Cell

	// Cells iterates the existing cells of the row
	// in ascending column order.
	Cells() iter.Seq2[int, Cell]
}

// Cell is a single cell with typed getters per CellKind
// and a setter per kind.
//
// Getters for a kind different from Kind() return the zero value.
type Cell interface {
	Kind() CellKind

	// Number returns the value of a CellNumeric cell.
	Number() float64
	// DateFormatted returns true for a CellNumeric cell
	// that is display formatted as date or time.
	DateFormatted() bool
	// Time returns the value of a date formatted CellNumeric cell.
	Time() time.Time
	// Text returns the value of a CellText cell.
	Text() string
	// Bool returns the value of a CellBoolean cell.
	Bool() bool
	// FormulaResult returns the last computed result of a CellFormula cell
	// as nil, float64, string, or bool.
	FormulaResult() any

	SetNumber(float64) error
	SetText(string) error
	SetBool(bool) error
	SetTime(time.Time) error
	SetEmpty() error

	// SetStyle applies a display format and style tags to the cell.
	SetStyle(CellStyle) error
}

// CellKind is the physical representation of a cell value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumeric
	CellText
	CellBoolean
	CellFormula
)

// String implements the fmt.Stringer interface for CellKind.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "Empty"
	case CellNumeric:
		return "Numeric"
	case CellText:
		return "Text"
	case CellBoolean:
		return "Boolean"
	case CellFormula:
		return "Formula"
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

// CellStyle is the per cell display style a field mapping can declare.
// CellStyle is comparable so Workbook implementations can use it
// as key of a shared style registry.
type CellStyle struct {
	// NumberFormat is a value format pattern like "yyyy-MM-dd" or "0.00".
	// Empty means the container's default format for the value.
	NumberFormat string
	Style        Style
}

// IsZero returns true if the style has no format and no style tags.
func (s CellStyle) IsZero() bool {
	return s.NumberFormat == "" && s.Style == 0
}
