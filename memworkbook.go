package sheetmap

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	_ Workbook = new(MemWorkbook)
	_ Sheet    = new(MemSheet)
	_ Row      = new(MemRow)
	_ Cell     = new(MemCell)
)

// MemWorkbook is an in-memory Workbook implementation.
// It is useful for tests and as intermediate format
// between other Workbook implementations.
//
// MemWorkbook supports sparse data: rows and cells
// that were never created are absent.
//
// Example usage:
//
//	wb := sheetmap.NewMemWorkbook()
//	_, err := wb.AddStringsSheet("Products", [][]string{
//	    {"ID", "Name", "Price"},
//	    {"1", "Widget", "9.99"},
//	    {"2", "Gadget", "19.99"},
//	})
type MemWorkbook struct {
	sheets []*MemSheet
}

// NewMemWorkbook returns an empty MemWorkbook.
func NewMemWorkbook() *MemWorkbook {
	return &MemWorkbook{}
}

// Sheets returns the sheets of the workbook in creation order.
func (wb *MemWorkbook) Sheets() []*MemSheet {
	return wb.sheets
}

func (wb *MemWorkbook) SheetByName(name string) Sheet {
	if s := wb.sheetByName(name); s != nil {
		return s
	}
	return nil
}

func (wb *MemWorkbook) sheetByName(name string) *MemSheet {
	for _, s := range wb.sheets {
		if s.name == name {
			return s
		}
	}
	return nil
}

func (wb *MemWorkbook) SheetAt(index int) Sheet {
	if index < 0 || index >= len(wb.sheets) {
		return nil
	}
	return wb.sheets[index]
}

func (wb *MemWorkbook) CreateSheet(name string) (Sheet, error) {
	return wb.AddSheet(name)
}

// AddSheet creates a new empty sheet with the passed name.
func (wb *MemWorkbook) AddSheet(name string) (*MemSheet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty sheet name")
	}
	if wb.sheetByName(name) != nil {
		return nil, fmt.Errorf("sheet %q already exists", name)
	}
	s := &MemSheet{name: name}
	wb.sheets = append(wb.sheets, s)
	return s, nil
}

// AddStringsSheet creates a new sheet with text cells from rows.
// Empty strings result in absent cells and nil rows in absent rows.
func (wb *MemWorkbook) AddStringsSheet(name string, rows [][]string) (*MemSheet, error) {
	s, err := wb.AddSheet(name)
	if err != nil {
		return nil, err
	}
	for rowIndex, values := range rows {
		if values == nil {
			continue
		}
		row := s.createRow(rowIndex)
		for col, value := range values {
			if value == "" {
				continue
			}
			_ = row.createCell(col).SetText(value)
		}
	}
	return s, nil
}

// Write writes every sheet as a line with the sheet name
// prefixed by "# " followed by one line per row
// with the display strings of the cells aligned in columns.
func (wb *MemWorkbook) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range wb.sheets {
		fmt.Fprintf(bw, "# %s\n", s.name)
		rows := s.Strings()
		if err := writeAlignedRows(bw, rows, StringColumnWidths(rows, -1)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// MemSheet is a Sheet of a MemWorkbook.
type MemSheet struct {
	name      string
	rows      []*MemRow
	widths    map[int]float64
	autoSized map[int]bool
}

func (s *MemSheet) Name() string { return s.name }

func (s *MemSheet) Row(index int) Row {
	if index < 0 || index >= len(s.rows) || s.rows[index] == nil {
		return nil
	}
	return s.rows[index]
}

func (s *MemSheet) CreateRow(index int) Row {
	return s.createRow(index)
}

func (s *MemSheet) createRow(index int) *MemRow {
	if index < 0 {
		panic(fmt.Sprintf("negative row index %d", index))
	}
	for len(s.rows) <= index {
		s.rows = append(s.rows, nil)
	}
	if s.rows[index] == nil {
		s.rows[index] = &MemRow{index: index}
	}
	return s.rows[index]
}

func (s *MemSheet) LastRowIndex() int {
	return len(s.rows) - 1
}

func (s *MemSheet) SetColumnWidth(col int, width float64) error {
	if s.widths == nil {
		s.widths = make(map[int]float64)
	}
	s.widths[col] = width
	delete(s.autoSized, col)
	return nil
}

func (s *MemSheet) AutoSizeColumn(col int) error {
	if s.autoSized == nil {
		s.autoSized = make(map[int]bool)
	}
	s.autoSized[col] = true
	delete(s.widths, col)
	return nil
}

// ColumnWidth returns the width set for a column.
func (s *MemSheet) ColumnWidth(col int) (width float64, ok bool) {
	width, ok = s.widths[col]
	return width, ok
}

// IsAutoSized returns true if AutoSizeColumn was called for col.
func (s *MemSheet) IsAutoSized(col int) bool {
	return s.autoSized[col]
}

// Strings returns the display strings of all cells,
// absent rows as nil slices and absent cells as empty strings.
func (s *MemSheet) Strings() [][]string {
	rows := make([][]string, len(s.rows))
	for i, row := range s.rows {
		if row == nil {
			continue
		}
		rows[i] = make([]string, len(row.cells))
		for col, cell := range row.cells {
			if cell != nil {
				rows[i][col] = cell.String()
			}
		}
	}
	return rows
}

// MemRow is a Row of a MemSheet.
type MemRow struct {
	index int
	cells []*MemCell
}

func (r *MemRow) Index() int { return r.index }

func (r *MemRow) Cell(col int) Cell {
	if col < 0 || col >= len(r.cells) || r.cells[col] == nil {
		return nil
	}
	return r.cells[col]
}

func (r *MemRow) CreateCell(col int) Cell {
	return r.createCell(col)
}

func (r *MemRow) createCell(col int) *MemCell {
	if col < 0 {
		panic(fmt.Sprintf("negative column index %d", col))
	}
	for len(r.cells) <= col {
		r.cells = append(r.cells, nil)
	}
	if r.cells[col] == nil {
		r.cells[col] = &MemCell{}
	}
	return r.cells[col]
}

func (r *MemRow) Cells() iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for col, cell := range r.cells {
			if cell == nil {
				continue
			}
			if !yield(col, cell) {
				return
			}
		}
	}
}

// MemCell is a Cell of a MemRow.
type MemCell struct {
	kind    CellKind
	number  float64
	text    string
	boolean bool
	time    time.Time
	isTime  bool
	formula string
	result  any
	style   CellStyle
}

func (c *MemCell) Kind() CellKind { return c.kind }

func (c *MemCell) Number() float64 {
	if c.isTime {
		return TimeToExcelSerial(c.time)
	}
	return c.number
}

func (c *MemCell) DateFormatted() bool {
	return c.kind == CellNumeric && (c.isTime || IsDateFormat(c.style.NumberFormat))
}

func (c *MemCell) Time() time.Time {
	if c.kind != CellNumeric {
		return time.Time{}
	}
	if c.isTime {
		return c.time
	}
	return ExcelSerialToTime(c.number)
}

func (c *MemCell) Text() string { return c.text }
func (c *MemCell) Bool() bool { return c.boolean }
func (c *MemCell) FormulaResult() any { return c.result }

// Formula returns the formula expression of a CellFormula cell.
func (c *MemCell) Formula() string { return c.formula }

// Style returns the style set with SetStyle.
func (c *MemCell) Style() CellStyle { return c.style }

func (c *MemCell) reset(kind CellKind) {
	*c = MemCell{kind: kind, style: c.style}
}

func (c *MemCell) SetNumber(number float64) error {
	c.reset(CellNumeric)
	c.number = number
	return nil
}

func (c *MemCell) SetText(text string) error {
	c.reset(CellText)
	c.text = text
	return nil
}

func (c *MemCell) SetBool(b bool) error {
	c.reset(CellBoolean)
	c.boolean = b
	return nil
}

func (c *MemCell) SetTime(t time.Time) error {
	c.reset(CellNumeric)
	c.time = t
	c.isTime = true
	return nil
}

func (c *MemCell) SetEmpty() error {
	c.reset(CellEmpty)
	return nil
}

// SetFormula makes the cell a CellFormula cell with the passed
// expression and last computed result which must be
// nil, float64, string, or bool.
func (c *MemCell) SetFormula(formula string, result any) error {
	switch result.(type) {
	case nil, float64, string, bool:
	default:
		return fmt.Errorf("unsupported formula result type %T", result)
	}
	c.reset(CellFormula)
	c.formula = formula
	c.result = result
	return nil
}

func (c *MemCell) SetStyle(style CellStyle) error {
	c.style = style
	return nil
}

// String returns the display string of the cell.
func (c *MemCell) String() string {
	switch c.kind {
	case CellNumeric:
		if c.DateFormatted() {
			return DefaultStringParser.FormatTime(c.Time(), c.style.NumberFormat)
		}
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case CellText:
		return c.text
	case CellBoolean:
		return strconv.FormatBool(c.boolean)
	case CellFormula:
		if c.result == nil {
			return ""
		}
		return stringOf(c.result)
	}
	return ""
}

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// TimeToExcelSerial returns the spreadsheet serial number of the
// wall clock time of t: days since 1899-12-30 with the time of day
// as fraction.
func TimeToExcelSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	days := math.Floor(wall.Sub(excelEpoch).Hours() / 24)
	midnight := excelEpoch.AddDate(0, 0, int(days))
	return days + float64(wall.Sub(midnight))/float64(24*time.Hour)
}

// ExcelSerialToTime returns the UTC time of a spreadsheet serial number
// rounded to milliseconds.
func ExcelSerialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(frac * float64(24*time.Hour))).Round(time.Millisecond)
}
