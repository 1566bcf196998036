package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/domonda/go-sheetmap"
)

var (
	_ sheetmap.Workbook = new(Workbook)
	_ sheetmap.Sheet    = new(Sheet)
	_ sheetmap.Row      = new(Row)
	_ sheetmap.Cell     = new(Cell)
)

// DefaultSheetName is the name of the sheet of a parsed CSV file.
const DefaultSheetName = "Sheet1"

// ErrSingleSheet is returned when creating
// a second sheet in a CSV workbook.
var ErrSingleSheet = errors.New("CSV supports only a single sheet")

// Workbook is a sheetmap.Workbook holding the single sheet of a CSV file.
//
// A CSV file has no sheet names, so SheetByName
// returns the sheet for any name.
type Workbook struct {
	format *Format
	sheet  *Sheet
}

// New returns a Workbook without a sheet that will be
// written with format.
// If format is nil, then comma separated UTF-8
// with "\r\n" line endings is used.
func New(format *Format) *Workbook {
	if format == nil {
		format = NewFormat(",")
	}
	return &Workbook{format: format}
}

// Parse parses CSV data in the passed format.
// Empty lines result in absent rows and empty fields
// in absent cells, all other cells are text cells.
func Parse(data []byte, format *Format) (*Workbook, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	data, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return parse(data, format)
}

// ParseDetectFormat parses CSV data like Parse
// with the format detected by DetectFormat.
func ParseDetectFormat(data []byte, config *FormatDetectionConfig) (*Workbook, error) {
	format, data, err := DetectFormat(data, config)
	if err != nil {
		return nil, err
	}
	return parse(data, format)
}

func parse(data []byte, format *Format) (*Workbook, error) {
	firstLine, rest, _ := bytes.Cut(data, []byte(format.Newline))
	if sep := parseSepHeaderLine(firstLine); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("separator '%s' in header line is different from format.Separator '%s'", sep, format.Separator)
		}
		data = rest
	}
	if format.Newline == "\n\r" {
		data = bytes.ReplaceAll(data, []byte("\n\r"), []byte("\n"))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = rune(format.Separator[0])
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	wb := New(format)
	wb.sheet = newSheet(DefaultSheetName)
	rowIndex, prevEndLine := -1, 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		// The reader skips empty lines which become absent rows
		startLine, _ := reader.FieldPos(0)
		rowIndex += startLine - prevEndLine
		lastLine, _ := reader.FieldPos(len(fields) - 1)
		prevEndLine = lastLine + strings.Count(fields[len(fields)-1], "\n")

		var row *Row
		for col, field := range fields {
			if field == "" {
				continue
			}
			if row == nil {
				row = wb.sheet.createRow(rowIndex)
			}
			row.createCell(col).setText(field)
		}
	}
	return wb, nil
}

// Format returns the format used by Write.
func (wb *Workbook) Format() *Format {
	return wb.format
}

func (wb *Workbook) SheetByName(name string) sheetmap.Sheet {
	if wb.sheet == nil {
		return nil
	}
	return wb.sheet
}

func (wb *Workbook) SheetAt(index int) sheetmap.Sheet {
	if wb.sheet == nil || index != 0 {
		return nil
	}
	return wb.sheet
}

func (wb *Workbook) CreateSheet(name string) (sheetmap.Sheet, error) {
	if wb.sheet != nil {
		return nil, ErrSingleSheet
	}
	wb.sheet = newSheet(name)
	return wb.sheet, nil
}

// Strings returns the display strings of all cells
// like they are written as CSV fields.
func (wb *Workbook) Strings() [][]string {
	if wb.sheet == nil {
		return nil
	}
	return wb.sheet.strings()
}

// Write writes the sheet as CSV in the workbook's format.
// Absent rows and rows without content are written as empty lines,
// all other rows are padded to the same number of fields.
func (wb *Workbook) Write(w io.Writer) error {
	if err := wb.format.Validate(); err != nil {
		return err
	}
	var (
		buf    bytes.Buffer
		rowBuf bytes.Buffer
	)
	rows := wb.Strings()
	numCols := 0
	for _, fields := range rows {
		numCols = max(numCols, len(fields))
	}
	for _, fields := range rows {
		if strings.Join(fields, "") != "" {
			rowBuf.Reset()
			writer := csv.NewWriter(&rowBuf)
			writer.Comma = rune(wb.format.Separator[0])
			padded := make([]string, numCols)
			copy(padded, fields)
			if err := writer.Write(padded); err != nil {
				return err
			}
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}
			buf.Write(bytes.TrimSuffix(rowBuf.Bytes(), []byte{'\n'}))
		}
		buf.WriteString(wb.format.Newline)
	}
	data, err := encode(buf.Bytes(), wb.format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Sheet is the single sheet of a CSV Workbook.
type Sheet struct {
	name string
	rows []*Row
}

func newSheet(name string) *Sheet {
	return &Sheet{name: name}
}

func (s *Sheet) Name() string { return s.name }

func (s *Sheet) Row(index int) sheetmap.Row {
	if index < 0 || index >= len(s.rows) || s.rows[index] == nil {
		return nil
	}
	return s.rows[index]
}

func (s *Sheet) CreateRow(index int) sheetmap.Row {
	return s.createRow(index)
}

func (s *Sheet) createRow(index int) *Row {
	if index < 0 {
		panic(fmt.Sprintf("negative row index %d", index))
	}
	for len(s.rows) <= index {
		s.rows = append(s.rows, nil)
	}
	if s.rows[index] == nil {
		s.rows[index] = &Row{index: index}
	}
	return s.rows[index]
}

func (s *Sheet) LastRowIndex() int { return len(s.rows) - 1 }

// SetColumnWidth is a no-op because CSV has no column widths.
func (s *Sheet) SetColumnWidth(col int, width float64) error { return nil }

// AutoSizeColumn is a no-op because CSV has no column widths.
func (s *Sheet) AutoSizeColumn(col int) error { return nil }

func (s *Sheet) strings() [][]string {
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

// Row is a row of a CSV Sheet.
type Row struct {
	index int
	cells []*Cell
}

func (r *Row) Index() int { return r.index }

func (r *Row) Cell(col int) sheetmap.Cell {
	if col < 0 || col >= len(r.cells) || r.cells[col] == nil {
		return nil
	}
	return r.cells[col]
}

func (r *Row) CreateCell(col int) sheetmap.Cell {
	return r.createCell(col)
}

func (r *Row) createCell(col int) *Cell {
	if col < 0 {
		panic(fmt.Sprintf("negative column index %d", col))
	}
	for len(r.cells) <= col {
		r.cells = append(r.cells, nil)
	}
	if r.cells[col] == nil {
		r.cells[col] = new(Cell)
	}
	return r.cells[col]
}

func (r *Row) Cells() iter.Seq2[int, sheetmap.Cell] {
	return func(yield func(int, sheetmap.Cell) bool) {
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

// Cell is a cell of a CSV Row.
// Typed values are kept until the cell is
// rendered as text with String.
type Cell struct {
	kind    sheetmap.CellKind
	text    string
	number  float64
	boolean bool
	time    time.Time
	isTime  bool
	style   sheetmap.CellStyle
}

func (c *Cell) Kind() sheetmap.CellKind { return c.kind }

func (c *Cell) Number() float64 {
	if c.isTime {
		return sheetmap.TimeToExcelSerial(c.time)
	}
	return c.number
}

func (c *Cell) DateFormatted() bool {
	return c.kind == sheetmap.CellNumeric && (c.isTime || sheetmap.IsDateFormat(c.style.NumberFormat))
}

func (c *Cell) Time() time.Time {
	switch {
	case c.kind != sheetmap.CellNumeric:
		return time.Time{}
	case c.isTime:
		return c.time
	}
	return sheetmap.ExcelSerialToTime(c.number)
}

func (c *Cell) Text() string { return c.text }

func (c *Cell) Bool() bool { return c.boolean }

// FormulaResult always returns nil because CSV has no formulas.
func (c *Cell) FormulaResult() any { return nil }

func (c *Cell) reset(kind sheetmap.CellKind) {
	*c = Cell{kind: kind, style: c.style}
}

func (c *Cell) setText(text string) {
	c.reset(sheetmap.CellText)
	c.text = text
}

func (c *Cell) SetNumber(number float64) error {
	c.reset(sheetmap.CellNumeric)
	c.number = number
	return nil
}

func (c *Cell) SetText(text string) error {
	c.setText(text)
	return nil
}

func (c *Cell) SetBool(b bool) error {
	c.reset(sheetmap.CellBoolean)
	c.boolean = b
	return nil
}

func (c *Cell) SetTime(t time.Time) error {
	c.reset(sheetmap.CellNumeric)
	c.time = t
	c.isTime = true
	return nil
}

func (c *Cell) SetEmpty() error {
	c.reset(sheetmap.CellEmpty)
	return nil
}

// SetStyle sets the number format used to render
// numbers and times, style tags are ignored.
func (c *Cell) SetStyle(style sheetmap.CellStyle) error {
	c.style = style
	return nil
}

// String returns the text of the cell as written to CSV.
func (c *Cell) String() string {
	switch c.kind {
	case sheetmap.CellText:
		return c.text
	case sheetmap.CellBoolean:
		return strconv.FormatBool(c.boolean)
	case sheetmap.CellNumeric:
		if c.DateFormatted() {
			return sheetmap.DefaultStringParser.FormatTime(c.Time(), c.style.NumberFormat)
		}
		return formatNumber(c.number, c.style.NumberFormat)
	}
	return ""
}

// formatNumber formats number with as many decimals
// as the number format pattern has digit placeholders
// after the decimal point, or with the minimal number
// of decimals if the pattern has no digit placeholders.
func formatNumber(number float64, pattern string) string {
	if !strings.ContainsAny(pattern, "0#") {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	decimals := 0
	if _, fraction, ok := strings.Cut(pattern, "."); ok {
		for _, r := range fraction {
			if r != '0' && r != '#' {
				break
			}
			decimals++
		}
	}
	return strconv.FormatFloat(number, 'f', decimals, 64)
}
