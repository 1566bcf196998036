// Package exceltable implements the sheetmap.Workbook interface
// for Excel files (.xlsx, .xlsm, .xltm, .xltx) using
// the excelize library (github.com/xuri/excelize/v2).
//
// Cells are loaded into memory when a file is opened
// and written through to the underlying excelize.File
// when a cell setter is called.
//
// Example usage:
//
//	// Read records from a file
//	file, _ := os.Open("products.xlsx")
//	defer file.Close()
//	products, err := exceltable.ReadAll[Product](file, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Write records to a new workbook
//	var buf bytes.Buffer
//	err = exceltable.WriteAll(&buf, products)
package exceltable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-sheetmap"
)

var (
	_ sheetmap.Workbook = new(Workbook)
	_ sheetmap.Sheet    = new(Sheet)
	_ sheetmap.Row      = new(Row)
	_ sheetmap.Cell     = new(Cell)
)

const (
	// MinAutoWidth is the minimum width of auto sized columns.
	MinAutoWidth = 8
	// MaxAutoWidth is the maximum column width supported by Excel.
	MaxAutoWidth = 255

	// date1904Offset is the number of days between
	// the 1900 and the 1904 date system epochs.
	date1904Offset = 1462
)

// Workbook wraps an excelize.File as sheetmap.Workbook.
type Workbook struct {
	file     *excelize.File
	date1904 bool
	// pristine is true for a new file as long as
	// its default sheet has not been handed out.
	pristine bool
	closed   bool

	sheets     []*Sheet
	styles     map[sheetmap.CellStyle]int
	dateStyles map[int]bool
}

// New returns an empty Workbook.
// The default sheet excelize creates for a new file
// is renamed by the first CreateSheet call.
func New() *Workbook {
	return newWorkbook(excelize.NewFile(), true)
}

func newWorkbook(file *excelize.File, pristine bool) *Workbook {
	return &Workbook{
		file:       file,
		pristine:   pristine,
		styles:     make(map[sheetmap.CellStyle]int),
		dateStyles: make(map[int]bool),
	}
}

// Open reads an Excel file from reader and loads
// the cells of all its sheets.
func Open(reader io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	wb := newWorkbook(f, false)
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	for _, name := range f.GetSheetList() {
		sheet, err := wb.loadSheet(name)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("sheet %q: %w", name, err), f.Close())
		}
		wb.sheets = append(wb.sheets, sheet)
	}
	return wb, nil
}

// OpenFile reads and opens an Excel file.
func OpenFile(file fs.FileReader) (*Workbook, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	return Open(bytes.NewReader(data))
}

// File returns the underlying excelize.File.
func (wb *Workbook) File() *excelize.File {
	return wb.file
}

// Date1904 returns true if the workbook uses
// the 1904 date system for serial numbers.
func (wb *Workbook) Date1904() bool {
	return wb.date1904
}

func (wb *Workbook) SheetByName(name string) sheetmap.Sheet {
	if s := wb.sheetByName(name); s != nil {
		return s
	}
	return nil
}

func (wb *Workbook) sheetByName(name string) *Sheet {
	for _, s := range wb.sheets {
		// Excel sheet names are case insensitive
		if strings.EqualFold(s.name, name) {
			return s
		}
	}
	return nil
}

// Sheet returns the sheet with the passed name
// or an ErrSheetNotExist error.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	if s := wb.sheetByName(name); s != nil {
		return s, nil
	}
	return nil, ErrSheetNotExist{SheetName: name}
}

func (wb *Workbook) SheetAt(index int) sheetmap.Sheet {
	if index < 0 || index >= len(wb.sheets) {
		return nil
	}
	return wb.sheets[index]
}

// SheetNames returns the names of all sheets in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

func (wb *Workbook) CreateSheet(name string) (sheetmap.Sheet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("empty sheet name")
	}
	if wb.sheetByName(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetExists, name)
	}
	if wb.pristine {
		defaultName := wb.file.GetSheetName(0)
		if defaultName != name {
			if err := wb.file.SetSheetName(defaultName, name); err != nil {
				return nil, err
			}
		}
		wb.pristine = false
	} else {
		if _, err := wb.file.NewSheet(name); err != nil {
			return nil, err
		}
	}
	sheet := newSheet(wb, name)
	wb.sheets = append(wb.sheets, sheet)
	return sheet, nil
}

// Write applies the widths of auto sized columns
// and writes the workbook as .xlsx file to w.
func (wb *Workbook) Write(w io.Writer) error {
	if wb.closed {
		return ErrClosed
	}
	for _, s := range wb.sheets {
		if err := s.applyPendingDateStyles(); err != nil {
			return err
		}
		if err := s.applyAutoWidths(); err != nil {
			return err
		}
	}
	return wb.file.Write(w)
}

// Close closes the underlying excelize.File
// and removes its temporary files.
func (wb *Workbook) Close() error {
	if wb.closed {
		return nil
	}
	wb.closed = true
	return wb.file.Close()
}

// styleID returns the excelize style ID for a cell style,
// registering a new style with the file if necessary.
func (wb *Workbook) styleID(style sheetmap.CellStyle) (int, error) {
	if id, ok := wb.styles[style]; ok {
		return id, nil
	}
	s := new(excelize.Style)
	if style.NumberFormat != "" {
		format := sheetmap.ExcelNumberFormat(style.NumberFormat)
		s.CustomNumFmt = &format
	}
	if style.Style.Has(sheetmap.StyleBold | sheetmap.StyleItalic | sheetmap.StyleUnderline) {
		s.Font = &excelize.Font{
			Bold:   style.Style.Has(sheetmap.StyleBold),
			Italic: style.Style.Has(sheetmap.StyleItalic),
		}
		if style.Style.Has(sheetmap.StyleUnderline) {
			s.Font.Underline = "single"
		}
	}
	if style.Style.Has(sheetmap.StyleWrapText | sheetmap.StyleAlignLeft | sheetmap.StyleAlignCenter | sheetmap.StyleAlignRight) {
		s.Alignment = &excelize.Alignment{WrapText: style.Style.Has(sheetmap.StyleWrapText)}
		switch {
		case style.Style.Has(sheetmap.StyleAlignLeft):
			s.Alignment.Horizontal = "left"
		case style.Style.Has(sheetmap.StyleAlignCenter):
			s.Alignment.Horizontal = "center"
		case style.Style.Has(sheetmap.StyleAlignRight):
			s.Alignment.Horizontal = "right"
		}
	}
	if style.Style.Has(sheetmap.StyleBorder) {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			s.Border = append(s.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
		}
	}
	id, err := wb.file.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("style %s %q: %w", style.Style, style.NumberFormat, err)
	}
	wb.styles[style] = id
	wb.dateStyles[id] = sheetmap.IsDateFormat(style.NumberFormat)
	return id, nil
}

// isDateStyle returns true if the number format
// of the style with the passed ID formats dates or times.
func (wb *Workbook) isDateStyle(id int) bool {
	if isDate, ok := wb.dateStyles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := wb.file.GetStyle(id); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil:
			isDate = sheetmap.IsDateFormat(*style.CustomNumFmt)
		default:
			isDate = isBuiltInDateNumFmt(style.NumFmt)
		}
	}
	wb.dateStyles[id] = isDate
	return isDate
}

// isBuiltInDateNumFmt returns true for the IDs of
// the built-in Excel number formats for dates and times.
func isBuiltInDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

func (wb *Workbook) serialToTime(serial float64) time.Time {
	t, err := excelize.ExcelDateToTime(serial, wb.date1904)
	if err != nil {
		if wb.date1904 {
			serial += date1904Offset
		}
		return sheetmap.ExcelSerialToTime(serial)
	}
	return t.Round(time.Millisecond)
}

func (wb *Workbook) timeToSerial(t time.Time) float64 {
	serial := sheetmap.TimeToExcelSerial(t)
	if wb.date1904 {
		serial -= date1904Offset
	}
	return serial
}

func (wb *Workbook) loadSheet(name string) (*Sheet, error) {
	sheet := newSheet(wb, name)
	rows, err := wb.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	for rowIndex, values := range rows {
		var row *Row
		for col, value := range values {
			if value == "" {
				continue
			}
			if row == nil {
				row = sheet.createRow(rowIndex)
			}
			cell, err := sheet.loadCell(rowIndex, col, value)
			if err != nil {
				return nil, err
			}
			row.cells[col] = cell
		}
	}
	return sheet, nil
}

// Sheet is a sheet of a Workbook.
type Sheet struct {
	wb      *Workbook
	name    string
	rows    map[int]*Row
	lastRow int

	autoSized map[int]bool
	// contentWidths holds the widest display string length per column
	contentWidths map[int]int
	// pendingDates holds time cells by axis
	// that get the default date style at Write
	pendingDates map[string]*Cell
}

func newSheet(wb *Workbook, name string) *Sheet {
	return &Sheet{
		wb:            wb,
		name:          name,
		rows:          make(map[int]*Row),
		lastRow:       -1,
		autoSized:     make(map[int]bool),
		contentWidths: make(map[int]int),
		pendingDates:  make(map[string]*Cell),
	}
}

func (s *Sheet) Name() string { return s.name }

func (s *Sheet) Row(index int) sheetmap.Row {
	if row, ok := s.rows[index]; ok {
		return row
	}
	return nil
}

func (s *Sheet) CreateRow(index int) sheetmap.Row {
	return s.createRow(index)
}

func (s *Sheet) createRow(index int) *Row {
	if index < 0 {
		panic(fmt.Sprintf("negative row index %d", index))
	}
	row, ok := s.rows[index]
	if !ok {
		row = &Row{sheet: s, index: index, cells: make(map[int]*Cell)}
		s.rows[index] = row
		s.lastRow = max(s.lastRow, index)
	}
	return row
}

func (s *Sheet) LastRowIndex() int { return s.lastRow }

func (s *Sheet) SetColumnWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return err
	}
	delete(s.autoSized, col)
	return s.wb.file.SetColWidth(s.name, name, name, width)
}

// AutoSizeColumn marks the column to be sized to its
// widest content when the workbook is written.
func (s *Sheet) AutoSizeColumn(col int) error {
	if col < 0 {
		return fmt.Errorf("negative column index %d", col)
	}
	s.autoSized[col] = true
	return nil
}

// ColumnWidth returns the width of a column.
func (s *Sheet) ColumnWidth(col int) (float64, error) {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return 0, err
	}
	return s.wb.file.GetColWidth(s.name, name)
}

func (s *Sheet) applyAutoWidths() error {
	for _, col := range slices.Sorted(maps.Keys(s.autoSized)) {
		width := min(max(s.contentWidths[col]+2, MinAutoWidth), MaxAutoWidth)
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := s.wb.file.SetColWidth(s.name, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// applyPendingDateStyles applies the sheetmap.DefaultDatePattern
// style to all time cells that never got a style.
func (s *Sheet) applyPendingDateStyles() error {
	for _, axis := range slices.Sorted(maps.Keys(s.pendingDates)) {
		if err := s.pendingDates[axis].applyStyle(sheetmap.CellStyle{NumberFormat: sheetmap.DefaultDatePattern}); err != nil {
			return err
		}
		delete(s.pendingDates, axis)
	}
	return nil
}

func (s *Sheet) noteContent(col int, display string) {
	s.contentWidths[col] = max(s.contentWidths[col], utf8.RuneCountInString(display))
}

func (s *Sheet) loadCell(rowIndex, col int, raw string) (*Cell, error) {
	cell := newCell(s, rowIndex, col)
	typ, err := s.wb.file.GetCellType(s.name, cell.axis)
	if err != nil {
		return nil, err
	}
	formula, err := s.wb.file.GetCellFormula(s.name, cell.axis)
	if err != nil {
		return nil, err
	}
	if formula != "" {
		cell.kind = sheetmap.CellFormula
		cell.formula = formula
		cell.result = formulaResult(typ, raw)
		return cell, nil
	}
	switch typ {
	case excelize.CellTypeBool:
		cell.kind = sheetmap.CellBoolean
		cell.boolean = parseBool(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			cell.kind = sheetmap.CellText
			cell.text = raw
			break
		}
		cell.kind = sheetmap.CellNumeric
		cell.number = number
		if styleID, err := s.wb.file.GetCellStyle(s.name, cell.axis); err == nil {
			cell.dateFormatted = s.wb.isDateStyle(styleID)
		}
	case excelize.CellTypeDate:
		t, err := parseISODate(raw)
		if err != nil {
			cell.kind = sheetmap.CellText
			cell.text = raw
			break
		}
		cell.setTimeValue(t, s.wb.timeToSerial(t))
	default:
		// Shared and inline strings, string formula results, errors
		cell.kind = sheetmap.CellText
		cell.text = raw
	}
	s.noteContent(col, raw)
	return cell, nil
}

func formulaResult(typ excelize.CellType, raw string) any {
	if raw == "" {
		return nil
	}
	switch typ {
	case excelize.CellTypeBool:
		return parseBool(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if number, err := strconv.ParseFloat(raw, 64); err == nil {
			return number
		}
	}
	return raw
}

func parseBool(raw string) bool {
	return raw == "1" || strings.EqualFold(raw, "TRUE")
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISODate(raw string) (time.Time, error) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 date %q", raw)
}

// Row is a row of a Sheet.
type Row struct {
	sheet *Sheet
	index int
	cells map[int]*Cell
}

func (r *Row) Index() int { return r.index }

func (r *Row) Cell(col int) sheetmap.Cell {
	if cell, ok := r.cells[col]; ok {
		return cell
	}
	return nil
}

func (r *Row) CreateCell(col int) sheetmap.Cell {
	if col < 0 {
		panic(fmt.Sprintf("negative column index %d", col))
	}
	cell, ok := r.cells[col]
	if !ok {
		cell = newCell(r.sheet, r.index, col)
		r.cells[col] = cell
	}
	return cell
}

func (r *Row) Cells() iter.Seq2[int, sheetmap.Cell] {
	return func(yield func(int, sheetmap.Cell) bool) {
		for _, col := range slices.Sorted(maps.Keys(r.cells)) {
			if !yield(col, r.cells[col]) {
				return
			}
		}
	}
}

// Cell is a cell of a Row.
// Setters write through to the underlying excelize.File.
type Cell struct {
	sheet *Sheet
	col   int
	axis  string

	kind          sheetmap.CellKind
	number        float64
	dateFormatted bool
	time          time.Time
	isTime        bool
	text          string
	boolean       bool
	formula       string
	result        any
}

func newCell(sheet *Sheet, row, col int) *Cell {
	// Can't fail for non negative indices
	axis, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return &Cell{sheet: sheet, col: col, axis: axis}
}

// Axis returns the cell reference like "B3".
func (c *Cell) Axis() string { return c.axis }

func (c *Cell) Kind() sheetmap.CellKind { return c.kind }

func (c *Cell) Number() float64 {
	if c.kind != sheetmap.CellNumeric {
		return 0
	}
	return c.number
}

func (c *Cell) DateFormatted() bool {
	return c.kind == sheetmap.CellNumeric && c.dateFormatted
}

func (c *Cell) Time() time.Time {
	if c.kind != sheetmap.CellNumeric {
		return time.Time{}
	}
	if c.isTime {
		return c.time
	}
	return c.sheet.wb.serialToTime(c.number)
}

func (c *Cell) Text() string {
	if c.kind != sheetmap.CellText {
		return ""
	}
	return c.text
}

func (c *Cell) Bool() bool { return c.kind == sheetmap.CellBoolean && c.boolean }

func (c *Cell) FormulaResult() any {
	if c.kind != sheetmap.CellFormula {
		return nil
	}
	return c.result
}

// Formula returns the formula expression of a CellFormula cell
// without a leading '='.
func (c *Cell) Formula() string { return c.formula }

func (c *Cell) reset(kind sheetmap.CellKind) {
	delete(c.sheet.pendingDates, c.axis)
	*c = Cell{sheet: c.sheet, col: c.col, axis: c.axis, kind: kind, dateFormatted: c.dateFormatted}
}

func (c *Cell) setTimeValue(t time.Time, serial float64) {
	c.reset(sheetmap.CellNumeric)
	c.number = serial
	c.time = t
	c.isTime = true
	c.dateFormatted = true
}

func (c *Cell) SetNumber(number float64) error {
	if err := c.sheet.wb.file.SetCellFloat(c.sheet.name, c.axis, number, -1, 64); err != nil {
		return err
	}
	c.reset(sheetmap.CellNumeric)
	c.number = number
	c.sheet.noteContent(c.col, strconv.FormatFloat(number, 'f', -1, 64))
	return nil
}

func (c *Cell) SetText(text string) error {
	if err := c.sheet.wb.file.SetCellStr(c.sheet.name, c.axis, text); err != nil {
		return err
	}
	c.reset(sheetmap.CellText)
	c.dateFormatted = false
	c.text = text
	c.sheet.noteContent(c.col, text)
	return nil
}

func (c *Cell) SetBool(b bool) error {
	if err := c.sheet.wb.file.SetCellBool(c.sheet.name, c.axis, b); err != nil {
		return err
	}
	c.reset(sheetmap.CellBoolean)
	c.dateFormatted = false
	c.boolean = b
	c.sheet.noteContent(c.col, strconv.FormatBool(b))
	return nil
}

// SetTime writes the wall clock time of t as serial number.
// The cell gets the sheetmap.DefaultDatePattern style
// at Workbook.Write if SetStyle was not called before,
// so no style is registered for time cells with a declared format.
func (c *Cell) SetTime(t time.Time) error {
	serial := c.sheet.wb.timeToSerial(t)
	if err := c.sheet.wb.file.SetCellFloat(c.sheet.name, c.axis, serial, -1, 64); err != nil {
		return err
	}
	c.setTimeValue(t, serial)
	c.sheet.pendingDates[c.axis] = c
	c.sheet.noteContent(c.col, sheetmap.DefaultDatePattern)
	return nil
}

func (c *Cell) SetEmpty() error {
	if err := c.sheet.wb.file.SetCellValue(c.sheet.name, c.axis, nil); err != nil {
		return err
	}
	c.reset(sheetmap.CellEmpty)
	return nil
}

// SetStyle applies the style to the cell.
// A time cell keeps sheetmap.DefaultDatePattern
// if the style has no number format.
func (c *Cell) SetStyle(style sheetmap.CellStyle) error {
	if c.isTime && style.NumberFormat == "" {
		style.NumberFormat = sheetmap.DefaultDatePattern
	}
	if err := c.applyStyle(style); err != nil {
		return err
	}
	delete(c.sheet.pendingDates, c.axis)
	if c.isTime {
		c.sheet.noteContent(c.col, sheetmap.DefaultStringParser.FormatTime(c.time, style.NumberFormat))
	}
	return nil
}

func (c *Cell) applyStyle(style sheetmap.CellStyle) error {
	id, err := c.sheet.wb.styleID(style)
	if err != nil {
		return err
	}
	if err := c.sheet.wb.file.SetCellStyle(c.sheet.name, c.axis, c.axis, id); err != nil {
		return err
	}
	c.dateFormatted = c.sheet.wb.isDateStyle(id)
	return nil
}
