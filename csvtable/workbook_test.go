package csvtable

import (
	"bytes"
	"testing"
	"time"

	"github.com/domonda/go-types/date"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-sheetmap"
)

func TestParse(t *testing.T) {
	data := "sep=;\r\nName;Note\r\n\r\nAnn;\"multi\r\nline\"\r\nBob;x\r\n;\r\n"
	wb, err := Parse([]byte(data), NewFormat(";"))
	require.NoError(t, err)

	sheet := wb.SheetAt(0)
	require.NotNil(t, sheet)
	require.Same(t, sheet, wb.SheetByName("any name"))
	require.Nil(t, wb.SheetAt(1))
	require.Equal(t, DefaultSheetName, sheet.Name())

	require.Equal(t, 3, sheet.LastRowIndex(), "trailing row without content is absent")
	require.Nil(t, sheet.Row(1), "empty line is absent row")
	require.Equal(t, [][]string{
		{"Name", "Note"},
		nil,
		{"Ann", "multi\nline"},
		{"Bob", "x"},
	}, wb.Strings())

	cell := sheet.Row(3).Cell(1)
	require.Equal(t, sheetmap.CellText, cell.Kind())
	require.Equal(t, "x", cell.Text())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("a,b"), nil)
	require.Error(t, err, "nil format")

	_, err = Parse([]byte("sep=,\na,b"), &Format{Encoding: "UTF-8", Separator: ";", Newline: "\n"})
	require.Error(t, err, "separator header line differs from format")

	_, err = Parse([]byte("a,b"), &Format{Encoding: "UNKNOWN", Separator: ",", Newline: "\n"})
	require.Error(t, err, "unknown encoding")
}

func TestParseDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   [][]string
	}{
		{
			name:   "tabs with BOM",
			data:   "\xEF\xBB\xBFa\tb\nc\td\n",
			format: Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"},
			want:   [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:   "semicolons",
			data:   "a;b,c\r\nd;e\r\n",
			format: Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"},
			want:   [][]string{{"a", "b,c"}, {"d", "e"}},
		},
		{
			name:   "separator header line",
			data:   "\"sep=,\"\na;b,c\n",
			format: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			want:   [][]string{{"a;b", "c"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := ParseDetectFormat([]byte(tt.data), nil)
			require.NoError(t, err)
			require.Equal(t, tt.format.Separator, wb.Format().Separator)
			require.Equal(t, tt.format.Newline, wb.Format().Newline)
			require.NotEmpty(t, wb.Format().Encoding)
			require.Equal(t, tt.want, wb.Strings())
		})
	}
}

type item struct {
	ID    int     `col:"ID"`
	Name  string  `col:"Name"`
	Price float64 `col:"Price" colfmt:"0.00"`
	Note  *string `col:"Note"`
}

func (item) SheetLocation() sheetmap.SheetLocation { return sheetmap.SheetAt(0) }

func TestWriteAll(t *testing.T) {
	note := "x"
	items := []item{
		{ID: 1, Name: "Apple, red", Price: 1.5},
		{ID: 2, Name: `Say "hi"`, Price: 2, Note: &note},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, items, NewFormat(";")))
	require.Equal(t,
		"ID;Name;Price;Note\r\n"+
			"1;Apple, red;1.50;\r\n"+
			"2;\"Say \"\"hi\"\"\";2.00;x\r\n",
		buf.String(),
	)

	read, err := ReadAll[item](buf.Bytes(), NewFormat(";"), nil)
	require.NoError(t, err)
	require.Equal(t, items, read)

	read, err = ReadAll[item](buf.Bytes(), nil, nil)
	require.NoError(t, err, "detected format")
	require.Equal(t, items, read)
}

type event struct {
	Title   string    `col:"Title"`
	Start   time.Time `col:"Start" colfmt:"dd.MM.yyyy HH:mm"`
	Created time.Time `col:"Created"`
	Day     date.Date `col:"Day"`
	Public  bool      `col:"Public"`
}

func (event) SheetLocation() sheetmap.SheetLocation {
	return sheetmap.SheetNamed("Events").WithRows(1, 3)
}

func TestWriteAllReadAll_Locations(t *testing.T) {
	events := []event{
		{
			Title:   "Größe",
			Start:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			Created: time.Date(2024, 2, 1, 8, 0, 5, 0, time.UTC),
			Day:     date.Date("2024-03-01"),
			Public:  true,
		},
		{Title: "Empty"},
	}
	format := &Format{Encoding: "Windows 1252", Separator: ",", Newline: "\n"}

	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, events, format))
	require.NotContains(t, buf.String(), "Größe", "encoded as Windows 1252")

	wb, err := Parse(buf.Bytes(), format)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		nil,
		{"Title", "Start", "Created", "Day", "Public"},
		nil,
		{"Größe", "01.03.2024 09:30", "02/01/2024 08:00:05", "2024-03-01", "true"},
		{"Empty", "01.01.0001 00:00", "01/01/0001 00:00:00", "", "false"},
	}, wb.Strings())

	mapper, err := sheetmap.MapperOf[event]()
	require.NoError(t, err)
	read, err := mapper.ReadAll(wb, nil)
	require.NoError(t, err)
	require.Equal(t, events, read)
}

func TestWorkbook_CreateSheet(t *testing.T) {
	wb := New(nil)
	require.Nil(t, wb.SheetAt(0))
	require.Nil(t, wb.SheetByName("S"))
	require.Nil(t, wb.Strings())

	sheet, err := wb.CreateSheet("S")
	require.NoError(t, err)
	require.Equal(t, "S", sheet.Name())
	_, err = wb.CreateSheet("T")
	require.ErrorIs(t, err, ErrSingleSheet)

	require.NoError(t, sheet.SetColumnWidth(0, 10))
	require.NoError(t, sheet.AutoSizeColumn(0))

	row := sheet.CreateRow(1)
	require.NoError(t, row.CreateCell(1).SetBool(false))
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.Equal(t, "\r\n,false\r\n", buf.String())
}

func TestCell_String(t *testing.T) {
	at := time.Date(2024, 1, 5, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		set  func(c *Cell)
		want string
	}{
		{name: "empty", set: func(c *Cell) { c.SetEmpty() }, want: ""},
		{name: "text", set: func(c *Cell) { c.SetText("x") }, want: "x"},
		{name: "number", set: func(c *Cell) { c.SetNumber(1.25) }, want: "1.25"},
		{
			name: "number with format",
			set: func(c *Cell) {
				c.SetNumber(1.256)
				c.SetStyle(sheetmap.CellStyle{NumberFormat: "#,##0.00"})
			},
			want: "1.26",
		},
		{
			name: "number without decimals",
			set: func(c *Cell) {
				c.SetNumber(7.6)
				c.SetStyle(sheetmap.CellStyle{NumberFormat: "0"})
			},
			want: "8",
		},
		{name: "bool", set: func(c *Cell) { c.SetBool(true) }, want: "true"},
		{name: "time", set: func(c *Cell) { c.SetTime(at) }, want: "01/05/2024 08:30:00"},
		{
			name: "time with format",
			set: func(c *Cell) {
				c.SetStyle(sheetmap.CellStyle{NumberFormat: "yyyy-MM-dd"})
				c.SetTime(at)
			},
			want: "2024-01-05",
		},
		{
			name: "date formatted serial",
			set: func(c *Cell) {
				c.SetNumber(45296)
				c.SetStyle(sheetmap.CellStyle{NumberFormat: "yyyy-MM-dd"})
			},
			want: "2024-01-05",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(Cell)
			tt.set(c)
			require.Equal(t, tt.want, c.String())
		})
	}
}

func TestFormat_Validate(t *testing.T) {
	var nilFormat *Format
	require.Error(t, nilFormat.Validate())
	require.NoError(t, NewFormat(",").Validate())
	require.Error(t, (&Format{Separator: ",", Newline: "\n"}).Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Separator: ",,", Newline: "\n"}).Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Separator: ",", Newline: "\r"}).Validate())
}
